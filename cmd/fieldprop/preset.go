package main

import (
	"os"
	"path/filepath"

	"github.com/goliatone/go-fieldprop/pkg/orchestrator"
)

func loadPreset(path string) (*orchestrator.JSONPresetTransformer, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return orchestrator.NewJSONPresetTransformerFromFS(os.DirFS(filepath.Dir(abs)), filepath.Base(abs))
}
