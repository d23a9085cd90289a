package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldprop/internal/prompt"
)

func newNewCmd(a *app) *cobra.Command {
	var (
		record string
		output string
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Describe new fields interactively and write a descriptor file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			driver := a.driver
			if driver == nil {
				driver = prompt.NewSurveyDriver()
			}
			fields, err := prompt.Author(cmd.Context(), driver, prompt.Defaults{Record: record})
			if err != nil {
				return err
			}
			return writeDescriptors(cmd, fields, output)
		},
	}
	cmd.Flags().StringVar(&record, "record", "", "Default record name")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	return cmd
}
