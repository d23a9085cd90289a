// Command fieldprop propagates a declaratively described field through every
// representation of a record in a project.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-fieldprop/internal/prompt"
)

// errBlocking marks runs whose report contains blocking pairs. The report has
// already been printed when it is returned.
var errBlocking = errors.New("fieldprop: some fields could not be applied")

func main() {
	if err := run(context.Background(), newApp(), os.Args[1:]); err != nil {
		if !errors.Is(err, errBlocking) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// app carries the state shared by every command.
type app struct {
	verbose bool
	logger  *zap.Logger
	out     io.Writer
	driver  prompt.Driver
}

func newApp() *app {
	return &app{out: os.Stdout}
}

// run executes the command line and flushes the logger on every path;
// cobra skips post-run hooks when a command fails.
func run(ctx context.Context, a *app, args []string) error {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	defer a.sync()
	return cmd.ExecuteContext(ctx)
}

func (a *app) sync() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fieldprop",
		Short: "Propagate a new data field across every representation of a record",
		Long: `fieldprop adds a field described in a JSON or YAML descriptor to the
type interfaces, model classes, ORM definitions, validation schemas and form
markup of a project, exactly once and in the right place.

Runs are strict by default: nothing is written unless every site resolves.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return nil
			}
			config := zap.NewProductionConfig()
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
	}
	cmd.SetOut(a.out)
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newApplyCmd(a, false),
		newApplyCmd(a, true),
		newImportCmd(a),
		newNewCmd(a),
		newCatalogCmd(a),
	)
	return cmd
}
