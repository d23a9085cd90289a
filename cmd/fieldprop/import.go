package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldprop/pkg/descriptor"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		schema     string
		properties []string
		record     string
		output     string
	)
	cmd := &cobra.Command{
		Use:   "import-openapi SPEC",
		Short: "Derive a descriptor file from an OpenAPI component schema",
		Long: `Reads an OpenAPI 3 document and converts properties of one component
schema into field descriptors. Without --property every property is converted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			fields, err := descriptor.FromOpenAPI(cmd.Context(), data, schema, properties...)
			if err != nil {
				return err
			}
			if record != "" {
				for i := range fields {
					fields[i].Record = record
				}
			}
			if err := descriptor.ValidateBatch(fields); err != nil {
				return err
			}
			return writeDescriptors(cmd, fields, output)
		},
	}
	cmd.Flags().StringVar(&schema, "schema", "", "Component schema name")
	cmd.Flags().StringSliceVar(&properties, "property", nil, "Property to convert (repeatable)")
	cmd.Flags().StringVar(&record, "record", "", "Record name; defaults to the schema name")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func writeDescriptors(cmd *cobra.Command, fields []descriptor.Field, output string) error {
	data, err := descriptor.Marshal(fields)
	if err != nil {
		return err
	}
	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Descriptor written to %s\n", output)
	return nil
}
