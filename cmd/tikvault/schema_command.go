package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tikvault/internal/archive"
)

func newSchemaCommand() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:         "schema <json-file>",
		Short:       "Infer a JSON schema from an example export file",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			file, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("open %s: %w", input, err)
			}
			defer file.Close()

			schema, err := archive.GenerateSchema(file, "Generated schema for "+input)
			if err != nil {
				return fmt.Errorf("infer schema for %s: %w", input, err)
			}

			encoded, err := json.MarshalIndent(schema, "", "    ")
			if err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}
			encoded = append(encoded, '\n')

			if outputPath != "" {
				if err := os.WriteFile(outputPath, encoded, 0o644); err != nil {
					return fmt.Errorf("write schema to %s: %w", outputPath, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Schema written to %s\n", outputPath)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(encoded)
			return err
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the schema to a file instead of stdout")
	return cmd
}
