package main

import (
	json "github.com/goccy/go-json"
	"github.com/reoring/kanon"
	"github.com/spf13/cobra"
)

func newJSONSchemaCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "jsonschema",
		Short: "Print the schema definition as JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := root.load(root.logger(cmd), false)
			if err != nil {
				return err
			}
			doc, err := kanon.JSONSchema(s)
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(b, '\n'))
			return err
		},
	}
}
