package main

import (
	"log/slog"

	"github.com/reoring/kanon"
	"github.com/reoring/kanon/internal/logging"
	"github.com/reoring/kanon/schemadef"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	schema  string
	strict  bool
	verbose bool
	color   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "kanon",
		Short:         "Validate JSON documents against kanon schema definitions",
		Long:          `kanon loads a YAML or JSON schema definition and validates JSON documents with it, serves it over HTTP, or exports it as JSON Schema.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.schema, "schema", "s", "", "schema definition file (YAML or JSON)")
	cmd.PersistentFlags().BoolVar(&opts.strict, "strict", false, "treat unknown definition options as errors")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logs")
	cmd.PersistentFlags().StringVar(&opts.color, "color", "auto", "colorize output: auto, always or never")
	_ = cmd.MarkPersistentFlagRequired("schema")

	cmd.AddCommand(newValidateCmd(opts), newJSONSchemaCmd(opts), newServeCmd(opts))
	return cmd
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return logging.New(cmd.ErrOrStderr(), level)
}

// load reads the schema definition and reports its warnings.
func (o *rootOptions) load(log *slog.Logger, compile bool) (kanon.Schema, error) {
	s, diag, err := schemadef.LoadFile(o.schema, schemadef.Options{Strict: o.strict, Compile: compile})
	if err != nil {
		return nil, err
	}
	for _, w := range diag.Warnings() {
		log.Warn("schema definition", "file", o.schema, "warning", w)
	}
	attrs := []any{"file", o.schema, "kind", s.Node().Kind()}
	if c, ok := s.(*kanon.Compiled); ok {
		attrs = append(attrs, "compiled", true, "fallbacks", c.Fallbacks())
	}
	log.Debug("schema loaded", attrs...)
	return s, nil
}
