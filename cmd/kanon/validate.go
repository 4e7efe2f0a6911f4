package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/reoring/kanon"
	"github.com/spf13/cobra"
)

var errValidationFailed = errors.New("validation failed")

func newValidateCmd(root *rootOptions) *cobra.Command {
	var compiled, allowDup bool
	cmd := &cobra.Command{
		Use:   "validate [files...]",
		Short: "Validate JSON documents",
		Long:  `Validates each JSON file (or stdin when no file or "-" is given) and prints one verdict line per document.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := root.logger(cmd)
			s, err := root.load(log, compiled)
			if err != nil {
				return err
			}
			p, err := newPalette(cmd.OutOrStdout(), root.color)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{"-"}
			}
			failed := 0
			for _, name := range args {
				ok, err := validateFile(cmd, s, p, name, allowDup)
				if err != nil {
					log.Error("read document", "file", name, "error", err)
					failed++
					continue
				}
				if !ok {
					failed++
				}
			}
			log.Debug("validation finished", "documents", len(args), "failed", failed)
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d document(s)", errValidationFailed, failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&compiled, "compiled", false, "validate with the compiled schema")
	cmd.Flags().BoolVar(&allowDup, "allow-duplicate-keys", false, "accept documents that repeat an object key (last value wins)")
	return cmd
}

func validateFile(cmd *cobra.Command, s kanon.Schema, p palette, name string, allowDup bool) (bool, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return false, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return false, fmt.Errorf("decode json: %w", err)
	}
	var res kanon.SafeParseResult
	if iss, found := kanon.DuplicateKey(data); found && !allowDup {
		res = kanon.SafeParseResult{Error: iss.Message, Issue: iss}
	} else {
		res = kanon.SafeParse(s, v)
	}
	out := cmd.OutOrStdout()
	if res.Success {
		fmt.Fprintf(out, "%s %s\n", p.pass("PASS"), name)
		return true, nil
	}
	fmt.Fprintf(out, "%s %s %s\n", p.fail("FAIL"), name, p.dim("(%s %s)", res.Issue.Code, res.Issue.Path))
	fmt.Fprintf(out, "     %s\n", res.Error)
	return false, nil
}
