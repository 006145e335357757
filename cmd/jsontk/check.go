package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"go.jsontk.dev/jsontk/parser"
	"go.jsontk.dev/jsontk/typecheck"
)

func newCheckCmd() *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Check a document's top-level field types against a declared schema",
		Long:  `check validates the immediate (single-level) types of a JSON object's fields against a schema given as repeated --type name=jsontype flags, e.g. --type age=integer.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}

			v, err := parser.Parse(data)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			declared, err := parseFieldTypes(fields)
			if err != nil {
				return err
			}

			schema, err := typecheck.NewSchema(declared)
			if err != nil {
				return err
			}

			mismatches, err := typecheck.Check(v, schema)
			if err != nil {
				return err
			}

			if len(mismatches) == 0 {
				fmt.Fprintln(os.Stdout, "ok")

				return nil
			}

			for _, m := range mismatches {
				fmt.Fprintln(os.Stdout, m)
			}

			return fmt.Errorf("%d mismatch(es)", len(mismatches))
		},
	}

	cmd.Flags().StringArrayVar(&fields, "type", nil, "declare a field's type as name=jsontype (repeatable)")

	return cmd
}

func parseFieldTypes(fields []string) (map[string]string, error) {
	declared := make(map[string]string, len(fields))

	for _, f := range fields {
		name, typ, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("malformed --type value %q, want name=jsontype", f)
		}

		declared[name] = typ
	}

	return declared, nil
}
