package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.jsontk.dev/jsontk/parser"
	"go.jsontk.dev/jsontk/path"
	"go.jsontk.dev/jsontk/stringify"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <path-expr> <file>",
		Short: "Evaluate a JSONPath-style expression against a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := readInput(args[1])
			if err != nil {
				return err
			}

			root, err := parser.Parse(data)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[1], err)
			}

			result, found, err := path.Evaluate(root, args[0])
			if err != nil {
				return fmt.Errorf("evaluating %q: %w", args[0], err)
			}

			if !found {
				return fmt.Errorf("no match for %q", args[0])
			}

			_, err = os.Stdout.Write(append(stringify.Compact(result), '\n'))

			return err
		},
	}

	return cmd
}
