package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.jsontk.dev/jsontk/parser"
	"go.jsontk.dev/jsontk/stringify"
)

func newParseCmd() *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a JSON document and re-emit it in canonical form",
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

			var out []byte
			if pretty {
				out = stringify.Pretty(v)
			} else {
				out = stringify.Compact(v)
			}

			_, err = os.Stdout.Write(append(out, '\n'))

			return err
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "pretty-print the output")

	return cmd
}
