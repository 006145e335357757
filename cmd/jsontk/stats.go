package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.jsontk.dev/jsontk/parser"
	"go.jsontk.dev/jsontk/value"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Report a census of value types in a document",
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

			for _, entry := range value.SortedTypeCounts(v) {
				fmt.Fprintf(os.Stdout, "%-8s %d\n", entry.Type, entry.Count)
			}

			return nil
		},
	}

	return cmd
}
