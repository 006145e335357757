package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.jsontk.dev/jsontk/jsonversion"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print jsontk build information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(os.Stdout, jsonversion.String())

			return err
		},
	}
}
