package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.jsontk.dev/jsontk/convert/csvconv"
	"go.jsontk.dev/jsontk/convert/iniconv"
	"go.jsontk.dev/jsontk/convert/xmlconv"
	"go.jsontk.dev/jsontk/convert/yamlconv"
	"go.jsontk.dev/jsontk/parser"
	"go.jsontk.dev/jsontk/stringify"
	"go.jsontk.dev/jsontk/value"
)

func newConvertCmd() *cobra.Command {
	var from, to, xmlRoot string

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a document between JSON and an adjacent format",
		Long:  `convert reads --from (json, yaml, xml, csv, ini) and writes --to (same set, default json).`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}

			v, err := decodeFormat(from, data)
			if err != nil {
				return fmt.Errorf("decoding %s input: %w", from, err)
			}

			out, err := encodeFormat(to, v, xmlRoot)
			if err != nil {
				return fmt.Errorf("encoding %s output: %w", to, err)
			}

			_, err = os.Stdout.Write(out)

			return err
		},
	}

	cmd.Flags().StringVar(&from, "from", "json", "input format: json, yaml, xml, csv, ini")
	cmd.Flags().StringVar(&to, "to", "json", "output format: json, yaml, xml, csv, ini")
	cmd.Flags().StringVar(&xmlRoot, "xml-root", "root", "root element name when --to=xml")

	return cmd
}

func decodeFormat(format string, data []byte) (*value.Value, error) {
	switch format {
	case "json":
		return parser.Parse(data)
	case "yaml":
		return yamlconv.Decode(data)
	case "xml":
		return xmlconv.Decode(data)
	case "csv":
		return csvconv.Decode(data)
	case "ini":
		return iniconv.Decode(data)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func encodeFormat(format string, v *value.Value, xmlRoot string) ([]byte, error) {
	switch format {
	case "json":
		return append(stringify.Compact(v), '\n'), nil
	case "yaml":
		return yamlconv.Encode(v)
	case "xml":
		return xmlconv.Encode(v, xmlRoot)
	case "csv":
		return csvconv.Encode(v)
	case "ini":
		return iniconv.Encode(v)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
