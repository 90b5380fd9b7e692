package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// printResult renders a command result in the selected output format.
// Plain output prints one line per element for slices and %v otherwise.
func printResult(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)

	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)

	case "plain":
		switch t := v.(type) {
		case []string:
			for _, s := range t {
				fmt.Fprintln(w, s)
			}
		default:
			fmt.Fprintf(w, "%v\n", v)
		}
		return nil

	default:
		return fmt.Errorf("unsupported output format %q (expected plain, json, or yaml)", format)
	}
}
