package api

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// OutputFormat controls how CLI commands print API responses.
type OutputFormat string

const (
	OutputYAML OutputFormat = "yaml"
	OutputJSON OutputFormat = "json"
)

var outputFormat = OutputYAML

// SetOutputFormat sets the global output format for CLI commands.
func SetOutputFormat(format string) error {
	switch OutputFormat(format) {
	case OutputYAML, OutputJSON:
		outputFormat = OutputFormat(format)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want yaml or json)", format)
	}
}

// Output prints v to stdout in the configured format.
func Output(v any) error {
	switch outputFormat {
	case OutputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(data))
	default:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Print(string(data))
	}
	return nil
}
