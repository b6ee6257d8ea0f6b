package api

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// OutputFormat selects how CLI commands print results.
type OutputFormat string

const (
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatCSV  OutputFormat = "csv"
)

// DefaultOutput is used when --output is unset or unknown.
var DefaultOutput OutputFormat = OutputFormatYAML

// globalOutputFormat is set by the root command's --output flag.
var globalOutputFormat = DefaultOutput

// CSVer is implemented by results that have a CSV rendering (the places table).
type CSVer interface {
	CSV() string
}

// SetOutputFormat sets the global output format.
func SetOutputFormat(format string) {
	switch f := OutputFormat(format); f {
	case OutputFormatJSON, OutputFormatYAML, OutputFormatCSV:
		globalOutputFormat = f
	default:
		globalOutputFormat = DefaultOutput
	}
}

// GetOutputFormat returns the current global output format.
func GetOutputFormat() OutputFormat {
	return globalOutputFormat
}

// Output prints data to stdout in the global format.
func Output(data any) error {
	return OutputTo(os.Stdout, globalOutputFormat, data)
}

// OutputTo writes data to w. CSV applies to CSVer values only; anything
// else is printed as YAML.
func OutputTo(w io.Writer, format OutputFormat, data any) error {
	if format == OutputFormatCSV {
		c, ok := data.(CSVer)
		if !ok {
			return writeYAML(w, data)
		}
		_, err := fmt.Fprintln(w, c.CSV())
		return err
	}

	switch format {
	case OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case OutputFormatYAML:
		return writeYAML(w, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func writeYAML(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}
