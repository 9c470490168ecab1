package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	nslsolver "github.com/nslsolver/nslsolver-go"
)

// render writes v as JSON or YAML, or calls text for the text format.
func render(w io.Writer, format string, v any, text func(io.Writer)) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		text(w)
		return nil
	}
}

// errorReport is the structured form of a failed command.
type errorReport struct {
	Success    bool   `json:"success" yaml:"success"`
	Error      string `json:"error" yaml:"error"`
	StatusCode int    `json:"status_code,omitempty" yaml:"status_code,omitempty"`
}

// reportedError marks an error fail has already printed.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error { return e.error }

// fail reports err in the selected format and returns it so cobra exits non-zero.
// Text reports go to stderr, structured ones to stdout.
func fail(cmd *cobra.Command, err error) error {
	report := errorReport{Error: err.Error(), StatusCode: nslsolver.StatusCode(err)}
	_ = render(cmd.OutOrStdout(), outputFmt, report, func(io.Writer) {
		fmt.Fprintf(cmd.ErrOrStderr(), "[x] Error: %v\n", err)
	})
	return reportedError{err}
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
