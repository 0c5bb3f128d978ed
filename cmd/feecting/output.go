package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-feecting"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatHTML = "html"
	formatText = "text"
)

var errUnknownFormat = errors.New("unknown output format")

func validateFormat(format string) error {
	switch format {
	case formatJSON, formatYAML, formatHTML, formatText:
		return nil
	default:
		return fmt.Errorf("%w %q (want json, yaml, html or text)", errUnknownFormat, format)
	}
}

func render(out io.Writer, format string, result *feecting.Result) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case formatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	case formatHTML:
		_, err := fmt.Fprintln(out, strings.TrimRight(result.HTML, "\n"))
		return err
	case formatText:
		_, err := fmt.Fprintln(out, strings.TrimRight(result.Text, "\n"))
		return err
	default:
		return validateFormat(format)
	}
}
