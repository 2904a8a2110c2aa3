// Package report renders rename plans and outcomes for people and for
// other programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"renumber/pkg/planner"
)

// Format selects how a plan is written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatTOML}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want text, json, yaml or toml)", s)
}

// Machine reports whether f is meant for programs rather than people.
func (f Format) Machine() bool {
	return f != FormatText
}

// planDocument is the serialised shape of a plan.
type planDocument struct {
	Directory string          `json:"directory" yaml:"directory" toml:"directory"`
	MaxNumber int             `json:"max_number" yaml:"max_number" toml:"max_number"`
	GapCount  int             `json:"gap_count" yaml:"gap_count" toml:"gap_count"`
	Entries   []planner.Entry `json:"entries" yaml:"entries" toml:"entries"`
}

// WritePlan writes plan for directory dir in the given format.
func WritePlan(w io.Writer, format Format, dir string, plan planner.Plan) error {
	doc := planDocument{
		Directory: dir,
		MaxNumber: plan.MaxNumber,
		GapCount:  plan.GapCount,
		Entries:   plan.Entries,
	}
	if doc.Entries == nil {
		doc.Entries = []planner.Entry{}
	}

	switch format {
	case FormatText:
		return writePlanText(w, doc)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writePlanText(w io.Writer, doc planDocument) error {
	if _, err := fmt.Fprintf(w, "Directory: %s\nHighest number: %d\nGaps: %d\n", doc.Directory, doc.MaxNumber, doc.GapCount); err != nil {
		return err
	}
	for _, e := range doc.Entries {
		if _, err := fmt.Fprintf(w, "%s -> %s (%s)\n", e.Source, e.Dest, e.Slot); err != nil {
			return err
		}
	}
	return nil
}
