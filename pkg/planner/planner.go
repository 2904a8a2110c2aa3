// Package planner computes the rename plan that closes the gaps in a numbered
// file sequence. It performs no I/O.
package planner

import (
	"sort"
	"strconv"
	"strings"

	"renumber/pkg/scanner"
)

// Slot says how an entry's number was chosen.
type Slot string

const (
	SlotGap    Slot = "gap"    // a missing number in [1, max]
	SlotAppend Slot = "append" // a number after max
)

// Entry is one planned rename inside the target directory.
type Entry struct {
	Source string `json:"source" yaml:"source" toml:"source"`
	Dest   string `json:"dest" yaml:"dest" toml:"dest"`
	Number int    `json:"number" yaml:"number" toml:"number"`
	Slot   Slot   `json:"slot" yaml:"slot" toml:"slot"`
}

// Plan is the ordered list of renames for one directory.
type Plan struct {
	MaxNumber int     `json:"max_number" yaml:"max_number" toml:"max_number"`
	GapCount  int     `json:"gap_count" yaml:"gap_count" toml:"gap_count"`
	Entries   []Entry `json:"entries" yaml:"entries" toml:"entries"`
}

// Empty reports whether the plan renames nothing.
func (p Plan) Empty() bool {
	return len(p.Entries) == 0
}

// Build plans the renames for a scanned listing.
func Build(listing scanner.Listing) Plan {
	return BuildFrom(listing.Numbered, listing.Unnumbered)
}

// BuildFrom assigns the unnumbered files, in byte order, first to the numbers
// missing from [1, max] and then to max+1, max+2, ... Each file keeps its own
// extension. A name that already equals its destination (an extension-less
// "7" landing in slot 7) still gets an entry; applying it reports a conflict.
//
// The gap walk stops as soon as the candidates run out, so the cost does not
// depend on how large max is.
func BuildFrom(numbered map[int]scanner.NumberedFile, unnumbered []string) Plan {
	maxNumber := MaxNumber(numbered)

	candidates := append([]string(nil), unnumbered...)
	sort.Strings(candidates)

	plan := Plan{
		MaxNumber: maxNumber,
		GapCount:  gapCount(numbered, maxNumber),
		Entries:   make([]Entry, 0, len(candidates)),
	}

	next := 1
	nextAppend := maxNumber + 1
	for _, name := range candidates {
		slot := SlotAppend
		number := nextAppend

		for next <= maxNumber {
			if _, taken := numbered[next]; !taken {
				break
			}
			next++
		}
		if next <= maxNumber {
			slot = SlotGap
			number = next
			next++
		} else {
			nextAppend++
		}

		plan.Entries = append(plan.Entries, Entry{
			Source: name,
			Dest:   strconv.Itoa(number) + Extension(name),
			Number: number,
			Slot:   slot,
		})
	}

	return plan
}

// MaxNumber returns the largest key of numbered, or 0 when it is empty.
func MaxNumber(numbered map[int]scanner.NumberedFile) int {
	maxNumber := 0
	for n := range numbered {
		if n > maxNumber {
			maxNumber = n
		}
	}
	return maxNumber
}

func gapCount(numbered map[int]scanner.NumberedFile, maxNumber int) int {
	present := 0
	for n := range numbered {
		if n >= 1 {
			present++
		}
	}
	return maxNumber - present
}

// Extension returns the filesystem extension of name: the suffix from the
// last dot, ignoring leading dots, so ".bashrc" has none and "a.tar.gz" has
// ".gz". Numbered files use the first-dot rule instead (see scanner).
func Extension(name string) string {
	trimmed := strings.TrimLeft(name, ".")
	i := strings.LastIndexByte(trimmed, '.')
	if i < 0 {
		return ""
	}
	return trimmed[i:]
}
