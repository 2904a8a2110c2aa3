package report

import (
	"fmt"
	"io"

	"renumber/pkg/executor"
	"renumber/pkg/scanner"
)

// WriteWarnings reports files the scan set aside: numbered files shadowed by
// another file with the same number, and names whose number is unusable.
func WriteWarnings(w io.Writer, s Styles, listing scanner.Listing) {
	for _, f := range listing.Shadowed {
		fmt.Fprintf(w, "%s %s (number %d already taken, left untouched)\n", s.Warn.Render("WARN:"), f.Name, f.Number)
	}
	for _, f := range listing.Ignored {
		fmt.Fprintf(w, "%s %s (%s, left untouched)\n", s.Warn.Render("WARN:"), f.Name, f.Reason)
	}
}

// WriteOperations writes one line per attempted rename and its outcome.
func WriteOperations(w io.Writer, s Styles, ops []executor.RenameOperation) {
	for _, op := range ops {
		switch {
		case op.Conflict:
			fmt.Fprintf(w, "%s %s -> %s (%s)\n", s.Skip.Render("SKIP:"), op.Source, op.Dest, op.SkipReason)
		case op.Error != nil:
			fmt.Fprintf(w, "%s %s -> %s: %v\n", s.Error.Render("ERROR:"), op.Source, op.Dest, op.Error)
		default:
			fmt.Fprintf(w, "%s %s\n", s.Rename.Render("RENAME:"), op.Source)
			fmt.Fprintf(w, "    TO: %s\n", op.Dest)
		}
	}
}

// WriteSummary writes the closing summary block.
func WriteSummary(w io.Writer, s Styles, result executor.Result) {
	fmt.Fprintln(w, s.Header.Render("=== Summary ==="))
	fmt.Fprintf(w, "Planned:      %d\n", result.TotalEntries)
	fmt.Fprintf(w, "Renamed:      %d\n", result.RenamedCount)
	fmt.Fprintf(w, "Conflicts:    %d\n", result.ConflictCount)
	fmt.Fprintf(w, "Errors:       %d\n", result.ErrorCount)
}
