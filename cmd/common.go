package main

import (
	"fmt"
	"io"
	"time"

	"renumber/pkg/planner"
)

func printDryRunBanner(w io.Writer, dryRun bool) {
	if !dryRun {
		return
	}

	fmt.Fprintln(w, "=== DRY RUN - no changes will be made ===")
	fmt.Fprintln(w)
}

func printCommandHeader(w io.Writer, command, rootDir string) {
	fmt.Fprintf(w, "Command: %s\n", command)
	fmt.Fprintf(w, "Root directory: %s\n", rootDir)
}

func printFoundFiles(w io.Writer, fileCount int, duration time.Duration) {
	fmt.Fprintf(w, "Found %d files in %v\n", fileCount, duration.Round(time.Millisecond))
}

func printPlanOverview(w io.Writer, plan planner.Plan) {
	fmt.Fprintf(w, "Highest number: %d\n", plan.MaxNumber)
	fmt.Fprintf(w, "Gaps:           %d\n", plan.GapCount)
	fmt.Fprintln(w)
}

func printDryRunHint(w io.Writer, dryRun bool) {
	if !dryRun {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run without --dry-run to apply changes.")
}
