package main

import (
	"github.com/spf13/cobra"

	"renumber/pkg/config"
	rerrors "renumber/pkg/errors"
)

// configDefaultPath overrides the XDG config location when set.
var configDefaultPath string

func buildRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "renumber [flags] <directory>",
		Short: "Renumber files so that <n>.<ext> names form a contiguous sequence",
		Long: `renumber closes the gaps in a directory of numbered files.

Files named <n>.<ext> keep their numbers. Every other regular file is
given, in lexicographic order, the lowest missing number first and then
the numbers after the current highest one. Extensions are preserved.

Examples:
  # Preview the renames
  renumber --dry-run ./photos

  # Export the plan for another tool
  renumber --dry-run --format json ./photos

  # Apply
  renumber ./photos

Before: 2.jpg 4.jpg beach.jpg alps.jpg sunset.jpg
After:  1.jpg 2.jpg 3.jpg 4.jpg 5.jpg

Safety:
  Only regular files directly inside the directory are renamed.
  An existing file is never overwritten; that rename is skipped.
  Subdirectories are left alone.`,
		Args:          exactlyOneDirectory,
		RunE:          runRenumber,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	config.RegisterFlags(cmd.Flags())
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return rerrors.Wrap(err, rerrors.CodeInvalidArgument, "invalid flags")
	})

	return cmd
}

func exactlyOneDirectory(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return rerrors.Wrap(err, rerrors.CodeInvalidArgument, "expected exactly one directory")
	}
	return nil
}
