// Package scanner lists the regular files of a single directory and splits
// them into numbered ("<n>.<ext>") and unnumbered files.
package scanner

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	rerrors "renumber/pkg/errors"
)

// numberedPattern captures the leading digit run and everything from the
// first dot onward.
var numberedPattern = regexp.MustCompile(`^([0-9]+)(\..+)$`)

// NumberedFile is a file whose name is a digit run followed by an extension.
type NumberedFile struct {
	Number int
	Name   string
	Ext    string // from the first dot, inclusive
}

// IgnoredFile is a file that looks numbered but cannot take part in planning.
type IgnoredFile struct {
	Name   string
	Reason string
}

// Listing is the partitioned content of a directory.
type Listing struct {
	Dir        string
	Numbered   map[int]NumberedFile
	Unnumbered []string
	// Shadowed holds numbered files replaced in Numbered by a later entry
	// with the same number. They are left untouched.
	Shadowed []NumberedFile
	Ignored  []IgnoredFile
}

// FileCount returns the number of regular files seen, skipped names excluded.
func (l Listing) FileCount() int {
	return len(l.Numbered) + len(l.Unnumbered) + len(l.Shadowed) + len(l.Ignored)
}

// Options configures the scanner.
type Options struct {
	// SkipFiles lists file names to leave out entirely (e.g. .DS_Store).
	SkipFiles []string
}

// Scanner lists directories.
type Scanner struct {
	skipFiles map[string]bool
}

// New creates a Scanner with the given options.
func New(opts Options) *Scanner {
	s := &Scanner{skipFiles: make(map[string]bool, len(opts.SkipFiles))}
	for _, f := range opts.SkipFiles {
		s.skipFiles[f] = true
	}
	return s
}

// Scan lists dir without recursing and partitions its regular files.
// Entries are visited in filename order, so when two names parse to the
// same number the lexicographically greater one wins.
func (s *Scanner) Scan(dir string) (Listing, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Listing{}, rerrors.WrapOS(err, rerrors.CodeNotFound, "cannot access directory "+dir)
	}
	if !info.IsDir() {
		return Listing{}, rerrors.Newf(rerrors.CodeNotFound, "%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Listing{}, rerrors.WrapOS(err, rerrors.CodeInternal, "cannot list directory "+dir)
	}

	listing := Listing{
		Dir:      dir,
		Numbered: make(map[int]NumberedFile),
	}

	for _, entry := range entries {
		name := entry.Name()
		if s.skipFiles[name] {
			continue
		}

		regular, err := isRegular(dir, entry)
		if err != nil {
			listing.Ignored = append(listing.Ignored, IgnoredFile{Name: name, Reason: "cannot resolve link target"})
			continue
		}
		if !regular {
			continue
		}

		listing.add(name)
	}

	return listing, nil
}

func (l *Listing) add(name string) {
	f, matched, err := parse(name)
	switch {
	case !matched:
		l.Unnumbered = append(l.Unnumbered, name)
	case err != nil:
		l.Ignored = append(l.Ignored, IgnoredFile{Name: name, Reason: "number out of range"})
	default:
		if prev, ok := l.Numbered[f.Number]; ok {
			l.Shadowed = append(l.Shadowed, prev)
		}
		l.Numbered[f.Number] = f
	}
}

// isRegular follows symlinks so that a link to a file counts as a file and a
// link to a directory does not. Dangling links are skipped. Any other failure
// to resolve a link (a loop, an unreadable parent) is returned so the caller
// can set the entry aside; it never fails the scan.
func isRegular(dir string, entry os.DirEntry) (bool, error) {
	if entry.Type().IsRegular() {
		return true, nil
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false, nil
	}

	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return info.Mode().IsRegular(), nil
}

// Parse reports whether name is a usable numbered file name and returns its
// parts.
func Parse(name string) (NumberedFile, bool) {
	f, matched, err := parse(name)
	return f, matched && err == nil
}

func parse(name string) (NumberedFile, bool, error) {
	m := numberedPattern.FindStringSubmatch(name)
	if m == nil {
		return NumberedFile{}, false, nil
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return NumberedFile{}, true, err
	}

	return NumberedFile{Number: n, Name: name, Ext: m[2]}, true, nil
}
