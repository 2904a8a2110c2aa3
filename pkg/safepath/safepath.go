// Package safepath keeps renames inside a single target directory.
package safepath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrPathEscape indicates a path outside the root directory.
	ErrPathEscape = errors.New("path escapes root directory")
	// ErrSymlinkEscape indicates a parent directory that resolves outside the root.
	ErrSymlinkEscape = errors.New("symlink target escapes root directory")
	// ErrInvalidRoot indicates the root path is invalid.
	ErrInvalidRoot = errors.New("invalid root directory")
	// ErrInvalidName indicates a file name that is not a single path element.
	ErrInvalidName = errors.New("invalid file name")
)

// Validator ensures paths stay directly inside a root directory.
type Validator struct {
	root string // Absolute, cleaned, symlink-free path to the root directory.
}

// New creates a Validator for root, which must be an existing directory.
func New(root string) (*Validator, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	resolvedRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	cleanRoot := filepath.Clean(resolvedRoot)

	info, err := os.Stat(cleanRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory", ErrInvalidRoot)
	}

	return &Validator{root: cleanRoot}, nil
}

// Root returns the absolute path to the root directory.
func (v *Validator) Root() string {
	return v.root
}

// Child returns the path of name directly inside root. name must be a single
// path element: no separators, not "." or "..".
func (v *Validator) Child(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsRune(name, '/') ||
		strings.ContainsRune(name, filepath.Separator) || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	path := filepath.Join(v.root, name)
	if err := v.containsPath(path); err != nil {
		return "", err
	}

	return path, nil
}

// SafeRename renames within root. Both paths must be inside root and their
// parent directories must not resolve outside it. The entries themselves
// may be symlinks; rename moves the link, not its target.
func (v *Validator) SafeRename(oldPath, newPath string) error {
	if err := v.validateForRename(oldPath); err != nil {
		return fmt.Errorf("source %w: %s", err, oldPath)
	}
	if err := v.validateForRename(newPath); err != nil {
		return fmt.Errorf("destination %w: %s", err, newPath)
	}

	return os.Rename(oldPath, newPath)
}

func (v *Validator) containsPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathEscape)
	}

	if !isSubPath(v.root, filepath.Clean(absPath)) {
		return ErrPathEscape
	}

	return nil
}

func (v *Validator) validateForRename(path string) error {
	if err := v.containsPath(path); err != nil {
		return err
	}

	parent, err := resolveExistingPath(filepath.Dir(path))
	if err != nil {
		return err
	}

	if err := v.containsPath(parent); err != nil {
		return fmt.Errorf("%w: %s -> %s", ErrSymlinkEscape, path, parent)
	}

	return nil
}

// isSubPath checks if child is parent or below it. Both must be absolute and clean.
func isSubPath(parent, child string) bool {
	if parent == child {
		return true
	}

	parentWithSep := parent
	if !strings.HasSuffix(parentWithSep, string(filepath.Separator)) {
		parentWithSep += string(filepath.Separator)
	}

	return strings.HasPrefix(child, parentWithSep)
}

func resolveExistingPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("cannot resolve symlinks: %w", err)
	}

	parent := filepath.Dir(absPath)
	if parent == absPath {
		return "", fmt.Errorf("cannot resolve symlinks: %w", err)
	}

	return resolveExistingPath(parent)
}
