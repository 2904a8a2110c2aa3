package safepath_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renumber/pkg/safepath"
)

func newValidator(t *testing.T) (*safepath.Validator, string) {
	t.Helper()

	v, err := safepath.New(t.TempDir())
	require.NoError(t, err)

	return v, v.Root()
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()

		v, err := safepath.New(tmpDir)
		require.NoError(t, err)
		resolved, err := filepath.EvalSymlinks(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, resolved, v.Root())
	})

	t.Run("non-existent directory", func(t *testing.T) {
		t.Parallel()
		_, err := safepath.New(filepath.Join(t.TempDir(), "missing"))
		require.ErrorIs(t, err, safepath.ErrInvalidRoot)
	})

	t.Run("file instead of directory", func(t *testing.T) {
		t.Parallel()
		tmpFile := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))

		_, err := safepath.New(tmpFile)
		require.ErrorIs(t, err, safepath.ErrInvalidRoot)
	})

	t.Run("symlink root resolves to real path", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		targetDir := filepath.Join(tmpDir, "target")
		require.NoError(t, os.MkdirAll(targetDir, 0o755))

		linkPath := filepath.Join(tmpDir, "root_link")
		if err := os.Symlink(targetDir, linkPath); err != nil {
			t.Skip("symlinks not supported")
		}

		v, err := safepath.New(linkPath)
		require.NoError(t, err)
		resolved, err := filepath.EvalSymlinks(linkPath)
		require.NoError(t, err)
		assert.Equal(t, resolved, v.Root())
	})
}

func TestChild(t *testing.T) {
	t.Parallel()
	v, root := newValidator(t)

	path, err := v.Child("3.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "3.txt"), path)

	for _, name := range []string{"", ".", "..", "../x.txt", "sub/x.txt"} {
		_, err := v.Child(name)
		assert.ErrorIs(t, err, safepath.ErrInvalidName, "name %q", name)
	}
}

func TestSafeRename_RejectsPathsOutsideRoot(t *testing.T) {
	t.Parallel()
	v, root := newValidator(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o644))

	sibling := root + "-sibling"
	require.NoError(t, os.MkdirAll(sibling, 0o755))
	t.Cleanup(func() { _ = os.RemoveAll(sibling) })
	require.NoError(t, os.WriteFile(filepath.Join(sibling, "b.txt"), []byte("b"), 0o644))

	err := v.SafeRename(filepath.Join(sibling, "b.txt"), filepath.Join(root, "2.txt"))
	require.ErrorIs(t, err, safepath.ErrPathEscape)

	err = v.SafeRename(filepath.Join(root, "a.txt"), filepath.Join(filepath.Dir(root), "1.txt"))
	require.ErrorIs(t, err, safepath.ErrPathEscape)

	_, statErr := os.Stat(filepath.Join(sibling, "b.txt"))
	assert.NoError(t, statErr)
}

func TestSafeRename(t *testing.T) {
	t.Parallel()

	t.Run("rename inside root", func(t *testing.T) {
		t.Parallel()
		v, root := newValidator(t)
		src := filepath.Join(root, "a.txt")
		require.NoError(t, os.WriteFile(src, []byte("a"), 0o644))

		require.NoError(t, v.SafeRename(src, filepath.Join(root, "1.txt")))

		_, err := os.Stat(filepath.Join(root, "1.txt"))
		require.NoError(t, err)
		_, err = os.Stat(src)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("destination outside root", func(t *testing.T) {
		t.Parallel()
		v, root := newValidator(t)
		src := filepath.Join(root, "a.txt")
		require.NoError(t, os.WriteFile(src, []byte("a"), 0o644))

		err := v.SafeRename(src, filepath.Join(root, "..", "escaped.txt"))
		require.ErrorIs(t, err, safepath.ErrPathEscape)

		_, statErr := os.Stat(src)
		assert.NoError(t, statErr, "source must stay in place")
	})

	t.Run("symlinked file can be renamed", func(t *testing.T) {
		t.Parallel()
		outside := t.TempDir()
		target := filepath.Join(outside, "target.txt")
		require.NoError(t, os.WriteFile(target, []byte("t"), 0o644))

		v, root := newValidator(t)
		link := filepath.Join(root, "link.txt")
		if err := os.Symlink(target, link); err != nil {
			t.Skip("symlinks not supported")
		}

		require.NoError(t, v.SafeRename(link, filepath.Join(root, "1.txt")))

		_, err := os.Stat(target)
		assert.NoError(t, err, "link target must not move")
	})

	t.Run("missing source", func(t *testing.T) {
		t.Parallel()
		v, root := newValidator(t)

		err := v.SafeRename(filepath.Join(root, "gone.txt"), filepath.Join(root, "1.txt"))
		require.Error(t, err)
		assert.True(t, os.IsNotExist(err))
	})
}
