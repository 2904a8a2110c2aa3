package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renumber/pkg/scanner"
)

func numbered(names ...string) map[int]scanner.NumberedFile {
	m := make(map[int]scanner.NumberedFile, len(names))
	for _, name := range names {
		f, ok := scanner.Parse(name)
		if !ok {
			panic("not a numbered name: " + name)
		}
		m[f.Number] = f
	}
	return m
}

func destinations(p Plan) map[string]string {
	out := make(map[string]string, len(p.Entries))
	for _, e := range p.Entries {
		out[e.Source] = e.Dest
	}
	return out
}

func TestBuildFrom_FillsGapsThenAppends(t *testing.T) {
	plan := BuildFrom(numbered("2.txt", "4.txt"), []string{"c.txt", "a.txt", "b.txt"})

	assert.Equal(t, 4, plan.MaxNumber)
	assert.Equal(t, 2, plan.GapCount)
	assert.Equal(t, []Entry{
		{Source: "a.txt", Dest: "1.txt", Number: 1, Slot: SlotGap},
		{Source: "b.txt", Dest: "3.txt", Number: 3, Slot: SlotGap},
		{Source: "c.txt", Dest: "5.txt", Number: 5, Slot: SlotAppend},
	}, plan.Entries)
}

func TestBuildFrom_NoNumberedFiles(t *testing.T) {
	plan := BuildFrom(nil, []string{"z.png", "a.png", "m.png"})

	assert.Equal(t, 0, plan.MaxNumber)
	assert.Equal(t, 0, plan.GapCount)
	assert.Equal(t, map[string]string{
		"a.png": "1.png",
		"m.png": "2.png",
		"z.png": "3.png",
	}, destinations(plan))
	for _, e := range plan.Entries {
		assert.Equal(t, SlotAppend, e.Slot)
	}
}

func TestBuildFrom_GapFreeSequenceIsEmpty(t *testing.T) {
	plan := BuildFrom(numbered("1.x", "2.y", "3.z"), nil)

	assert.True(t, plan.Empty())
	assert.Equal(t, 3, plan.MaxNumber)
	assert.Equal(t, 0, plan.GapCount)
}

func TestBuildFrom_EmptyInput(t *testing.T) {
	plan := BuildFrom(map[int]scanner.NumberedFile{}, nil)

	assert.True(t, plan.Empty())
	assert.Equal(t, 0, plan.MaxNumber)
}

func TestBuildFrom_MoreGapsThanFiles(t *testing.T) {
	plan := BuildFrom(numbered("10.txt"), []string{"b.txt", "a.txt"})

	assert.Equal(t, 9, plan.GapCount)
	assert.Equal(t, []Entry{
		{Source: "a.txt", Dest: "1.txt", Number: 1, Slot: SlotGap},
		{Source: "b.txt", Dest: "2.txt", Number: 2, Slot: SlotGap},
	}, plan.Entries)
}

func TestBuildFrom_ByteOrderSort(t *testing.T) {
	// Upper case sorts before lower case; no locale collation.
	plan := BuildFrom(nil, []string{"b.txt", "B.txt", "a.txt", "_x.txt"})

	assert.Equal(t, map[string]string{
		"B.txt":  "1.txt",
		"_x.txt": "2.txt",
		"a.txt":  "3.txt",
		"b.txt":  "4.txt",
	}, destinations(plan))
}

func TestBuildFrom_ExtensionUsesLastDot(t *testing.T) {
	plan := BuildFrom(numbered("1.tar.gz"), []string{"backup.tar.gz", ".bashrc", "README"})

	assert.Equal(t, map[string]string{
		".bashrc":       "2",
		"README":        "3",
		"backup.tar.gz": "4.gz",
	}, destinations(plan))
}

func TestBuildFrom_KeepsEntryNamedAsItsDestination(t *testing.T) {
	// "3" has no dot so it is unnumbered, and its slot is 3.
	plan := BuildFrom(numbered("1.txt", "2.txt"), []string{"3", "a.txt"})

	assert.Equal(t, []Entry{
		{Source: "3", Dest: "3", Number: 3, Slot: SlotAppend},
		{Source: "a.txt", Dest: "4.txt", Number: 4, Slot: SlotAppend},
	}, plan.Entries)
}

func TestBuildFrom_ZeroIsNotAGap(t *testing.T) {
	plan := BuildFrom(numbered("0.txt", "2.txt"), []string{"a.txt"})

	assert.Equal(t, 1, plan.GapCount)
	assert.Equal(t, []Entry{
		{Source: "a.txt", Dest: "1.txt", Number: 1, Slot: SlotGap},
	}, plan.Entries)
}

func TestBuildFrom_DestinationsUnique(t *testing.T) {
	plan := BuildFrom(numbered("3.txt", "7.txt", "8.txt"), []string{"a", "b", "c", "d", "e", "f", "g", "h"})

	seen := make(map[int]bool)
	for _, e := range plan.Entries {
		require.False(t, seen[e.Number], "number %d assigned twice", e.Number)
		seen[e.Number] = true
	}
	for n := 1; n <= 11; n++ {
		_, existing := numbered("3.txt", "7.txt", "8.txt")[n]
		assert.True(t, seen[n] || existing, "number %d left empty", n)
	}
}

func TestBuildFrom_DoesNotMutateInput(t *testing.T) {
	unnumbered := []string{"c.txt", "a.txt", "b.txt"}
	BuildFrom(nil, unnumbered)

	assert.Equal(t, []string{"c.txt", "a.txt", "b.txt"}, unnumbered)
}

func TestBuildFrom_HugeMaxStaysCheap(t *testing.T) {
	plan := BuildFrom(numbered("2000000000.txt"), []string{"a.txt"})

	assert.Equal(t, 2000000000, plan.MaxNumber)
	assert.Equal(t, 1999999999, plan.GapCount)
	assert.Equal(t, "1.txt", plan.Entries[0].Dest)
}

func TestBuild_UsesListing(t *testing.T) {
	plan := Build(scanner.Listing{
		Numbered:   numbered("1.md"),
		Unnumbered: []string{"notes.md"},
	})

	assert.Equal(t, map[string]string{"notes.md": "2.md"}, destinations(plan))
}

func TestGapCount(t *testing.T) {
	assert.Equal(t, 3, gapCount(numbered("2.a", "4.a", "6.a"), 6))
	assert.Equal(t, 0, gapCount(numbered("1.a", "2.a"), 2))
	assert.Equal(t, 1, gapCount(numbered("0.a", "2.a"), 2))
	assert.Equal(t, 0, gapCount(nil, 0))
}

func TestMaxNumber(t *testing.T) {
	assert.Equal(t, 0, MaxNumber(nil))
	assert.Equal(t, 9, MaxNumber(numbered("9.a", "3.a")))
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"a.txt":      ".txt",
		"a.tar.gz":   ".gz",
		"README":     "",
		".bashrc":    "",
		".config.js": ".js",
		"a.":         ".",
		"...":        "",
		"a..b":       ".b",
	}

	for name, want := range tests {
		assert.Equal(t, want, Extension(name), name)
	}
}
