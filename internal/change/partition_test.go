package change

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileSection(name string, lines int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "diff --git a/%s b/%s\n", name, name)
	fmt.Fprintf(&sb, "--- a/%s\n", name)
	fmt.Fprintf(&sb, "+++ b/%s\n", name)
	fmt.Fprintf(&sb, "@@ -0,0 +1,%d @@\n", lines)
	for i := 0; i < lines; i++ {
		fmt.Fprintf(&sb, "+line %d of %s\n", i, name)
	}
	return sb.String()
}

func TestPartitionDiff_Empty(t *testing.T) {
	assert.Empty(t, PartitionDiff(""))
	assert.Empty(t, PartitionDiff("   \n\t\n"))
}

func TestPartitionDiff_SingleFile(t *testing.T) {
	units := PartitionDiff(fileSection("main.go", 3))
	require.Len(t, units, 1)
	assert.Equal(t, "main.go", units[0].Path)
	assert.Equal(t, 3, units[0].Added)
	assert.Zero(t, units[0].Deleted)
	assert.Positive(t, units[0].Tokens)
}

func TestPartitionDiff_SplitsOnFileBoundaries(t *testing.T) {
	diff := fileSection("a.go", 2) + fileSection("b/c.py", 5) + fileSection("d.sql", 1)
	units := PartitionDiff(diff)
	require.Len(t, units, 3)
	assert.Equal(t, "a.go", units[0].Path)
	assert.Equal(t, "b/c.py", units[1].Path)
	assert.Equal(t, "d.sql", units[2].Path)
}

func TestPartitionDiff_RoundTrip(t *testing.T) {
	// Re-concatenating unit contents in order must reproduce the change
	// byte for byte, with no loss and no duplication.
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		var sb strings.Builder
		files := 1 + rng.Intn(8)
		for i := 0; i < files; i++ {
			sb.WriteString(fileSection(fmt.Sprintf("pkg/file%d.go", i), 1+rng.Intn(30)))
		}
		diff := sb.String()
		if trial%3 == 0 {
			// Occasionally strip the trailing newline.
			diff = strings.TrimSuffix(diff, "\n")
		}

		units := PartitionDiff(diff)
		var joined strings.Builder
		for _, u := range units {
			joined.WriteString(u.Content)
		}
		require.Equal(t, diff, joined.String(), "trial %d", trial)
	}
}

func TestPartitionDiff_PreambleKeptAsUnit(t *testing.T) {
	diff := "some preamble text\n" + fileSection("a.go", 2)
	units := PartitionDiff(diff)
	require.Len(t, units, 2)
	assert.Equal(t, "some preamble text\n", units[0].Content)
	assert.Equal(t, "a.go", units[1].Path)
}

func TestPartitionFiles(t *testing.T) {
	units := PartitionFiles([]FilePair{
		{Path: "a.go", Content: "package a\n"},
		{Path: "empty.go", Content: ""},
		{Path: "b.go", Content: "package b\n"},
	})
	require.Len(t, units, 2)
	assert.Equal(t, "a.go", units[0].Path)
	assert.Equal(t, "b.go", units[1].Path)
	assert.Equal(t, "package b\n", units[1].Content)
}
