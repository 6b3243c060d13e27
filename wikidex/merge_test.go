package wikidex

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(raw)
}

// TestMergeSinglePageSingleShard reproduces spec scenario 1: one page,
// B=3, SHARD_WORDS=2, stemmer=identity, no stop words.
func TestMergeSinglePageSingleShard(t *testing.T) {
	dir := t.TempDir()
	n := testNormalizer()

	seg := NewSegment()
	seg.AddPage(n, 1, "Alpha", "alpha beta")
	require.NoError(t, seg.Flush(dir, 0, 1))

	assert.Equal(t, "alpha: [1t1b1]\nbeta: [1b1]\n", readFile(t, filepath.Join(dir, "index0.txt")))
	assert.Equal(t, "1: alpha\n", readFile(t, filepath.Join(dir, "title0.txt")))

	result, err := Merge(dir, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, result.NumShards)
	assert.Equal(t, 2, result.NumWords)

	assert.Equal(t, "1t1b1\n1b1\n", readFile(t, filepath.Join(dir, "mergedIndex0.txt")))

	var offsets map[string]int64
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(dir, "wordOffset0.txt"))), &offsets))
	assert.Equal(t, map[string]int64{"alpha": 0, "beta": 6}, offsets)

	assert.Empty(t, readFile(t, filepath.Join(dir, "breakWords.txt")))

	// Segment files are deleted once drained.
	_, err = os.Stat(filepath.Join(dir, "index0.txt"))
	assert.True(t, os.IsNotExist(err))
}

// TestMergeCrossBatchOrdering reproduces spec scenario 3: a word present
// in segment 0 with docId 2 and segment 1 with docId 4 must merge with
// ascending docId order.
func TestMergeCrossBatchOrdering(t *testing.T) {
	dir := t.TempDir()
	n := testNormalizer()

	seg0 := NewSegment()
	seg0.AddPage(n, 1, "One", "zzz")
	seg0.AddPage(n, 2, "Two", "shared")
	seg0.AddPage(n, 3, "Three", "zzz")
	require.NoError(t, seg0.Flush(dir, 0, 1))

	seg1 := NewSegment()
	seg1.AddPage(n, 4, "Four", "shared")
	seg1.AddPage(n, 5, "Five", "zzz")
	seg1.AddPage(n, 6, "Six", "zzz")
	require.NoError(t, seg1.Flush(dir, 1, 4))

	_, err := Merge(dir, 2, 100)
	require.NoError(t, err)

	var offsets map[string]int64
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(dir, "wordOffset0.txt"))), &offsets))

	merged := readFile(t, filepath.Join(dir, "mergedIndex0.txt"))
	lines := splitLines(merged)

	sharedOffset, ok := offsets["shared"]
	require.True(t, ok)
	sharedLine := lineAtOffset(merged, sharedOffset)
	assert.Equal(t, "2b1,4b1", sharedLine)
	_ = lines
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}

func lineAtOffset(s string, offset int64) string {
	rest := s[offset:]
	for i := 0; i < len(rest); i++ {
		if rest[i] == '\n' {
			return rest[:i]
		}
	}
	return rest
}

func TestMergeRejectsCorruptSegmentLine(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index0.txt"), []byte("badline\n"), 0o644))

	_, err := Merge(dir, 1, 100)
	assert.ErrorIs(t, err, ErrCorruptSegment)
}
