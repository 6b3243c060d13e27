package wikidex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSearchRanksByFieldWeightedTFIDF is modelled on the ranking worked
// example: doc1 has "x" once in its title, doc2 four times in its body,
// and doc3 once in a multi-line infobox, which the body's brace stripping
// does not remove, so doc3 also has "x" once in its body. With N=100 and
// df=3, idf = ln(100/3) ~= 3.507, and the per-document weights (doc1:
// 1.0, doc2: 0.25*(1+ln 4) ~= 0.597, doc3: 0.2 + 0.25 = 0.45) order
// doc1 > doc2 > doc3.
func TestSearchRanksByFieldWeightedTFIDF(t *testing.T) {
	dir := t.TempDir()
	n := testNormalizer()

	seg := NewSegment()
	seg.AddPage(n, 1, "x", "unrelated")
	seg.AddPage(n, 2, "other2", "x x x x")
	seg.AddPage(n, 3, "other3", "{{infobox x\n}}")
	require.NoError(t, seg.Flush(dir, 0, 1))

	_, err := Merge(dir, 1, 100)
	require.NoError(t, err)

	engine, err := OpenEngine(dir, 100, 10)
	require.NoError(t, err)
	defer engine.Close()

	q := ParseQuery(n, "x")
	titles, err := engine.Search(q, 3)
	require.NoError(t, err)
	require.Equal(t, []string{"x", "other2", "other3"}, titles)
}

func TestSearchFieldedQueryOnlyMatchesDeclaredField(t *testing.T) {
	dir := t.TempDir()
	n := testNormalizer()

	seg := NewSegment()
	seg.AddPage(n, 1, "sample", "x appears only in body")
	seg.AddPage(n, 2, "x", "nothing relevant here")
	require.NoError(t, seg.Flush(dir, 0, 1))

	_, err := Merge(dir, 1, 100)
	require.NoError(t, err)

	engine, err := OpenEngine(dir, 2, 10)
	require.NoError(t, err)
	defer engine.Close()

	q := ParseQuery(n, "title: x")
	titles, err := engine.Search(q, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, titles)
}

func TestSearchMissingBreakWordsIsAnError(t *testing.T) {
	dir := t.TempDir()
	_, err := OpenEngine(dir, 10, 10)
	require.ErrorIs(t, err, ErrMissingBreakWords)
}
