package wikidex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageSimplePage(t *testing.T) {
	n := testNormalizer()
	p := ParsePage(n, "Alpha", "alpha beta")

	assert.Equal(t, []string{"alpha"}, p.Title)
	assert.Equal(t, []string{"alpha", "beta"}, p.Body)
	assert.Empty(t, p.Infobox)
	assert.Empty(t, p.Categories)
	assert.Empty(t, p.Links)
	assert.Empty(t, p.References)
}

func TestParsePageExtractsReferencesCategoriesAndLinks(t *testing.T) {
	n := testNormalizer("the", "of")
	body := "intro text\n" +
		"==references==\n" +
		"<ref title=some source> other stuff\n" +
		"[[category:physics]]\n" +
		"* [http://example.org external site]\n"

	p := ParsePage(n, "Title", body)

	assert.Equal(t, []string{"some", "source", "other", "stuff"}, p.References)
	assert.Equal(t, []string{"physics"}, p.Categories)
	assert.NotEmpty(t, p.Links)
}

func TestParsePageStripsInfobox(t *testing.T) {
	n := testNormalizer()
	body := "{{infobox country\nname = testland\n}}\nbody text here"

	p := ParsePage(n, "Title", body)

	assert.Equal(t, []string{"country", "name", "testland"}, p.Infobox)
	// The brace-stripping regex does not cross newlines (matching the
	// original's un-DOTALL default), so a multi-line infobox is never
	// actually removed from Body — it is tokenized there too, alongside
	// the real body text that follows it.
	assert.Equal(t, []string{"infobox", "country", "name", "testland", "body", "text", "here"}, p.Body)
}

func TestParsePageBodyStripsDoubleBraceRuns(t *testing.T) {
	n := testNormalizer()
	p := ParsePage(n, "Title", "lead {{cite web|title=x}} trailing")
	assert.Equal(t, []string{"lead", "trailing"}, p.Body)
}

// TestParsePageBracesDoNotSpanMultipleBlocks guards against a greedy
// dot-matches-newline brace regex collapsing everything between the
// first "{{" and the last "}}" in a page, which would delete real prose
// sitting between an infobox and a later same-line template.
func TestParsePageBracesDoNotSpanMultipleBlocks(t *testing.T) {
	n := testNormalizer()
	body := "{{infobox x\n}}\nreal body words\n{{cite y}}"

	p := ParsePage(n, "Title", body)

	assert.Equal(t, []string{"x"}, p.Infobox)
	assert.Equal(t, []string{"infobox", "x", "real", "body", "words"}, p.Body)
}
