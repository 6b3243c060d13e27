package wikidex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// identityStemmer leaves every token unchanged, matching the "stemmer =
// identity" condition used throughout the worked examples.
type identityStemmer struct{}

func (identityStemmer) Stem(word string) string { return word }

// fixedStopWords is a small, test-controlled stop-word set.
type fixedStopWords map[string]bool

func (s fixedStopWords) IsStopWord(word string) bool { return s[word] }

func testNormalizer(stops ...string) *Normalizer {
	set := make(fixedStopWords)
	for _, s := range stops {
		set[s] = true
	}
	return &Normalizer{Stemmer: identityStemmer{}, StopWords: set}
}

func TestTokenizeStripsURLsEntitiesAndPunctuation(t *testing.T) {
	n := testNormalizer()
	tokens := n.Tokenize("See http://example.com &amp; more, stuff! end")
	assert.Equal(t, []string{"see", "more", "stuff", "end"}, tokens)
}

func TestTokenizeDropsNonASCII(t *testing.T) {
	n := testNormalizer()
	tokens := n.Tokenize("café naïve")
	assert.Equal(t, []string{"caf", "na" + "ve"}, tokens)
}

func TestNormalizeRemovesStopWordsAndStems(t *testing.T) {
	n := testNormalizer("the", "of")
	got := n.Normalize("The History of Rome")
	assert.Equal(t, []string{"history", "rome"}, got)
}

func TestNormalizeWithDefaultPipelineStemsWords(t *testing.T) {
	n := NewNormalizer()
	got := n.Normalize("running runs")
	// porter2 stems both to the same root, "run".
	assert.Len(t, got, 2)
	assert.Equal(t, got[0], got[1])
}
