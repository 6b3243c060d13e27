package wikidex

import (
	"regexp"
	"strings"

	"github.com/surgebase/porter2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Stemmer reduces a token to its stem. It is a pluggable collaborator so
// callers can substitute a no-op or other-language stemmer without
// touching the rest of the pipeline.
type Stemmer interface {
	Stem(word string) string
}

// Porter2Stemmer is the default English Stemmer, backed by
// github.com/surgebase/porter2.
type Porter2Stemmer struct{}

// Stem implements Stemmer.
func (Porter2Stemmer) Stem(word string) string {
	return porter2.Stem(word)
}

// StopWords reports whether a (already lower-cased) token should be
// dropped before stemming. It is a pluggable collaborator for the same
// reason Stemmer is.
type StopWords interface {
	IsStopWord(word string) bool
}

// defaultStopWords backs StopWords with the fixed list in stopwords.go.
type defaultStopWords struct{}

// IsStopWord implements StopWords.
func (defaultStopWords) IsStopWord(word string) bool {
	return IsStopWord(word)
}

var (
	urlPattern    = regexp.MustCompile(`https?://(?:[a-zA-Z0-9$\-_@.&+]|[!*(),]|%[0-9a-fA-F]{2})+`)
	entityPattern = regexp.MustCompile(`&nbsp;|&lt;|&gt;|&amp;|&quot;|&apos;`)
	punctPattern  = regexp.MustCompile(`[@~\x{2013}%$'|.*\[\]:;,{}()=+\-_#!` + "`" + `"?/><&\\\n]`)
	wsPattern     = regexp.MustCompile(`\s+`)
	caser         = cases.Lower(language.Und)
)

// Normalizer runs the C1 pipeline: ASCII-fold, strip URLs/entities/
// punctuation, tokenize, drop stop words, stem.
type Normalizer struct {
	Stemmer   Stemmer
	StopWords StopWords
}

// NewNormalizer builds a Normalizer with the default Porter2 stemmer and
// fixed English stop-word list.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		Stemmer:   Porter2Stemmer{},
		StopWords: defaultStopWords{},
	}
}

// stripToASCII drops any byte with the high bit set, mirroring Python's
// `data.encode("ascii", errors="ignore").decode()`.
func stripToASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < 0x80 {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Tokenize lower-cases, strips URLs/HTML entities/punctuation, and splits
// on whitespace. It does not remove stop words or stem; callers that want
// the full pipeline should use Normalize.
func (n *Normalizer) Tokenize(text string) []string {
	text = caser.String(text)
	text = stripToASCII(text)
	text = urlPattern.ReplaceAllString(text, " ")
	text = entityPattern.ReplaceAllString(text, " ")
	text = punctPattern.ReplaceAllString(text, " ")

	fields := wsPattern.Split(strings.TrimSpace(text), -1)
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Normalize runs the full C1 pipeline over raw text: tokenize, drop stop
// words, stem. The result is ready to use as inverted-index terms.
func (n *Normalizer) Normalize(text string) []string {
	tokens := n.Tokenize(text)
	kept := tokens[:0]
	for _, t := range tokens {
		if !n.StopWords.IsStopWord(t) {
			kept = append(kept, t)
		}
	}
	stemmed := make([]string, len(kept))
	for i, t := range kept {
		stemmed[i] = n.Stemmer.Stem(t)
	}
	return stemmed
}
