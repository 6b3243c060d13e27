package wikidex

import (
	"regexp"
	"strings"
)

// QueryKind distinguishes a free-text BAG query from a fielded query.
type QueryKind int

const (
	// Bag queries search every field for every term.
	Bag QueryKind = iota
	// Fielded queries restrict each term list to one declared field.
	Fielded
)

// Query is the parsed result of C6: either a single BAG term list, or a
// FIELDED map from field to its normalized term list.
type Query struct {
	Kind   QueryKind
	Bag    []string
	Fields map[Field][]string
}

var fieldPrefix = regexp.MustCompile(`^(title|body|infobox|category|ref|link):`)

var queryFieldTag = map[string]Field{
	"title":    FieldTitle,
	"body":     FieldBody,
	"infobox":  FieldInfobox,
	"category": FieldCategory,
	"ref":      FieldRef,
	"link":     FieldLink,
}

// ParseQuery implements C6. A query matching `^(title|body|infobox|
// category|ref|link):` is FIELDED; anything else is a BAG query over the
// whole normalized string.
func ParseQuery(n *Normalizer, raw string) Query {
	if !fieldPrefix.MatchString(raw) {
		return Query{Kind: Bag, Bag: n.Normalize(raw)}
	}
	return Query{Kind: Fielded, Fields: parseFielded(n, raw)}
}

// parseFielded splits raw on ':' and walks the resulting segments. The
// first token names the first field. For each subsequent segment, split
// on whitespace: if more segments follow, the last whitespace-token names
// the NEXT field and the rest belong to the current field; the final
// segment's tokens all belong to the current field. An unrecognized field
// name drops its terms silently rather than erroring.
func parseFielded(n *Normalizer, raw string) map[Field][]string {
	segs := strings.Split(raw, ":")
	result := make(map[Field][]string)

	current, known := queryFieldTag[strings.TrimSpace(segs[0])]

	for i := 1; i < len(segs); i++ {
		words := strings.Fields(segs[i])
		isLast := i == len(segs)-1

		var terms []string
		switch {
		case isLast:
			terms = words
		case len(words) > 0:
			terms = words[:len(words)-1]
		}

		if known && len(terms) > 0 {
			result[current] = append(result[current], n.Normalize(strings.Join(terms, " "))...)
		}

		if !isLast {
			nextName := ""
			if len(words) > 0 {
				nextName = words[len(words)-1]
			}
			current, known = queryFieldTag[nextName]
		}
	}

	return result
}
