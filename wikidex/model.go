// Package wikidex builds and searches a disk-resident inverted index over a
// wiki-style XML dump. It streams the dump in bounded batches, indexes each
// batch in isolation, merges the resulting segments into sharded postings
// files, and answers field-weighted TF-IDF queries against those shards.
package wikidex

import (
	"fmt"
	"strconv"
	"strings"
)

// Field identifies one of the six fixed document fields a page is split
// into. The numeric value doubles as the index into WordOrder and into any
// per-field array (weights, counts, tags).
type Field int

// The six indexed fields, in WORD_ORDER. Order is load-bearing: per-doc
// term records list tags in this order, and callers must not reorder it.
const (
	FieldTitle Field = iota
	FieldBody
	FieldInfobox
	FieldCategory
	FieldLink
	FieldRef
	numFields
)

// WordOrder gives the single-character tag for each field, in the fixed
// order used when encoding per-doc term records.
var WordOrder = [numFields]byte{'t', 'b', 'i', 'c', 'l', 'r'}

// FieldNames maps a query field keyword to its tag.
var FieldNames = map[string]Field{
	"title":    FieldTitle,
	"body":     FieldBody,
	"infobox":  FieldInfobox,
	"category": FieldCategory,
	"link":     FieldLink,
	"ref":      FieldRef,
}

// FieldWeights are the fixed per-field contributions to a document's score.
var FieldWeights = [numFields]float64{
	FieldTitle:    1.0,
	FieldBody:     0.25,
	FieldInfobox:  0.2,
	FieldCategory: 0.1,
	FieldLink:     0.05,
	FieldRef:      0.05,
}

func tagToField(tag byte) (Field, bool) {
	for f, t := range WordOrder {
		if t == tag {
			return Field(f), true
		}
	}
	return 0, false
}

// Default tunable sizes; overridable per Build/Merge call.
const (
	// DefaultBatchSize is the number of pages one indexer worker consumes.
	DefaultBatchSize = 20000
	// DefaultShardWords is the number of unique words per merged shard.
	DefaultShardWords = 100000
)

// Page is one parsed wiki page awaiting indexing.
type Page struct {
	DocID int
	Title string
	Body  string
}

// FieldCounts holds the non-zero occurrence count of one word in each of
// the six fields of a single document.
type FieldCounts [numFields]int

// Empty reports whether every field count is zero.
func (fc FieldCounts) Empty() bool {
	for _, c := range fc {
		if c > 0 {
			return false
		}
	}
	return true
}

// EncodeRecord renders one per-doc term record: "<docId><tag><count>...",
// listing only non-zero fields in WORD_ORDER, e.g. "4217t1b12c2".
func EncodeRecord(docID int, fc FieldCounts) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(docID))
	for f := Field(0); f < numFields; f++ {
		if fc[f] > 0 {
			b.WriteByte(WordOrder[f])
			b.WriteString(strconv.Itoa(fc[f]))
		}
	}
	return b.String()
}

// DecodedRecord is one parsed per-doc term record.
type DecodedRecord struct {
	DocID  int
	Counts FieldCounts
}

// DecodeRecord parses a per-doc term record produced by EncodeRecord. It
// validates that every tag byte is one of the fixed WORD_ORDER tags and
// that counts are strictly positive integers, per spec invariant: "every
// listed count is >= 1".
func DecodeRecord(rec string) (DecodedRecord, error) {
	var out DecodedRecord

	i := 0
	for i < len(rec) && rec[i] >= '0' && rec[i] <= '9' {
		i++
	}
	if i == 0 {
		return out, fmt.Errorf("wikidex: record %q has no leading docId", rec)
	}
	docID, err := strconv.Atoi(rec[:i])
	if err != nil {
		return out, fmt.Errorf("wikidex: record %q has malformed docId: %w", rec, err)
	}
	out.DocID = docID

	for i < len(rec) {
		tag := rec[i]
		field, ok := tagToField(tag)
		if !ok {
			return out, fmt.Errorf("wikidex: record %q has unknown field tag %q", rec, tag)
		}
		i++
		start := i
		for i < len(rec) && rec[i] >= '0' && rec[i] <= '9' {
			i++
		}
		if i == start {
			return out, fmt.Errorf("wikidex: record %q has tag %q with no count", rec, tag)
		}
		count, err := strconv.Atoi(rec[start:i])
		if err != nil || count < 1 {
			return out, fmt.Errorf("wikidex: record %q has invalid count for tag %q", rec, tag)
		}
		out.Counts[field] = count
	}

	return out, nil
}

// BatchOf returns the zero-indexed batch a docId falls in, and its line
// offset (0-indexed) within that batch's title file. This is the one place
// the original's off-by-one (fileNo = docId/B, which undercounts when
// docId is an exact multiple of B) is deliberately NOT reproduced; see
// SPEC_FULL.md open question decisions.
func BatchOf(docID, batchSize int) (batch, lineInBatch int) {
	zero := docID - 1
	return zero / batchSize, zero % batchSize
}
