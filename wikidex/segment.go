package wikidex

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Segment accumulates the in-memory inverted map for one build batch: word
// -> encoded per-doc term records, plus the lower-cased title of each page
// in the batch, in docId order.
type Segment struct {
	postings map[string][]string
	titles   []string
}

// NewSegment returns an empty Segment ready to accept pages.
func NewSegment() *Segment {
	return &Segment{postings: make(map[string][]string)}
}

// AddPage parses and normalizes one page and folds its per-field token
// counts into the segment's in-memory inverted map. docId must be the
// page's 1-indexed position in the overall stream.
func (s *Segment) AddPage(n *Normalizer, docID int, title, body string) {
	parsed := ParsePage(n, title, body)
	fields := parsed.Fields()

	counts := make(map[string]*FieldCounts)
	for f, tokens := range fields {
		for _, word := range tokens {
			fc, ok := counts[word]
			if !ok {
				fc = &FieldCounts{}
				counts[word] = fc
			}
			fc[f]++
		}
	}

	for word, fc := range counts {
		if fc.Empty() {
			continue
		}
		s.postings[word] = append(s.postings[word], EncodeRecord(docID, *fc))
	}

	s.titles = append(s.titles, strings.ToLower(title))
}

// Flush writes the segment's index{k}.txt and title{k}.txt files into dir.
// Segment line format: "word: [rec1,rec2,...]\n", sorted ascending by
// word. Title line format: "docId: title\n", one line per page in the
// batch, in docId order; baseDocID is the docId of the batch's first page.
func (s *Segment) Flush(dir string, k, baseDocID int) error {
	if err := writeIndexFile(filepath.Join(dir, fmt.Sprintf("index%d.txt", k)), s.postings); err != nil {
		return err
	}
	if err := writeTitleFile(filepath.Join(dir, fmt.Sprintf("title%d.txt", k)), s.titles, baseDocID); err != nil {
		return err
	}
	return nil
}

func writeIndexFile(path string, postings map[string][]string) error {
	words := make([]string, 0, len(postings))
	for w := range postings {
		words = append(words, w)
	}
	sort.Strings(words)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wikidex: create segment file %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, word := range words {
		fmt.Fprintf(w, "%s: [%s]\n", word, strings.Join(postings[word], ","))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("wikidex: write segment file %s: %w", path, err)
	}
	return nil
}

func writeTitleFile(path string, titles []string, baseDocID int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wikidex: create title file %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, title := range titles {
		fmt.Fprintf(w, "%d: %s\n", baseDocID+i, title)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("wikidex: write title file %s: %w", path, err)
	}
	return nil
}

// Len reports the number of pages folded into this segment.
func (s *Segment) Len() int {
	return len(s.titles)
}
