package wikidex

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Engine owns the on-disk artifacts of a completed build+merge and answers
// ranked queries against them. It is read-only and safe for sequential
// reuse across many queries within one process; it is not safe for
// concurrent queries (spec: no search-time concurrency).
type Engine struct {
	dir        string
	totalPages int
	batchSize  int

	breakWords []string

	offsets    map[int]map[string]int64
	shardFiles map[int]*os.File
	titleCache map[int][]string
}

// OpenEngine loads breakWords.txt and prepares an Engine for totalPages
// documents indexed with the given batchSize (title-file batching).
func OpenEngine(dir string, totalPages, batchSize int) (*Engine, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "breakWords.txt"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingBreakWords, err)
	}
	var breakWords []string
	if len(raw) > 0 {
		breakWords = strings.Split(string(raw), "\n")
	}

	return &Engine{
		dir:        dir,
		totalPages: totalPages,
		batchSize:  batchSize,
		breakWords: breakWords,
		offsets:    make(map[int]map[string]int64),
		shardFiles: make(map[int]*os.File),
		titleCache: make(map[int][]string),
	}, nil
}

// Close releases open shard file descriptors.
func (e *Engine) Close() error {
	var firstErr error
	for _, f := range e.shardFiles {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// routeShard implements bisect_left(breakWords, word): the shard index is
// the position of the first break-word >= word. The final shard has no
// break-word entry and catches everything past the last one.
func (e *Engine) routeShard(word string) int {
	return sort.Search(len(e.breakWords), func(i int) bool {
		return e.breakWords[i] >= word
	})
}

func (e *Engine) loadOffsets(shard int) (map[string]int64, error) {
	if m, ok := e.offsets[shard]; ok {
		return m, nil
	}
	path := filepath.Join(e.dir, fmt.Sprintf("wordOffset%d.txt", shard))
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingShard, path)
	}
	if err != nil {
		return nil, fmt.Errorf("wikidex: read offset file %s: %w", path, err)
	}
	m := make(map[string]int64)
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("wikidex: decode offset file %s: %w", path, err)
	}
	e.offsets[shard] = m
	return m, nil
}

func (e *Engine) shardFile(shard int) (*os.File, error) {
	if f, ok := e.shardFiles[shard]; ok {
		return f, nil
	}
	path := filepath.Join(e.dir, fmt.Sprintf("mergedIndex%d.txt", shard))
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingShard, path)
	}
	if err != nil {
		return nil, fmt.Errorf("wikidex: open shard file %s: %w", path, err)
	}
	e.shardFiles[shard] = f
	return f, nil
}

// readPostingLine seeks to offset within f and reads up to the next '\n'.
func readPostingLine(f *os.File, offset int64) (string, error) {
	if _, err := f.Seek(offset, 0); err != nil {
		return "", fmt.Errorf("wikidex: seek shard file: %w", err)
	}
	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("wikidex: read posting at offset %d: %w", offset, err)
	}
	return strings.TrimRight(line, "\n"), nil
}

// termRequest is one normalized query term together with the set of field
// tags it is permitted to match against.
type termRequest struct {
	term    string
	allowed [numFields]bool
}

func requestsForQuery(q Query) []termRequest {
	var reqs []termRequest
	switch q.Kind {
	case Bag:
		var allowed [numFields]bool
		for i := range allowed {
			allowed[i] = true
		}
		for _, t := range q.Bag {
			reqs = append(reqs, termRequest{term: t, allowed: allowed})
		}
	case Fielded:
		for field, terms := range q.Fields {
			var allowed [numFields]bool
			allowed[field] = true
			for _, t := range terms {
				reqs = append(reqs, termRequest{term: t, allowed: allowed})
			}
		}
	}
	return reqs
}

// Search implements C7: route terms to shards, fetch postings by offset,
// score documents with field-weighted TF-IDF, and return the top K
// titles by descending score (ties broken by ascending docId).
func (e *Engine) Search(q Query, topK int) ([]string, error) {
	reqs := requestsForQuery(q)

	byShard := make(map[int][]termRequest)
	for _, r := range reqs {
		shard := e.routeShard(r.term)
		byShard[shard] = append(byShard[shard], r)
	}

	scores := make(map[int]float64)

	for shard, group := range byShard {
		offsets, err := e.loadOffsets(shard)
		if err != nil {
			return nil, err
		}
		for _, r := range group {
			offset, ok := offsets[r.term]
			if !ok {
				// Missing offset for a query term is not an error: the
				// term simply contributes no postings.
				continue
			}
			shardF, err := e.shardFile(shard)
			if err != nil {
				return nil, err
			}
			line, err := readPostingLine(shardF, offset)
			if err != nil {
				return nil, err
			}
			records := strings.Split(line, ",")
			idf := math.Log(float64(e.totalPages) / float64(len(records)))

			for _, rec := range records {
				dec, err := DecodeRecord(rec)
				if err != nil {
					return nil, err
				}
				var docScore float64
				for fld := Field(0); fld < numFields; fld++ {
					if !r.allowed[fld] || dec.Counts[fld] == 0 {
						continue
					}
					docScore += FieldWeights[fld] * (1 + math.Log(float64(dec.Counts[fld])))
				}
				if docScore == 0 {
					// The term exists on this document but only in fields
					// the query did not ask for; it is not a match and
					// must not crowd out the top K.
					continue
				}
				scores[dec.DocID] += docScore * idf
			}
		}
	}

	return e.topTitles(scores, topK)
}

type scoredDoc struct {
	docID int
	score float64
}

func (e *Engine) topTitles(scores map[int]float64, topK int) ([]string, error) {
	ranked := make([]scoredDoc, 0, len(scores))
	for id, sc := range scores {
		ranked = append(ranked, scoredDoc{id, sc})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].docID < ranked[j].docID
	})
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	titles := make([]string, 0, len(ranked))
	for _, r := range ranked {
		title, err := e.titleFor(r.docID)
		if err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, nil
}

func (e *Engine) titleFor(docID int) (string, error) {
	batch, line := BatchOf(docID, e.batchSize)
	lines, ok := e.titleCache[batch]
	if !ok {
		path := filepath.Join(e.dir, fmt.Sprintf("title%d.txt", batch))
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("wikidex: read title file %s: %w", path, err)
		}
		lines = strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
		e.titleCache[batch] = lines
	}
	if line < 0 || line >= len(lines) {
		return "", fmt.Errorf("wikidex: docId %d out of range in title batch %d", docID, batch)
	}
	sep := strings.Index(lines[line], ": ")
	if sep < 0 {
		return "", fmt.Errorf("wikidex: malformed title line %q in batch %d", lines[line], batch)
	}
	return lines[line][sep+2:], nil
}
