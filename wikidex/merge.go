package wikidex

import (
	"bufio"
	"container/heap"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// wordHeap is a min-heap of words, used to pick the lexicographically
// smallest pending word on each merge tick without rescanning the whole
// pending set.
type wordHeap []string

func (h wordHeap) Len() int            { return len(h) }
func (h wordHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h wordHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *wordHeap) Push(x interface{}) { *h = append(*h, x.(string)) }
func (h *wordHeap) Pop() interface{} {
	old := *h
	n := len(old)
	word := old[n-1]
	*h = old[:n-1]
	return word
}

type segmentFile struct {
	idx    int
	path   string
	file   *os.File
	reader *bufio.Reader
	open   bool
}

func openSegment(dir string, idx int) (*segmentFile, error) {
	path := filepath.Join(dir, fmt.Sprintf("index%d.txt", idx))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wikidex: open segment %s: %w", path, err)
	}
	return &segmentFile{idx: idx, path: path, file: f, reader: bufio.NewReaderSize(f, 1<<16), open: true}, nil
}

// readLine returns the next "word: [frag]" line with its trailing newline
// stripped, or done=true when the segment is exhausted. Any read error
// other than io.EOF is returned as err.
func (s *segmentFile) readLine() (line string, done bool, err error) {
	line, err = s.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", false, fmt.Errorf("wikidex: read segment %s: %w", s.path, err)
	}
	if len(line) == 0 {
		return "", true, nil
	}
	// A last line with no trailing newline is returned as is.
	return strings.TrimRight(line, "\n"), false, nil
}

func (s *segmentFile) close() error {
	s.open = false
	if err := s.file.Close(); err != nil {
		return err
	}
	return os.Remove(s.path)
}

// parseSegmentLine splits a segment line "word: [rec1,rec2,...]" into the
// word and its bracket-stripped postings fragment. It is the one place
// ErrCorruptSegment is raised.
func parseSegmentLine(path, line string) (word, frag string, err error) {
	sep := strings.Index(line, ": ")
	if sep < 0 {
		return "", "", fmt.Errorf("%w: %s: %q missing \": \" separator", ErrCorruptSegment, path, line)
	}
	word = line[:sep]
	rest := line[sep+2:]
	if len(rest) < 2 || rest[0] != '[' || rest[len(rest)-1] != ']' {
		return "", "", fmt.Errorf("%w: %s: %q missing brackets", ErrCorruptSegment, path, line)
	}
	frag = rest[1 : len(rest)-1]
	return word, frag, nil
}

// MergeResult summarizes a completed merge run.
type MergeResult struct {
	NumShards int
	NumWords  int
}

// Merge runs Stage B: it opens every index{k}.txt segment file under dir
// (k = 0..numSegments-1), k-way merges them in lexicographic word order,
// and writes mergedIndex{s}.txt / wordOffset{s}.txt per shard of shardSize
// unique words (the configured ShardWords() if <= 0), plus breakWords.txt. Segment
// files are deleted as they drain.
func Merge(dir string, numSegments, shardSize int) (MergeResult, error) {
	if shardSize <= 0 {
		shardSize = ShardWords()
	}

	segments := make([]*segmentFile, numSegments)
	for i := 0; i < numSegments; i++ {
		sf, err := openSegment(dir, i)
		if err != nil {
			return MergeResult{}, err
		}
		segments[i] = sf
	}

	openCount := numSegments
	nextFiles := make([]int, numSegments)
	for i := range nextFiles {
		nextFiles[i] = i
	}

	postingsByWord := make(map[string][]string)
	filesByWord := make(map[string][]int)
	pendingSet := make(map[string]bool)
	pending := &wordHeap{}
	heap.Init(pending)

	var (
		shardLines   []string
		shardOffsets = make(map[string]int64)
		byteOffset   int64
		wordCount    int
		shardIdx     int
		breakWords   []string
	)

	printer := message.NewPrinter(language.English)

	flushShard := func() error {
		if len(shardLines) == 0 {
			return nil
		}
		if err := writeShardFiles(dir, shardIdx, shardLines, shardOffsets); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%s[wikidex]: shard %d completed, %s words merged%s\n",
			BLUE, shardIdx, printer.Sprintf("%d", wordCount), INIT)
		shardIdx++
		shardLines = nil
		shardOffsets = make(map[string]int64)
		byteOffset = 0
		return nil
	}

	for openCount > 0 || pending.Len() > 0 {
		// 1. Refill.
		for _, idx := range nextFiles {
			sf := segments[idx]
			if !sf.open {
				continue
			}
			line, done, err := sf.readLine()
			if err != nil {
				return MergeResult{}, err
			}
			if done {
				if err := sf.close(); err != nil {
					return MergeResult{}, fmt.Errorf("wikidex: remove drained segment %s: %w", sf.path, err)
				}
				openCount--
				continue
			}
			if line == "" {
				continue
			}
			word, frag, err := parseSegmentLine(sf.path, line)
			if err != nil {
				return MergeResult{}, err
			}
			// Keep a word's fragments in segment-index order, so its merged
			// postings stay in ascending docId order across batches.
			frags, files := postingsByWord[word], filesByWord[word]
			pos := len(files)
			for pos > 0 && files[pos-1] > idx {
				pos--
			}
			frags = append(frags, "")
			copy(frags[pos+1:], frags[pos:])
			frags[pos] = frag
			files = append(files, 0)
			copy(files[pos+1:], files[pos:])
			files[pos] = idx
			postingsByWord[word], filesByWord[word] = frags, files
			if !pendingSet[word] {
				pendingSet[word] = true
				heap.Push(pending, word)
			}
		}

		if pending.Len() == 0 {
			break
		}

		// 2. Emit.
		word := heap.Pop(pending).(string)
		delete(pendingSet, word)
		line := strings.Join(postingsByWord[word], ",")
		shardOffsets[word] = byteOffset
		shardLines = append(shardLines, line)
		byteOffset += int64(len(line)) + 1
		nextFiles = filesByWord[word]
		breakWordCandidate := word
		delete(postingsByWord, word)
		delete(filesByWord, word)
		wordCount++

		// 3. Rotate shard.
		if wordCount%shardSize == 0 {
			breakWords = append(breakWords, breakWordCandidate)
			if err := flushShard(); err != nil {
				return MergeResult{}, err
			}
		}
	}

	// A rotation triggered by the very last word is speculative: it does
	// not yet know whether more words follow. If none do, the shard it
	// just flushed is actually the final, open-ended shard and must not
	// get a break-word boundary after all.
	if len(shardLines) == 0 && len(breakWords) > 0 {
		breakWords = breakWords[:len(breakWords)-1]
	}

	if err := flushShard(); err != nil {
		return MergeResult{}, err
	}

	if err := writeBreakWords(dir, breakWords); err != nil {
		return MergeResult{}, err
	}

	return MergeResult{NumShards: shardIdx, NumWords: wordCount}, nil
}

func writeShardFiles(dir string, shardIdx int, lines []string, offsets map[string]int64) error {
	mergedPath := filepath.Join(dir, fmt.Sprintf("mergedIndex%d.txt", shardIdx))
	f, err := os.Create(mergedPath)
	if err != nil {
		return fmt.Errorf("wikidex: create shard file %s: %w", mergedPath, err)
	}
	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			f.Close()
			return fmt.Errorf("wikidex: write shard file %s: %w", mergedPath, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			f.Close()
			return fmt.Errorf("wikidex: write shard file %s: %w", mergedPath, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("wikidex: flush shard file %s: %w", mergedPath, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	offsetPath := filepath.Join(dir, fmt.Sprintf("wordOffset%d.txt", shardIdx))
	blob, err := json.Marshal(offsets)
	if err != nil {
		return fmt.Errorf("wikidex: encode offset map for shard %d: %w", shardIdx, err)
	}
	if err := os.WriteFile(offsetPath, blob, 0o644); err != nil {
		return fmt.Errorf("wikidex: write offset file %s: %w", offsetPath, err)
	}
	return nil
}

func writeBreakWords(dir string, breakWords []string) error {
	path := filepath.Join(dir, "breakWords.txt")
	return os.WriteFile(path, []byte(strings.Join(breakWords, "\n")), 0o644)
}
