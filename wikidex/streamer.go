package wikidex

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/klauspost/pgzip"
)

// xmlPage is the SAX-target for one <page> element. Only title and text
// are consumed; any other child elements a real dump carries (id, ns,
// revision metadata, ...) are ignored by encoding/xml's decoder.
type xmlPage struct {
	Title string `xml:"title"`
	Text  string `xml:"text"`
}

// BuildResult summarizes a completed build run.
type BuildResult struct {
	NumPages   int
	NumBatches int
}

func openDump(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wikidex: open dump %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := pgzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("wikidex: open gzip dump %s: %w", path, err)
	}
	return &gzipReadCloser{gz, f}, nil
}

// gzipReadCloser closes both the pgzip reader and the underlying file.
type gzipReadCloser struct {
	*pgzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Close() error {
	g.Reader.Close()
	return g.file.Close()
}

// indexJob is one dispatched batch awaiting (or undergoing) indexing.
type indexJob struct {
	pages []Page
	idx   int
}

// Build runs Stage A: it streams xmlPath's <page> elements, groups them
// into batches of batchSize (the configured BatchSize() if <= 0), and dispatches
// each batch to a single indexing worker over a channel buffered to
// ChanDepth. The buffer lets the XML decoder read up to ChanDepth
// batches ahead while the worker is still busy on an earlier one, but
// the worker itself drains the channel strictly in order, so batch k+1
// is never indexed until batch k has fully returned and flushed its
// segment and title files into dir.
func Build(xmlPath, dir string, n *Normalizer, batchSize int) (BuildResult, error) {
	if batchSize <= 0 {
		batchSize = BatchSize()
	}

	rc, err := openDump(xmlPath)
	if err != nil {
		return BuildResult{}, err
	}
	defer rc.Close()

	dec := xml.NewDecoder(bufio.NewReaderSize(rc, 1<<20))

	printer := message.NewPrinter(language.English)

	jobs := make(chan indexJob, ChanDepth())
	errc := make(chan error, 1)

	go func() {
		var workErr error
		for j := range jobs {
			if workErr != nil {
				continue // drain without indexing once a batch has failed
			}
			if err := indexBatch(dir, n, j.pages, j.idx); err != nil {
				workErr = err
			}
		}
		errc <- workErr
	}()

	abort := func(err error) (BuildResult, error) {
		close(jobs)
		<-errc
		return BuildResult{}, err
	}

	var (
		docID    int
		batch    []Page
		batchIdx int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return abort(fmt.Errorf("wikidex: malformed XML in %s: %w", xmlPath, err))
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "page" {
			continue
		}

		var xp xmlPage
		if err := dec.DecodeElement(&xp, &start); err != nil {
			return abort(fmt.Errorf("wikidex: malformed page element in %s: %w", xmlPath, err))
		}

		docID++
		batch = append(batch, Page{DocID: docID, Title: xp.Title, Body: xp.Text})

		if len(batch) == batchSize {
			jobs <- indexJob{batch, batchIdx}
			batch = nil
			batchIdx++
			fmt.Fprintf(os.Stderr, "%s[wikidex]: indexed %s pages%s\n", BLUE, printer.Sprintf("%d", docID), INIT)
		}
	}

	if len(batch) > 0 {
		jobs <- indexJob{batch, batchIdx}
		batchIdx++
	}
	close(jobs)

	if err := <-errc; err != nil {
		return BuildResult{}, err
	}

	return BuildResult{NumPages: docID, NumBatches: batchIdx}, nil
}

func indexBatch(dir string, n *Normalizer, pages []Page, idx int) error {
	seg := NewSegment()
	for _, p := range pages {
		seg.AddPage(n, p.DocID, p.Title, p.Body)
	}
	return seg.Flush(dir, idx, pages[0].DocID)
}
