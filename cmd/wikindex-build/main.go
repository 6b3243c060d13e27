// Command wikindex-build runs Stage A and Stage B: it streams a wiki-style
// XML dump into sorted per-batch segments, then k-way merges those
// segments into the final sharded inverted index.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/alohamora/Wiki-Search-Engine/wikidex"
)

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "\n%sERROR: %s%s\n\n", wikidex.RED, fmt.Sprintf(format, args...), wikidex.INIT)
	os.Exit(1)
}

func main() {
	workers := flag.Int("workers", 0, "worker count (0 = auto)")
	chanDepth := flag.Int("chan-depth", 0, "channel buffer depth (0 = auto)")
	batchSize := flag.Int("batch-size", 0, "pages per index batch (0 = default 20000)")
	shardWords := flag.Int("shard-words", 0, "unique words per merge shard (0 = default 100000)")
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		fail("usage: wikindex-build <xmlDumpPath> <indexFolder>")
	}
	xmlPath, indexFolder := args[0], args[1]

	wikidex.SetTunings(*workers, *chanDepth, *batchSize, *shardWords)
	wikidex.LogMemory()

	if err := os.MkdirAll(indexFolder, 0o755); err != nil {
		fail("create index folder: %v", err)
	}

	start := time.Now()
	green := color.New(color.FgGreen, color.Bold)

	norm := wikidex.NewNormalizer()
	buildResult, err := wikidex.Build(xmlPath, indexFolder, norm, wikidex.BatchSize())
	if err != nil {
		fail("build: %v", err)
	}
	green.Fprintf(os.Stderr, "[wikindex-build]: indexed %d pages in %d segments (%s)\n",
		buildResult.NumPages, buildResult.NumBatches, time.Since(start).Round(time.Millisecond))

	mergeResult, err := wikidex.Merge(indexFolder, buildResult.NumBatches, wikidex.ShardWords())
	if err != nil {
		fail("merge: %v", err)
	}
	green.Fprintf(os.Stderr, "[wikindex-build]: merged %d words into %d shards (%s total)\n",
		mergeResult.NumWords, mergeResult.NumShards, time.Since(start).Round(time.Millisecond))

	if err := wikidex.WriteMeta(indexFolder, wikidex.Meta{
		TotalPages: buildResult.NumPages,
		BatchSize:  wikidex.BatchSize(),
	}); err != nil {
		fail("write meta: %v", err)
	}
}
