// Command wikindex-search answers ranked keyword and fielded queries
// against an index produced by wikindex-build, reading queries from
// standard input and writing result titles to standard output.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"

	"github.com/alohamora/Wiki-Search-Engine/wikidex"
)

const topK = 10

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "\n%sERROR: %s%s\n\n", wikidex.RED, fmt.Sprintf(format, args...), wikidex.INIT)
	os.Exit(1)
}

func main() {
	dumpTitles := flag.Bool("dump-titles", false, "print every docId: title pair and exit (debug)")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fail("usage: wikindex-search [-dump-titles] <indexFolder>")
	}
	indexFolder := args[0]

	meta, err := wikidex.ReadMeta(indexFolder)
	if err != nil {
		fail("%v", err)
	}

	if *dumpTitles {
		runDumpTitles(indexFolder)
		return
	}

	engine, err := wikidex.OpenEngine(indexFolder, meta.TotalPages, meta.BatchSize)
	if err != nil {
		fail("%v", err)
	}
	defer engine.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		fmt.Fprintf(os.Stderr, "\n%s[wikindex-search]: goodbye%s\n", wikidex.BLUE, wikidex.INIT)
		os.Exit(0)
	}()

	norm := wikidex.NewNormalizer()
	warn := color.New(color.FgYellow)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Println()
			continue
		}

		query := wikidex.ParseQuery(norm, line)
		titles, err := engine.Search(query, topK)
		if err != nil {
			warn.Fprintf(os.Stderr, "[wikindex-search]: %v\n", err)
			fmt.Println()
			continue
		}
		for _, title := range titles {
			fmt.Println(title)
		}
		fmt.Println()
	}
}

func runDumpTitles(indexFolder string) {
	for batch := 0; ; batch++ {
		path := fmt.Sprintf("%s/title%d.txt", indexFolder, batch)
		raw, err := os.ReadFile(path)
		if err != nil {
			break
		}
		os.Stdout.Write(raw)
	}
}
