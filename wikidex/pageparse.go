package wikidex

import (
	"regexp"
	"strings"
)

var (
	bracesPattern    = regexp.MustCompile(`\{\{.*\}\}`)
	infoboxOpen      = regexp.MustCompile(`^\{\{infobox`)
	refLine          = regexp.MustCompile(`<ref`)
	refTitleCapture  = regexp.MustCompile(`.*title[ ]*=[ ]*([^|]*).*`)
	categoryLine     = regexp.MustCompile(`^\[\[category`)
	categoryCapture  = regexp.MustCompile(`\[\[category:(.*)\]\]`)
	externalLinkLine = regexp.MustCompile(`^\*[ ]*\[`)
)

// ParsedPage holds the six WORD_ORDER token lists produced by C2 for one
// page.
type ParsedPage struct {
	Title      []string
	Body       []string
	Infobox    []string
	Categories []string
	Links      []string
	References []string
}

// Fields returns the page's six token lists in WORD_ORDER.
func (p ParsedPage) Fields() [numFields][]string {
	return [numFields][]string{
		FieldTitle:    p.Title,
		FieldBody:     p.Body,
		FieldInfobox:  p.Infobox,
		FieldCategory: p.Categories,
		FieldLink:     p.Links,
		FieldRef:      p.References,
	}
}

// ParsePage splits a page's raw title and body text into the six fixed
// fields and normalizes each through n. Text is lower-cased once up
// front; extraction of references/categories/links operates on the text
// that follows the first "==references==" marker, if any.
func ParsePage(n *Normalizer, title, body string) ParsedPage {
	lowerBody := strings.ToLower(body)
	parts := strings.SplitN(lowerBody, "==references==", 2)

	var references, links, categories []string
	if len(parts) == 2 {
		references = extractReferences(n, parts[1])
		links = extractExternalLinks(n, parts[1])
		categories = extractCategories(n, parts[1])
	}

	return ParsedPage{
		Title:      n.Normalize(strings.ToLower(title)),
		Body:       extractBody(n, parts[0]),
		Infobox:    extractInfobox(n, parts[0]),
		Categories: categories,
		Links:      links,
		References: references,
	}
}

func extractBody(n *Normalizer, text string) []string {
	stripped := bracesPattern.ReplaceAllString(text, " ")
	return n.Normalize(stripped)
}

func extractInfobox(n *Normalizer, text string) []string {
	var b strings.Builder
	started := false
	for _, line := range strings.Split(text, "\n") {
		switch {
		case infoboxOpen.MatchString(line):
			started = true
			b.WriteByte(' ')
			b.WriteString(strings.TrimPrefix(line, "{{infobox"))
		case started:
			b.WriteByte(' ')
			b.WriteString(line)
			if strings.TrimSpace(line) == "}}" {
				started = false
			}
		}
	}
	return n.Normalize(b.String())
}

func extractReferences(n *Normalizer, text string) []string {
	var refs []string
	for _, line := range strings.Split(text, "\n") {
		if refLine.MatchString(line) {
			refs = append(refs, refTitleCapture.ReplaceAllString(line, "$1"))
		}
	}
	return n.Normalize(strings.Join(refs, " "))
}

func extractCategories(n *Normalizer, text string) []string {
	var cats []string
	for _, line := range strings.Split(text, "\n") {
		if categoryLine.MatchString(line) {
			cats = append(cats, categoryCapture.ReplaceAllString(line, "$1"))
		}
	}
	return n.Normalize(strings.Join(cats, " "))
}

func extractExternalLinks(n *Normalizer, text string) []string {
	var links []string
	for _, line := range strings.Split(text, "\n") {
		if externalLinkLine.MatchString(line) {
			links = append(links, line)
		}
	}
	return n.Normalize(strings.Join(links, " "))
}
