package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jonathan/job-scout/internal/search"
)

// noiseSelector matches elements never part of a job description.
const noiseSelector = "script, style, noscript, template, svg"

// blockText returns the visible text under sel with each text node separated
// by whitespace, so adjacent blocks do not run together.
func blockText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return search.CleanText(strings.Join(parts, " "))
}

// firstText returns the text of the first element matching selector within sel.
func firstText(sel *goquery.Selection, selector string) string {
	return blockText(sel.Find(selector).First())
}

func parseDocument(page string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(page))
}
