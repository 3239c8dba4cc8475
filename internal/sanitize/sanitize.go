// Package sanitize strips boilerplate DOM nodes before readability runs, so
// the heuristic scores only plausible content containers.
package sanitize

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// removeSelectors is the fixed set of non-content tags deleted prior to
// extraction. The list is deliberately not configurable.
var removeSelectors = []string{
	"script",
	"style",
	"noscript",
	"iframe",
	"svg",
	"form",
	"footer",
	"nav",
	"aside",
}

// Clean parses the document, removes every element matching the fixed
// selector list, and serializes the document back to HTML.
func Clean(input string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}
	doc.Find(strings.Join(removeSelectors, ", ")).Remove()
	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("serialize document: %w", err)
	}
	return out, nil
}
