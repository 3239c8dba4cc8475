package extract

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Article is the extracted main content of a page.
type Article struct {
	Title string
	Text  string
}

// ErrNoArticle is returned when the readability heuristic cannot find any
// article body in the document. Callers map it to a non-zero exit.
var ErrNoArticle = errors.New("no article content found")

// minTextLength guards against pages where the heuristic latches onto a
// stray fragment; anything shorter is not an article.
const minTextLength = 100

// FromHTML runs the readability heuristic over already-sanitized HTML and
// returns the best-guess title and main text. pageURL is used by the
// heuristic to resolve relative references and recognize the site.
func FromHTML(input string, pageURL *url.URL) (Article, error) {
	art, err := readability.FromReader(strings.NewReader(input), pageURL)
	if err != nil {
		// The heuristic failing to parse means no discernible article.
		return Article{}, fmt.Errorf("%w (%v)", ErrNoArticle, err)
	}

	text := normalizeWhitespace(art.TextContent)
	if len(text) < minTextLength {
		return Article{}, ErrNoArticle
	}

	title := strings.TrimSpace(art.Title)
	if title == "" {
		title = findTitle(input)
	}

	return Article{Title: title, Text: text}, nil
}

// findTitle walks the raw document for <head><title> as a fallback when the
// heuristic does not surface a title of its own.
func findTitle(input string) string {
	node, err := html.Parse(strings.NewReader(input))
	if err != nil || node == nil {
		return ""
	}
	head := findFirst(node, "head")
	if head == nil {
		return ""
	}
	t := findFirst(head, "title")
	if t == nil || t.FirstChild == nil {
		return ""
	}
	return strings.TrimSpace(t.FirstChild.Data)
}

func findFirst(n *html.Node, tag string) *html.Node {
	var res *html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if res != nil {
			return
		}
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) {
			res = cur
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
			if res != nil {
				return
			}
		}
	}
	dfs(n)
	return res
}

// normalizeWhitespace collapses runs of spaces within lines and drops runs of
// blank lines, then NFC-normalizes the result so equal-looking text compares
// equal regardless of the source encoding quirks.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, ln := range lines {
		fields := strings.Fields(ln)
		if len(fields) == 0 {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, strings.Join(fields, " "))
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return norm.NFC.String(strings.Join(out, "\n"))
}
