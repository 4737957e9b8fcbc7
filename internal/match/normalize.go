package match

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Normalize prepares text for matching: markup stripped, NFKC-folded,
// lower-cased, whitespace collapsed. Taxonomy terms and evidence text go
// through the same pipeline so a match is an exact token comparison.
func Normalize(text string) string {
	text = StripMarkup(text)
	text = norm.NFKC.String(text)
	text = strings.ToLower(text)
	return strings.Join(strings.Fields(text), " ")
}

// StripMarkup extracts visible text from HTML fragments. Research summaries
// occasionally arrive with markup from CRM descriptions; plain text passes
// through untouched.
func StripMarkup(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}

	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return text
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				buf.WriteString(trimmed)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String())
}

// Tokenize splits normalized text into match tokens. Letters, digits and
// internal hyphens stay together ("800-171" is one token); everything else
// separates.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "-")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
