// Package normalize implements the Parser's text-normalization pipeline
// (spec.md §4.4): universal-selector text extraction followed by a
// twelve-step canonicalization sequence whose exact ordering is an
// invariant of the system.
package normalize

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractTokens parses html and returns the whitespace-delimited raw
// tokens of every element's text, in document order (spec.md §4.4 step 1-2).
//
// Grounded on original_source/src/services/page_parser.rs, which selects
// `Selector::parse("*")` (a universal selector) and flat-maps `el.text()`
// across every matched element. The teacher's own parse.go instead walks an
// HTML tokenizer looking for link/meta tags (a different grain entirely —
// it wants outlinks, not visible text), so goquery's CSS "*" selector is the
// correct grounding here, not parse.go's tokenizer loop.
func ExtractTokens(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML document: %w", err)
	}

	var tokens []string
	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		text := sel.Text()
		if text == "" {
			return
		}
		tokens = append(tokens, strings.Fields(text)...)
	})
	return tokens, nil
}
