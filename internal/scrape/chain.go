package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SelectorChain is an ordered list of CSS selector strategies for one field.
// Page markup drifts between site redesigns, so each field carries several
// candidate selectors; the first one that yields a non-empty text node wins.
type SelectorChain []string

// First returns the text of the first selector that matches a non-empty
// node, or "" when none do.
func (c SelectorChain) First(doc *goquery.Document) string {
	for _, sel := range c {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// FirstAttr returns the named attribute of the first selector that matches a
// node carrying it, or "" when none do.
func (c SelectorChain) FirstAttr(doc *goquery.Document, attr string) string {
	for _, sel := range c {
		if val, ok := doc.Find(sel).First().Attr(attr); ok && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// AllAttr collects the named attribute from every node matched by the first
// selector in the chain that matches anything.
func (c SelectorChain) AllAttr(doc *goquery.Document, attr string) []string {
	for _, sel := range c {
		nodes := doc.Find(sel)
		if nodes.Length() == 0 {
			continue
		}
		var out []string
		nodes.Each(func(_ int, s *goquery.Selection) {
			if val, ok := s.Attr(attr); ok && strings.TrimSpace(val) != "" {
				out = append(out, strings.TrimSpace(val))
			}
		})
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// pageText returns the whole document body text, lowercased, for keyword
// scans.
func pageText(doc *goquery.Document) string {
	return strings.ToLower(doc.Find("body").Text())
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
