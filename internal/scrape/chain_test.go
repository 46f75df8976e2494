package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestSelectorChain_First(t *testing.T) {
	doc := parseDoc(t, `
		<div class="fallback">from fallback</div>
		<h1 class="primary">from primary</h1>
	`)

	chain := SelectorChain{".primary", ".fallback"}
	assert.Equal(t, "from primary", chain.First(doc))

	// The first selector that matches anything non-empty wins, in chain
	// order, regardless of document order.
	chain = SelectorChain{".missing", ".fallback", ".primary"}
	assert.Equal(t, "from fallback", chain.First(doc))

	assert.Equal(t, "", SelectorChain{".missing"}.First(doc))
}

func TestSelectorChain_First_SkipsEmptyMatches(t *testing.T) {
	doc := parseDoc(t, `
		<span class="empty">   </span>
		<span class="filled">2 495 000 kr</span>
	`)

	chain := SelectorChain{".empty", ".filled"}
	assert.Equal(t, "2 495 000 kr", chain.First(doc))
}

func TestSelectorChain_FirstAttr(t *testing.T) {
	doc := parseDoc(t, `
		<a rel="next" href="/page/2">next</a>
		<a class="plain">no href</a>
	`)

	chain := SelectorChain{`.plain`, `a[rel="next"]`}
	assert.Equal(t, "/page/2", chain.FirstAttr(doc, "href"))

	assert.Equal(t, "", SelectorChain{".missing"}.FirstAttr(doc, "href"))
}

func TestSelectorChain_AllAttr(t *testing.T) {
	doc := parseDoc(t, `
		<a href="/bostad/1">one</a>
		<a href="/bostad/2">two</a>
		<a href=" ">blank</a>
	`)

	got := SelectorChain{`a[href*="/bostad/"]`}.AllAttr(doc, "href")
	assert.Equal(t, []string{"/bostad/1", "/bostad/2"}, got)

	assert.Nil(t, SelectorChain{".missing"}.AllAttr(doc, "href"))
}

func TestSplitFloor(t *testing.T) {
	tests := []struct {
		in, floor, total string
	}{
		{"3 av 5", "3", "5"},
		{"3/5", "3", "5"},
		{"2", "2", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		floor, total := splitFloor(tt.in)
		assert.Equal(t, tt.floor, floor, "input %q", tt.in)
		assert.Equal(t, tt.total, total, "input %q", tt.in)
	}
}

func TestContainsAny(t *testing.T) {
	assert.True(t, containsAny("rymlig balkong i söderläge", "balkong", "terrass"))
	assert.False(t, containsAny("ingen uteplats nämnd", "hiss", "elevator"))
}
