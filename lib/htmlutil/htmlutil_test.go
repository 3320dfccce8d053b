package htmlutil

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHref(t *testing.T) {
	testCases := []struct {
		href     string
		origin   string
		expected string
	}{
		{"//x.com/a", "https://open.osmosis.org", "http://x.com/a"},
		{"/topics/5", "https://open.osmosis.org", "https://open.osmosis.org/topics/5"},
		{"https://open.osmosis.org/item/9", "https://open.osmosis.org", "https://open.osmosis.org/item/9"},
		{"item/9", "https://open.osmosis.org/topics/", "https://open.osmosis.org/topics/item/9"},
	}

	for _, test := range testCases {
		got, err := NormalizeHref(test.href, test.origin)
		require.NoError(t, err)
		require.Equal(t, test.expected, got)
	}
}

func TestTrailingSegment(t *testing.T) {
	require.Equal(t, "9", TrailingSegment("https://open.osmosis.org/item/9"))
	require.Equal(t, "abc-123", TrailingSegment("https://open.osmosis.org/item/abc-123/"))
	require.Equal(t, "", TrailingSegment("https://open.osmosis.org/"))
}

func TestCleanText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div>  hello <b>world</b><br>   second	part  </div>`,
	))
	require.NoError(t, err)

	// the <br> becomes a line break, the tab collapses into one space
	require.Equal(t, "hello world\nsecond part", CleanText(doc.Find("div")))
}

func TestGetAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<ul>
			<li><a href="/topics/genetics"><img src="https://cdn.test/genetics.png"> Genetics </a></li>
			<li><a href="//cdn.test/anesthesiology">Anesthesiology</a></li>
		</ul>
	`))
	require.NoError(t, err)

	anchors := GetAnchors(context.Background(), doc.Find("a"), "https://open.osmosis.org")
	require.Equal(t, []Anchor{
		{
			Name:      "Genetics",
			Href:      "https://open.osmosis.org/topics/genetics",
			Thumbnail: "https://cdn.test/genetics.png",
		},
		{
			Name: "Anesthesiology",
			Href: "http://cdn.test/anesthesiology",
		},
	}, anchors)
}
