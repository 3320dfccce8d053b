package osmosis

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func fragment(t testing.TB, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc.Find("div.fragment")
}

func TestExtractMarkdown(t *testing.T) {
	sel := fragment(t, `<div class="fragment">
		<p>A 24-year-old man comes to the clinic.</p>
		<p class="bold">Which of the following is most likely?</p>
		<div>
			<div class="image-block">
				<img src="https://cdn.test/karyotype.png">
				<div class="caption">Karyotype of the patient</div>
			</div>
		</div>
	</div>`)

	md, err := ExtractMarkdown(sel, false)
	require.NoError(t, err)
	require.Equal(t,
		"A 24-year-old man comes to the clinic.\n\n"+
			"**Which of the following is most likely?**\n\n"+
			"![Karyotype of the patient](https://cdn.test/karyotype.png)\n\n"+
			"Karyotype of the patient",
		md,
	)
}

func TestExtractMarkdownMissingImage(t *testing.T) {
	html := `<div class="fragment">
		<p>Stem text.</p>
		<div><div class="image-block"><div class="caption">lost figure</div></div></div>
	</div>`

	_, err := ExtractMarkdown(fragment(t, html), false)
	require.ErrorIs(t, err, ErrMalformedContent)

	md, err := ExtractMarkdown(fragment(t, html), true)
	require.NoError(t, err)
	require.Equal(t, "Stem text.", md)
}

func TestExtractMarkdownAmbiguousImages(t *testing.T) {
	sel := fragment(t, `<div class="fragment">
		<div>
			<div class="image-block">
				<img src="https://cdn.test/a.png">
				<img src="https://cdn.test/b.png">
			</div>
		</div>
	</div>`)

	_, err := ExtractMarkdown(sel, false)
	require.ErrorIs(t, err, ErrMalformedContent)
}

// re-extracting already-normalized output (treated as plain text) should
// be a fixpoint modulo blank lines
func TestExtractMarkdownIdempotent(t *testing.T) {
	sel := fragment(t, `<div class="fragment">
		<p>First   paragraph
		with a wrapped line.</p>
		<p>Second paragraph.</p>
	</div>`)

	md, err := ExtractMarkdown(sel, false)
	require.NoError(t, err)

	again := fragment(t, "<div class=\"fragment\"><p>"+
		strings.ReplaceAll(md, "\n\n", "</p><p>")+
		"</p></div>")
	md2, err := ExtractMarkdown(again, false)
	require.NoError(t, err)
	require.Equal(t, md, md2)
}
