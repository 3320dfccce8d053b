package htmlutil

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("osmosis-chef.lib.htmlutil")

// GetText returns the concatenated text content of a node, with <br>
// elements turned into newlines.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	if node.Type == html.ElementNode && node.Data == "br" {
		buffer.WriteString("\n")
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`[ \t]+`)
var innerLineBreaks = regexp.MustCompile(`[ \t]*\n\s*`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || c == '\n' || c == '\t' {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText normalizes the visible text of a selection: non-printable
// runes dropped, runs of spaces collapsed, internal line breaks collapsed
// to single newlines, surrounding whitespace trimmed.
func CleanText(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, n := range sel.Nodes {
		getTextRecursive(n, &buffer)
	}
	text := removeNonPrintable(buffer.String())
	text = innerWhitespace.ReplaceAllString(text, " ")
	text = innerLineBreaks.ReplaceAllString(text, "\n")
	return strings.Trim(text, " \t\n")
}

type Anchor struct {
	Name      string
	Href      string
	Thumbnail string
}

// GetAnchors extracts (name, href, thumbnail) triples from a selection of
// <a> elements, resolving each href against origin via NormalizeHref. The
// thumbnail comes from the first <img> inside the anchor, if any.
func GetAnchors(ctx context.Context, sel *goquery.Selection, origin string) []Anchor {
	ctx, span := tracer.Start(ctx, "GetAnchors")
	defer span.End()

	anchors := []Anchor{}
	sel.Each(func(_ int, a *goquery.Selection) {
		href, err := NormalizeHref(a.AttrOr("href", ""), origin)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "got error while parsing url")
			return
		}

		name := strings.ReplaceAll(CleanText(a), "\n", " ")
		thumbnail := a.Find("img").AttrOr("src", "")

		anchors = append(anchors, Anchor{
			Name:      name,
			Href:      href,
			Thumbnail: thumbnail,
		})
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("name", name),
			attribute.String("url", href),
		))
	})

	return anchors
}

// NormalizeHref resolves a possibly relative href against the site origin.
// Protocol-relative hrefs default to the insecure scheme, absolute hrefs
// pass through unchanged.
func NormalizeHref(href, origin string) (string, error) {
	if strings.HasPrefix(href, "//") {
		return "http:" + href, nil
	}

	link, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	if link.IsAbs() {
		return href, nil
	}

	base, err := url.Parse(origin)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(link).String(), nil
}

// TrailingSegment returns the last path segment of a URL, ignoring any
// trailing slash. Item and topic ids are derived from it.
func TrailingSegment(rawUrl string) string {
	link, err := url.Parse(rawUrl)
	if err != nil {
		return ""
	}
	path := strings.TrimRight(link.Path, "/")
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}
