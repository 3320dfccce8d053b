package osmosis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"osmosis-chef/lib/contenttree"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func itemPage(id, next string) string {
	nextLink := ""
	if next != "" {
		nextLink = fmt.Sprintf(`<a class="next-link" href="%s">Next</a>`, next)
	}
	return fmt.Sprintf(`<html><body>
		<div class="question-stem"><p>Stem of %s.</p></div>
		<ul class="answer-choices"><li>A</li><li>B</li></ul>
		<div class="answers-explained"><p><strong>A</strong></p></div>
		%s
	</body></html>`, id, nextLink)
}

type fakeRenderer struct {
	pages map[string]string
	// renders that fail with ErrNavigation before a url starts serving
	// its page
	failures map[string]int
	errs     map[string]error
	renders  []string
}

func (r *fakeRenderer) Render(ctx context.Context, pageUrl string) (Page, error) {
	r.renders = append(r.renders, pageUrl)

	if err := r.errs[pageUrl]; err != nil {
		return Page{}, err
	}
	if r.failures[pageUrl] > 0 {
		r.failures[pageUrl]--
		return Page{}, fmt.Errorf("%w: scripted failure", ErrNavigation)
	}

	html, ok := r.pages[pageUrl]
	if !ok {
		return Page{}, fmt.Errorf("%w: no page at %s", ErrNavigation, pageUrl)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Page{}, err
	}
	return Page{URL: pageUrl, Doc: doc}, nil
}

type sleepRecorder struct {
	slept []time.Duration
}

func (s *sleepRecorder) sleep(d time.Duration) {
	s.slept = append(s.slept, d)
}

func collectItems(emitted *[]contenttree.AssessmentItem) func(contenttree.AssessmentItem) {
	return func(item contenttree.AssessmentItem) {
		*emitted = append(*emitted, item)
	}
}

func TestWalkTermination(t *testing.T) {
	renderer := &fakeRenderer{pages: map[string]string{
		"https://x/item/a": itemPage("a", "/item/b"),
		"https://x/item/b": itemPage("b", "/item/c"),
		"https://x/item/c": itemPage("c", ""),
	}}
	sleeps := &sleepRecorder{}
	walker := Walker{Renderer: renderer, Sleep: sleeps.sleep}

	var emitted []contenttree.AssessmentItem
	count, err := walker.Walk(context.Background(), "https://x/item/a", collectItems(&emitted))
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.Empty(t, sleeps.slept)

	var ids []string
	for _, item := range emitted {
		ids = append(ids, item.Id)
	}
	require.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestWalkRetryBackoff(t *testing.T) {
	renderer := &fakeRenderer{
		pages:    map[string]string{"https://x/item/a": itemPage("a", "")},
		failures: map[string]int{"https://x/item/a": 3},
	}
	sleeps := &sleepRecorder{}
	walker := Walker{Renderer: renderer, Sleep: sleeps.sleep}

	var emitted []contenttree.AssessmentItem
	count, err := walker.Walk(context.Background(), "https://x/item/a", collectItems(&emitted))
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.Equal(t, []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second,
	}, sleeps.slept)
	// 4th attempt succeeded, no degraded pass
	require.Len(t, renderer.renders, 4)
}

func TestWalkDegradedFallback(t *testing.T) {
	// the only fault is an image block with no image, so the degraded
	// pass succeeds and drops the block
	html := `<html><body>
		<div class="question-stem">
			<p>Stem text.</p>
			<div><div class="image-block"><div class="caption">gone</div></div></div>
		</div>
		<ul class="answer-choices"><li>A</li></ul>
		<div class="answers-explained"><p><strong>A</strong></p></div>
	</body></html>`
	renderer := &fakeRenderer{pages: map[string]string{"https://x/item/a": html}}
	sleeps := &sleepRecorder{}
	walker := Walker{Renderer: renderer, Sleep: sleeps.sleep}

	var emitted []contenttree.AssessmentItem
	count, err := walker.Walk(context.Background(), "https://x/item/a", collectItems(&emitted))
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.Len(t, renderer.renders, 5)
	require.Equal(t, []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second,
	}, sleeps.slept)
	require.Equal(t, "Stem text.", emitted[0].Question)
	require.NotContains(t, emitted[0].Question, "![")
}

func TestWalkStructuralFaultAbortsTopic(t *testing.T) {
	renderer := &fakeRenderer{pages: map[string]string{
		"https://x/item/a": itemPage("a", "/item/broken"),
		"https://x/item/broken": `<html><body>
			<div class="no-stem-here"></div>
		</body></html>`,
	}}
	sleeps := &sleepRecorder{}
	walker := Walker{Renderer: renderer, Sleep: sleeps.sleep}

	var emitted []contenttree.AssessmentItem
	count, err := walker.Walk(context.Background(), "https://x/item/a", collectItems(&emitted))
	require.ErrorIs(t, err, ErrMalformedContent)
	require.Contains(t, err.Error(), "after item 1")

	// the item extracted before the failure stays emitted
	require.Equal(t, 1, count)
	require.Len(t, emitted, 1)
}

func TestWalkUnknownErrorNotRetried(t *testing.T) {
	boom := errors.New("boom")
	renderer := &fakeRenderer{
		pages: map[string]string{"https://x/item/a": itemPage("a", "")},
		errs:  map[string]error{"https://x/item/a": boom},
	}
	sleeps := &sleepRecorder{}
	walker := Walker{Renderer: renderer, Sleep: sleeps.sleep}

	_, err := walker.Walk(context.Background(), "https://x/item/a", func(contenttree.AssessmentItem) {})
	require.ErrorIs(t, err, boom)
	require.Len(t, renderer.renders, 1)
	require.Empty(t, sleeps.slept)
}
