package osmosis

import (
	"context"
	"fmt"

	"osmosis-chef/lib/contenttree"
	"osmosis-chef/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	selQuestionStem     = "div.question-stem"
	selAnswerChoices    = "ul.answer-choices li"
	selAnswersExplained = "div.answers-explained"
	selAnswerRationale  = "div.answer-explanation"
	selMainExplanation  = "div.main-explanation"
	selNextLink         = "a.next-link"
	selTopicCard        = "a.topic-card"

	// the client router links the last item of a chain to a literal
	// "null" route
	nextSentinel = "null"
)

// ParseQuestion extracts the assessment item from a rendered question page
// along with the absolute URL of the next item in the chain, "" at the end
// of the chain. The item id is the trailing path segment of the page's
// canonical URL.
//
// A missing stem or correct-answer marker fails with ErrMalformedContent,
// which the walker treats as retryable rather than fatal.
func ParseQuestion(page Page, skipMissingImages bool) (contenttree.AssessmentItem, string, error) {
	stem := page.Doc.Find(selQuestionStem)
	if stem.Length() == 0 {
		return contenttree.AssessmentItem{}, "", fmt.Errorf(
			"%w: missing question stem on %s", ErrMalformedContent, page.URL,
		)
	}
	question, err := ExtractMarkdown(stem, skipMissingImages)
	if err != nil {
		return contenttree.AssessmentItem{}, "", err
	}

	var choices []string
	page.Doc.Find(selAnswerChoices).Each(func(_ int, li *goquery.Selection) {
		choices = append(choices, htmlutil.CleanText(li))
	})

	explained := page.Doc.Find(selAnswersExplained)
	correct := explained.Find("strong").First()
	if correct.Length() == 0 {
		return contenttree.AssessmentItem{}, "", fmt.Errorf(
			"%w: missing correct answer marker on %s", ErrMalformedContent, page.URL,
		)
	}

	hints, err := combinedHints(page, skipMissingImages)
	if err != nil {
		return contenttree.AssessmentItem{}, "", err
	}

	next, err := nextUrl(page)
	if err != nil {
		return contenttree.AssessmentItem{}, "", err
	}

	item := contenttree.AssessmentItem{
		Id:            htmlutil.TrailingSegment(page.URL),
		Question:      question,
		Choices:       choices,
		CorrectAnswer: htmlutil.CleanText(correct),
		Hints:         hints,
	}
	return item, next, nil
}

// combinedHints joins the answer-specific rationale and the general topic
// explanation under a labeled divider.
func combinedHints(page Page, skipMissingImages bool) (string, error) {
	rationale, err := ExtractMarkdown(page.Doc.Find(selAnswerRationale), skipMissingImages)
	if err != nil {
		return "", err
	}
	general, err := ExtractMarkdown(page.Doc.Find(selMainExplanation), skipMissingImages)
	if err != nil {
		return "", err
	}

	if general == "" {
		return rationale, nil
	}
	if rationale == "" {
		return general, nil
	}
	return rationale + "\n\n---\n\n**Main explanation:**\n\n" + general, nil
}

func nextUrl(page Page) (string, error) {
	href := page.Doc.Find(selNextLink).AttrOr("href", "")
	if href == "" || href == nextSentinel {
		return "", nil
	}

	next, err := htmlutil.NormalizeHref(href, page.URL)
	if err != nil {
		return "", fmt.Errorf("%w: bad next link %q: %s", ErrMalformedContent, href, err)
	}
	if htmlutil.TrailingSegment(next) == nextSentinel {
		return "", nil
	}
	return next, nil
}

// ListTopics extracts the topic links of the assessment site's listing
// page: display name, absolute href and thumbnail URL, in listing order.
func ListTopics(ctx context.Context, doc *goquery.Document, origin string) []htmlutil.Anchor {
	return htmlutil.GetAnchors(ctx, doc.Find(selTopicCard), origin)
}
