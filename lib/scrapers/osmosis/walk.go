package osmosis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"osmosis-chef/lib/contenttree"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const defaultMaxAttempts = 4

// Walker drives sequential navigation through a topic's next-link chain.
// Each page depends on the navigation state of the previous one, so there
// is exactly one walk in flight per renderer session.
type Walker struct {
	Renderer Renderer
	// MaxAttempts bounds extraction attempts per page before the degraded
	// pass. Defaults to 4.
	MaxAttempts int
	// Sleep is a seam for tests; nil means time.Sleep.
	Sleep func(time.Duration)
}

func (w Walker) maxAttempts() int {
	if w.MaxAttempts > 0 {
		return w.MaxAttempts
	}
	return defaultMaxAttempts
}

func (w Walker) sleep(d time.Duration) {
	if w.Sleep != nil {
		w.Sleep(d)
		return
	}
	time.Sleep(d)
}

// Walk emits every assessment item reachable from startUrl, in chain
// order, and returns the emitted count. On a page that stays broken after
// retries and the degraded pass, it returns the count of items emitted so
// far together with the error; items already emitted stay valid.
func (w Walker) Walk(ctx context.Context, startUrl string, emit func(contenttree.AssessmentItem)) (int, error) {
	ctx, span := tracer.Start(ctx, "Walker:Walk")
	defer span.End()
	span.SetAttributes(attribute.String("start_url", startUrl))

	count := 0
	current := startUrl
	for current != "" {
		item, next, err := w.extractItem(ctx, current)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "walk aborted")
			return count, fmt.Errorf("after item %d at %s: %w", count, current, err)
		}

		slog.Debug("extracted item", "id", item.Id, "index", count+1, "url", current)
		emit(item)
		count++
		current = next
	}

	span.SetAttributes(attribute.Int("items", count))
	return count, nil
}

// extractItem renders and parses one page, retrying recoverable faults
// with exponential backoff, then once more in degraded mode. The degraded
// pass tolerates missing images but still surfaces structural faults.
func (w Walker) extractItem(ctx context.Context, pageUrl string) (contenttree.AssessmentItem, string, error) {
	var lastErr error

	for attempt := 0; attempt < w.maxAttempts(); attempt++ {
		if attempt > 0 {
			shift := attempt - 1
			if shift > 3 {
				shift = 3
			}
			backoff := time.Duration(1<<shift) * time.Second
			slog.Debug("retrying extraction",
				"url", pageUrl, "attempt", attempt, "backoff", backoff, "err", lastErr)
			w.sleep(backoff)
		}

		item, next, err := w.renderAndParse(ctx, pageUrl, false)
		if err == nil {
			return item, next, nil
		}
		if !retryable(err) {
			return contenttree.AssessmentItem{}, "", err
		}
		lastErr = err
	}

	slog.Warn("extraction kept failing, falling back to degraded mode",
		"url", pageUrl, "err", lastErr)
	return w.renderAndParse(ctx, pageUrl, true)
}

func (w Walker) renderAndParse(ctx context.Context, pageUrl string, skipMissingImages bool) (contenttree.AssessmentItem, string, error) {
	page, err := w.Renderer.Render(ctx, pageUrl)
	if err != nil {
		return contenttree.AssessmentItem{}, "", err
	}
	return ParseQuestion(page, skipMissingImages)
}
