package osmosis

import "errors"

// ErrMalformedContent marks a rendered page missing a required structural
// element, or carrying an ambiguous one. The site renders client-side and
// intermittently serves half-built DOMs, so the walker treats this as
// retryable.
var ErrMalformedContent = errors.New("malformed page content")

// ErrNavigation marks a failed render/navigation call. Retried exactly
// like ErrMalformedContent.
var ErrNavigation = errors.New("navigation failed")

func retryable(err error) bool {
	return errors.Is(err, ErrMalformedContent) || errors.Is(err, ErrNavigation)
}
