package youtube

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// Video mirrors one entry of the catalog dump.
type Video struct {
	Id          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	WebpageUrl  string `json:"webpage_url"`
	// Subtitles is keyed by language code; the per-language payload is
	// opaque here, reconciling codes happens downstream.
	Subtitles map[string]json.RawMessage `json:"subtitles"`
}

// SubtitleLanguages returns the video's subtitle language codes in a
// stable order.
func (v Video) SubtitleLanguages() []string {
	languages := make([]string, 0, len(v.Subtitles))
	for lang := range v.Subtitles {
		languages = append(languages, lang)
	}
	sort.Strings(languages)
	return languages
}

// Playlist is one playlist of the channel, with its videos in catalog
// order.
type Playlist struct {
	Id         string  `json:"id"`
	Title      string  `json:"title"`
	WebpageUrl string  `json:"webpage_url"`
	Entries    []Video `json:"entries"`
}

type channelDump struct {
	Entries []Playlist `json:"entries"`
}

const maxTitleChars = 190

// TruncateTitle caps a title at the packaging limit, marking the cut.
func TruncateTitle(title string) string {
	if len(title) > maxTitleChars {
		return title[:maxTitleChars] + " ..."
	}
	return title
}

var subscribeBoilerplate = regexp.MustCompile(`Subscribe - .*$`)

// CleanDescription keeps the first line of a video description and strips
// the channel's trailing "Subscribe - ..." boilerplate.
func CleanDescription(description string) string {
	lines := strings.SplitN(description, "\n", 2)
	return subscribeBoilerplate.ReplaceAllString(lines[0], "")
}
