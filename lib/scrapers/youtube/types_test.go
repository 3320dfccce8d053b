package youtube

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncateTitle(t *testing.T) {
	require.Equal(t, "short title", TruncateTitle("short title"))

	long := strings.Repeat("x", 250)
	truncated := TruncateTitle(long)
	require.Equal(t, strings.Repeat("x", 190)+" ...", truncated)
}

func TestCleanDescription(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{
			"What is Down syndrome? Subscribe - http://example.test/sub",
			"What is Down syndrome? ",
		},
		{
			"First line only.\nSecond line is dropped.\nThird too.",
			"First line only.",
		},
		{
			"No boilerplate here.",
			"No boilerplate here.",
		},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, CleanDescription(test.in))
	}
}

func TestChannelDumpDecoding(t *testing.T) {
	payload := `{
		"entries": [{
			"id": "PL123",
			"title": "Genetics pathology",
			"webpage_url": "https://video.test/playlist/PL123",
			"entries": [{
				"id": "v1",
				"title": "Trisomy 21",
				"description": "What is trisomy 21?\nMore text.",
				"webpage_url": "https://video.test/watch/v1",
				"subtitles": {"en": [], "es": [], "de": []}
			}]
		}]
	}`

	var dump channelDump
	require.NoError(t, json.Unmarshal([]byte(payload), &dump))
	require.Len(t, dump.Entries, 1)

	playlist := dump.Entries[0]
	require.Equal(t, "Genetics pathology", playlist.Title)
	require.Len(t, playlist.Entries, 1)
	require.Equal(t, []string{"de", "en", "es"}, playlist.Entries[0].SubtitleLanguages())
}
