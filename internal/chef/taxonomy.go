package chef

import (
	"fmt"
	"sort"

	"osmosis-chef/lib/contenttree"

	"github.com/antzucaro/matchr"
)

// TopicMapping links an assessment-site topic name to the title of its
// video-playlist counterpart. An empty Playlist means the topic has no
// counterpart and stays unmerged. The table is an ordered pair list on
// purpose: the two sites disagree on naming and several topics share no
// counterpart at all, so keying a map on either side would collide.
type TopicMapping struct {
	Assessment string
	Playlist   string
}

var topicMappings = []TopicMapping{
	{"Anesthesiology", ""},
	{"Biochemistry and Nutrition", "Biochemistry"},
	{"Cardiology", "Cardiovascular pathology"},
	{"Dermatology", "Integumentary system pathology"},
	{"Emergency Medicine", ""},
	{"Endocrinology", "Endocrine pathology"},
	{"Gastroenterology", "Gastrointestinal pathology"},
	{"Genetics", "Genetics pathology"},
	{"Hematology", "Hematologic pathology"},
	{"Immunology", "Immune system pathology"},
	{"Infectious Disease", "Infectious disease pathology"},
	{"Nephrology", "Renal pathology"},
	{"Neurology", "Neurologic pathology"},
	{"Obstetrics and Gynecology", "Reproductive system pathology"},
	{"Ophthalmology", ""},
	{"Psychiatry", "Behavioral sciences"},
	{"Pulmonology", "Respiratory pathology"},
	{"Rheumatology", "Musculoskeletal pathology"},
}

func playlistNameFor(assessmentName string) string {
	for _, mapping := range topicMappings {
		if mapping.Assessment == assessmentName {
			return mapping.Playlist
		}
	}
	return ""
}

// resolveTopic selects or creates the container for an assessment topic.
// When the mapping table names a playlist that was actually harvested,
// the playlist's topic node is reused: it keeps its videos but takes the
// assessment topic's id, a composite title and the assessment thumbnail.
// The returned bool reports whether such a merge happened; an unmerged
// topic is freshly constructed and not yet attached anywhere.
func resolveTopic(
	name, id, thumbnail string,
	topicsByPlaylistTitle map[string]*contenttree.Topic,
) (*contenttree.Topic, bool) {
	playlistTitle := playlistNameFor(name)
	if playlistTitle != "" {
		topic, ok := topicsByPlaylistTitle[playlistTitle]
		if ok {
			topic.Id = id
			topic.Title = fmt.Sprintf("%s (%s)", name, playlistTitle)
			topic.Thumbnail = thumbnail
			return topic, true
		}
	}

	return &contenttree.Topic{
		Id:        id,
		Title:     name,
		Thumbnail: thumbnail,
	}, false
}

// Suggestion is a near-miss candidate pairing for the mapping table.
type Suggestion struct {
	Assessment  string
	Playlist    string
	Correlation float64
}

// SuggestPlaylists pairs every unmapped assessment topic with its most
// similar playlist title, sorted by descending correlation. Maintaining
// the mapping table is manual work; this narrows the search.
func SuggestPlaylists(assessmentNames, playlistTitles []string) []Suggestion {
	var suggestions []Suggestion
	for _, name := range assessmentNames {
		if playlistNameFor(name) != "" {
			continue
		}

		var mostSimilarity float64
		var mostSimilar string
		for _, title := range playlistTitles {
			similarity := matchr.JaroWinkler(name, title, false)
			if similarity > mostSimilarity {
				mostSimilarity = similarity
				mostSimilar = title
			}
		}
		if mostSimilar != "" {
			suggestions = append(suggestions, Suggestion{
				Assessment:  name,
				Playlist:    mostSimilar,
				Correlation: mostSimilarity,
			})
		}
	}

	sort.Slice(suggestions, func(i, j int) bool {
		// descending, most promising first
		return suggestions[i].Correlation > suggestions[j].Correlation
	})
	return suggestions
}
