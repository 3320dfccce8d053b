// Package contenttree holds the channel tree assembled from the video
// catalog and the assessment site, ready for downstream packaging.
package contenttree

// AssessmentItem is a single quiz question. Immutable once constructed.
type AssessmentItem struct {
	// Id is the trailing path segment of the item's canonical URL.
	Id string
	// Question is the item stem as Markdown.
	Question string
	// Choices holds the answer options in display order. CorrectAnswer is
	// always one of them; the check happens at extraction time.
	Choices       []string
	CorrectAnswer string
	// Hints carries the combined explanation Markdown.
	Hints string
}

// ExerciseUnit is a fixed-size batch of questions. Its id is the id of its
// first item and its title encodes the item range within the topic, e.g.
// "Genetics 6-10". The final unit of a topic is retitled once the true
// last-item index is known.
type ExerciseUnit struct {
	Id    string
	Title string
	Items []AssessmentItem
}

// Video is a single catalog entry of a playlist.
type Video struct {
	Id          string
	Title       string
	Description string
	// SubtitleLanguages lists the language codes the host reports
	// subtitles for. Reconciling them against packaging language tables
	// happens downstream.
	SubtitleLanguages []string
}

// Playlist is a harvested video playlist. Topics reference playlists, they
// never own them.
type Playlist struct {
	Id     string
	Title  string
	Videos []Video
}

// Topic is one subject node of the channel. It holds exercise units in
// discovery order and, when the taxonomy matcher found a counterpart, a
// reference to the harvested playlist.
type Topic struct {
	Id        string
	Title     string
	Thumbnail string
	Exercises []*ExerciseUnit
	Playlist  *Playlist
}

// Channel is the tree root.
type Channel struct {
	SourceDomain string
	SourceId     string
	Title        string
	Thumbnail    string
	Description  string
	Language     string
	Topics       []*Topic
}

func (c *Channel) AddTopic(t *Topic) {
	c.Topics = append(c.Topics, t)
}

func (t *Topic) AddExercise(unit *ExerciseUnit) {
	t.Exercises = append(t.Exercises, unit)
}

func (u *ExerciseUnit) AddItem(item AssessmentItem) {
	u.Items = append(u.Items, item)
}
