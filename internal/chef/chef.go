// Package chef assembles the Open Osmosis channel tree: the video
// playlists harvested first, then every assessment topic crawled
// sequentially and merged into the same tree.
package chef

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"osmosis-chef/lib/contenttree"
	"osmosis-chef/lib/htmlutil"
	"osmosis-chef/lib/scrapers/osmosis"
	"osmosis-chef/lib/scrapers/youtube"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("internal/chef")

const (
	channelSourceDomain = "open.osmosis.org"
	channelSourceId     = "open-osmosis"
	channelTitle        = "Open Osmosis"
	channelThumbnail    = "https://d3cdo0emj8d2qc.cloudfront.net/assets/f78c3f1d2be258bd84c85cb1f342e9f7343c798b.png"
	channelDescription  = "A study tool built for tomorrow's doctors and health workers."
	channelLanguage     = "en"

	topicsPath = "/topics"
)

type Options struct {
	Catalog  youtube.Catalog
	Renderer osmosis.Renderer
	// BaseUrl is the assessment site origin.
	BaseUrl string
	// Sleep overrides the walker's backoff sleeps, nil means time.Sleep.
	Sleep func(time.Duration)
}

type Chef struct {
	catalog youtube.Catalog
	walker  osmosis.Walker
	baseUrl string
}

func New(opts Options) Chef {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = "https://" + channelSourceDomain
	}
	return Chef{
		catalog: opts.Catalog,
		walker: osmosis.Walker{
			Renderer: opts.Renderer,
			Sleep:    opts.Sleep,
		},
		baseUrl: baseUrl,
	}
}

// TopicReport is the per-topic outcome of a run. A non-nil Err means the
// topic's crawl aborted after Items successful extractions; the items
// already extracted stay in the tree.
type TopicReport struct {
	Topic     string
	Items     int
	Exercises int
	Merged    bool
	Err       error
}

// BuildChannel harvests both sources and assembles the channel tree. The
// video catalog is consumed in full before any assessment crawling so the
// taxonomy matcher has every playlist at hand. Per-topic crawl failures
// are isolated into the returned reports; only collaborator-level
// failures (catalog fetch, listing page) abort the whole run.
func (c Chef) BuildChannel(ctx context.Context) (*contenttree.Channel, []TopicReport, error) {
	ctx, span := tracer.Start(ctx, "chef:BuildChannel")
	defer span.End()

	channel := &contenttree.Channel{
		SourceDomain: channelSourceDomain,
		SourceId:     channelSourceId,
		Title:        channelTitle,
		Thumbnail:    channelThumbnail,
		Description:  channelDescription,
		Language:     channelLanguage,
	}

	topicsByPlaylistTitle, err := c.harvestVideos(ctx, channel)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to harvest video catalog")
		return nil, nil, fmt.Errorf("harvest video catalog: %w", err)
	}

	reports, err := c.crawlAssessments(ctx, channel, topicsByPlaylistTitle)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to crawl assessment site")
		return channel, reports, err
	}

	return channel, reports, nil
}

func (c Chef) harvestVideos(ctx context.Context, channel *contenttree.Channel) (map[string]*contenttree.Topic, error) {
	ctx, span := tracer.Start(ctx, "chef:harvestVideos")
	defer span.End()

	playlists, err := c.catalog.Playlists(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("playlists", len(playlists)))

	topicsByPlaylistTitle := map[string]*contenttree.Topic{}
	for _, playlist := range playlists {
		slog.Info("harvested playlist",
			"title", playlist.Title, "videos", len(playlist.Entries))

		videos := make([]contenttree.Video, len(playlist.Entries))
		for i, video := range playlist.Entries {
			videos[i] = contenttree.Video{
				Id:                video.Id,
				Title:             youtube.TruncateTitle(video.Title),
				Description:       youtube.CleanDescription(video.Description),
				SubtitleLanguages: video.SubtitleLanguages(),
			}
		}

		topic := &contenttree.Topic{
			Id:    playlist.Id,
			Title: playlist.Title,
			Playlist: &contenttree.Playlist{
				Id:     playlist.Id,
				Title:  playlist.Title,
				Videos: videos,
			},
		}
		channel.AddTopic(topic)
		topicsByPlaylistTitle[playlist.Title] = topic
	}

	return topicsByPlaylistTitle, nil
}

func (c Chef) crawlAssessments(
	ctx context.Context,
	channel *contenttree.Channel,
	topicsByPlaylistTitle map[string]*contenttree.Topic,
) ([]TopicReport, error) {
	ctx, span := tracer.Start(ctx, "chef:crawlAssessments")
	defer span.End()

	listingUrl := c.baseUrl + topicsPath
	listing, err := c.walker.Renderer.Render(ctx, listingUrl)
	if err != nil {
		return nil, fmt.Errorf("render topic listing: %w", err)
	}

	links := osmosis.ListTopics(ctx, listing.Doc, c.baseUrl)
	span.SetAttributes(attribute.Int("topics", len(links)))
	if len(links) == 0 {
		slog.Warn("no topic links found on listing page", "url", listingUrl)
	}

	var reports []TopicReport
	for _, link := range links {
		reports = append(reports, c.crawlTopic(ctx, channel, topicsByPlaylistTitle, link))
	}
	return reports, nil
}

// crawlTopic walks one topic's item chain. Failures abort this topic only;
// the caller moves on to the next one.
func (c Chef) crawlTopic(
	ctx context.Context,
	channel *contenttree.Channel,
	topicsByPlaylistTitle map[string]*contenttree.Topic,
	link htmlutil.Anchor,
) TopicReport {
	ctx, span := tracer.Start(ctx, "chef:crawlTopic")
	defer span.End()
	span.SetAttributes(attribute.String("topic", link.Name))

	slog.Info("crawling topic", "name", link.Name, "url", link.Href)

	topicId := htmlutil.TrailingSegment(link.Href)
	topic, merged := resolveTopic(link.Name, topicId, link.Thumbnail, topicsByPlaylistTitle)
	if merged {
		slog.Info("merged topic with video playlist", "title", topic.Title)
	} else {
		c.suggestMapping(link.Name, topicsByPlaylistTitle)
		channel.AddTopic(topic)
	}

	grouper := newExerciseGrouper(topic, link.Name)
	count, err := c.walker.Walk(ctx, link.Href, grouper.Accept)
	grouper.Finish()

	report := TopicReport{
		Topic:     link.Name,
		Items:     count,
		Exercises: len(topic.Exercises),
		Merged:    merged,
		Err:       err,
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "topic crawl aborted")
		slog.Error("topic crawl aborted",
			"name", link.Name, "extracted_items", count, "err", err)
		return report
	}

	slog.Info("finished topic",
		"name", link.Name, "items", count, "exercises", len(topic.Exercises))
	return report
}

func (c Chef) suggestMapping(name string, topicsByPlaylistTitle map[string]*contenttree.Topic) {
	titles := make([]string, 0, len(topicsByPlaylistTitle))
	for title := range topicsByPlaylistTitle {
		titles = append(titles, title)
	}
	for _, s := range SuggestPlaylists([]string{name}, titles) {
		slog.Debug("unmapped topic has a similar playlist",
			"topic", s.Assessment, "playlist", s.Playlist, "correlation", s.Correlation)
	}
}
