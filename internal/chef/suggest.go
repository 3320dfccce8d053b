package chef

import (
	"context"
	"fmt"

	"osmosis-chef/lib/scrapers/osmosis"
)

// UnmappedSuggestions harvests both sources' names only and pairs every
// assessment topic missing from the mapping table with its most similar
// playlist title. Meant for maintaining the table when either site
// renames or adds topics.
func (c Chef) UnmappedSuggestions(ctx context.Context) ([]Suggestion, error) {
	ctx, span := tracer.Start(ctx, "chef:UnmappedSuggestions")
	defer span.End()

	playlists, err := c.catalog.Playlists(ctx)
	if err != nil {
		return nil, fmt.Errorf("harvest video catalog: %w", err)
	}
	titles := make([]string, len(playlists))
	for i, playlist := range playlists {
		titles[i] = playlist.Title
	}

	listing, err := c.walker.Renderer.Render(ctx, c.baseUrl+topicsPath)
	if err != nil {
		return nil, fmt.Errorf("render topic listing: %w", err)
	}
	var names []string
	for _, link := range osmosis.ListTopics(ctx, listing.Doc, c.baseUrl) {
		names = append(names, link.Name)
	}

	return SuggestPlaylists(names, titles), nil
}
