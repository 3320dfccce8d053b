// Package youtube fetches the video half of the channel: every playlist
// of the source channel together with its video metadata, in one
// enumerated call against an extractor service speaking the youtube-dl
// dump format.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"osmosis-chef/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/youtube")

// Catalog enumerates the channel's playlists. The harvest consumes it
// once, in full, before any assessment crawling starts.
type Catalog interface {
	Playlists(ctx context.Context) ([]Playlist, error)
}

type ClientOptions struct {
	// Endpoint of the extractor service.
	Endpoint string
	// ChannelUrl is the playlists page of the source channel.
	ChannelUrl string
}

type Client struct {
	Http       *resty.Client
	channelUrl string
}

func NewClient(opts ClientOptions) *Client {
	client := resty.New()
	client.SetBaseURL(opts.Endpoint)
	// the dump call walks every playlist server-side, it is slow
	client.SetTimeout(time.Minute * 10)

	telemetry.InstrumentResty(client, "scrapers/youtube/http")

	return &Client{
		Http:       client,
		channelUrl: opts.ChannelUrl,
	}
}

func (c *Client) Playlists(ctx context.Context) ([]Playlist, error) {
	ctx, span := tracer.Start(ctx, "client:Playlists")
	defer span.End()
	span.SetAttributes(attribute.String("channel_url", c.channelUrl))

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParam("url", c.channelUrl).
		Get("/extract")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch channel dump")
		return nil, err
	}
	if res.StatusCode() >= 400 {
		span.SetStatus(codes.Error, res.Status())
		return nil, fmt.Errorf("channel dump request: %s", res.Status())
	}

	var dump channelDump
	err = json.Unmarshal(res.Body(), &dump)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to unmarshal channel dump")
		return nil, err
	}

	span.SetAttributes(attribute.Int("playlists", len(dump.Entries)))
	return dump.Entries, nil
}
