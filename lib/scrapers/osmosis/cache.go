package osmosis

import (
	"bytes"
	"context"
	"encoding/gob"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/PuerkitoBio/purell"
	"github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var errPageNotCached = badger.ErrKeyNotFound

type cachedPage struct {
	CanonicalUrl string
	Contents     []byte

	ExpiresAt int64
}

// CachedRenderer wraps a Renderer with an on-disk page cache so an
// interrupted crawl can resume without re-rendering every page. The badger
// handle is owned by the caller; open it before the run and close it
// after.
type CachedRenderer struct {
	Inner Renderer

	db       *badger.DB
	lifetime time.Duration
}

func NewCachedRenderer(inner Renderer, db *badger.DB, lifetime time.Duration) CachedRenderer {
	return CachedRenderer{
		Inner:    inner,
		db:       db,
		lifetime: lifetime,
	}
}

func cacheKey(pageUrl string) (string, error) {
	full, err := url.Parse(pageUrl)
	if err != nil {
		return "", err
	}
	normalized := purell.NormalizeURL(
		full,
		purell.FlagsSafe|
			purell.FlagsUsuallySafeNonGreedy|
			purell.FlagRemoveDirectoryIndex|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	)
	return normalized, nil
}

func (c CachedRenderer) Render(ctx context.Context, pageUrl string) (Page, error) {
	ctx, span := tracer.Start(ctx, "CachedRenderer:Render")
	defer span.End()

	page, err := c.get(ctx, pageUrl)
	if err == nil {
		span.SetStatus(codes.Ok, "CACHE HIT")
		return page, nil
	}
	if err != errPageNotCached {
		span.RecordError(err)
	}

	page, err = c.Inner.Render(ctx, pageUrl)
	if err != nil {
		return Page{}, err
	}

	err = c.set(ctx, pageUrl, page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to cache rendered page")
	}

	return page, nil
}

func (c CachedRenderer) get(ctx context.Context, pageUrl string) (Page, error) {
	ctx, span := tracer.Start(ctx, "cache:get")
	defer span.End()

	key, err := cacheKey(pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create cache key")
		return Page{}, err
	}
	span.SetAttributes(attribute.String("cache_key", key))

	tx := c.db.NewTransaction(false)
	defer tx.Discard()
	item, err := tx.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return Page{}, errPageNotCached
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read item from badger")
		return Page{}, err
	}
	serialized, err := item.ValueCopy(nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to copy cached item")
		return Page{}, err
	}

	var cached cachedPage
	err = gob.NewDecoder(bytes.NewBuffer(serialized)).Decode(&cached)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to deserialize cached item")
		return Page{}, err
	}

	if time.Now().Unix() >= cached.ExpiresAt {
		tx := c.db.NewTransaction(true)
		defer tx.Commit()

		err = tx.Delete([]byte(key))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to delete expired key")
		}
		span.SetStatus(codes.Ok, "CACHE EXPIRED")
		return Page{}, errPageNotCached
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(cached.Contents))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse cached html")
		return Page{}, errPageNotCached
	}

	return Page{URL: cached.CanonicalUrl, Doc: doc}, nil
}

func (c CachedRenderer) set(ctx context.Context, pageUrl string, page Page) error {
	ctx, span := tracer.Start(ctx, "cache:set")
	defer span.End()

	key, err := cacheKey(pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create cache key")
		return err
	}
	span.SetAttributes(attribute.String("cache_key", key))

	contents, err := page.Doc.Html()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize page html")
		return err
	}

	serialized := bytes.NewBuffer(nil)
	err = gob.NewEncoder(serialized).Encode(cachedPage{
		CanonicalUrl: page.URL,
		Contents:     []byte(contents),
		ExpiresAt:    time.Now().Add(c.lifetime).Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize page")
		return err
	}

	tx := c.db.NewTransaction(true)
	defer tx.Commit()

	err = tx.Set([]byte(key), serialized.Bytes())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set badger item")
		return err
	}

	return nil
}
