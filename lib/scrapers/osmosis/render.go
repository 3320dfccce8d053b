package osmosis

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"osmosis-chef/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/osmosis")

// Page is a fully rendered document. URL is the canonical location after
// redirects, which is where item ids come from.
type Page struct {
	URL string
	Doc *goquery.Document
}

// Renderer navigates to a URL and returns the settled DOM. The quiz site
// is a single stateful browsing session: implementations are not safe for
// concurrent use and callers must serialize navigation.
type Renderer interface {
	Render(ctx context.Context, pageUrl string) (Page, error)
}

type HttpRendererOptions struct {
	BaseUrl string
	// SettleDelay is how long to wait after navigation before the DOM is
	// considered stable. Zero disables the wait.
	SettleDelay time.Duration
}

// HttpRenderer fetches pages over a shared resty session.
type HttpRenderer struct {
	BaseUrl *url.URL
	Http    *resty.Client

	settleDelay time.Duration
	sleep       func(time.Duration)
}

func NewHttpRenderer(opts HttpRendererOptions) (*HttpRenderer, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/osmosis/http")

	return &HttpRenderer{
		BaseUrl:     baseUrl,
		Http:        client,
		settleDelay: opts.SettleDelay,
		sleep:       time.Sleep,
	}, nil
}

func (r *HttpRenderer) Render(ctx context.Context, pageUrl string) (Page, error) {
	ctx, span := tracer.Start(ctx, "HttpRenderer:Render")
	defer span.End()
	span.SetAttributes(attribute.String("url", pageUrl))

	res, err := r.Http.R().
		SetContext(ctx).
		Get(pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return Page{}, fmt.Errorf("%w: %s: %s", ErrNavigation, pageUrl, err)
	}
	if res.StatusCode() >= 400 {
		span.SetStatus(codes.Error, res.Status())
		return Page{}, fmt.Errorf("%w: %s: %s", ErrNavigation, pageUrl, res.Status())
	}

	if r.settleDelay > 0 {
		r.sleep(r.settleDelay)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return Page{}, fmt.Errorf("%w: %s: %s", ErrNavigation, pageUrl, err)
	}

	canonical := pageUrl
	if raw := res.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		canonical = raw.Request.URL.String()
	}

	return Page{URL: canonical, Doc: doc}, nil
}
