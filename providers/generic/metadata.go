package generic

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"yt-ingest/models"
	"yt-ingest/utils"
)

const pageLimit = 4 * 1024 * 1024

// MetadataProvider scrapes Open Graph and schema.org markup straight off
// the page. It is the fallback when no structured API is reachable: coarser
// data, but it works for any platform without credentials.
type MetadataProvider struct {
	client *http.Client
	logger zerolog.Logger
}

func NewMetadataProvider(timeout time.Duration, logger zerolog.Logger) *MetadataProvider {
	return &MetadataProvider{
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("provider", "generic_scrape").Logger(),
	}
}

func (p *MetadataProvider) Name() string { return "generic_scrape" }

func (p *MetadataProvider) Available() bool { return true }

func (p *MetadataProvider) GetMetadata(ctx context.Context, source models.SourceRef) (*models.Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build page request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; yt-ingest/1.0)")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch page")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("page status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, pageLimit))
	if err != nil {
		return nil, errors.Wrap(err, "parse page")
	}

	metadata := &models.Metadata{
		Title:       metaContent(doc, `meta[property="og:title"]`),
		Channel:     metaContent(doc, `meta[name="author"]`),
		Description: metaContent(doc, `meta[property="og:description"]`),
	}

	if metadata.Title == "" {
		metadata.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if metadata.Channel == "" {
		metadata.Channel = metaContent(doc, `meta[property="og:site_name"]`)
	}
	if metadata.Title == "" {
		return nil, errors.New("page has no usable title")
	}

	if raw := metaContent(doc, `meta[itemprop="duration"]`); raw != "" {
		if duration, err := utils.ParseISO8601Duration(raw); err == nil {
			metadata.DurationSeconds = duration
		}
	}
	if raw := metaContent(doc, `meta[itemprop="datePublished"]`); raw != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if published, err := time.Parse(layout, raw); err == nil {
				metadata.PublishedAt = published
				break
			}
		}
	}

	p.logger.Debug().
		Str("url", utils.TruncateString(source.URL, 80)).
		Str("title", utils.TruncateString(metadata.Title, 50)).
		Msg("Resolved metadata via page scrape")

	return metadata, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}
