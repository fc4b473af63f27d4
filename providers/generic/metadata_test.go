package generic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"yt-ingest/models"
)

func serve(t *testing.T, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return server
}

func sourceFor(url string) models.SourceRef {
	return models.NewSourceRef(url, models.PlatformGeneric, "")
}

func TestGetMetadataOpenGraph(t *testing.T) {
	server := serve(t, `<html><head>
		<meta property="og:title" content="A Great Video">
		<meta name="author" content="Some Channel">
		<meta property="og:description" content="0:00 Intro">
		<meta itemprop="duration" content="PT12M31S">
		<meta itemprop="datePublished" content="2024-03-01">
		<title>fallback title</title>
	</head><body></body></html>`)

	provider := NewMetadataProvider(5*time.Second, zerolog.Nop())
	metadata, err := provider.GetMetadata(context.Background(), sourceFor(server.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metadata.Title != "A Great Video" {
		t.Errorf("unexpected title: %q", metadata.Title)
	}
	if metadata.Channel != "Some Channel" {
		t.Errorf("unexpected channel: %q", metadata.Channel)
	}
	if metadata.Description != "0:00 Intro" {
		t.Errorf("unexpected description: %q", metadata.Description)
	}
	if metadata.DurationSeconds != 751 {
		t.Errorf("expected 751s duration, got %v", metadata.DurationSeconds)
	}
	if metadata.PublishedAt.IsZero() {
		t.Error("expected publish date to be parsed")
	}
}

func TestGetMetadataTitleFallback(t *testing.T) {
	server := serve(t, `<html><head>
		<title>  Plain Title Page </title>
		<meta property="og:site_name" content="Video Site">
	</head><body></body></html>`)

	provider := NewMetadataProvider(5*time.Second, zerolog.Nop())
	metadata, err := provider.GetMetadata(context.Background(), sourceFor(server.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metadata.Title != "Plain Title Page" {
		t.Errorf("unexpected title: %q", metadata.Title)
	}
	if metadata.Channel != "Video Site" {
		t.Errorf("unexpected channel: %q", metadata.Channel)
	}
}

func TestGetMetadataNoTitle(t *testing.T) {
	server := serve(t, `<html><head></head><body>no metadata here</body></html>`)

	provider := NewMetadataProvider(5*time.Second, zerolog.Nop())
	if _, err := provider.GetMetadata(context.Background(), sourceFor(server.URL)); err == nil {
		t.Error("expected error for page without title")
	}
}

func TestGetMetadataHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	provider := NewMetadataProvider(5*time.Second, zerolog.Nop())
	if _, err := provider.GetMetadata(context.Background(), sourceFor(server.URL)); err == nil {
		t.Error("expected error for non-200 response")
	}
}
