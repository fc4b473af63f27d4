package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"yt-ingest/models"
	"yt-ingest/utils"
)

const videosAPIURL = "https://www.googleapis.com/youtube/v3/videos"

// MetadataProvider resolves video metadata through the YouTube Data API v3.
// It needs an API key; without one it reports itself unavailable and the
// orchestrator falls through to the generic provider.
type MetadataProvider struct {
	apiKey string
	client *http.Client
	logger zerolog.Logger
}

func NewMetadataProvider(apiKey string, logger zerolog.Logger) *MetadataProvider {
	return &MetadataProvider{
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger.With().Str("provider", "youtube_api").Logger(),
	}
}

func (p *MetadataProvider) Name() string { return "youtube_api" }

func (p *MetadataProvider) Available() bool { return p.apiKey != "" }

type videosResponse struct {
	Items []struct {
		Snippet struct {
			Title                string `json:"title"`
			ChannelTitle         string `json:"channelTitle"`
			Description          string `json:"description"`
			PublishedAt          string `json:"publishedAt"`
			DefaultAudioLanguage string `json:"defaultAudioLanguage"`
			DefaultLanguage      string `json:"defaultLanguage"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// GetMetadata fetches snippet and contentDetails for the video ID.
func (p *MetadataProvider) GetMetadata(ctx context.Context, source models.SourceRef) (*models.Metadata, error) {
	url := fmt.Sprintf("%s?part=snippet,contentDetails&id=%s&key=%s",
		videosAPIURL, source.VideoID, p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build videos request")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "videos request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("videos API status %d", resp.StatusCode)
	}

	var data videosResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, errors.Wrap(err, "decode videos response")
	}
	if len(data.Items) == 0 {
		return nil, errors.New("video not found")
	}

	item := data.Items[0]
	duration, err := utils.ParseISO8601Duration(item.ContentDetails.Duration)
	if err != nil {
		return nil, errors.Wrap(err, "parse duration")
	}

	language := item.Snippet.DefaultAudioLanguage
	if language == "" {
		language = item.Snippet.DefaultLanguage
	}

	metadata := &models.Metadata{
		Title:           item.Snippet.Title,
		Channel:         item.Snippet.ChannelTitle,
		DurationSeconds: duration,
		Description:     item.Snippet.Description,
		LanguageHint:    language,
	}
	if published, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
		metadata.PublishedAt = published
	}

	p.logger.Debug().
		Str("video_id", source.VideoID).
		Str("title", utils.TruncateString(metadata.Title, 50)).
		Float64("duration", duration).
		Msg("Resolved metadata via Data API")

	return metadata, nil
}
