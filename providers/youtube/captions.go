package youtube

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"yt-ingest/models"
)

const (
	watchURLPrefix = "https://www.youtube.com/watch?v="

	// playerResponseMarker marks the start of the player response JSON
	// embedded in watch page HTML.
	playerResponseMarker = "ytInitialPlayerResponse = "

	watchPageLimit   = 6 * 1024 * 1024
	captionBodyLimit = 2 * 1024 * 1024

	browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// CaptionSource lists and fetches caption tracks by scraping the watch
// page's embedded player response. Every call hits the rate-limited origin;
// the orchestrator is responsible for gating.
type CaptionSource struct {
	client *http.Client
	logger zerolog.Logger
}

func NewCaptionSource(timeout time.Duration, logger zerolog.Logger) *CaptionSource {
	return &CaptionSource{
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("provider", "youtube_captions").Logger(),
	}
}

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []struct {
				BaseURL      string `json:"baseUrl"`
				LanguageCode string `json:"languageCode"`
				Kind         string `json:"kind"` // "asr" = auto-generated
			} `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

// ListTracks scrapes the watch page and returns the available caption
// tracks.
func (s *CaptionSource) ListTracks(ctx context.Context, videoID string) ([]models.CaptionTrack, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURLPrefix+videoID, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build watch request")
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "watch page")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("watch page status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, watchPageLimit))
	if err != nil {
		return nil, errors.Wrap(err, "read watch page")
	}

	idx := strings.Index(string(body), playerResponseMarker)
	if idx < 0 {
		return nil, errors.New("player response not found in watch page")
	}

	player, err := decodePlayerResponse(body[idx+len(playerResponseMarker):])
	if err != nil {
		return nil, err
	}

	if player.Captions == nil {
		if player.PlayabilityStatus != nil && player.PlayabilityStatus.Reason != "" {
			return nil, errors.Errorf("captions unavailable: %s", player.PlayabilityStatus.Reason)
		}
		return nil, errors.New("no captions in player response")
	}

	raw := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	tracks := make([]models.CaptionTrack, 0, len(raw))
	for _, t := range raw {
		tracks = append(tracks, models.CaptionTrack{
			Lang:        t.LanguageCode,
			IsGenerated: t.Kind == "asr",
			URL:         t.BaseURL,
		})
	}

	s.logger.Debug().
		Str("video_id", videoID).
		Int("tracks", len(tracks)).
		Msg("Listed caption tracks")

	return tracks, nil
}

// Fetch downloads the caption payload for a track URL, requesting the VTT
// rendition so the payload parses as cue text.
func (s *CaptionSource) Fetch(ctx context.Context, trackURL string) ([]byte, error) {
	if !strings.Contains(trackURL, "fmt=") {
		sep := "?"
		if strings.Contains(trackURL, "?") {
			sep = "&"
		}
		trackURL += sep + "fmt=vtt"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build caption request")
	}
	req.Header.Set("User-Agent", browserUA)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch captions")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("caption fetch status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, captionBodyLimit))
	if err != nil {
		return nil, errors.Wrap(err, "read captions")
	}
	if len(body) == 0 {
		return nil, errors.New("empty caption payload")
	}

	return body, nil
}
