package validation

import (
	"net/url"
	"regexp"
	"strings"

	apperrors "yt-ingest/errors"
	"yt-ingest/models"
)

// videoIDRE matches the 11-character YouTube video ID in watch, short and
// embed style URLs.
var videoIDRE = regexp.MustCompile(`(?:v=|/)([a-zA-Z0-9_-]{11})(?:[?&#/]|$)`)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateURL performs URL validation
func (v *Validator) ValidateURL(urlStr string) error {
	const op = "Validator.ValidateURL"

	if urlStr == "" {
		return apperrors.InvalidURL(op, nil, "URL is required")
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return apperrors.InvalidURL(op, err, "Invalid URL format")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return apperrors.InvalidURL(op, nil, "URL must use HTTP or HTTPS")
	}

	if parsedURL.Hostname() == "" {
		return apperrors.InvalidURL(op, nil, "URL must include a host")
	}

	return nil
}

// DetectPlatform classifies the URL's origin platform.
func (v *Validator) DetectPlatform(urlStr string) models.Platform {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return models.PlatformGeneric
	}

	host := strings.ToLower(parsedURL.Hostname())
	if strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be") {
		return models.PlatformYouTube
	}
	return models.PlatformGeneric
}

// ExtractVideoID pulls the video ID out of a YouTube URL. Empty for
// non-YouTube URLs or unrecognized shapes.
func (v *Validator) ExtractVideoID(urlStr string) string {
	if v.DetectPlatform(urlStr) != models.PlatformYouTube {
		return ""
	}
	if m := videoIDRE.FindStringSubmatch(urlStr); len(m) >= 2 {
		return m[1]
	}
	return ""
}

// SourceRef validates the URL and builds a SourceRef for it.
func (v *Validator) SourceRef(urlStr string) (models.SourceRef, error) {
	if err := v.ValidateURL(urlStr); err != nil {
		return models.SourceRef{}, err
	}

	platform := v.DetectPlatform(urlStr)
	videoID := v.ExtractVideoID(urlStr)
	if platform == models.PlatformYouTube && videoID == "" {
		const op = "Validator.SourceRef"
		return models.SourceRef{}, apperrors.InvalidURL(op, nil, "Could not extract video ID from URL")
	}

	return models.NewSourceRef(urlStr, platform, videoID), nil
}
