package media

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"yt-ingest/models"
)

// Downloader fetches the best available audio stream for a URL via an
// external downloader binary (yt-dlp). Long-running; always call with a
// bounded context.
type Downloader struct {
	binPath  string
	audioDir string
	logger   zerolog.Logger
}

func NewDownloader(binPath, audioDir string, logger zerolog.Logger) *Downloader {
	return &Downloader{
		binPath:  binPath,
		audioDir: audioDir,
		logger:   logger.With().Str("provider", "audio_download").Logger(),
	}
}

// Download fetches audio for the URL and returns the local file path. The
// output name is derived from the URL hash, so repeated downloads of the
// same URL overwrite rather than accumulate.
func (d *Downloader) Download(ctx context.Context, url string) (string, error) {
	name := models.HashString(url)[:12] + ".mp3"
	outPath := filepath.Join(d.audioDir, name)

	_, err := runCommand(ctx, d.logger, d.binPath,
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", "mp3",
		"--output", outputTemplate(outPath),
		"--no-warnings",
		"--quiet",
		url,
	)
	if err != nil {
		return "", errors.Wrap(err, "audio download")
	}

	if _, err := os.Stat(outPath); err != nil {
		return "", errors.Wrap(err, "downloaded audio file missing")
	}

	d.logger.Info().Str("file", name).Msg("Audio downloaded")
	return outPath, nil
}

// yt-dlp appends the audio extension itself, so the output template is the
// path without it.
func outputTemplate(outPath string) string {
	return outPath[:len(outPath)-len(filepath.Ext(outPath))] + ".%(ext)s"
}
