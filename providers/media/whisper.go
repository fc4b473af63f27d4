package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Transcriber runs a local speech-to-text binary (whisper-ctranslate2 or a
// compatible CLI) over a downloaded audio file. This is the fallback path
// when no caption track exists; it is slow and CPU-bound, so callers gate it
// behind a generous but finite context deadline.
type Transcriber struct {
	binPath string
	model   string
	logger  zerolog.Logger
}

func NewTranscriber(binPath, model string, logger zerolog.Logger) *Transcriber {
	return &Transcriber{
		binPath: binPath,
		model:   model,
		logger:  logger.With().Str("provider", "whisper").Logger(),
	}
}

// Transcribe converts the audio file to plain text. languageHint, when
// non-empty, is passed through to the model; otherwise the model
// auto-detects. The transcript is read back from the .txt file the tool
// writes next to nothing else (output_dir is the audio file's directory).
func (t *Transcriber) Transcribe(ctx context.Context, audioPath, languageHint string) (string, error) {
	outDir := filepath.Dir(audioPath)

	args := []string{
		audioPath,
		"--model", t.model,
		"--output_format", "txt",
		"--output_dir", outDir,
	}
	if languageHint != "" {
		args = append(args, "--language", languageHint)
	}

	if _, err := runCommand(ctx, t.logger, t.binPath, args...); err != nil {
		return "", errors.Wrap(err, "speech transcription")
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	txtPath := filepath.Join(outDir, base+".txt")

	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", errors.Wrap(err, "reading transcription output")
	}
	defer os.Remove(txtPath)

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", errors.New("transcription produced empty text")
	}

	t.logger.Info().Int("chars", len(text)).Msg("Audio transcribed")
	return text, nil
}
