package extraction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"yt-ingest/chapters"
	"yt-ingest/chunking"
	apperrors "yt-ingest/errors"
	"yt-ingest/models"
	"yt-ingest/providers/youtube"
	"yt-ingest/repository"
	"yt-ingest/subtitles"
	"yt-ingest/validation"
)

type Repository = repository.ContentRepository

type service struct {
	repo      Repository
	validator *validation.Validator
	gate      Gate

	metadata    []MetadataProvider
	captions    CaptionSource
	downloader  AudioDownloader
	transcriber SpeechTranscriber
	store       AudioStore

	subtitleParser *subtitles.Parser
	chapterParser  *chapters.Parser
	engine         *chunking.Engine

	config Config
	logger zerolog.Logger
}

func NewService(
	repo Repository,
	validator *validation.Validator,
	gate Gate,
	metadata []MetadataProvider,
	captions CaptionSource,
	downloader AudioDownloader,
	transcriber SpeechTranscriber,
	store AudioStore,
	engine *chunking.Engine,
	config Config,
	logger zerolog.Logger,
) Service {
	return &service{
		repo:           repo,
		validator:      validator,
		gate:           gate,
		metadata:       metadata,
		captions:       captions,
		downloader:     downloader,
		transcriber:    transcriber,
		store:          store,
		subtitleParser: subtitles.NewParser(),
		chapterParser:  chapters.NewParser(),
		engine:         engine,
		config:         config,
		logger:         logger.With().Str("component", "extraction").Logger(),
	}
}

func (s *service) Extract(ctx context.Context, req models.ExtractRequest) (*models.ExtractResult, error) {
	const op = "ExtractionService.Extract"
	start := time.Now()

	source, err := s.validator.SourceRef(req.URL)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With().
		Str("url", source.URL).
		Str("platform", string(source.Platform)).
		Logger()
	logger.Info().Msg("Starting extraction")

	// Cache hit short-circuits everything, including the rate gate.
	if hit, err := s.repo.FindByURL(ctx, source.URL); err == nil {
		logger.Info().Str("content_id", hit.Content.ID).Msg("Cache hit")
		return &models.ExtractResult{
			Status:           models.StatusCached,
			ContentID:        hit.Content.ID,
			Strategy:         hit.Strategy,
			ExtractionMethod: hit.Content.ExtractionMethod,
			Metadata:         &hit.Content.Metadata,
			TranscriptLength: len(hit.Content.RawText),
			TotalChunks:      hit.ChunkCount,
			ProcessingTime:   time.Since(start).Seconds(),
		}, nil
	}

	metadata, err := s.resolveMetadata(ctx, logger, source)
	if err != nil {
		return nil, err
	}

	content, segments, err := s.resolveTranscript(ctx, logger, source, req.Language, metadata)
	if err != nil {
		return nil, err
	}

	contentID, err := s.repo.SaveContent(ctx, content)
	if err != nil {
		return nil, apperrors.Internal(op, err, "Failed to persist content")
	}

	chaps := s.chapterParser.Parse(metadata.Description)
	chunks, strategy := s.engine.SelectAndChunk(content.RawText, segments, chaps, metadata.DurationSeconds)
	for i := range chunks {
		chunks[i].ContentID = contentID
	}

	if err := s.repo.ReplaceChunks(ctx, contentID, chunks, strategy); err != nil {
		return nil, apperrors.Internal(op, err, "Failed to persist chunks")
	}

	logger.Info().
		Str("content_id", contentID).
		Str("strategy", strategy).
		Str("extraction_method", content.ExtractionMethod).
		Int("transcript_length", len(content.RawText)).
		Int("total_chunks", len(chunks)).
		Dur("elapsed", time.Since(start)).
		Msg("Extraction completed")

	return &models.ExtractResult{
		Status:           models.StatusSuccess,
		ContentID:        contentID,
		Strategy:         strategy,
		ExtractionMethod: content.ExtractionMethod,
		Metadata:         metadata,
		TranscriptLength: len(content.RawText),
		TotalChunks:      len(chunks),
		ProcessingTime:   time.Since(start).Seconds(),
	}, nil
}

func (s *service) GetContent(ctx context.Context, id string) (*models.ContentResponse, error) {
	const op = "ExtractionService.GetContent"

	if id == "" {
		return nil, apperrors.InvalidURL(op, nil, "ID is required")
	}

	content, err := s.repo.FindContent(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound(op, err, "Content not found")
	}

	chunks, err := s.repo.FindChunks(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(op, err, "Failed to load chunks")
	}

	return &models.ContentResponse{Content: content, Chunks: chunks}, nil
}

// resolveMetadata walks the provider chain in order and returns the first
// success. Every provider call counts as an origin request for rate gating,
// API-backed or not, which keeps the pacing rule simple.
func (s *service) resolveMetadata(ctx context.Context, logger zerolog.Logger, source models.SourceRef) (*models.Metadata, error) {
	const op = "ExtractionService.resolveMetadata"

	var lastErr error
	for _, provider := range s.metadata {
		if !provider.Available() {
			continue
		}

		if err := s.acquireGate(ctx, logger, "metadata:"+provider.Name()); err != nil {
			return nil, err
		}

		stageCtx, cancel := context.WithTimeout(ctx, s.config.MetadataTimeout)
		metadata, err := provider.GetMetadata(stageCtx, source)
		cancel()
		if err != nil {
			logger.Warn().Err(err).Str("provider", provider.Name()).Msg("Metadata provider failed")
			lastErr = err
			continue
		}

		logger.Info().Str("provider", provider.Name()).Str("title", metadata.Title).Msg("Metadata resolved")
		return metadata, nil
	}

	return nil, apperrors.MetadataUnavailable(op, lastErr, "All metadata providers failed")
}

// resolveTranscript tries caption tracks first, then falls back to audio
// download plus local speech-to-text. Returns the content row (unsaved) and
// the timed segments, which are nil on the transcription path.
func (s *service) resolveTranscript(
	ctx context.Context,
	logger zerolog.Logger,
	source models.SourceRef,
	language string,
	metadata *models.Metadata,
) (*models.Content, []models.TranscriptSegment, error) {
	hint := language
	if hint == "" {
		hint = metadata.LanguageHint
	}

	if segments, rawText, ok := s.tryCaptions(ctx, logger, source, hint); ok {
		content := s.newContent(source, metadata, rawText, models.MethodTranscript, "")
		return content, segments, nil
	}

	rawText, audioRef, err := s.transcribeAudio(ctx, logger, source, metadata, hint)
	if err != nil {
		return nil, nil, err
	}

	content := s.newContent(source, metadata, rawText, models.MethodWhisper, audioRef)
	return content, nil, nil
}

func (s *service) tryCaptions(ctx context.Context, logger zerolog.Logger, source models.SourceRef, hint string) ([]models.TranscriptSegment, string, bool) {
	if s.captions == nil || source.Platform != models.PlatformYouTube || source.VideoID == "" {
		return nil, "", false
	}

	if err := s.acquireGate(ctx, logger, "captions:list"); err != nil {
		return nil, "", false
	}

	stageCtx, cancel := context.WithTimeout(ctx, s.config.CaptionTimeout)
	tracks, err := s.captions.ListTracks(stageCtx, source.VideoID)
	cancel()
	if err != nil {
		logger.Warn().Err(err).Msg("Caption track listing failed")
		return nil, "", false
	}

	track, ok := youtube.PickTrack(tracks, hint, s.config.LanguagePriority)
	if !ok {
		logger.Info().Int("tracks", len(tracks)).Msg("No suitable caption track")
		return nil, "", false
	}

	if err := s.acquireGate(ctx, logger, "captions:fetch"); err != nil {
		return nil, "", false
	}

	stageCtx, cancel = context.WithTimeout(ctx, s.config.CaptionTimeout)
	payload, err := s.captions.Fetch(stageCtx, track.URL)
	cancel()
	if err != nil {
		logger.Warn().Err(err).Str("lang", track.Lang).Msg("Caption fetch failed")
		return nil, "", false
	}

	segments, rawText := s.subtitleParser.Parse(payload)
	if len(segments) == 0 || rawText == "" {
		logger.Warn().Str("lang", track.Lang).Msg("Caption track parsed to nothing")
		return nil, "", false
	}

	logger.Info().
		Str("lang", track.Lang).
		Bool("generated", track.IsGenerated).
		Int("segments", len(segments)).
		Msg("Captions resolved")
	return segments, rawText, true
}

func (s *service) transcribeAudio(
	ctx context.Context,
	logger zerolog.Logger,
	source models.SourceRef,
	metadata *models.Metadata,
	hint string,
) (string, string, error) {
	const op = "ExtractionService.transcribeAudio"

	if s.downloader == nil || s.transcriber == nil {
		return "", "", apperrors.NoTranscript(op, nil, "No caption track and transcription is not configured")
	}
	if max := s.config.MaxDuration; max > 0 && metadata.DurationSeconds > max.Seconds() {
		return "", "", apperrors.NoTranscript(op, nil, "No caption track and video exceeds the transcription duration cap")
	}

	if err := s.acquireGate(ctx, logger, "audio:download"); err != nil {
		return "", "", err
	}

	stageCtx, cancel := context.WithTimeout(ctx, s.config.DownloadTimeout)
	audioPath, err := s.downloader.Download(stageCtx, source.URL)
	cancel()
	if err != nil {
		return "", "", apperrors.DownloadFailed(op, err, "Audio download failed")
	}

	stageCtx, cancel = context.WithTimeout(ctx, s.config.TranscribeTimeout)
	text, err := s.transcriber.Transcribe(stageCtx, audioPath, hint)
	cancel()
	if err != nil {
		return "", "", apperrors.TranscriptionFailed(op, err, "Speech transcription failed")
	}

	audioRef := audioPath
	if s.config.ArchiveAudio && s.store != nil {
		if key, err := s.store.UploadAudio(ctx, audioPath); err != nil {
			logger.Warn().Err(err).Msg("Audio archive upload failed")
		} else {
			audioRef = key
		}
	}

	return text, audioRef, nil
}

func (s *service) newContent(source models.SourceRef, metadata *models.Metadata, rawText, method, audioRef string) *models.Content {
	return &models.Content{
		ID:               uuid.New().String(),
		Source:           source,
		Metadata:         *metadata,
		RawText:          rawText,
		AudioRef:         audioRef,
		ExtractionMethod: method,
		CreatedAt:        time.Now(),
	}
}

func (s *service) acquireGate(ctx context.Context, logger zerolog.Logger, stage string) error {
	waited, err := s.gate.Acquire(ctx)
	if err != nil {
		return err
	}
	if waited > 0 {
		logger.Debug().Str("stage", stage).Dur("waited", waited).Msg("Rate gate delay")
	}
	return nil
}
