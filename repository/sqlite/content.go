package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	apperrors "yt-ingest/errors"
	"yt-ingest/models"
	"yt-ingest/repository"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

const contentColumns = `id, url, url_hash, content_hash, platform, title, channel,
	duration_seconds, description, published_at, language_hint,
	raw_text, audio_ref, extraction_method, created_at`

func (r *Repository) SaveContent(ctx context.Context, content *models.Content) (string, error) {
	const op = "SQLiteRepository.SaveContent"

	hash := content.Hash()

	// First writer wins: a row with the same content hash means an identical
	// extraction already landed.
	var existingID string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM contents WHERE content_hash = ?`, hash,
	).Scan(&existingID)
	if err == nil {
		return existingID, nil
	}
	if err != sql.ErrNoRows {
		return "", apperrors.Internal(op, err, "Failed to query content hash")
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO contents (`+contentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		content.ID,
		content.Source.URL,
		content.Source.URLHash,
		hash,
		string(content.Source.Platform),
		content.Metadata.Title,
		content.Metadata.Channel,
		content.Metadata.DurationSeconds,
		content.Metadata.Description,
		nullTime(content.Metadata.PublishedAt),
		content.Metadata.LanguageHint,
		nullString(content.RawText),
		nullString(content.AudioRef),
		content.ExtractionMethod,
		content.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Concurrent writer got there first; fetch its row.
			if scanErr := r.db.QueryRowContext(ctx,
				`SELECT id FROM contents WHERE content_hash = ?`, hash,
			).Scan(&existingID); scanErr == nil {
				return existingID, nil
			}
		}
		return "", apperrors.Internal(op, err, "Failed to save content")
	}

	return content.ID, nil
}

func (r *Repository) ReplaceChunks(
	ctx context.Context,
	contentID string,
	chunks []models.Chunk,
	strategyName string,
) error {
	const op = "SQLiteRepository.ReplaceChunks"

	err := WithTransaction(ctx, r.db, func(tx Executor) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chunking_strategies (content_id, strategy_name, total_chunks, created_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT (content_id) DO UPDATE
			 SET strategy_name = excluded.strategy_name,
			     total_chunks = excluded.total_chunks,
			     created_at = excluded.created_at`,
			contentID, strategyName, len(chunks), time.Now(),
		); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM content_chunks WHERE content_id = ?`, contentID,
		); err != nil {
			return err
		}

		for _, chunk := range chunks {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO content_chunks (
				     content_id, chunk_index, chunk_text, start_ts, end_ts,
				     char_len, token_count, chapter_title
				 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				contentID,
				chunk.Index,
				chunk.Text,
				chunk.StartTS,
				chunk.EndTS,
				chunk.CharLen,
				chunk.TokenCount,
				nullString(chunk.ChapterTitle),
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.Internal(op, err, "Failed to replace chunks")
	}

	return nil
}

func (r *Repository) FindByURL(ctx context.Context, url string) (*repository.CachedContent, error) {
	const op = "SQLiteRepository.FindByURL"

	urlHash := models.HashString(url)

	row := r.db.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM contents
		 WHERE url_hash = ?
		 ORDER BY created_at DESC
		 LIMIT 1`,
		urlHash,
	)

	content, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound(op, nil, "Content not found")
	}
	if err != nil {
		return nil, apperrors.Internal(op, err, "Failed to query content")
	}

	hit := &repository.CachedContent{Content: content}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM content_chunks WHERE content_id = ?`, content.ID,
	).Scan(&hit.ChunkCount); err != nil {
		return nil, apperrors.Internal(op, err, "Failed to count chunks")
	}

	// Content saved before its chunks land has no strategy row yet.
	err = r.db.QueryRowContext(ctx,
		`SELECT strategy_name FROM chunking_strategies WHERE content_id = ?`, content.ID,
	).Scan(&hit.Strategy)
	if err != nil && err != sql.ErrNoRows {
		return nil, apperrors.Internal(op, err, "Failed to query chunking strategy")
	}

	return hit, nil
}

func (r *Repository) FindContent(ctx context.Context, id string) (*models.Content, error) {
	const op = "SQLiteRepository.FindContent"

	row := r.db.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM contents WHERE id = ?`, id,
	)

	content, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound(op, nil, "Content not found")
	}
	if err != nil {
		return nil, apperrors.Internal(op, err, "Failed to query content")
	}

	return content, nil
}

func (r *Repository) FindChunks(ctx context.Context, contentID string) ([]models.Chunk, error) {
	const op = "SQLiteRepository.FindChunks"

	rows, err := r.db.QueryContext(ctx,
		`SELECT content_id, chunk_index, chunk_text, start_ts, end_ts,
		        char_len, token_count, chapter_title
		 FROM content_chunks
		 WHERE content_id = ?
		 ORDER BY chunk_index`,
		contentID,
	)
	if err != nil {
		return nil, apperrors.Internal(op, err, "Failed to query chunks")
	}
	defer rows.Close()

	var chunks []models.Chunk
	for rows.Next() {
		var chunk models.Chunk
		var chapterTitle sql.NullString
		if err := rows.Scan(
			&chunk.ContentID,
			&chunk.Index,
			&chunk.Text,
			&chunk.StartTS,
			&chunk.EndTS,
			&chunk.CharLen,
			&chunk.TokenCount,
			&chapterTitle,
		); err != nil {
			return nil, apperrors.Internal(op, err, "Failed to scan chunk")
		}
		chunk.ChapterTitle = chapterTitle.String
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Internal(op, err, "Failed to iterate chunks")
	}

	return chunks, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanContent(row rowScanner) (*models.Content, error) {
	content := &models.Content{}
	var platform string
	var publishedAt sql.NullTime
	var rawText, audioRef sql.NullString

	err := row.Scan(
		&content.ID,
		&content.Source.URL,
		&content.Source.URLHash,
		new(string), // content_hash is derived, not carried on the model
		&platform,
		&content.Metadata.Title,
		&content.Metadata.Channel,
		&content.Metadata.DurationSeconds,
		&content.Metadata.Description,
		&publishedAt,
		&content.Metadata.LanguageHint,
		&rawText,
		&audioRef,
		&content.ExtractionMethod,
		&content.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	content.Source.Platform = models.Platform(platform)
	if publishedAt.Valid {
		content.Metadata.PublishedAt = publishedAt.Time
	}
	content.RawText = rawText.String
	content.AudioRef = audioRef.String
	return content, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
