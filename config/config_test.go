package config

import (
	"path/filepath"
	"testing"
	"time"
)

func setTestDirs(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("AUDIO_DIR", filepath.Join(dir, "audio"))
	t.Setenv("DB_PATH", filepath.Join(dir, "data.db"))
}

func TestLoadDefaults(t *testing.T) {
	setTestDirs(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.ServerPort)
	}
	if cfg.RateGate.MinInterval != 60*time.Second {
		t.Errorf("expected 60s min interval, got %s", cfg.RateGate.MinInterval)
	}
	if cfg.Chunking.ChunkSize != 500 || cfg.Chunking.Overlap != 50 {
		t.Errorf("unexpected chunking defaults: size=%d overlap=%d",
			cfg.Chunking.ChunkSize, cfg.Chunking.Overlap)
	}
	if cfg.Chunking.MinChapters != 2 ||
		cfg.Chunking.MinChapterDuration != 600 ||
		cfg.Chunking.MinChapterCoverage != 0.5 {
		t.Errorf("unexpected chapter gate defaults: %+v", cfg.Chunking)
	}

	want := []string{"en", "ru", "fr"}
	if len(cfg.Extraction.LanguagePriority) != len(want) {
		t.Fatalf("unexpected language priority: %v", cfg.Extraction.LanguagePriority)
	}
	for i, lang := range want {
		if cfg.Extraction.LanguagePriority[i] != lang {
			t.Errorf("language %d: expected %s, got %s", i, lang, cfg.Extraction.LanguagePriority[i])
		}
	}
}

func TestLoadOverrides(t *testing.T) {
	setTestDirs(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ORIGIN_MIN_INTERVAL", "30s")
	t.Setenv("CHUNK_SIZE", "800")
	t.Setenv("CHUNK_OVERLAP", "100")
	t.Setenv("LANGUAGE_PRIORITY", "de,en")
	t.Setenv("EXTRACTION_WORKERS", "2")
	t.Setenv("WHISPER_MODEL", "small")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerPort != "9090" {
		t.Errorf("expected 9090, got %s", cfg.ServerPort)
	}
	if cfg.RateGate.MinInterval != 30*time.Second {
		t.Errorf("expected 30s, got %s", cfg.RateGate.MinInterval)
	}
	if cfg.Chunking.ChunkSize != 800 || cfg.Chunking.Overlap != 100 {
		t.Errorf("unexpected chunking: %+v", cfg.Chunking)
	}
	if len(cfg.Extraction.LanguagePriority) != 2 || cfg.Extraction.LanguagePriority[0] != "de" {
		t.Errorf("unexpected language priority: %v", cfg.Extraction.LanguagePriority)
	}
	if cfg.Extraction.WorkerCount != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Extraction.WorkerCount)
	}
	if cfg.Providers.WhisperModel != "small" {
		t.Errorf("expected small model, got %s", cfg.Providers.WhisperModel)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero min interval", "ORIGIN_MIN_INTERVAL", "0s"},
		{"zero chunk size", "CHUNK_SIZE", "0"},
		{"overlap over chunk size", "CHUNK_OVERLAP", "500"},
		{"coverage over one", "CHAPTER_MIN_COVERAGE", "1.5"},
		{"zero workers", "EXTRACTION_WORKERS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setTestDirs(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestStorageValidation(t *testing.T) {
	setTestDirs(t)
	t.Setenv("SPACES_ENABLED", "true")
	if _, err := Load(); err == nil {
		t.Error("expected error when storage enabled without endpoint and bucket")
	}

	t.Setenv("SPACES_ENDPOINT", "https://nyc3.digitaloceanspaces.com")
	t.Setenv("SPACES_BUCKET", "ingest-audio")
	if _, err := Load(); err != nil {
		t.Errorf("unexpected error with full storage config: %v", err)
	}
}
