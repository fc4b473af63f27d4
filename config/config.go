package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server settings
	ServerPort   string        `json:"server_port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	Debug        bool          `json:"debug"`

	// Application paths
	LogDir   string `json:"log_dir"`
	AudioDir string `json:"audio_dir"`

	// Request and shutdown timeouts
	RequestTimeout  time.Duration `json:"request_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`

	Database   DatabaseConfig   `json:"database"`
	RateGate   RateGateConfig   `json:"rate_gate"`
	Extraction ExtractionConfig `json:"extraction"`
	Chunking   ChunkingConfig   `json:"chunking"`
	Providers  ProvidersConfig  `json:"providers"`
	Storage    StorageConfig    `json:"storage"`
	RateLimit  RateLimitConfig  `json:"rate_limit"`
}

type DatabaseConfig struct {
	Path               string        `json:"path"`
	MaxConnections     int           `json:"max_connections"`
	MaxIdleConnections int           `json:"max_idle_connections"`
	ConnMaxLifetime    time.Duration `json:"conn_max_lifetime"`
}

// RateGateConfig controls the politeness gate toward the video origin.
type RateGateConfig struct {
	MinInterval time.Duration `json:"min_interval"`
}

type ExtractionConfig struct {
	LanguagePriority  []string      `json:"language_priority"`
	MaxDuration       time.Duration `json:"max_duration"`
	MetadataTimeout   time.Duration `json:"metadata_timeout"`
	CaptionTimeout    time.Duration `json:"caption_timeout"`
	DownloadTimeout   time.Duration `json:"download_timeout"`
	TranscribeTimeout time.Duration `json:"transcribe_timeout"`
	WorkerCount       int           `json:"worker_count"`
	QueueSize         int           `json:"queue_size"`
	ArchiveAudio      bool          `json:"archive_audio"`
}

// ChunkingConfig carries the chunk sizing knobs and the chapter usability
// thresholds. The coverage and duration thresholds are heuristics, so they
// stay configurable.
type ChunkingConfig struct {
	ChunkSize          int     `json:"chunk_size"`
	Overlap            int     `json:"overlap"`
	MinChapters        int     `json:"min_chapters"`
	MinChapterDuration float64 `json:"min_chapter_duration"`
	MinChapterCoverage float64 `json:"min_chapter_coverage"`
}

type ProvidersConfig struct {
	YouTubeAPIKey string `json:"-"`
	YTDLPPath     string `json:"ytdlp_path"`
	WhisperPath   string `json:"whisper_path"`
	WhisperModel  string `json:"whisper_model"`
}

type StorageConfig struct {
	Enabled   bool   `json:"enabled"`
	AccessKey string `json:"-"`
	SecretKey string `json:"-"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint"`
	Bucket    string `json:"bucket"`
}

// RateLimitConfig throttles inbound HTTP clients, not the video origin.
type RateLimitConfig struct {
	Enabled           bool `json:"enabled"`
	RequestsPerMinute int  `json:"requests_per_minute"`
	BurstSize         int  `json:"burst_size"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:  getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		Debug:        getEnvAsBool("DEBUG", false),

		LogDir:   getEnv("LOG_DIR", "/var/log/yt-ingest"),
		AudioDir: getEnv("AUDIO_DIR", "/var/lib/yt-ingest/audio"),

		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 60*time.Minute),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		Database: DatabaseConfig{
			Path:               getEnv("DB_PATH", "/var/lib/yt-ingest/data.db"),
			MaxConnections:     getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DB_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},

		RateGate: RateGateConfig{
			MinInterval: getEnvAsDuration("ORIGIN_MIN_INTERVAL", 60*time.Second),
		},

		Extraction: ExtractionConfig{
			LanguagePriority:  getEnvAsStringSlice("LANGUAGE_PRIORITY", []string{"en", "ru", "fr"}),
			MaxDuration:       getEnvAsDuration("VIDEO_MAX_DURATION", 4*time.Hour),
			MetadataTimeout:   getEnvAsDuration("METADATA_TIMEOUT", 30*time.Second),
			CaptionTimeout:    getEnvAsDuration("CAPTION_TIMEOUT", 60*time.Second),
			DownloadTimeout:   getEnvAsDuration("DOWNLOAD_TIMEOUT", 20*time.Minute),
			TranscribeTimeout: getEnvAsDuration("TRANSCRIBE_TIMEOUT", 40*time.Minute),
			WorkerCount:       getEnvAsInt("EXTRACTION_WORKERS", 4),
			QueueSize:         getEnvAsInt("EXTRACTION_QUEUE_SIZE", 32),
			ArchiveAudio:      getEnvAsBool("ARCHIVE_AUDIO", false),
		},

		Chunking: ChunkingConfig{
			ChunkSize:          getEnvAsInt("CHUNK_SIZE", 500),
			Overlap:            getEnvAsInt("CHUNK_OVERLAP", 50),
			MinChapters:        getEnvAsInt("CHAPTER_MIN_COUNT", 2),
			MinChapterDuration: getEnvAsFloat("CHAPTER_MIN_DURATION", 600),
			MinChapterCoverage: getEnvAsFloat("CHAPTER_MIN_COVERAGE", 0.5),
		},

		Providers: ProvidersConfig{
			YouTubeAPIKey: getEnv("YOUTUBE_API_KEY", ""),
			YTDLPPath:     getEnv("YTDLP_PATH", "yt-dlp"),
			WhisperPath:   getEnv("WHISPER_PATH", "whisper-ctranslate2"),
			WhisperModel:  getEnv("WHISPER_MODEL", "base"),
		},

		Storage: StorageConfig{
			Enabled:   getEnvAsBool("SPACES_ENABLED", false),
			AccessKey: getEnv("SPACES_ACCESS_KEY", ""),
			SecretKey: getEnv("SPACES_SECRET_KEY", ""),
			Region:    getEnv("SPACES_REGION", "us-east-1"),
			Endpoint:  getEnv("SPACES_ENDPOINT", ""),
			Bucket:    getEnv("SPACES_BUCKET", ""),
		},

		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 60),
			BurstSize:         getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validatePaths(c); err != nil {
		return err
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.RateGate.MinInterval <= 0 {
		return fmt.Errorf("origin min interval must be positive")
	}
	if c.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive")
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("chunk overlap must be in [0, chunk size)")
	}
	if c.Chunking.MinChapterCoverage < 0 || c.Chunking.MinChapterCoverage > 1 {
		return fmt.Errorf("chapter coverage must be in [0, 1]")
	}
	if c.Extraction.MaxDuration <= 0 {
		return fmt.Errorf("max video duration must be positive")
	}
	if c.Extraction.WorkerCount <= 0 {
		return fmt.Errorf("worker count must be positive")
	}
	if c.Storage.Enabled && (c.Storage.Endpoint == "" || c.Storage.Bucket == "") {
		return fmt.Errorf("storage endpoint and bucket are required when storage is enabled")
	}
	return nil
}

func validatePaths(c *Config) error {
	paths := []struct {
		path string
		name string
	}{
		{c.LogDir, "log directory"},
		{c.AudioDir, "audio directory"},
		{filepath.Dir(c.Database.Path), "database directory"},
	}

	for _, p := range paths {
		if err := os.MkdirAll(p.path, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", p.name, err)
		}
	}

	return nil
}

// Helper functions for reading environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if value = strings.TrimSpace(value); value != "" {
			return strings.Split(value, ",")
		}
	}
	return defaultValue
}
