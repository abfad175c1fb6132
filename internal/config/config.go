package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`

	RecognitionProvider string        `envconfig:"RECOGNITION_PROVIDER" default:"gemini"`
	RecognitionTimeout  time.Duration `envconfig:"RECOGNITION_TIMEOUT" default:"60s"`
	GeminiAPIKey        string        `envconfig:"GEMINI_API_KEY"`
	GeminiModelID       string        `envconfig:"GEMINI_MODEL_ID" default:"gemini-2.5-flash"`
	OpenAIAPIKey        string        `envconfig:"OPENAI_API_KEY"`
	OpenAIModel         string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL       string        `envconfig:"OPENAI_BASE_URL"`

	SnapshotBackend    string `envconfig:"SNAPSHOT_BACKEND" default:"dir"`
	SnapshotDir        string `envconfig:"SNAPSHOT_DIR" default:"./data/snapshots"`
	GCSBucket          string `envconfig:"GCS_BUCKET"`
	GCSCredentialsJSON string `envconfig:"GCS_CREDENTIALS_JSON"`

	RenderWidth  int `envconfig:"RENDER_WIDTH" default:"1200"`
	RenderHeight int `envconfig:"RENDER_HEIGHT" default:"800"`
}

// Load reads .env, if present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env file not loaded", "error", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.RecognitionProvider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unknown RECOGNITION_PROVIDER %q", c.RecognitionProvider)
	}
	switch c.SnapshotBackend {
	case "dir", "gcs":
	default:
		return fmt.Errorf("unknown SNAPSHOT_BACKEND %q", c.SnapshotBackend)
	}
	if c.SnapshotBackend == "gcs" && c.GCSBucket == "" {
		return fmt.Errorf("SNAPSHOT_BACKEND=gcs requires GCS_BUCKET")
	}
	return nil
}

// Origins splits AllowedOrigins into a list.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// OriginPatterns returns the origins without scheme, as websocket accept
// options expect.
func (c *Config) OriginPatterns() []string {
	origins := c.Origins()
	out := make([]string, len(origins))
	for i, o := range origins {
		if _, host, ok := strings.Cut(o, "://"); ok {
			o = host
		}
		out[i] = o
	}
	return out
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
