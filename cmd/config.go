package cmd

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/spigell/linky/internal/httpclient"
	"github.com/spigell/linky/internal/linkedin"
	"github.com/spigell/linky/internal/resume"
	"github.com/spigell/linky/internal/similarity"
)

const (
	envFile = ".env.local"

	storageHTTP  = "http"
	storageMinIO = "minio"
)

type Config struct {
	Listen  string            `mapstructure:"listen"`
	Resume  *ResumeConfig     `mapstructure:"resume"`
	AI      *AIConfig         `mapstructure:"ai"`
	Scraper linkedin.Config   `mapstructure:"scraper"`
	HTTP    httpclient.Config `mapstructure:"http"`
	Scoring *ScoringConfig    `mapstructure:"scoring"`
}

type ResumeConfig struct {
	// Prefix is prepended to relative resume locations.
	Prefix  string             `mapstructure:"prefix"`
	Storage string             `mapstructure:"storage"`
	MinIO   resume.MinIOConfig `mapstructure:"minio"`
}

type AIConfig struct {
	Gemini  *GeminiConfig  `mapstructure:"gemini"`
	Prompts *PromptsConfig `mapstructure:"prompts"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type PromptsConfig struct {
	Skills string `mapstructure:"skills"`
	Bio    string `mapstructure:"bio"`
}

type ScoringConfig struct {
	Offset  float64 `mapstructure:"offset"`
	Ceiling float64 `mapstructure:"ceiling"`
}

var envBindings = map[string]string{
	"listen":                  "LISTEN_ADDR",
	"resume.prefix":           "PREFIX",
	"resume.storage":          "RESUME_STORAGE",
	"resume.minio.endpoint":   "MINIO_ENDPOINT",
	"resume.minio.access-key": "MINIO_ACCESS_KEY",
	"resume.minio.secret-key": "MINIO_SECRET_KEY",
	"resume.minio.bucket":     "MINIO_BUCKET",
	"ai.gemini.api-key":       "API_KEY",
	"ai.gemini.api-key-file":  "GEMINI_API_KEY_FILE",
	"ai.prompts.skills":       "QUERY",
	"ai.prompts.bio":          "QUERY2",
}

// configure sets defaults and environment bindings on v.
func configure(v *viper.Viper) error {
	v.SetDefault("listen", ":8000")
	v.SetDefault("resume.storage", storageHTTP)
	v.SetDefault("ai.gemini.model", "gemini-1.5-flash")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.max-log-length", 200)
	v.SetDefault("scraper.max-attempts", 5)
	v.SetDefault("scraper.min-delay", 5*time.Second)
	v.SetDefault("scraper.max-delay", 10*time.Second)
	v.SetDefault("scraper.backoff", time.Second)
	v.SetDefault("http.max-attempts", httpclient.DefaultMaxAttempts)
	v.SetDefault("http.backoff", httpclient.DefaultBackoff)
	v.SetDefault("http.timeout", httpclient.DefaultTimeout)
	v.SetDefault("scoring.offset", similarity.DefaultOffset)
	v.SetDefault("scoring.ceiling", similarity.DefaultCeiling)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}

	return nil
}

func loadConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Resume == nil {
		config.Resume = &ResumeConfig{}
	}
	config.Resume.Storage = strings.ToLower(strings.TrimSpace(config.Resume.Storage))
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.AI.Prompts == nil {
		config.AI.Prompts = &PromptsConfig{}
	}
	if config.Scoring == nil {
		config.Scoring = &ScoringConfig{Offset: similarity.DefaultOffset, Ceiling: similarity.DefaultCeiling}
	}

	return config, nil
}

// redacted returns a copy of c that is safe to log.
func (c *Config) redacted() Config {
	out := *c
	if c.AI != nil && c.AI.Gemini != nil {
		gemini := *c.AI.Gemini
		gemini.APIKey = mask(gemini.APIKey)
		out.AI = &AIConfig{Gemini: &gemini, Prompts: c.AI.Prompts}
	}
	if c.Resume != nil {
		res := *c.Resume
		res.MinIO.SecretKey = mask(res.MinIO.SecretKey)
		out.Resume = &res
	}
	return out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}
