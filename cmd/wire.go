package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/linky/internal/ai/gemini"
	"github.com/spigell/linky/internal/httpclient"
	"github.com/spigell/linky/internal/linkedin"
	"github.com/spigell/linky/internal/resume"
	"github.com/spigell/linky/internal/scoring"
	"github.com/spigell/linky/internal/secrets"
	"github.com/spigell/linky/internal/similarity"
)

// newService builds the scoring service with every collaborator described by config.
func newService(ctx context.Context, config *Config, logger *zap.Logger) (*scoring.Service, error) {
	client := httpclient.New(config.HTTP, logger)

	resumes, err := newResumeSource(config.Resume, client, logger)
	if err != nil {
		return nil, err
	}

	generator, err := newGenerator(ctx, config.AI.Gemini, logger)
	if err != nil {
		return nil, err
	}

	maxLog := config.AI.Gemini.MaxLogLength
	skills := gemini.NewSkillExtractor(generator, config.AI.Prompts.Skills, maxLog, logger.Named("skills"))
	bio := gemini.NewBioWriter(generator, config.AI.Prompts.Bio, maxLog, logger.Named("bio"))

	scraper := linkedin.NewScraper(
		client,
		linkedin.NewBrowserPoliteness(config.Scraper.MinDelay, config.Scraper.MaxDelay),
		linkedin.NewExtractor(),
		config.Scraper,
		logger.Named("scraper"),
	)

	return scoring.New(scoring.Deps{
		Resumes: resumes,
		Text:    resume.PDFExtractor{},
		Jobs:    scraper,
		Skills:  skills,
		Bio:     bio,
		Scorer:  similarity.NewScorer(config.Scoring.Offset, config.Scoring.Ceiling),
		Logger:  logger,
	})
}

func newResumeSource(cfg *ResumeConfig, client *httpclient.Client, logger *zap.Logger) (resume.Source, error) {
	switch cfg.Storage {
	case "", storageHTTP:
		return resume.NewHTTPSource(client, cfg.Prefix, logger.Named("resume")), nil
	case storageMinIO:
		src, err := resume.NewMinIOSource(cfg.MinIO, logger.Named("resume"))
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("unsupported resume storage: %s", cfg.Storage)
	}
}

func newGenerator(ctx context.Context, cfg *GeminiConfig, logger *zap.Logger) (*gemini.Generator, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.APIKeyFile,
		Value: cfg.APIKey,
		Env:   "API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set API_KEY, GEMINI_API_KEY_FILE or ai.gemini.api-key)", err)
	}

	genLogger := logger.With(zap.Int("ai_retry_attempts", cfg.MaxRetries))

	return gemini.NewGenerator(ctx, apiKey, cfg.Model, cfg.MaxRetries, genLogger)
}
