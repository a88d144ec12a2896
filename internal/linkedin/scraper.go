package linkedin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/spigell/linky/internal/httpclient"
	"github.com/spigell/linky/internal/logger"
	"github.com/spigell/linky/internal/utils"
)

const (
	defaultMaxAttempts = 5
	defaultBackoff     = time.Second
)

// ErrUnavailable is returned when the posting could not be fetched after all attempts.
var ErrUnavailable = errors.New("job data unavailable")

type fetcher interface {
	Get(ctx context.Context, url string, header http.Header) (*httpclient.Response, error)
}

type Config struct {
	MaxAttempts int           `mapstructure:"max-attempts"`
	MinDelay    time.Duration `mapstructure:"min-delay"`
	MaxDelay    time.Duration `mapstructure:"max-delay"`
	// Backoff is the base of the wait between failed attempts: Backoff*2^attempt plus up to Backoff of jitter.
	Backoff time.Duration `mapstructure:"backoff"`
}

type Scraper struct {
	client      fetcher
	extractor   *Extractor
	politeness  Politeness
	maxAttempts int
	backoff     time.Duration
	logger      *zap.Logger

	wait   func(ctx context.Context, d time.Duration) error
	jitter func(max time.Duration) time.Duration
}

func NewScraper(client fetcher, politeness Politeness, extractor *Extractor, cfg Config, log *zap.Logger) *Scraper {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = defaultBackoff
	}
	if politeness == nil {
		politeness = NoPoliteness{}
	}
	if extractor == nil {
		extractor = NewExtractor()
	}

	return &Scraper{
		client:      client,
		extractor:   extractor,
		politeness:  politeness,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
		logger:      logger.OrNop(log),
		wait:        utils.WaitFor,
		jitter:      jitter,
	}
}

// Scrape normalizes rawURL, fetches the job page and extracts the posting.
// It returns ErrUnavailable once every attempt has failed, or the context
// error if ctx is done first.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (Posting, error) {
	url := NormalizeURL(rawURL)
	log := s.logger.With(zap.String(logger.FieldJobURL, url))

	var lastErr error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if err := s.wait(ctx, s.politeness.Delay()); err != nil {
			return nil, err
		}

		doc, err := s.fetch(ctx, url)
		if err == nil {
			posting := s.extractor.Extract(doc)
			log.Debug("job posting scraped",
				zap.Int("attempt", attempt+1),
				zap.Strings("criteria", posting.Criteria()),
			)
			return posting, nil
		}

		lastErr = err
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		log.Warn("scrape attempt failed", zap.Int("attempt", attempt+1), zap.Error(err))

		if attempt == s.maxAttempts-1 {
			break
		}

		wait := s.retryWait(attempt)
		log.Info("waiting before retrying", zap.Duration("wait", wait))
		if err := s.wait(ctx, wait); err != nil {
			return nil, err
		}
	}

	log.Warn("max retries reached, unable to scrape the job data", zap.Int("attempts", s.maxAttempts))

	return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, url, lastErr)
}

func (s *Scraper) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := s.client.Get(ctx, url, s.politeness.Identity())
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return doc, nil
}

// maxBackoffShift keeps backoff<<attempt inside time.Duration.
const maxBackoffShift = 30

// retryWait is backoff*2^attempt plus jitter, with the exponent capped.
func (s *Scraper) retryWait(attempt int) time.Duration {
	shift := min(attempt, maxBackoffShift)
	return s.backoff<<shift + s.jitter(s.backoff)
}

func jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(max)))
}
