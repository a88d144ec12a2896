// Package scoring runs the resume/job compatibility pipeline and the bio
// pipeline on top of the resume, linkedin, ai and similarity packages.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/linky/internal/ai"
	"github.com/spigell/linky/internal/linkedin"
	"github.com/spigell/linky/internal/logger"
	"github.com/spigell/linky/internal/similarity"
)

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrResumeUnavailable = errors.New("resume unavailable")
	ErrResumeUnreadable  = errors.New("resume unreadable")
)

type ResumeSource interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

type JobScraper interface {
	Scrape(ctx context.Context, rawURL string) (linkedin.Posting, error)
}

// Deps aggregates the collaborators of a Service.
type Deps struct {
	Resumes ResumeSource
	Text    TextExtractor
	Jobs    JobScraper
	Skills  ai.SkillExtractor
	Bio     ai.BioWriter
	Scorer  *similarity.Scorer
	Logger  *zap.Logger
}

type Request struct {
	ID      string
	Resume  string
	JobLink string
}

// Result is the outcome of one compatibility request.
type Result struct {
	Score        float64
	ResumeSkills ai.SkillSet
	JobSkills    ai.SkillSet
	Posting      linkedin.Posting
	Job          linkedin.Display
}

// Zero reports whether either skill set came back empty. The score of such a
// result is exactly 0.
func (r *Result) Zero() bool {
	return len(r.ResumeSkills) == 0 || len(r.JobSkills) == 0
}

type Service struct {
	deps Deps
}

func New(deps Deps) (*Service, error) {
	if deps.Resumes == nil {
		return nil, errors.New("resume source is required")
	}
	if deps.Text == nil {
		return nil, errors.New("text extractor is required")
	}
	if deps.Scorer == nil {
		deps.Scorer = similarity.Default()
	}
	deps.Logger = logger.OrNop(deps.Logger)

	return &Service{deps: deps}, nil
}

// Score downloads the resume, scrapes the job, extracts both skill sets and
// scores them. Only resume failures are returned as errors; a job that cannot
// be scraped degrades to an empty description and so to a zero result.
func (s *Service) Score(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Resume) == "" || strings.TrimSpace(req.JobLink) == "" {
		return nil, fmt.Errorf("%w: resume and job link are required", ErrInvalidRequest)
	}
	if s.deps.Jobs == nil || s.deps.Skills == nil {
		return nil, errors.New("scoring is not configured")
	}

	st := &state{req: req, result: &Result{}}
	steps := []step{
		{name: "resume_download", run: s.downloadResume},
		{name: "resume_text", run: s.readResume},
		{name: "job_scrape", run: s.scrapeJob},
		{name: "job_skills", run: s.jobSkills},
		{name: "resume_skills", run: s.resumeSkills},
		{name: "similarity", run: s.scoreSkills},
	}

	if err := run(ctx, s.requestLogger(req), steps, st); err != nil {
		return nil, err
	}

	return st.result, nil
}

// Bio writes a short biography from the resume at the given location.
func (s *Service) Bio(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Resume) == "" {
		return "", fmt.Errorf("%w: resume is required", ErrInvalidRequest)
	}
	if s.deps.Bio == nil {
		return "", errors.New("bio writer is not configured")
	}

	st := &state{req: req, result: &Result{}}
	steps := []step{
		{name: "resume_download", run: s.downloadResume},
		{name: "resume_text", run: s.readResume},
		{name: "bio", run: s.writeBio},
	}

	if err := run(ctx, s.requestLogger(req), steps, st); err != nil {
		return "", err
	}

	return st.bio, nil
}

func (s *Service) requestLogger(req Request) *zap.Logger {
	return logger.WithFields(s.deps.Logger, logger.ScoreFields(req.ID, req.Resume, req.JobLink)...)
}

func (s *Service) downloadResume(ctx context.Context, log *zap.Logger, st *state) error {
	data, err := s.deps.Resumes.Fetch(ctx, st.req.Resume)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResumeUnavailable, err)
	}
	st.resume = data
	return nil
}

func (s *Service) readResume(ctx context.Context, log *zap.Logger, st *state) error {
	text, err := s.deps.Text.Extract(ctx, st.resume)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResumeUnreadable, err)
	}
	if text == "" {
		log.Warn("resume has no extractable text")
	}
	st.resumeText = text
	return nil
}

func (s *Service) scrapeJob(ctx context.Context, log *zap.Logger, st *state) error {
	posting, err := s.deps.Jobs.Scrape(ctx, st.req.JobLink)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.Warn("job data unavailable, continuing with an empty description",
			zap.String("normalized_url", linkedin.NormalizeURL(st.req.JobLink)),
			zap.Error(err),
		)
		posting = linkedin.EmptyPosting()
	}

	display, err := posting.Display()
	if err != nil {
		return fmt.Errorf("decode posting: %w", err)
	}

	st.result.Posting = posting
	st.result.Job = display
	return nil
}

func (s *Service) jobSkills(ctx context.Context, _ *zap.Logger, st *state) error {
	st.result.JobSkills = s.deps.Skills.ExtractSkills(ctx, st.result.Posting.Description())
	return nil
}

func (s *Service) resumeSkills(ctx context.Context, _ *zap.Logger, st *state) error {
	st.result.ResumeSkills = s.deps.Skills.ExtractSkills(ctx, st.resumeText)
	return nil
}

func (s *Service) scoreSkills(_ context.Context, log *zap.Logger, st *state) error {
	r := st.result
	if r.Zero() {
		log.Info("empty skill set, skipping similarity",
			zap.Int("resume_skills", len(r.ResumeSkills)),
			zap.Int("job_skills", len(r.JobSkills)),
		)
		r.Score = 0
		return nil
	}

	r.Score = s.deps.Scorer.Score(r.ResumeSkills, r.JobSkills)
	log.Info("compatibility scored",
		zap.Float64("score", r.Score),
		zap.Int("resume_skills", len(r.ResumeSkills)),
		zap.Int("job_skills", len(r.JobSkills)),
	)
	return nil
}

func (s *Service) writeBio(ctx context.Context, _ *zap.Logger, st *state) error {
	bio, err := s.deps.Bio.WriteBio(ctx, st.resumeText)
	if err != nil {
		return fmt.Errorf("write bio: %w", err)
	}
	st.bio = bio
	return nil
}
