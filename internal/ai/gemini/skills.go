package gemini

import (
	"context"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/linky/internal/ai"
	"github.com/spigell/linky/internal/logger"
	"github.com/spigell/linky/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed skills_prompt.md
var skillsPrompt string

const defaultMaxLogLength = 200

// SkillExtractor asks the model for a comma-separated list of skills.
type SkillExtractor struct {
	generator contentGenerator
	template  string
	logger    *zap.Logger
	maxLogLen int
}

// NewSkillExtractor uses template as the instruction placed before the text,
// or the embedded default when template is blank.
func NewSkillExtractor(generator contentGenerator, template string, maxLogLength int, log *zap.Logger) *SkillExtractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &SkillExtractor{
		generator: generator,
		template:  templateOr(template, skillsPrompt),
		logger:    logger.OrNop(log),
		maxLogLen: maxLogLength,
	}
}

// ExtractSkills never returns nil and never fails; generation errors are
// logged and yield an empty set.
func (s *SkillExtractor) ExtractSkills(ctx context.Context, text string) ai.SkillSet {
	clean := CleanText(text)
	if clean == "" {
		return ai.SkillSet{}
	}

	prompt := s.template + " " + clean
	s.logger.Debug("gemini skills request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.Warn("skill extraction failed, using empty skill set", zap.Error(err))
		return ai.SkillSet{}
	}

	skills := ParseSkills(raw)
	s.logger.Debug("gemini skills response",
		zap.String("response_preview", utils.TruncateForLog(raw, s.maxLogLen)),
		zap.Int("skills", len(skills)),
	)

	return skills
}

// ParseSkills splits a comma-separated reply into lower-cased, trimmed tokens.
func ParseSkills(raw string) ai.SkillSet {
	skills := ai.SkillSet{}
	for _, piece := range strings.Split(raw, ",") {
		if skill := strings.ToLower(strings.TrimSpace(piece)); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}
