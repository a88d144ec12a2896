package gemini

import (
	"context"
	"fmt"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/linky/internal/logger"
	"github.com/spigell/linky/internal/utils"
)

//go:embed bio_prompt.md
var bioPrompt string

type BioWriter struct {
	generator contentGenerator
	template  string
	logger    *zap.Logger
	maxLogLen int
}

func NewBioWriter(generator contentGenerator, template string, maxLogLength int, log *zap.Logger) *BioWriter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &BioWriter{
		generator: generator,
		template:  templateOr(template, bioPrompt),
		logger:    logger.OrNop(log),
		maxLogLen: maxLogLength,
	}
}

// WriteBio returns an empty bio without calling the model when the resume has
// no usable text. Generation errors are returned.
func (b *BioWriter) WriteBio(ctx context.Context, resumeText string) (string, error) {
	clean := CleanText(resumeText)
	if clean == "" {
		return "", nil
	}

	raw, err := b.generator.GenerateContent(ctx, b.template+"\n\n"+clean)
	if err != nil {
		return "", fmt.Errorf("generate bio: %w", err)
	}

	bio := collapse(raw)
	b.logger.Debug("gemini bio response", zap.String("bio_preview", utils.TruncateForLog(bio, b.maxLogLen)))

	return bio, nil
}
