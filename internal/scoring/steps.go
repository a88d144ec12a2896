package scoring

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// state carries intermediate values between the steps of one request.
type state struct {
	req        Request
	resume     []byte
	resumeText string
	bio        string
	result     *Result
}

type step struct {
	name string
	run  func(ctx context.Context, log *zap.Logger, st *state) error
}

// run executes the steps sequentially and stops at the first error.
func run(ctx context.Context, log *zap.Logger, steps []step, st *state) error {
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}

		started := time.Now()
		if err := s.run(ctx, log, st); err != nil {
			log.Debug("scoring step failed",
				zap.String("name", s.name),
				zap.Duration("took", time.Since(started)),
				zap.Error(err),
			)
			return fmt.Errorf("%s: %w", s.name, err)
		}

		log.Debug("scoring step",
			zap.String("name", s.name),
			zap.Duration("took", time.Since(started)),
		)
	}

	return nil
}
