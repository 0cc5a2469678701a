package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/factlens/internal/model"
	"go.uber.org/zap"
)

// ClaimVerifier verifies one claim. A non-nil error means the collaborator
// behind the call is gone (model.ErrCollaboratorUnavailable); ordinary
// verification failures are reported inside the verdict instead.
type ClaimVerifier interface {
	VerifyClaim(ctx context.Context, claim, platform string) (model.Verdict, error)
}

// ClaimVerifierFunc adapts a function to ClaimVerifier
type ClaimVerifierFunc func(ctx context.Context, claim, platform string) (model.Verdict, error)

// VerifyClaim calls f
func (f ClaimVerifierFunc) VerifyClaim(ctx context.Context, claim, platform string) (model.Verdict, error) {
	return f(ctx, claim, platform)
}

// BatchRunner verifies the claims of one message in order, one at a time
type BatchRunner struct {
	verifier ClaimVerifier
	logger   *zap.Logger
}

// NewBatchRunner creates a new batch runner
func NewBatchRunner(verifier ClaimVerifier, logger *zap.Logger) *BatchRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchRunner{verifier: verifier, logger: logger}
}

// Run returns one verdict per claim in claim order. The first claim whose
// verification reports an unavailable collaborator, or that finds ctx done,
// gets a single error verdict and ends the run.
func (b *BatchRunner) Run(ctx context.Context, claims []string, platform string) []model.Verdict {
	verdicts := make([]model.Verdict, 0, len(claims))

	for i, claim := range claims {
		if err := ctx.Err(); err != nil {
			verdicts = append(verdicts, stoppedVerdict(claim, err))
			b.logger.Info("batch cancelled",
				zap.Int("claim_index", i), zap.Int("skipped", len(claims)-i-1), zap.Error(err))
			return verdicts
		}

		verdict, err := b.verifier.VerifyClaim(ctx, claim, platform)
		if err != nil {
			verdicts = append(verdicts, stoppedVerdict(claim, err))
			b.logger.Warn("batch aborted",
				zap.Int("claim_index", i), zap.Int("skipped", len(claims)-i-1), zap.Error(err))
			return verdicts
		}

		verdicts = append(verdicts, verdict)
	}

	return verdicts
}

func stoppedVerdict(claim string, err error) model.Verdict {
	if !errors.Is(err, model.ErrCollaboratorUnavailable) && !errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %v", model.ErrCollaboratorUnavailable, err)
	}
	return model.ErrorVerdict(claim, model.SourcePrimary, "Verification stopped: "+err.Error())
}
