package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/ppiankov/factlens/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedVerifier fails on the claims listed in failOn
type scriptedVerifier struct {
	failOn map[string]error
	seen   []string
}

func (s *scriptedVerifier) VerifyClaim(_ context.Context, claim, platform string) (model.Verdict, error) {
	s.seen = append(s.seen, claim)
	if err, ok := s.failOn[claim]; ok {
		return model.Verdict{}, err
	}
	return model.Verdict{
		Claim:      claim,
		Status:     model.StatusSuccess,
		Verified:   true,
		Confidence: 90,
		Source:     model.SourcePrimary,
		Platform:   model.PlatformAccuracy{Name: platform},
	}, nil
}

func TestBatchRunner_AllSucceed(t *testing.T) {
	v := &scriptedVerifier{}
	runner := NewBatchRunner(v, nil)
	claims := []string{"Claim one from 1901.", "Claim two from 1902.", "Claim three from 1903."}

	verdicts := runner.Run(context.Background(), claims, "chatgpt")

	require.Len(t, verdicts, 3)
	for i, verdict := range verdicts {
		assert.Equal(t, claims[i], verdict.Claim)
		assert.Equal(t, model.StatusSuccess, verdict.Status)
		assert.Equal(t, "chatgpt", verdict.Platform.Name)
	}
	assert.Equal(t, claims, v.seen)
}

func TestBatchRunner_FailFast(t *testing.T) {
	claims := []string{"Claim one from 1901.", "Claim two from 1902.", "Claim three from 1903."}
	v := &scriptedVerifier{failOn: map[string]error{claims[1]: model.ErrCollaboratorUnavailable}}
	runner := NewBatchRunner(v, nil)

	verdicts := runner.Run(context.Background(), claims, "gemini")

	require.Len(t, verdicts, 2)
	assert.Equal(t, model.StatusSuccess, verdicts[0].Status)
	assert.Equal(t, claims[0], verdicts[0].Claim)

	assert.Equal(t, model.StatusError, verdicts[1].Status)
	assert.Equal(t, claims[1], verdicts[1].Claim)
	assert.Contains(t, verdicts[1].Details, "collaborator unavailable")

	assert.Equal(t, claims[:2], v.seen, "claim three must never be verified")
}

func TestBatchRunner_WrapsUnknownErrors(t *testing.T) {
	claims := []string{"Claim one from 1901."}
	v := &scriptedVerifier{failOn: map[string]error{claims[0]: errors.New("stdout closed")}}

	verdicts := NewBatchRunner(v, nil).Run(context.Background(), claims, "qwen")

	require.Len(t, verdicts, 1)
	assert.Equal(t, model.StatusError, verdicts[0].Status)
	assert.Contains(t, verdicts[0].Details, "collaborator unavailable: stdout closed")
}

func TestBatchRunner_CancelledContext(t *testing.T) {
	claims := []string{"Claim one from 1901.", "Claim two from 1902."}
	v := &scriptedVerifier{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	verdicts := NewBatchRunner(v, nil).Run(ctx, claims, "claude")

	require.Len(t, verdicts, 1)
	assert.Equal(t, model.StatusError, verdicts[0].Status)
	assert.Equal(t, claims[0], verdicts[0].Claim)
	assert.Empty(t, v.seen)
}

func TestBatchRunner_CancelledMidway(t *testing.T) {
	claims := []string{"Claim one from 1901.", "Claim two from 1902.", "Claim three from 1903."}
	ctx, cancel := context.WithCancel(context.Background())

	var seen []string
	verifier := ClaimVerifierFunc(func(_ context.Context, claim, _ string) (model.Verdict, error) {
		seen = append(seen, claim)
		cancel()
		return model.Verdict{Claim: claim, Status: model.StatusSuccess}, nil
	})

	verdicts := NewBatchRunner(verifier, nil).Run(ctx, claims, "claude")

	require.Len(t, verdicts, 2)
	assert.Equal(t, model.StatusSuccess, verdicts[0].Status)
	assert.Equal(t, model.StatusError, verdicts[1].Status)
	assert.Equal(t, claims[1], verdicts[1].Claim)
	assert.Equal(t, claims[:1], seen)
}

func TestBatchRunner_Empty(t *testing.T) {
	verdicts := NewBatchRunner(&scriptedVerifier{}, nil).Run(context.Background(), nil, "chatgpt")

	assert.NotNil(t, verdicts)
	assert.Empty(t, verdicts)
}
