package host

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/ppiankov/factlens/internal/model"
	"github.com/ppiankov/factlens/internal/platform"
	"go.uber.org/zap"
)

// Verifier is the verification core the host exposes to the browser
type Verifier interface {
	Verify(ctx context.Context, claim, platformID string) model.Verdict
	VerifyMessage(ctx context.Context, msg model.Message) model.MessageResult
}

// Host is a browser native-messaging host: requests arrive on stdin and
// responses leave on stdout, one JSON document per frame.
type Host struct {
	verifier  Verifier
	platforms *platform.Registry
	logger    *zap.Logger

	writeMu sync.Mutex
}

// New creates a host around verifier
func New(verifier Verifier, platforms *platform.Registry, logger *zap.Logger) *Host {
	if platforms == nil {
		platforms = platform.NewRegistry(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{verifier: verifier, platforms: platforms, logger: logger}
}

// Serve handles requests from in until it reaches end of stream, then waits
// for in-flight requests. Requests are handled concurrently; a failed write
// means the browser is gone, which cancels in-flight work and ends Serve.
func (h *Host) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		writeErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			writeErr = err
			cancel()
		})
	}

	reader := bufio.NewReader(in)
	for {
		payload, err := ReadMessage(reader, MaxInboundSize)
		if err != nil {
			wg.Wait()
			if errors.Is(err, io.EOF) {
				h.logger.Info("input closed, host stopping")
				return writeErr
			}
			return fmt.Errorf("read request: %w", err)
		}
		if ctx.Err() != nil {
			wg.Wait()
			return writeErr
		}

		var req model.VerificationRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			h.logger.Warn("invalid request", zap.Error(err))
			if err := h.send(out, model.VerificationResponse{
				ID:    uuid.NewString(),
				Error: fmt.Sprintf("invalid request: %v", err),
			}); err != nil {
				fail(err)
			}
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := h.Handle(ctx, req)
			if err := h.send(out, resp); err != nil {
				h.logger.Error("write response failed", zap.String("id", resp.ID), zap.Error(err))
				fail(fmt.Errorf("%w: %v", model.ErrCollaboratorUnavailable, err))
			}
		}()
	}
}

// Handle dispatches one request. It never fails; problems are reported in the Error field.
func (h *Host) Handle(ctx context.Context, req model.VerificationRequest) model.VerificationResponse {
	resp := model.VerificationResponse{ID: req.ID, Action: req.Action}
	if resp.ID == "" {
		resp.ID = uuid.NewString()
	}

	log := h.logger.With(zap.String("id", resp.ID), zap.String("action", string(req.Action)))

	switch req.Action {
	case model.ActionVerifyClaim:
		if strings.TrimSpace(req.Claim) == "" {
			resp.Error = "claim is required"
			break
		}
		verdict := h.verifier.Verify(ctx, req.Claim, h.platformOf(req))
		resp.Verdict = &verdict
		log.Debug("claim verified", zap.String("status", string(verdict.Status)), zap.String("source", string(verdict.Source)))

	case model.ActionVerifyMessage:
		result := h.verifier.VerifyMessage(ctx, model.Message{
			Text:     req.Text,
			HTML:     req.HTML,
			Platform: h.platformOf(req),
		})
		resp.Result = &result
		log.Debug("message verified", zap.Int("claims", len(result.Claims)), zap.Int("citations", len(result.Citations)))

	case model.ActionPlatformAccuracy:
		accuracy := h.platforms.Lookup(h.platformOf(req))
		resp.Accuracy = &accuracy

	case model.ActionDetectPlatform:
		resp.Platform = platform.Detect(req.Hostname)

	default:
		resp.Error = fmt.Sprintf("unknown action: %q", req.Action)
		log.Warn("unknown action")
	}

	return resp
}

// platformOf prefers the explicit platform id and falls back to the page hostname
func (h *Host) platformOf(req model.VerificationRequest) string {
	if req.Platform != "" {
		return req.Platform
	}
	if req.Hostname != "" {
		return platform.Detect(req.Hostname)
	}
	return ""
}

// send encodes and writes a response. Oversized responses are replaced by an error envelope.
func (h *Host) send(out io.Writer, resp model.VerificationResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	if len(payload) > MaxOutboundSize {
		h.logger.Warn("response too large", zap.String("id", resp.ID), zap.Int("bytes", len(payload)))
		payload, err = json.Marshal(model.VerificationResponse{
			ID:     resp.ID,
			Action: resp.Action,
			Error:  "response too large",
		})
		if err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	return WriteMessage(out, payload)
}
