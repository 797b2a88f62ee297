package rest

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
)

// SweepSecretHeader authenticates the external scheduler.
const SweepSecretHeader = "X-Sweep-Secret"

type sweeper interface {
	Sweep(ctx context.Context, now time.Time) (domain.SweepReport, error)
}

// SweepHandler lets an external scheduler trigger one closer sweep.
type SweepHandler struct {
	svc    sweeper
	secret []byte
	clock  func() time.Time
	log    *slog.Logger
}

// NewSweepHandler creates a SweepHandler guarded by secret.
func NewSweepHandler(svc sweeper, secret string, logger *slog.Logger) *SweepHandler {
	return &SweepHandler{
		svc:    svc,
		secret: []byte(secret),
		clock:  time.Now,
		log:    logger.With("handler", "sweep"),
	}
}

type sweepResponse struct {
	Closed  int             `json:"closed"`
	Skipped int             `json:"skipped"`
	Errors  []sweepLotError `json:"errors,omitempty"`
}

type sweepLotError struct {
	LotID string `json:"lot_id"`
	Error string `json:"error"`
}

// Sweep handles POST /internal/lots/sweep. Per-lot failures are reported in
// the body with status 200; only a failed selection returns 500.
func (h *SweepHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	got := []byte(r.Header.Get(SweepSecretHeader))
	if len(h.secret) == 0 || subtle.ConstantTimeCompare(got, h.secret) != 1 {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	report, err := h.svc.Sweep(r.Context(), h.clock())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := sweepResponse{Closed: report.Closed, Skipped: report.Skipped}
	for _, le := range report.Errors {
		resp.Errors = append(resp.Errors, sweepLotError{LotID: le.LotID.String(), Error: le.Err.Error()})
	}
	writeJSON(w, http.StatusOK, resp)
}
