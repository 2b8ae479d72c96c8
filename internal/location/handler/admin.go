package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"clockgeo/internal/location/verification"
	dErrors "clockgeo/pkg/domain-errors"
	"clockgeo/pkg/platform/httputil"
	"clockgeo/pkg/requestcontext"
)

// RetentionRunner applies the verification retention policy.
type RetentionRunner interface {
	Run(ctx context.Context, days int) (verification.CleanupResult, error)
}

// AdminHandler serves operator endpoints. Mount it behind the admin token
// middleware, not the user auth middleware.
type AdminHandler struct {
	retention RetentionRunner
	logger    *slog.Logger
}

func NewAdmin(retention RetentionRunner, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{retention: retention, logger: logger}
}

func (h *AdminHandler) Register(r chi.Router) {
	r.Post("/admin/locations/retention", h.HandleRetention)
}

type RetentionResponse struct {
	Cutoff               time.Time `json:"cutoff"`
	VerificationsDeleted int64     `json:"verificationsDeleted"`
	AccuracyLogsDeleted  int64     `json:"accuracyLogsDeleted"`
}

// HandleRetention runs one cleanup pass. retentionDays defaults to the
// configured window.
func (h *AdminHandler) HandleRetention(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	days := 0
	if raw := r.URL.Query().Get("retentionDays"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "retentionDays must be a positive integer"))
			return
		}
		days = n
	}

	res, err := h.retention.Run(ctx, days)
	if err != nil {
		h.logger.ErrorContext(ctx, "retention cleanup request failed", "request_id", requestID, "error", err.Error())
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, RetentionResponse{
		Cutoff:               res.Cutoff.UTC(),
		VerificationsDeleted: res.Verifications,
		AccuracyLogsDeleted:  res.AccuracyLogs,
	})
}
