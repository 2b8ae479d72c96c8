package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"clockgeo/internal/location/capture"
	"clockgeo/internal/location/models"
	id "clockgeo/pkg/domain"
	dErrors "clockgeo/pkg/domain-errors"
	"clockgeo/pkg/platform/httputil"
	"clockgeo/pkg/requestcontext"
)

// CaptureService is the capture orchestration used by the handler.
type CaptureService interface {
	Capture(ctx context.Context, req capture.Request) (*capture.Result, error)
	Preview(ctx context.Context, req capture.PreviewRequest) models.Verdict
	Verifications(ctx context.Context, userID id.UserID, eventID id.ClockEventID) ([]models.VerificationView, error)
}

// PermissionService tracks location permission observations.
type PermissionService interface {
	Record(ctx context.Context, userID id.UserID, permType models.PermissionType, status string) (*models.PermissionRecord, error)
	CurrentStatus(ctx context.Context, userID id.UserID) (models.PermissionStatus, error)
	History(ctx context.Context, userID id.UserID, limit int) ([]models.PermissionRecord, error)
}

// Handler serves the /locations endpoints. Routes expect the auth
// middleware to have placed the user id in the request context.
type Handler struct {
	capture     CaptureService
	permissions PermissionService
	logger      *slog.Logger
}

func New(captureSvc CaptureService, permissions PermissionService, logger *slog.Logger) *Handler {
	return &Handler{capture: captureSvc, permissions: permissions, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/locations", func(r chi.Router) {
		r.Post("/capture", h.HandleCapture)
		r.Post("/validate", h.HandleValidate)
		r.Get("/verifications/{timeRecordId}", h.HandleVerifications)
		r.Post("/permissions", h.HandleRecordPermission)
		r.Get("/permissions", h.HandlePermissionStatus)
		r.Get("/permissions/history", h.HandlePermissionHistory)
	})
}

// HandleCapture records the location of a clock-in or clock-out.
func (h *Handler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, ok := h.requireUser(w, ctx, requestID)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[CaptureRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.capture.Capture(ctx, capture.Request{
		UserID:       userID,
		ClockEventID: req.eventID,
		Direction:    req.direction,
		Coordinate:   req.coord,
		Accuracy:     *req.Accuracy,
		Source:       req.source,
		Timestamp:    req.capturedAt,
		Metadata:     req.Metadata,
	})
	if err != nil {
		h.logFailure(ctx, "location capture failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toCaptureResponse(res))
}

// HandleValidate returns the verdict a capture would get, without recording it.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, ok := h.requireUser(w, ctx, requestID)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[ValidateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	verdict := h.capture.Preview(ctx, capture.PreviewRequest{
		UserID:     userID,
		Coordinate: req.coord,
		Accuracy:   *req.Accuracy,
		SiteID:     req.siteID,
		StrictMode: req.StrictMode,
	})
	httputil.WriteJSON(w, http.StatusOK, toVerdictResponse(verdict))
}

func (h *Handler) HandleVerifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, ok := h.requireUser(w, ctx, requestID)
	if !ok {
		return
	}

	eventID, err := id.ParseClockEventID(chi.URLParam(r, "timeRecordId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	views, err := h.capture.Verifications(ctx, userID, eventID)
	if err != nil {
		h.logFailure(ctx, "failed to load verifications", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVerificationList(eventID.String(), views))
}

func (h *Handler) HandleRecordPermission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, ok := h.requireUser(w, ctx, requestID)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[PermissionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rec, err := h.permissions.Record(ctx, userID, req.permType, req.Status)
	if err != nil {
		h.logFailure(ctx, "failed to record location permission", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toPermissionRecord(*rec))
}

func (h *Handler) HandlePermissionStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, ok := h.requireUser(w, ctx, requestID)
	if !ok {
		return
	}

	st, err := h.permissions.CurrentStatus(ctx, userID)
	if err != nil {
		h.logFailure(ctx, "failed to load location permission", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPermissionStatus(st))
}

func (h *Handler) HandlePermissionHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, ok := h.requireUser(w, ctx, requestID)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	recs, err := h.permissions.History(ctx, userID, limit)
	if err != nil {
		h.logFailure(ctx, "failed to load permission history", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	resp := PermissionHistoryResponse{Permissions: make([]PermissionRecordResponse, 0, len(recs))}
	for _, rec := range recs {
		resp.Permissions = append(resp.Permissions, toPermissionRecord(rec))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) requireUser(w http.ResponseWriter, ctx context.Context, requestID string) (id.UserID, bool) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		// RequireAuth should have rejected the request already.
		h.logger.ErrorContext(ctx, "user id missing from context despite auth middleware",
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UserID{}, false
	}
	return userID, true
}

// logFailure logs client errors at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg, requestID string, err error) {
	if httputil.StatusFor(codeOf(err)) < http.StatusInternalServerError {
		h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err.Error())
		return
	}
	h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err.Error())
}

func codeOf(err error) dErrors.Code {
	if de, ok := dErrors.As(err); ok {
		return de.Code
	}
	return dErrors.CodeInternal
}
