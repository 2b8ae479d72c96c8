package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clockgeo/internal/location/verification"
	dErrors "clockgeo/pkg/domain-errors"
	"clockgeo/pkg/testutil"
)

type retentionFunc func(ctx context.Context, days int) (verification.CleanupResult, error)

func (f retentionFunc) Run(ctx context.Context, days int) (verification.CleanupResult, error) {
	return f(ctx, days)
}

func adminRouter(runner RetentionRunner) chi.Router {
	r := chi.NewRouter()
	NewAdmin(runner, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func TestHandleRetention(t *testing.T) {
	cutoff := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var gotDays int
	r := adminRouter(retentionFunc(func(_ context.Context, days int) (verification.CleanupResult, error) {
		gotDays = days
		return verification.CleanupResult{Cutoff: cutoff, Verifications: 4, AccuracyLogs: 6}, nil
	}))

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/admin/locations/retention?retentionDays=30", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 30, gotDays)

	body := testutil.UnmarshalResponse[RetentionResponse](t, rr)
	assert.Equal(t, int64(4), body.VerificationsDeleted)
	assert.Equal(t, int64(6), body.AccuracyLogsDeleted)
	assert.True(t, cutoff.Equal(body.Cutoff))

	rr = testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/admin/locations/retention", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Zero(t, gotDays, "missing parameter defers to the configured window")
}

func TestHandleRetentionRejectsBadDays(t *testing.T) {
	called := false
	r := adminRouter(retentionFunc(func(context.Context, int) (verification.CleanupResult, error) {
		called = true
		return verification.CleanupResult{}, nil
	}))

	for _, q := range []string{"0", "-3", "ninety"} {
		rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/admin/locations/retention?retentionDays="+q, nil))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	}
	assert.False(t, called)
}

func TestHandleRetentionFailure(t *testing.T) {
	r := adminRouter(retentionFunc(func(context.Context, int) (verification.CleanupResult, error) {
		return verification.CleanupResult{}, dErrors.New(dErrors.CodeInternal, "retention cleanup failed")
	}))
	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/admin/locations/retention", nil))
	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, string(dErrors.CodeInternal))
}
