package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "clockgeo/pkg/domain"
	"clockgeo/pkg/requestcontext"
)

type storeFunc func(ctx context.Context, key string, limit int, window time.Duration) (Result, error)

func (f storeFunc) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	return f(ctx, key, limit, window)
}

func TestPerUser(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userID := id.UserID(uuid.New())
	resetAt := time.Now().Add(time.Minute)

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		store      storeFunc
		limit      int
		withUser   bool
		wantStatus int
		wantRetry  string
		wantQuota  bool
	}{
		{
			name: "allowed request passes with headers",
			store: func(_ context.Context, key string, limit int, _ time.Duration) (Result, error) {
				assert.Equal(t, "user:"+userID.String(), key)
				return Result{Allowed: true, Limit: limit, Remaining: limit - 1, ResetAt: resetAt}, nil
			},
			limit:      3,
			withUser:   true,
			wantStatus: http.StatusNoContent,
			wantQuota:  true,
		},
		{
			name: "denied request gets 429",
			store: func(_ context.Context, _ string, limit int, _ time.Duration) (Result, error) {
				return Result{Allowed: false, Limit: limit, ResetAt: resetAt, RetryAfter: 1500 * time.Millisecond}, nil
			},
			limit:      3,
			withUser:   true,
			wantStatus: http.StatusTooManyRequests,
			wantRetry:  "2",
		},
		{
			name: "store failure fails open",
			store: func(context.Context, string, int, time.Duration) (Result, error) {
				return Result{}, errors.New("redis down")
			},
			limit:      3,
			withUser:   true,
			wantStatus: http.StatusNoContent,
		},
		{
			name: "anonymous request is not counted",
			store: func(context.Context, string, int, time.Duration) (Result, error) {
				t.Fatal("store must not be called without a user")
				return Result{}, nil
			},
			limit:      3,
			wantStatus: http.StatusNoContent,
		},
		{
			name: "zero limit disables the middleware",
			store: func(context.Context, string, int, time.Duration) (Result, error) {
				t.Fatal("store must not be called when disabled")
				return Result{}, nil
			},
			limit:      0,
			withUser:   true,
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := PerUser(tt.store, tt.limit, time.Minute, logger)(ok)
			req := httptest.NewRequest(http.MethodPost, "/locations/capture", nil)
			if tt.withUser {
				req = req.WithContext(requestcontext.WithUserID(req.Context(), userID))
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantRetry != "" {
				assert.Equal(t, tt.wantRetry, rr.Header().Get("Retry-After"))
				assert.Contains(t, rr.Body.String(), `"rate_limited"`)
			}
			if tt.wantQuota {
				assert.Equal(t, "3", rr.Header().Get("X-RateLimit-Limit"))
				assert.Equal(t, "2", rr.Header().Get("X-RateLimit-Remaining"))
			}
		})
	}
}
