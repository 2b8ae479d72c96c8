package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	dErrors "clockgeo/pkg/domain-errors"
	"clockgeo/pkg/platform/httputil"
	"clockgeo/pkg/requestcontext"
)

// PerUser limits each authenticated user to limit requests per window. It
// must run after the auth middleware; requests without a user pass through.
// Store failures are logged and the request is allowed.
func PerUser(store Store, limit int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := requestcontext.UserID(ctx)
			if userID.IsNil() {
				next.ServeHTTP(w, r)
				return
			}

			res, err := store.Allow(ctx, "user:"+userID.String(), limit, window)
			if err != nil {
				logger.ErrorContext(ctx, "failed to check rate limit",
					"request_id", requestcontext.RequestID(ctx),
					"user_id", userID.String(),
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				logger.WarnContext(ctx, "rate limit exceeded",
					"request_id", requestcontext.RequestID(ctx),
					"user_id", userID.String(),
					"path", r.URL.Path,
				)
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many location requests; try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
