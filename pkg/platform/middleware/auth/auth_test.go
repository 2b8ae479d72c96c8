package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	id "clockgeo/pkg/domain"
	"clockgeo/pkg/requestcontext"
	"clockgeo/pkg/testutil"
)

type stubValidator struct {
	claims *Claims
	err    error
}

func (s stubValidator) ValidateToken(string) (*Claims, error) {
	return s.claims, s.err
}

func protected(v TokenValidator, seen *id.UserID) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return RequireAuth(v, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = requestcontext.UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestRequireAuth(t *testing.T) {
	userID := id.UserID(uuid.New())

	tests := []struct {
		name       string
		header     string
		validator  stubValidator
		wantStatus int
		wantUser   id.UserID
	}{
		{"valid token", "Bearer good", stubValidator{claims: &Claims{UserID: userID}}, http.StatusNoContent, userID},
		{"missing header", "", stubValidator{}, http.StatusUnauthorized, id.UserID{}},
		{"wrong scheme", "Basic abc", stubValidator{}, http.StatusUnauthorized, id.UserID{}},
		{"empty bearer", "Bearer   ", stubValidator{}, http.StatusUnauthorized, id.UserID{}},
		{"invalid token", "Bearer bad", stubValidator{err: errors.New("signature")}, http.StatusUnauthorized, id.UserID{}},
		{"nil subject", "Bearer odd", stubValidator{claims: &Claims{}}, http.StatusUnauthorized, id.UserID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen id.UserID
			req := testutil.NewJSONRequest(t, http.MethodGet, "/locations/permissions", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := testutil.DoRequest(protected(tt.validator, &seen), req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantUser, seen)
			if tt.wantStatus == http.StatusUnauthorized {
				testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
				assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
