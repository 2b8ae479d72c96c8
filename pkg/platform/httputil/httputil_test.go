package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "clockgeo/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var body map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "internal_error", body["error"])
		assert.NotContains(t, body, "error_description")
	})

	t.Run("bad request includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid input"))

		require.Equal(t, http.StatusBadRequest, w.Code)
		var body map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "bad_request", body["error"])
		assert.Equal(t, "invalid input", body["error_description"])
	})

	t.Run("policy violation carries details", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := dErrors.WithDetails(
			dErrors.New(dErrors.CodePolicyViolation, "location validation failed"),
			[]string{"GPS accuracy too low: 150m (maximum allowed: 100m)"},
		)
		WriteError(w, err)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var body ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, []string{"GPS accuracy too low: 150m (maximum allowed: 100m)"}, body.Details)
	})

	t.Run("plain error is treated as internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
