package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "clockgeo/pkg/domain"
	audit "clockgeo/pkg/platform/audit"
)

func TestEncode(t *testing.T) {
	userID := id.UserID(uuid.New())
	raw, err := encode(audit.Event{
		Category:   audit.CategoryCompliance,
		Timestamp:  time.Date(2026, 3, 2, 8, 0, 0, 0, time.FixedZone("EST", -5*3600)),
		UserID:     userID,
		Subject:    "event-1",
		Action:     string(audit.EventLocationCaptured),
		Attributes: map[string]string{"direction": "clock_in"},
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "2026-03-02T13:00:00Z", got["timestamp"])
	assert.Equal(t, userID.String(), got["user_id"])
	assert.Equal(t, "location_captured", got["action"])
	assert.NotContains(t, got, "reason")
}

func TestNew_RequiresBrokers(t *testing.T) {
	_, err := New(nil, "audit")
	assert.Error(t, err)
}
