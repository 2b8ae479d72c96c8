package handler

import (
	"fmt"
	"strings"
	"time"

	"clockgeo/internal/geo"
	"clockgeo/internal/location/models"
	id "clockgeo/pkg/domain"
	dErrors "clockgeo/pkg/domain-errors"
)

const (
	maxMetadataKeys     = 20
	maxMetadataKeyLen   = 64
	maxMetadataValueLen = 256
)

// CaptureRequest is the body of POST /locations/capture.
type CaptureRequest struct {
	TimeRecordID string         `json:"timeRecordId"`
	CaptureType  string         `json:"captureType"`
	Latitude     *float64       `json:"latitude"`
	Longitude    *float64       `json:"longitude"`
	Accuracy     *float64       `json:"accuracy"`
	Source       string         `json:"source"`
	Timestamp    string         `json:"timestamp,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`

	eventID    id.ClockEventID
	direction  models.Direction
	coord      geo.Coordinate
	source     models.Source
	capturedAt time.Time
}

func (r *CaptureRequest) Validate() error {
	var err error
	if r.eventID, err = id.ParseClockEventID(r.TimeRecordID); err != nil {
		return err
	}
	if r.direction, err = models.ParseDirection(r.CaptureType); err != nil {
		return err
	}
	if r.coord, err = parseCoordinate(r.Latitude, r.Longitude); err != nil {
		return err
	}
	if err := validateAccuracy(r.Accuracy); err != nil {
		return err
	}
	if r.source, err = models.ParseSource(r.Source); err != nil {
		return err
	}
	if ts := strings.TrimSpace(r.Timestamp); ts != "" {
		if r.capturedAt, err = time.Parse(time.RFC3339, ts); err != nil {
			return dErrors.New(dErrors.CodeValidation, "timestamp must be an RFC 3339 date-time")
		}
	}
	return validateMetadata(r.Metadata)
}

// ValidateRequest is the body of POST /locations/validate.
type ValidateRequest struct {
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Accuracy   *float64 `json:"accuracy"`
	SiteID     string   `json:"siteId,omitempty"`
	StrictMode *bool    `json:"strictMode,omitempty"`

	coord  geo.Coordinate
	siteID *id.SiteID
}

func (r *ValidateRequest) Validate() error {
	var err error
	if r.coord, err = parseCoordinate(r.Latitude, r.Longitude); err != nil {
		return err
	}
	if err := validateAccuracy(r.Accuracy); err != nil {
		return err
	}
	if strings.TrimSpace(r.SiteID) != "" {
		siteID, err := id.ParseSiteID(r.SiteID)
		if err != nil {
			return err
		}
		r.siteID = &siteID
	}
	return nil
}

// PermissionRequest is the body of POST /locations/permissions.
type PermissionRequest struct {
	PermissionType string `json:"permissionType"`
	Status         string `json:"status,omitempty"`

	permType models.PermissionType
}

func (r *PermissionRequest) Validate() error {
	var err error
	r.permType, err = models.ParsePermissionType(r.PermissionType)
	return err
}

func parseCoordinate(lat, lng *float64) (geo.Coordinate, error) {
	if lat == nil || lng == nil {
		return geo.Coordinate{}, dErrors.New(dErrors.CodeValidation, "latitude and longitude are required")
	}
	return geo.NewCoordinate(*lat, *lng)
}

func validateAccuracy(acc *float64) error {
	if acc == nil {
		return dErrors.New(dErrors.CodeValidation, "accuracy is required")
	}
	if !geo.ValidAccuracy(*acc) {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("accuracy must be a non-negative number of meters, got %v", *acc))
	}
	return nil
}

// validateMetadata accepts a small flat object of scalar values.
func validateMetadata(md map[string]any) error {
	if len(md) > maxMetadataKeys {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("metadata may have at most %d keys", maxMetadataKeys))
	}
	for k, v := range md {
		if k == "" || len(k) > maxMetadataKeyLen {
			return dErrors.New(dErrors.CodeValidation, "metadata keys must be 1 to 64 characters")
		}
		switch val := v.(type) {
		case string:
			if len(val) > maxMetadataValueLen {
				return dErrors.New(dErrors.CodeValidation, "metadata."+k+" is too long")
			}
		case float64, bool, nil:
		default:
			return dErrors.New(dErrors.CodeValidation, "metadata."+k+" must be a string, number or boolean")
		}
	}
	return nil
}
