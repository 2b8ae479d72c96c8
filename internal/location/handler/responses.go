package handler

import (
	"time"

	"clockgeo/internal/location/capture"
	"clockgeo/internal/location/models"
)

type LocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Source    string  `json:"source"`
}

type ValidationSummary struct {
	Accuracy string   `json:"accuracy"`
	Warnings []string `json:"warnings"`
}

type CaptureResponse struct {
	Success        bool              `json:"success"`
	TimeRecordID   string            `json:"timeRecordId"`
	CaptureType    string            `json:"captureType"`
	Location       LocationResponse  `json:"location"`
	Validation     ValidationSummary `json:"validation"`
	Timestamp      time.Time         `json:"timestamp"`
	VerificationID string            `json:"verificationId"`
}

func toCaptureResponse(res *capture.Result) CaptureResponse {
	return CaptureResponse{
		Success:      true,
		TimeRecordID: res.ClockEventID.String(),
		CaptureType:  string(res.Direction),
		Location: LocationResponse{
			Latitude:  res.Location.Latitude,
			Longitude: res.Location.Longitude,
			Accuracy:  res.Location.Accuracy,
			Source:    string(res.Location.Source),
		},
		Validation: ValidationSummary{
			Accuracy: string(res.AccuracyTier),
			Warnings: nonNil(res.Warnings),
		},
		Timestamp:      res.Timestamp.UTC(),
		VerificationID: res.VerificationID.String(),
	}
}

type NearestSiteResponse struct {
	SiteID         string  `json:"siteId"`
	LocationID     string  `json:"locationId"`
	Name           string  `json:"name"`
	Address        string  `json:"address,omitempty"`
	RadiusMeters   float64 `json:"radiusMeters"`
	StrictGeofence bool    `json:"strictGeofence"`
}

type AccuracyResponse struct {
	Meters     float64 `json:"meters"`
	Tier       string  `json:"tier"`
	Acceptable bool    `json:"acceptable"`
}

type VerdictResponse struct {
	IsValid          bool                 `json:"isValid"`
	IsWithinGeofence bool                 `json:"isWithinGeofence"`
	DistanceFromSite *float64             `json:"distanceFromSite,omitempty"`
	NearestSite      *NearestSiteResponse `json:"nearestSite,omitempty"`
	Accuracy         AccuracyResponse     `json:"accuracy"`
	Status           string               `json:"status"`
	PolicyMode       string               `json:"policyMode"`
	Warnings         []string             `json:"warnings"`
	Errors           []string             `json:"errors"`
}

func toVerdictResponse(v models.Verdict) VerdictResponse {
	resp := VerdictResponse{
		IsValid:          v.IsValid,
		IsWithinGeofence: v.IsWithinGeofence,
		DistanceFromSite: v.DistanceFromSite,
		Accuracy: AccuracyResponse{
			Meters:     v.Accuracy.Meters,
			Tier:       string(v.Accuracy.Tier),
			Acceptable: v.Accuracy.Acceptable,
		},
		Status:     string(v.Status()),
		PolicyMode: string(v.PolicyMode),
		Warnings:   nonNil(v.Warnings),
		Errors:     nonNil(v.Errors),
	}
	if n := v.NearestSite; n != nil {
		resp.NearestSite = &NearestSiteResponse{
			SiteID:         n.SiteID.String(),
			LocationID:     n.LocationID.String(),
			Name:           n.Name,
			Address:        n.Address,
			RadiusMeters:   n.RadiusMeters,
			StrictGeofence: n.StrictGeofence,
		}
	}
	return resp
}

type VerificationResponse struct {
	ID               string         `json:"id"`
	CaptureType      string         `json:"captureType"`
	Latitude         float64        `json:"latitude"`
	Longitude        float64        `json:"longitude"`
	Accuracy         float64        `json:"accuracy"`
	AccuracyTier     string         `json:"accuracyTier"`
	Source           string         `json:"source"`
	DistanceFromSite *float64       `json:"distanceFromSite,omitempty"`
	IsWithinGeofence bool           `json:"isWithinGeofence"`
	SiteLocationID   string         `json:"siteLocationId,omitempty"`
	Status           string         `json:"status"`
	Reason           string         `json:"reason,omitempty"`
	Warnings         []string       `json:"warnings"`
	Errors           []string       `json:"errors"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
}

type VerificationListResponse struct {
	TimeRecordID  string                 `json:"timeRecordId"`
	Verifications []VerificationResponse `json:"verifications"`
}

func toVerificationList(eventID string, views []models.VerificationView) VerificationListResponse {
	out := VerificationListResponse{TimeRecordID: eventID, Verifications: make([]VerificationResponse, 0, len(views))}
	for _, v := range views {
		item := VerificationResponse{
			ID:               v.ID.String(),
			CaptureType:      string(v.Direction),
			Latitude:         v.Coordinate.Latitude,
			Longitude:        v.Coordinate.Longitude,
			Accuracy:         v.Accuracy,
			AccuracyTier:     string(v.AccuracyTier),
			Source:           string(v.Source),
			DistanceFromSite: v.DistanceFromSite,
			IsWithinGeofence: v.IsWithinGeofence,
			Status:           string(v.Status),
			Reason:           v.Reason,
			Warnings:         nonNil(v.Warnings),
			Errors:           nonNil(v.Errors),
			Metadata:         v.Metadata,
			CreatedAt:        v.CreatedAt.UTC(),
		}
		if v.SiteLocationID != nil {
			item.SiteLocationID = v.SiteLocationID.String()
		}
		out.Verifications = append(out.Verifications, item)
	}
	return out
}

type PermissionStatusResponse struct {
	HasPermission  bool       `json:"hasPermission"`
	PermissionType string     `json:"permissionType,omitempty"`
	Status         string     `json:"status,omitempty"`
	LastUsedAt     *time.Time `json:"lastUsedAt,omitempty"`
	LastCheckedAt  *time.Time `json:"lastCheckedAt,omitempty"`
}

func toPermissionStatus(st models.PermissionStatus) PermissionStatusResponse {
	return PermissionStatusResponse{
		HasPermission:  st.HasPermission,
		PermissionType: string(st.PermissionType),
		Status:         st.Status,
		LastUsedAt:     st.LastUsedAt,
		LastCheckedAt:  st.LastCheckedAt,
	}
}

type PermissionRecordResponse struct {
	ID             string     `json:"id"`
	PermissionType string     `json:"permissionType"`
	Status         string     `json:"status"`
	LastUsedAt     *time.Time `json:"lastUsedAt,omitempty"`
	LastCheckedAt  time.Time  `json:"lastCheckedAt"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func toPermissionRecord(r models.PermissionRecord) PermissionRecordResponse {
	return PermissionRecordResponse{
		ID:             r.ID.String(),
		PermissionType: string(r.PermissionType),
		Status:         r.Status,
		LastUsedAt:     r.LastUsedAt,
		LastCheckedAt:  r.LastCheckedAt,
		CreatedAt:      r.CreatedAt,
	}
}

type PermissionHistoryResponse struct {
	Permissions []PermissionRecordResponse `json:"permissions"`
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
