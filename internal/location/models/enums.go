package models

import (
	"strings"

	dErrors "clockgeo/pkg/domain-errors"
)

// Direction is the clock action a reading belongs to.
type Direction string

const (
	DirectionClockIn  Direction = "clock_in"
	DirectionClockOut Direction = "clock_out"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.TrimSpace(s)); d {
	case DirectionClockIn, DirectionClockOut:
		return d, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "captureType must be one of: clock_in, clock_out")
}

// Source is the positioning source reported by the device.
type Source string

const (
	SourceGPS     Source = "gps"
	SourceNetwork Source = "network"
	SourcePassive Source = "passive"
	SourceManual  Source = "manual"
)

func ParseSource(s string) (Source, error) {
	switch src := Source(strings.ToLower(strings.TrimSpace(s))); src {
	case SourceGPS, SourceNetwork, SourcePassive, SourceManual:
		return src, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "source must be one of: gps, network, passive, manual")
}

// Status is the derived outcome of a verification.
type Status string

const (
	StatusApproved Status = "approved"
	StatusFlagged  Status = "flagged"
	StatusRejected Status = "rejected"
)

// PermissionType is the location permission state reported by a device.
type PermissionType string

const (
	PermissionGranted      PermissionType = "granted"
	PermissionDenied       PermissionType = "denied"
	PermissionPrompt       PermissionType = "prompt"
	PermissionNotRequested PermissionType = "not_requested"
)

func ParsePermissionType(s string) (PermissionType, error) {
	switch p := PermissionType(strings.TrimSpace(s)); p {
	case PermissionGranted, PermissionDenied, PermissionPrompt, PermissionNotRequested:
		return p, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "permissionType must be one of: granted, denied, prompt, not_requested")
}

// PolicyMode records which strictness rule applied to a verdict.
type PolicyMode string

const (
	PolicyLenient    PolicyMode = "lenient"
	PolicyStrict     PolicyMode = "strict"
	PolicySiteStrict PolicyMode = "site_strict"
)
