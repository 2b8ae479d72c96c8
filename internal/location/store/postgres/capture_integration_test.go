//go:build integration

package postgres_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"clockgeo/internal/geo"
	"clockgeo/internal/location/capture"
	"clockgeo/internal/location/coordcrypt"
	"clockgeo/internal/location/geofence"
	"clockgeo/internal/location/models"
	"clockgeo/internal/location/verification"
	id "clockgeo/pkg/domain"
	"clockgeo/pkg/platform/tx"
)

// A rejected accuracy sample is dropped without rolling back the capture
// it belongs to.
func (s *PostgresStoreSuite) TestCaptureSurvivesAccuracyLogFailure() {
	ctx := context.Background()
	db := s.postgres.DB

	_, err := db.ExecContext(ctx, `ALTER TABLE location_accuracy_logs ADD CONSTRAINT accuracy_log_blocked CHECK (accuracy < 0)`)
	s.Require().NoError(err)
	defer func() {
		_, err := db.ExecContext(ctx, `ALTER TABLE location_accuracy_logs DROP CONSTRAINT accuracy_log_blocked`)
		s.Require().NoError(err)
	}()

	s.Require().NoError(s.sites.Save(ctx, models.SiteLocation{
		ID: id.SiteLocationID(uuid.New()), SiteID: id.SiteID(uuid.New()), SiteName: "General", Name: "Main",
		Coordinate: geo.Coordinate{Latitude: 39.9526, Longitude: -75.1652}, RadiusMeters: 100, Active: true,
	}))
	userID := id.UserID(uuid.New())
	eventID := s.seedEvent(ctx, userID)

	svc, err := capture.New(s.events,
		geofence.NewValidator(geofence.NewLocator(s.sites)),
		verification.NewRecorder(s.verifications, s.samples, coordcrypt.NewPlaintext()),
		tx.NewSQLRunner(db),
	)
	s.Require().NoError(err)

	res, err := svc.Capture(ctx, capture.Request{
		UserID:       userID,
		ClockEventID: eventID,
		Direction:    models.DirectionClockIn,
		Coordinate:   geo.Coordinate{Latitude: 39.9527, Longitude: -75.1652},
		Accuracy:     8,
		Source:       models.SourceGPS,
		Timestamp:    time.Now(),
	})
	s.Require().NoError(err)

	stored, err := s.events.FindByID(ctx, eventID)
	s.Require().NoError(err)
	s.True(stored.Captured(models.DirectionClockIn))

	records, err := s.verifications.ListByClockEvent(ctx, eventID)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(res.VerificationID, records[0].ID)

	var samples int
	s.Require().NoError(db.QueryRowContext(ctx, `SELECT COUNT(*) FROM location_accuracy_logs`).Scan(&samples))
	s.Zero(samples)
}

func (s *PostgresStoreSuite) TestAccuracyLogAppendOutsideTransaction() {
	ctx := context.Background()
	err := s.samples.Append(ctx, &models.AccuracyLog{
		ID: id.AccuracyLogID(uuid.New()), UserID: id.UserID(uuid.New()), ClockEventID: id.ClockEventID(uuid.New()),
		Direction: models.DirectionClockOut, Accuracy: 40, Tier: geo.TierMedium, Source: models.SourceNetwork,
		CreatedAt: time.Now().UTC(),
	})
	s.Require().NoError(err)

	var samples int
	s.Require().NoError(s.postgres.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM location_accuracy_logs`).Scan(&samples))
	s.Equal(1, samples)
}
