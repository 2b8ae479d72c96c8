package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"clockgeo/internal/geo"
	"clockgeo/internal/location/models"
	id "clockgeo/pkg/domain"
	"clockgeo/pkg/platform/sentinel"
	"clockgeo/pkg/platform/tx"
)

const uniqueViolation = "23505"

// VerificationStore persists verification records. Coordinates arrive sealed.
type VerificationStore struct {
	db *sql.DB
}

func NewVerificationStore(db *sql.DB) *VerificationStore {
	return &VerificationStore{db: db}
}

func (s *VerificationStore) Insert(ctx context.Context, rec *models.VerificationRecord) error {
	metadata, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("marshal verification metadata: %w", err)
	}
	var siteLocationID uuid.NullUUID
	if rec.SiteLocationID != nil {
		siteLocationID = uuid.NullUUID{UUID: uuid.UUID(*rec.SiteLocationID), Valid: true}
	}
	query := `
		INSERT INTO location_verifications (
			id, time_record_id, user_id, capture_type,
			latitude_enc, longitude_enc, encryption_version,
			accuracy, accuracy_tier, source, distance_from_site, is_within_geofence, site_location_id,
			status, reason, warnings, errors, metadata, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err = tx.Exec(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(rec.ID),
		uuid.UUID(rec.ClockEventID),
		uuid.UUID(rec.UserID),
		string(rec.Direction),
		rec.Coordinates.Latitude,
		rec.Coordinates.Longitude,
		rec.Coordinates.Version,
		rec.Accuracy,
		string(rec.AccuracyTier),
		string(rec.Source),
		rec.DistanceFromSite,
		rec.IsWithinGeofence,
		siteLocationID,
		string(rec.Status),
		rec.Reason,
		pq.Array(nonNilStrings(rec.Warnings)),
		pq.Array(nonNilStrings(rec.Errors)),
		metadata,
		rec.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert location verification: %w", err)
	}
	return nil
}

// ListByClockEvent returns the records of one time record, oldest first.
func (s *VerificationStore) ListByClockEvent(ctx context.Context, eventID id.ClockEventID) ([]models.VerificationRecord, error) {
	query := `
		SELECT id, time_record_id, user_id, capture_type,
			latitude_enc, longitude_enc, encryption_version,
			accuracy, accuracy_tier, source, distance_from_site, is_within_geofence, site_location_id,
			status, reason, warnings, errors, metadata, created_at
		FROM location_verifications
		WHERE time_record_id = $1
		ORDER BY created_at, id
	`
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, query, uuid.UUID(eventID))
	if err != nil {
		return nil, fmt.Errorf("list location verifications: %w", err)
	}
	defer rows.Close()

	var out []models.VerificationRecord
	for rows.Next() {
		var (
			recID, recordEventID, userID uuid.UUID
			siteLocationID               uuid.NullUUID
			distance                     sql.NullFloat64
			direction, tier, source      string
			status                       string
			metadata                     []byte
			rec                          models.VerificationRecord
		)
		err := rows.Scan(&recID, &recordEventID, &userID, &direction,
			&rec.Coordinates.Latitude, &rec.Coordinates.Longitude, &rec.Coordinates.Version,
			&rec.Accuracy, &tier, &source, &distance, &rec.IsWithinGeofence, &siteLocationID,
			&status, &rec.Reason, pq.Array(&rec.Warnings), pq.Array(&rec.Errors), &metadata, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan location verification: %w", err)
		}
		if err := json.Unmarshal(metadata, &rec.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal verification metadata: %w", err)
		}
		rec.ID = id.VerificationID(recID)
		rec.ClockEventID = id.ClockEventID(recordEventID)
		rec.UserID = id.UserID(userID)
		rec.Direction = models.Direction(direction)
		rec.AccuracyTier = geo.Tier(tier)
		rec.Source = models.Source(source)
		rec.Status = models.Status(status)
		if distance.Valid {
			d := distance.Float64
			rec.DistanceFromSite = &d
		}
		if siteLocationID.Valid {
			locID := id.SiteLocationID(siteLocationID.UUID)
			rec.SiteLocationID = &locID
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate location verifications: %w", err)
	}
	return out, nil
}

func (s *VerificationStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return deleteOlderThan(ctx, tx.Exec(ctx, s.db), "location_verifications", cutoff)
}

// AccuracyLogStore persists per-attempt accuracy samples.
type AccuracyLogStore struct {
	db *sql.DB
}

func NewAccuracyLogStore(db *sql.DB) *AccuracyLogStore {
	return &AccuracyLogStore{db: db}
}

func (s *AccuracyLogStore) Append(ctx context.Context, entry *models.AccuracyLog) error {
	query := `
		INSERT INTO location_accuracy_logs (id, user_id, time_record_id, capture_type, accuracy, accuracy_tier, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	// A failed sample must not abort the surrounding capture transaction.
	err := tx.Savepoint(ctx, s.db, "accuracy_log", func(exec tx.Executor) error {
		_, err := exec.ExecContext(ctx, query,
			uuid.UUID(entry.ID),
			uuid.UUID(entry.UserID),
			uuid.UUID(entry.ClockEventID),
			string(entry.Direction),
			entry.Accuracy,
			string(entry.Tier),
			string(entry.Source),
			entry.CreatedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("append accuracy log: %w", err)
	}
	return nil
}

func (s *AccuracyLogStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return deleteOlderThan(ctx, tx.Exec(ctx, s.db), "location_accuracy_logs", cutoff)
}

// deleteOlderThan removes rows created strictly before cutoff. table is
// always one of the package's constant table names.
func deleteOlderThan(ctx context.Context, exec tx.Executor, table string, cutoff time.Time) (int64, error) {
	res, err := exec.ExecContext(ctx, `DELETE FROM `+table+` WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, err)
	}
	return n, nil
}

func nonNilStrings(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
