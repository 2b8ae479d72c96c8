package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"clockgeo/internal/location/models"
	id "clockgeo/pkg/domain"
	"clockgeo/pkg/platform/sentinel"
	"clockgeo/pkg/platform/tx"
)

const clockEventColumns = `
	id, user_id, site_id,
	clock_in_latitude, clock_in_longitude, clock_in_accuracy, clock_in_source, clock_in_captured_at,
	clock_out_latitude, clock_out_longitude, clock_out_accuracy, clock_out_source, clock_out_captured_at
`

// Direction-specific updates. A column is only written while it is still
// NULL, so a lost race shows up as zero rows affected.
var captureUpdates = map[models.Direction]string{
	models.DirectionClockIn: `
		UPDATE time_records
		SET clock_in_latitude = $2, clock_in_longitude = $3, clock_in_accuracy = $4,
			clock_in_source = $5, clock_in_captured_at = $6
		WHERE id = $1 AND clock_in_latitude IS NULL
	`,
	models.DirectionClockOut: `
		UPDATE time_records
		SET clock_out_latitude = $2, clock_out_longitude = $3, clock_out_accuracy = $4,
			clock_out_source = $5, clock_out_captured_at = $6
		WHERE id = $1 AND clock_out_latitude IS NULL
	`,
}

// ClockEventStore reads time records and writes their location columns.
type ClockEventStore struct {
	db *sql.DB
}

func NewClockEventStore(db *sql.DB) *ClockEventStore {
	return &ClockEventStore{db: db}
}

func (s *ClockEventStore) FindByID(ctx context.Context, eventID id.ClockEventID) (*models.ClockEvent, error) {
	query := `SELECT ` + clockEventColumns + ` FROM time_records WHERE id = $1`
	ev, err := scanClockEvent(tx.Exec(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(eventID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find time record: %w", err)
	}
	return ev, nil
}

// Execute locks the row with FOR UPDATE, runs validate and mutate, and writes
// the location columns that mutate changed. It joins the transaction in ctx
// or opens its own.
func (s *ClockEventStore) Execute(ctx context.Context, eventID id.ClockEventID, validate func(*models.ClockEvent) error, mutate func(*models.ClockEvent)) (*models.ClockEvent, error) {
	var out *models.ClockEvent
	err := tx.NewSQLRunner(s.db).RunInTx(ctx, func(ctx context.Context) error {
		exec := tx.Exec(ctx, s.db)
		query := `SELECT ` + clockEventColumns + ` FROM time_records WHERE id = $1 FOR UPDATE`
		ev, err := scanClockEvent(exec.QueryRowContext(ctx, query, uuid.UUID(eventID)))
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock time record: %w", err)
		}
		before := *ev
		if err := validate(ev); err != nil {
			return err
		}
		mutate(ev)

		for _, d := range []models.Direction{models.DirectionClockIn, models.DirectionClockOut} {
			if before.Captured(d) || !ev.Captured(d) {
				continue
			}
			loc := ev.Location(d)
			res, err := exec.ExecContext(ctx, captureUpdates[d],
				uuid.UUID(eventID), loc.Latitude, loc.Longitude, loc.Accuracy, string(loc.Source), loc.CapturedAt)
			if err != nil {
				return fmt.Errorf("update %s location: %w", d, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("update %s location: %w", d, err)
			}
			if n == 0 {
				return sentinel.ErrAlreadyUsed
			}
		}
		out = ev
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Save inserts a time record with its current location columns. Scheduling
// owns these rows; Save exists for seeding and tests.
func (s *ClockEventStore) Save(ctx context.Context, ev models.ClockEvent) error {
	query := `INSERT INTO time_records (` + clockEventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	args := []any{uuid.UUID(ev.ID), uuid.UUID(ev.UserID), nullSiteID(ev.SiteID)}
	args = append(args, locationArgs(ev.ClockIn)...)
	args = append(args, locationArgs(ev.ClockOut)...)
	if _, err := tx.Exec(ctx, s.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save time record: %w", err)
	}
	return nil
}

type capturedColumns struct {
	lat, lng, accuracy sql.NullFloat64
	source             sql.NullString
	at                 sql.NullTime
}

func (c capturedColumns) location() *models.CapturedLocation {
	if !c.lat.Valid || !c.lng.Valid {
		return nil
	}
	return &models.CapturedLocation{
		Latitude:   c.lat.Float64,
		Longitude:  c.lng.Float64,
		Accuracy:   c.accuracy.Float64,
		Source:     models.Source(c.source.String),
		CapturedAt: c.at.Time,
	}
}

func scanClockEvent(row *sql.Row) (*models.ClockEvent, error) {
	var (
		eventID, userID uuid.UUID
		siteID          uuid.NullUUID
		in, out         capturedColumns
	)
	err := row.Scan(&eventID, &userID, &siteID,
		&in.lat, &in.lng, &in.accuracy, &in.source, &in.at,
		&out.lat, &out.lng, &out.accuracy, &out.source, &out.at,
	)
	if err != nil {
		return nil, err
	}
	ev := &models.ClockEvent{
		ID:       id.ClockEventID(eventID),
		UserID:   id.UserID(userID),
		ClockIn:  in.location(),
		ClockOut: out.location(),
	}
	if siteID.Valid {
		sid := id.SiteID(siteID.UUID)
		ev.SiteID = &sid
	}
	return ev, nil
}

func locationArgs(loc *models.CapturedLocation) []any {
	if loc == nil {
		return []any{nil, nil, nil, nil, nil}
	}
	return []any{loc.Latitude, loc.Longitude, loc.Accuracy, string(loc.Source), loc.CapturedAt}
}

func nullSiteID(siteID *id.SiteID) uuid.NullUUID {
	if siteID == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*siteID), Valid: true}
}
