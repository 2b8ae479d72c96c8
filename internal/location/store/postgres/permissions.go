package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"clockgeo/internal/location/models"
	id "clockgeo/pkg/domain"
	"clockgeo/pkg/platform/sentinel"
	"clockgeo/pkg/platform/tx"
)

const permissionColumns = `id, user_id, permission_type, status, last_used_at, last_checked_at, created_at`

// PermissionStore persists the append-only permission history.
type PermissionStore struct {
	db *sql.DB
}

func NewPermissionStore(db *sql.DB) *PermissionStore {
	return &PermissionStore{db: db}
}

func (s *PermissionStore) Append(ctx context.Context, rec *models.PermissionRecord) error {
	query := `INSERT INTO location_permissions (` + permissionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := tx.Exec(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(rec.ID),
		uuid.UUID(rec.UserID),
		string(rec.PermissionType),
		rec.Status,
		rec.LastUsedAt,
		rec.LastCheckedAt,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append location permission: %w", err)
	}
	return nil
}

func (s *PermissionStore) LatestGranted(ctx context.Context, userID id.UserID) (*models.PermissionRecord, error) {
	query := `
		SELECT ` + permissionColumns + `
		FROM location_permissions
		WHERE user_id = $1 AND permission_type = 'granted'
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("find latest granted permission: %w", err)
	}
	recs, err := scanPermissions(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return &recs[0], nil
}

// ListByUser returns the newest records first. limit <= 0 returns all.
func (s *PermissionStore) ListByUser(ctx context.Context, userID id.UserID, limit int) ([]models.PermissionRecord, error) {
	query := `
		SELECT ` + permissionColumns + `
		FROM location_permissions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT NULLIF($2, 0)
	`
	if limit < 0 {
		limit = 0
	}
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, query, uuid.UUID(userID), limit)
	if err != nil {
		return nil, fmt.Errorf("list location permissions: %w", err)
	}
	return scanPermissions(rows)
}

func (s *PermissionStore) TouchLastUsed(ctx context.Context, recordID id.PermissionID, at time.Time) error {
	res, err := tx.Exec(ctx, s.db).ExecContext(ctx,
		`UPDATE location_permissions SET last_used_at = $2 WHERE id = $1`, uuid.UUID(recordID), at)
	if err != nil {
		return fmt.Errorf("touch location permission: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch location permission: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanPermissions(rows *sql.Rows) ([]models.PermissionRecord, error) {
	defer rows.Close()
	var out []models.PermissionRecord
	for rows.Next() {
		var (
			recID, userID uuid.UUID
			permType      string
			lastUsed      sql.NullTime
			rec           models.PermissionRecord
		)
		if err := rows.Scan(&recID, &userID, &permType, &rec.Status, &lastUsed, &rec.LastCheckedAt, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan location permission: %w", err)
		}
		rec.ID = id.PermissionID(recID)
		rec.UserID = id.UserID(userID)
		rec.PermissionType = models.PermissionType(permType)
		if lastUsed.Valid {
			t := lastUsed.Time
			rec.LastUsedAt = &t
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate location permissions: %w", err)
	}
	return out, nil
}
