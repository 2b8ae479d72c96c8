package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"clockgeo/internal/location/models"
	id "clockgeo/pkg/domain"
	"clockgeo/pkg/platform/sentinel"
)

// PermissionStore keeps permission history in memory.
type PermissionStore struct {
	mu      sync.RWMutex
	records []models.PermissionRecord
}

func NewPermissionStore() *PermissionStore {
	return &PermissionStore{}
}

func (s *PermissionStore) Append(_ context.Context, rec *models.PermissionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *rec)
	return nil
}

func (s *PermissionStore) LatestGranted(_ context.Context, userID id.UserID) (*models.PermissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *models.PermissionRecord
	for i := range s.records {
		r := &s.records[i]
		if r.UserID != userID || r.PermissionType != models.PermissionGranted {
			continue
		}
		if latest == nil || !r.CreatedAt.Before(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, sentinel.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (s *PermissionStore) ListByUser(_ context.Context, userID id.UserID, limit int) ([]models.PermissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.PermissionRecord
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *PermissionStore) TouchLastUsed(_ context.Context, recordID id.PermissionID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == recordID {
			t := at
			s.records[i].LastUsedAt = &t
			return nil
		}
	}
	return sentinel.ErrNotFound
}
