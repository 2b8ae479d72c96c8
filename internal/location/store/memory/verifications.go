package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"clockgeo/internal/location/models"
	id "clockgeo/pkg/domain"
)

// VerificationStore keeps verification records in memory.
type VerificationStore struct {
	mu       sync.RWMutex
	records  []models.VerificationRecord
	failWith error
}

func NewVerificationStore() *VerificationStore {
	return &VerificationStore{}
}

// FailWith makes subsequent writes return err (nil restores normal behavior).
func (s *VerificationStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

func (s *VerificationStore) Insert(_ context.Context, rec *models.VerificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	cp := *rec
	cp.Metadata = maps.Clone(rec.Metadata)
	cp.Warnings = slices.Clone(rec.Warnings)
	cp.Errors = slices.Clone(rec.Errors)
	s.records = append(s.records, cp)
	return nil
}

func (s *VerificationStore) ListByClockEvent(_ context.Context, eventID id.ClockEventID) ([]models.VerificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.VerificationRecord
	for _, r := range s.records {
		if r.ClockEventID == eventID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *VerificationStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	var deleted int64
	for _, r := range s.records {
		if r.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return deleted, nil
}

// Count returns the number of stored records.
func (s *VerificationStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// AccuracyLogStore keeps accuracy samples in memory.
type AccuracyLogStore struct {
	mu   sync.Mutex
	logs []models.AccuracyLog
}

func NewAccuracyLogStore() *AccuracyLogStore {
	return &AccuracyLogStore{}
}

func (s *AccuracyLogStore) Append(_ context.Context, entry *models.AccuracyLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, *entry)
	return nil
}

func (s *AccuracyLogStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.logs[:0]
	var deleted int64
	for _, l := range s.logs {
		if l.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, l)
	}
	s.logs = kept
	return deleted, nil
}

// Count returns the number of stored samples.
func (s *AccuracyLogStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs)
}
