package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	testLimit  = 5
	testWindow = time.Minute
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
	now   time.Time
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.now = time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	s.store = NewMemoryStore()
	s.store.now = func() time.Time { return s.now }
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) allowN(key string, n int) Result {
	var res Result
	for range n {
		var err error
		res, err = s.store.Allow(s.ctx, key, testLimit, testWindow)
		s.Require().NoError(err)
	}
	return res
}

func (s *MemoryStoreSuite) TestFirstRequestAllowed() {
	res := s.allowN("user:a", 1)
	s.True(res.Allowed)
	s.Equal(testLimit, res.Limit)
	s.Equal(testLimit-1, res.Remaining)
	s.Equal(s.now.Add(testWindow), res.ResetAt)
}

func (s *MemoryStoreSuite) TestOverLimitDenied() {
	res := s.allowN("user:a", testLimit)
	s.True(res.Allowed)
	s.Equal(0, res.Remaining)

	res = s.allowN("user:a", 1)
	s.False(res.Allowed)
	s.Equal(0, res.Remaining)
	s.Equal(testWindow, res.RetryAfter)
}

func (s *MemoryStoreSuite) TestWindowSlides() {
	s.allowN("user:a", testLimit-1)
	s.now = s.now.Add(30 * time.Second)
	s.allowN("user:a", 1)

	// the first batch has left the window, the later request has not
	s.now = s.now.Add(31 * time.Second)
	res := s.allowN("user:a", 1)
	s.True(res.Allowed)
	s.Equal(testLimit-2, res.Remaining)
}

func (s *MemoryStoreSuite) TestKeysAreIndependent() {
	s.allowN("user:a", testLimit)
	res := s.allowN("user:b", 1)
	s.True(res.Allowed)
}

func (s *MemoryStoreSuite) TestConcurrentCallersNeverExceedLimit() {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.store.Allow(s.ctx, "user:race", testLimit, testWindow)
			if err == nil && res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Equal(testLimit, allowed)
}
