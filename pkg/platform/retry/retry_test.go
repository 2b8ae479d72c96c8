package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"clockgeo/pkg/platform/sentinel"
)

func TestOnce(t *testing.T) {
	t.Run("transient failure is retried once", func(t *testing.T) {
		calls := 0
		err := Once(context.Background(), func() error {
			calls++
			if calls == 1 {
				return fmt.Errorf("insert: %w", sentinel.ErrUnavailable)
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("retry is bounded", func(t *testing.T) {
		calls := 0
		err := Once(context.Background(), func() error {
			calls++
			return &pq.Error{Code: "40001"}
		})
		assert.Error(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("permanent failure is not retried", func(t *testing.T) {
		calls := 0
		boom := errors.New("constraint violated")
		err := Once(context.Background(), func() error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&pq.Error{Code: "08006"}))
	assert.True(t, IsTransient(&pq.Error{Code: "40P01"}))
	assert.False(t, IsTransient(&pq.Error{Code: "23505"}))
	assert.False(t, IsTransient(sentinel.ErrNotFound))
	assert.False(t, IsTransient(nil))
}
