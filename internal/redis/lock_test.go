package redisclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, Locker) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := NewRedisClient(context.Background(), Options{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewRedisDayLocker(rdb, 5*time.Second)
}

func TestWithDayLock_RunsAndReleases(t *testing.T) {
	mr, locker := newTestClient(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	ran := false
	err := locker.WithDayLock(context.Background(), day, func(ctx context.Context) error {
		ran = true
		assert.True(t, mr.Exists("lock:calendar-day:2026-03-02"))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.False(t, mr.Exists("lock:calendar-day:2026-03-02"))
}

func TestWithDayLock_HeldByAnotherCaller(t *testing.T) {
	mr, locker := newTestClient(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, mr.Set("lock:calendar-day:2026-03-02", "someone-else"))

	err := locker.WithDayLock(context.Background(), day, func(ctx context.Context) error {
		t.Fatal("critical section must not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrLockNotAcquired)

	v, err := mr.Get("lock:calendar-day:2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", v)
}

func TestWithDayLock_PropagatesError(t *testing.T) {
	_, locker := newTestClient(t)
	boom := errors.New("boom")

	err := locker.WithDayLock(context.Background(), time.Now(), func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestWithDayLock_DifferentDaysDoNotBlock(t *testing.T) {
	_, locker := newTestClient(t)
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	err := locker.WithDayLock(context.Background(), monday, func(ctx context.Context) error {
		return locker.WithDayLock(ctx, tuesday, func(context.Context) error { return nil })
	})
	assert.NoError(t, err)
}
