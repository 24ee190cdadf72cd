package fdc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock 可推進的測試時鐘，睡眠只記錄時長不實際等待
type fakeClock struct {
	current time.Time
	slept   []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) sleep(_ context.Context, d time.Duration) error {
	c.slept = append(c.slept, d)
	c.current = c.current.Add(d)
	return nil
}

func newTestThrottle(interval time.Duration, clock *fakeClock) *Throttle {
	t := NewThrottle(interval)
	t.now = clock.now
	t.sleep = clock.sleep
	return t
}

func TestThrottleFirstCallNeverWaits(t *testing.T) {
	clock := newFakeClock()
	th := newTestThrottle(100*time.Millisecond, clock)

	require.NoError(t, th.Wait(context.Background()))
	assert.Empty(t, clock.slept)
}

func TestThrottleWaitsRemainingInterval(t *testing.T) {
	clock := newFakeClock()
	th := newTestThrottle(100*time.Millisecond, clock)

	require.NoError(t, th.Wait(context.Background()))

	// 30ms 後再次請求，需補足剩餘 70ms
	clock.current = clock.current.Add(30 * time.Millisecond)
	require.NoError(t, th.Wait(context.Background()))

	require.Len(t, clock.slept, 1)
	assert.Equal(t, 70*time.Millisecond, clock.slept[0])
}

func TestThrottleNoWaitAfterIntervalElapsed(t *testing.T) {
	clock := newFakeClock()
	th := newTestThrottle(100*time.Millisecond, clock)

	require.NoError(t, th.Wait(context.Background()))

	clock.current = clock.current.Add(150 * time.Millisecond)
	require.NoError(t, th.Wait(context.Background()))

	assert.Empty(t, clock.slept)
}

func TestThrottleZeroIntervalNeverWaits(t *testing.T) {
	clock := newFakeClock()
	th := newTestThrottle(0, clock)

	for i := 0; i < 5; i++ {
		require.NoError(t, th.Wait(context.Background()))
	}
	assert.Empty(t, clock.slept)
}

func TestThrottleSequentialCallsEachWait(t *testing.T) {
	clock := newFakeClock()
	th := newTestThrottle(100*time.Millisecond, clock)

	// 連續三次立即請求：第一次直接通過，之後每次都要等滿整段間隔
	for i := 0; i < 3; i++ {
		require.NoError(t, th.Wait(context.Background()))
	}

	require.Len(t, clock.slept, 2)
	assert.Equal(t, 100*time.Millisecond, clock.slept[0])
	assert.Equal(t, 100*time.Millisecond, clock.slept[1])
}

func TestThrottlePropagatesContextCancellation(t *testing.T) {
	th := NewThrottle(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, th.Wait(ctx))

	cancel()
	err := th.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
