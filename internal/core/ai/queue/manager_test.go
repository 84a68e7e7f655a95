package queue

import (
	"context"
	"testing"
	"time"

	"recipe-insight/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 2, MaxSize: 0})

	r1, err := m.Acquire(context.Background())
	require.NoError(t, err)
	r2, err := m.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, m.Status().Running)

	_, err = m.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrQueueFull)

	r1()
	r2()
	status := m.Status()
	assert.Equal(t, 0, status.Running)
	assert.Equal(t, int64(2), status.ProcessedCount)
}

func TestAcquireWaitsForSlot(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1})

	release, err := m.Acquire(context.Background())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		r, err := m.Acquire(context.Background())
		if err == nil {
			r()
		}
		done <- err
	}()

	require.Eventually(t, func() bool { return m.Status().QueueLength == 1 }, time.Second, 5*time.Millisecond)
	release()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("waiter was not released")
	}
}

func TestAcquireContextCancelled(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 5})
	release, err := m.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = m.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, m.Status().QueueLength)
}
