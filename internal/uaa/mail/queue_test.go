package mail

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryQueue_Bounded(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue(2)

	require.NoError(t, q.Enqueue(ctx, Job{ID: "1"}))
	require.NoError(t, q.Enqueue(ctx, Job{ID: "2"}))
	require.ErrorIs(t, q.Enqueue(ctx, Job{ID: "3"}), ErrQueueFull)
	require.Equal(t, 2, q.Len())

	job, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.Equal(t, "1", job.ID)
}

func TestMemoryQueue_DrainsAfterClose(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue(4)

	require.NoError(t, q.Enqueue(ctx, Job{ID: "1"}))
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())
	require.ErrorIs(t, q.Enqueue(ctx, Job{ID: "2"}), ErrQueueClosed)

	job, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.Equal(t, "1", job.ID)

	_, err = q.Dequeue(ctx)
	require.ErrorIs(t, err, ErrQueueClosed)
}

func TestMemoryQueue_DequeueHonoursContext(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
