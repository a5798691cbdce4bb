package mail

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrQueueFull   = errors.New("mail: queue full")
	ErrQueueClosed = errors.New("mail: queue closed")
)

// Queue buffers jobs between Send and the workers.
type Queue interface {
	// Enqueue must not wait for capacity. A full queue is ErrQueueFull.
	Enqueue(ctx context.Context, job Job) error

	// Dequeue blocks until a job is available or ctx is done. Once the
	// queue is closed it returns ErrQueueClosed.
	Dequeue(ctx context.Context) (Job, error)

	// Close stops accepting jobs.
	Close() error
}

// MemoryQueue is a buffered channel. Jobs still buffered at Close are
// handed out by Dequeue before it reports ErrQueueClosed.
type MemoryQueue struct {
	ch     chan Job
	done   chan struct{}
	closer sync.Once
}

func NewMemoryQueue(capacity int) *MemoryQueue {
	return &MemoryQueue{
		ch:   make(chan Job, max(capacity, 1)),
		done: make(chan struct{}),
	}
}

func (q *MemoryQueue) Enqueue(_ context.Context, job Job) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}

	select {
	case q.ch <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context) (Job, error) {
	select {
	case job := <-q.ch:
		return job, nil
	case <-ctx.Done():
		return Job{}, ctx.Err()
	case <-q.done:
		select {
		case job := <-q.ch:
			return job, nil
		default:
			return Job{}, ErrQueueClosed
		}
	}
}

func (q *MemoryQueue) Close() error {
	q.closer.Do(func() { close(q.done) })
	return nil
}

// Len is the number of buffered jobs.
func (q *MemoryQueue) Len() int { return len(q.ch) }
