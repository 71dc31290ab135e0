// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

// Package queue runs background jobs on named, lazily created queues.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoHandler is returned when a queue name has no handler.
	ErrNoHandler = errors.New("no handler registered")

	// ErrQueueClosed is returned when enqueueing on a closed queue.
	ErrQueueClosed = errors.New("queue closed")
)

// Job is one unit of queued work.
type Job struct {
	ID       string
	Queue    string
	Payload  any
	Enqueued time.Time
}

// Handler processes a job.
type Handler func(context.Context, Job) error

// Stats reports queue counters.
type Stats struct {
	Enqueued  int64
	Processed int64
	Failed    int64
}

// Queue feeds jobs to a fixed set of workers.
type Queue struct {
	name    string
	jobs    chan Job
	handler Handler
	log     *zap.Logger
	eg      *errgroup.Group
	ctx     context.Context
	closed  bool
	mx      sync.Mutex

	enqueued, processed, failed atomic.Int64
}

func newQueue(ctx context.Context, name string, h Handler, workers, buffer int, log *zap.Logger) *Queue {
	if workers <= 0 {
		workers = 1
	}
	eg, egCtx := errgroup.WithContext(ctx)
	q := Queue{
		name:    name,
		jobs:    make(chan Job, max(buffer, 0)),
		handler: h,
		log:     log.With(zap.String("queue", name)),
		eg:      eg,
		ctx:     egCtx,
	}
	for range workers {
		eg.Go(q.work)
	}

	return &q
}

// Name returns the queue name.
func (q *Queue) Name() string {
	return q.name
}

func (q *Queue) work() error {
	for j := range q.jobs {
		if err := q.run(j); err != nil {
			q.failed.Add(1)
			q.log.Warn("job failed", zap.String("job", j.ID), zap.Error(err))
			continue
		}
		q.processed.Add(1)
	}
	return nil
}

func (q *Queue) run(j Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", j.ID, r)
		}
	}()
	return q.handler(q.ctx, j)
}

// Enqueue queues a payload and returns its job.
func (q *Queue) Enqueue(ctx context.Context, payload any) (Job, error) {
	j := Job{
		ID:       uuid.NewString(),
		Queue:    q.name,
		Payload:  payload,
		Enqueued: time.Now(),
	}

	q.mx.Lock()
	defer q.mx.Unlock()
	if q.closed {
		return Job{}, fmt.Errorf("%w: %s", ErrQueueClosed, q.name)
	}
	select {
	case q.jobs <- j:
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}
	q.enqueued.Add(1)
	q.log.Debug("job enqueued", zap.String("job", j.ID))

	return j, nil
}

// Close stops accepting jobs and waits for queued ones to finish.
func (q *Queue) Close() error {
	q.mx.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mx.Unlock()

	return q.eg.Wait()
}

// Stats returns the queue counters.
func (q *Queue) Stats() Stats {
	return Stats{
		Enqueued:  q.enqueued.Load(),
		Processed: q.processed.Load(),
		Failed:    q.failed.Load(),
	}
}
