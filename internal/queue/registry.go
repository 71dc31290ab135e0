// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package queue

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultBuffer is the queued job capacity of a new queue.
const DefaultBuffer = 64

type binding struct {
	handler Handler
	workers int
}

// Registry owns named queues. A queue starts on its first lookup, so
// registering a handler twice never spawns duplicate workers.
type Registry struct {
	ctx      context.Context
	cancel   context.CancelFunc
	bindings map[string]binding
	queues   map[string]*Queue
	buffer   int
	log      *zap.Logger
	closed   bool
	drained  chan struct{}
	mx       sync.Mutex
}

// NewRegistry returns an empty registry.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Registry{
		ctx:      ctx,
		cancel:   cancel,
		bindings: make(map[string]binding),
		queues:   make(map[string]*Queue),
		buffer:   DefaultBuffer,
		log:      log,
		drained:  make(chan struct{}),
	}
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process wide registry, created on first use. Bind
// its teardown to the process shutdown context with ShutdownOnDone.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(zap.L().Named("queue"))
	})
	return defaultRegistry
}

// Handle binds a handler to a queue name. Rebinding a started queue only
// affects it after a shutdown.
func (r *Registry) Handle(name string, workers int, h Handler) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.bindings[name] = binding{handler: h, workers: workers}
}

// Get returns the named queue, starting it on first lookup.
func (r *Registry) Get(name string) (*Queue, error) {
	r.mx.Lock()
	defer r.mx.Unlock()

	if r.closed {
		return nil, fmt.Errorf("%w: registry shut down", ErrQueueClosed)
	}
	if q, ok := r.queues[name]; ok {
		return q, nil
	}
	b, ok := r.bindings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, name)
	}
	q := newQueue(r.ctx, name, b.handler, b.workers, r.buffer, r.log)
	r.queues[name] = q
	r.log.Debug("queue started", zap.String("queue", name), zap.Int("workers", b.workers))

	return q, nil
}

// Enqueue queues a payload on the named queue and returns the job id.
func (r *Registry) Enqueue(ctx context.Context, name string, payload any) (string, error) {
	q, err := r.Get(name)
	if err != nil {
		return "", err
	}
	j, err := q.Enqueue(ctx, payload)
	if err != nil {
		return "", err
	}

	return j.ID, nil
}

// Names returns the started queue names, sorted.
func (r *Registry) Names() []string {
	r.mx.Lock()
	defer r.mx.Unlock()

	nn := make([]string, 0, len(r.queues))
	for n := range r.queues {
		nn = append(nn, n)
	}
	sort.Strings(nn)

	return nn
}

// Shutdown drains every queue. Jobs still running when ctx is done see
// their context canceled. Later calls wait for the first drain.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mx.Lock()
	if r.closed {
		r.mx.Unlock()
		select {
		case <-r.drained:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.closed = true
	defer close(r.drained)
	queues := make([]*Queue, 0, len(r.queues))
	for _, q := range r.queues {
		queues = append(queues, q)
	}
	r.mx.Unlock()

	done := make(chan error, 1)
	go func() {
		var errs []error
		for _, q := range queues {
			if err := q.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		r.cancel()
		return err
	case <-ctx.Done():
		r.cancel()
		<-done
		return ctx.Err()
	}
}

// ShutdownOnDone drains the registry once ctx is done, giving running jobs
// up to grace to finish. The returned func releases the hook.
func (r *Registry) ShutdownOnDone(ctx context.Context, grace time.Duration) func() {
	stop := context.AfterFunc(ctx, func() {
		r.log.Info("shutting down queues", zap.Error(context.Cause(ctx)))
		sctx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if err := r.Shutdown(sctx); err != nil {
			r.log.Warn("queue shutdown", zap.Error(err))
		}
	})

	return func() { stop() }
}
