// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package queue_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/erptab/erptab/internal/queue"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRegistryEnqueue(t *testing.T) {
	r := queue.NewRegistry(nil)

	var (
		mx   sync.Mutex
		seen []any
	)
	r.Handle("export", 2, func(_ context.Context, j queue.Job) error {
		mx.Lock()
		defer mx.Unlock()
		seen = append(seen, j.Payload)
		if j.Payload == "bad" {
			return errors.New("bad payload")
		}
		return nil
	})

	ctx := context.Background()
	for _, p := range []string{"a", "b", "bad"} {
		id, err := r.Enqueue(ctx, "export", p)
		require.NoError(t, err)
		_, err = uuid.Parse(id)
		assert.NoError(t, err)
	}

	q, err := r.Get("export")
	require.NoError(t, err)
	require.NoError(t, r.Shutdown(ctx))

	assert.ElementsMatch(t, []any{"a", "b", "bad"}, seen)
	assert.Equal(t, queue.Stats{Enqueued: 3, Processed: 2, Failed: 1}, q.Stats())
	assert.Equal(t, []string{"export"}, r.Names())

	_, err = r.Enqueue(ctx, "export", "late")
	assert.ErrorIs(t, err, queue.ErrQueueClosed)
	assert.NoError(t, r.Shutdown(ctx))
}

func TestRegistryLazyQueues(t *testing.T) {
	r := queue.NewRegistry(nil)
	t.Cleanup(func() { _ = r.Shutdown(context.Background()) })

	_, err := r.Enqueue(context.Background(), "nope", 1)
	assert.ErrorIs(t, err, queue.ErrNoHandler)

	r.Handle("mail", 1, func(context.Context, queue.Job) error { return nil })
	assert.Empty(t, r.Names())

	q1, err := r.Get("mail")
	require.NoError(t, err)
	q2, err := r.Get("mail")
	require.NoError(t, err)
	assert.Same(t, q1, q2)
	assert.Equal(t, "mail", q1.Name())
}

func TestQueueRecoversPanics(t *testing.T) {
	r := queue.NewRegistry(nil)
	r.Handle("boom", 1, func(context.Context, queue.Job) error { panic("kaboom") })

	_, err := r.Enqueue(context.Background(), "boom", nil)
	require.NoError(t, err)
	q, err := r.Get("boom")
	require.NoError(t, err)
	require.NoError(t, r.Shutdown(context.Background()))

	assert.Equal(t, int64(1), q.Stats().Failed)
}

func TestShutdownTimeout(t *testing.T) {
	r := queue.NewRegistry(nil)
	r.Handle("slow", 1, func(ctx context.Context, _ queue.Job) error {
		<-ctx.Done()
		return ctx.Err()
	})
	_, err := r.Enqueue(context.Background(), "slow", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Shutdown(ctx), context.DeadlineExceeded)
}

func TestShutdownOnDone(t *testing.T) {
	r := queue.NewRegistry(nil)
	r.Handle("sig", 1, func(context.Context, queue.Job) error { return nil })
	_, err := r.Get("sig")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	stop := r.ShutdownOnDone(ctx, time.Second)
	defer stop()
	cancel()

	require.Eventually(t, func() bool {
		_, err := r.Get("sig")
		return errors.Is(err, queue.ErrQueueClosed)
	}, time.Second, 5*time.Millisecond)
}

func TestShutdownOnDoneStop(t *testing.T) {
	r := queue.NewRegistry(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stop := r.ShutdownOnDone(ctx, time.Second)
	stop()
	stop()
	cancel()

	r.Handle("live", 1, func(context.Context, queue.Job) error { return nil })
	_, err := r.Get("live")
	require.NoError(t, err)
	require.NoError(t, r.Shutdown(context.Background()))
}
