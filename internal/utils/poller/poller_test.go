package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pisfinance/pis-vault/internal/observability/tracing"
)

func TestPoller(t *testing.T) {
	t.Run("runs until stopped", func(t *testing.T) {
		var calls atomic.Int32
		p := NewPoller("test", 5*time.Millisecond, func(context.Context) error {
			calls.Add(1)
			return errors.New("keeps going")
		})

		done := make(chan struct{})
		go func() {
			p.Start(context.Background())
			close(done)
		}()

		assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
		p.Stop()
		p.Stop()
		assert.Eventually(t, func() bool {
			select {
			case <-done:
				return true
			default:
				return false
			}
		}, time.Second, time.Millisecond)
	})

	t.Run("immediate start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var traced atomic.Bool
		p := NewPoller("test", time.Hour, func(ctx context.Context) error {
			traced.Store(tracing.TraceID(ctx) != "")
			return nil
		}, WithImmediateStart())
		go p.Start(ctx)

		assert.Eventually(t, traced.Load, time.Second, time.Millisecond)
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		p := NewPoller("test", time.Hour, func(context.Context) error { return nil })

		done := make(chan struct{})
		go func() {
			p.Start(ctx)
			close(done)
		}()
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("poller did not stop")
		}
	})
}
