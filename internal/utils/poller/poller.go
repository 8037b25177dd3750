package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pisfinance/pis-vault/internal/observability/tracing"
)

type Poller struct {
	name      string
	interval  time.Duration
	immediate bool
	quit      chan struct{}
	stopOnce  sync.Once
	job       func(ctx context.Context) error
}

type Option func(*Poller)

// WithImmediateStart runs the job once when the poller starts instead of
// waiting a full interval.
func WithImmediateStart() Option {
	return func(p *Poller) {
		p.immediate = true
	}
}

func NewPoller(name string, interval time.Duration, job func(ctx context.Context) error, opts ...Option) *Poller {
	p := &Poller{
		name:     name,
		interval: interval,
		quit:     make(chan struct{}),
		job:      job,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start blocks until ctx is cancelled or Stop is called. Job errors are
// logged and the next tick runs as usual.
func (p *Poller) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	logger := log.With().Str("poller", p.name).Logger()
	logger.Info().Msgf("Starting poller with interval %s", p.interval)

	if p.immediate {
		p.run(ctx)
	}

	for {
		select {
		case <-ticker.C:
			p.run(ctx)
		case <-ctx.Done():
			logger.Info().Msg("Poller stopped due to context cancellation")
			return
		case <-p.quit:
			logger.Info().Msg("Poller stopped")
			return
		}
	}
}

// run executes one job with its own trace id.
func (p *Poller) run(ctx context.Context) {
	ctx = tracing.InjectTraceID(ctx)
	logger := log.Ctx(ctx).With().Str("poller", p.name).Logger()

	if err := p.job(ctx); err != nil {
		logger.Error().Err(err).Msg("Error polling")
		return
	}
	logger.Debug().Msg("Poll executed successfully")
}

func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.quit)
	})
}
