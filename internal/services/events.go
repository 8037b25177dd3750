package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pisfinance/pis-vault/internal/types"
)

func (s *Service) now() time.Time {
	return time.Now().UTC()
}

// enqueueEvents hands committed events to the publisher goroutine. Events
// are dropped with an error log when the buffer is full so that vault
// operations never block on the queue.
func (s *Service) enqueueEvents(ctx context.Context, events []*types.VaultEvent) {
	for _, ev := range events {
		select {
		case s.events <- ev:
		default:
			log.Ctx(ctx).Error().
				Str("event_type", ev.Type.String()).
				Msg("event buffer is full, dropping event")
		}
	}
}

// StartEventPublisher forwards buffered events until ctx is cancelled.
func (s *Service) StartEventPublisher(ctx context.Context) {
	for {
		select {
		case ev := <-s.events:
			s.publishEvent(ctx, ev)
		case <-ctx.Done():
			log.Info().Msg("event publisher stopped")
			return
		}
	}
}

func (s *Service) publishEvent(ctx context.Context, ev *types.VaultEvent) {
	logger := log.Ctx(ctx).With().
		Str("event_type", ev.Type.String()).
		Str("account", ev.Account).
		Str("amount", ev.Amount).
		Logger()

	if s.publisher == nil {
		logger.Info().Msg("vault event")
		return
	}
	if err := s.publisher.PushVaultEvent(ctx, ev); err != nil {
		logger.Error().Err(err).Msg("failed to publish vault event")
	}
}
