package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/pisfinance/pis-vault/consumer"
	"github.com/pisfinance/pis-vault/internal/config"
	"github.com/pisfinance/pis-vault/internal/observability/metrics"
	"github.com/pisfinance/pis-vault/internal/types"
)

const exchangeKind = "topic"

var _ consumer.EventConsumer = (*QueueManager)(nil)

// channel is the part of *amqp.Channel the manager publishes through.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// QueueManager publishes vault events to a topic exchange, routed by event
// type.
type QueueManager struct {
	cfg    *config.QueueConfig
	logger *zap.Logger
	conn   *amqp.Connection
	ch     channel
}

func NewQueueManager(cfg *config.QueueConfig, logger *zap.Logger) (*QueueManager, error) {
	conn, err := amqp.Dial(dialURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the queue: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open queue channel: %w", err)
	}

	err = ch.ExchangeDeclare(cfg.Exchange, exchangeKind, true, false, false, false, nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	logger.Info("queue manager connected", zap.String("exchange", cfg.Exchange))
	return &QueueManager{cfg: cfg, logger: logger, conn: conn, ch: ch}, nil
}

func newQueueManagerWithChannel(cfg *config.QueueConfig, logger *zap.Logger, ch channel) *QueueManager {
	return &QueueManager{cfg: cfg, logger: logger, ch: ch}
}

// dialURL builds the amqp url, accepting urls with or without a scheme.
func dialURL(cfg *config.QueueConfig) string {
	raw := cfg.Url
	if !strings.Contains(raw, "://") {
		raw = "amqp://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.User = url.UserPassword(cfg.QueueUser, cfg.QueuePassword)
	return u.String()
}

// PushVaultEvent publishes ev, retrying transient failures.
func (qm *QueueManager) PushVaultEvent(ctx context.Context, ev *types.VaultEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", ev.Type, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.New().String(),
		Timestamp:    time.Now(),
		Type:         ev.Type.String(),
		Body:         body,
	}

	err = retry.Do(
		func() error {
			publishCtx, cancel := context.WithTimeout(ctx, qm.cfg.PublishTimeout)
			defer cancel()
			return qm.ch.PublishWithContext(publishCtx, qm.cfg.Exchange, ev.Type.String(), false, false, msg)
		},
		retry.Context(ctx),
		retry.Attempts(qm.cfg.MaxRetryAttempts),
		retry.Delay(qm.cfg.RetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			qm.logger.Warn("retrying event publish",
				zap.String("type", ev.Type.String()),
				zap.Uint("attempt", n+1),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		metrics.RecordQueueSendError()
		return fmt.Errorf("failed to publish %s event: %w", ev.Type, err)
	}
	return nil
}

// Shutdown gracefully stops the interaction with the queue, ensuring all resources are properly released.
func (qm *QueueManager) Shutdown() {
	qm.logger.Info("shutting down queue manager")
	if qm.ch != nil {
		if err := qm.ch.Close(); err != nil {
			qm.logger.Warn("failed to close queue channel", zap.Error(err))
		}
	}
	if qm.conn != nil {
		if err := qm.conn.Close(); err != nil {
			qm.logger.Warn("failed to close queue connection", zap.Error(err))
		}
	}
}
