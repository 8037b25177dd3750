package consumer

import (
	"context"

	"github.com/pisfinance/pis-vault/internal/types"
)

// EventConsumer receives every committed vault event.
type EventConsumer interface {
	PushVaultEvent(ctx context.Context, ev *types.VaultEvent) error
}
