package tracing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type traceID struct{}

func InjectTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, uuid.New().String())
}

// WithTraceID attaches id and a logger carrying it to ctx.
func WithTraceID(ctx context.Context, id string) context.Context {
	logger := log.With().Str("traceId", id).Logger()
	ctx = context.WithValue(ctx, traceID{}, id)
	return logger.WithContext(ctx)
}

// TraceID returns the id attached by WithTraceID, or "".
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceID{}).(string)
	return id
}
