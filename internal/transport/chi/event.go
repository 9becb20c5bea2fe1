package chi

import (
	"context"

	"go.uber.org/zap"

	"github.com/protoguide/protoguide/internal/logger"
)

type eventSlotKey struct{}

// eventSlot holds the logger used for the canonical request line.
type eventSlot struct {
	logger *zap.Logger
}

func withEventSlot(ctx context.Context, s *eventSlot) context.Context {
	return context.WithValue(ctx, eventSlotKey{}, s)
}

// enrichEvent adds fields to the request logger and to the canonical line.
func enrichEvent(ctx context.Context, fields ...zap.Field) context.Context {
	if s, ok := ctx.Value(eventSlotKey{}).(*eventSlot); ok {
		s.logger = s.logger.With(fields...)
	}
	return logger.WithFields(ctx, fields...)
}
