package history

import (
	"context"

	"github.com/protoguide/protoguide/internal/domain/history"
)

// Repository persists and lists history entries.
type Repository interface {
	Create(ctx context.Context, e history.Entry) (int64, error)
	ListForIdentity(ctx context.Context, identityID int64, limit int) ([]history.Item, error)
}
