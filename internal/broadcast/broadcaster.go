package broadcast

import (
	"context"
	"log/slog"
)

// Publisher is a transport that hands events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Broadcaster is called after a mutation has been committed. Delivery is
// best effort: failures are logged and never reach the caller.
type Broadcaster struct {
	pub    Publisher
	logger *slog.Logger
}

func New(pub Publisher, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{pub: pub, logger: logger}
}

func (b *Broadcaster) Notify(ctx context.Context, ev Event) {
	if b == nil || b.pub == nil {
		return
	}
	if err := b.pub.Publish(ctx, ev); err != nil {
		b.logger.WarnContext(ctx, "broadcast failed",
			"kind", ev.Kind,
			"board_id", ev.BoardID,
			"entity_id", ev.EntityID,
			"error", err,
		)
		return
	}
	b.logger.DebugContext(ctx, "broadcast", "kind", ev.Kind, "board_id", ev.BoardID)
}
