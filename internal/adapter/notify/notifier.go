package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rl1809/storefront-cart/internal/port"
)

// LogNotifier writes notifications to the application log.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Error(ctx context.Context, message string) {
	n.log.Warn().Str("notification", message).Msg("user notified")
}

// Multi fans a notification out to every notifier in order.
type Multi []port.Notifier

func (m Multi) Error(ctx context.Context, message string) {
	for _, n := range m {
		n.Error(ctx, message)
	}
}
