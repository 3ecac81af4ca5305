package port

import "context"

type Notifier interface {
	// Error surfaces a user-facing error message
	Error(ctx context.Context, message string)
}
