package notify

import (
	"context"
	"sync"
)

type collectorKey struct{}

// Collector gathers the messages raised while handling a single request.
type Collector struct {
	mu       sync.Mutex
	messages []string
}

// WithCollector returns a context carrying a fresh Collector.
func WithCollector(ctx context.Context) (context.Context, *Collector) {
	c := &Collector{}
	return context.WithValue(ctx, collectorKey{}, c), c
}

func (c *Collector) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.messages))
	copy(out, c.messages)
	return out
}

// ContextNotifier records messages on the Collector found in ctx, if any.
type ContextNotifier struct{}

func (ContextNotifier) Error(ctx context.Context, message string) {
	c, ok := ctx.Value(collectorKey{}).(*Collector)
	if !ok {
		return
	}
	c.mu.Lock()
	c.messages = append(c.messages, message)
	c.mu.Unlock()
}
