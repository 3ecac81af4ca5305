package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Severity string

const SeverityError Severity = "error"

const defaultFeedSize = 50

type Notice struct {
	ID        uuid.UUID `json:"id"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Feed keeps the most recent notices for the UI to render as toasts.
// Once full, the oldest notice is dropped.
type Feed struct {
	mu      sync.Mutex
	notices []Notice
	size    int
	now     func() time.Time
}

func NewFeed(size int) *Feed {
	if size <= 0 {
		size = defaultFeedSize
	}
	return &Feed{size: size, now: time.Now}
}

func (f *Feed) Error(ctx context.Context, message string) {
	f.push(Notice{
		ID:        uuid.New(),
		Severity:  SeverityError,
		Message:   message,
		CreatedAt: f.now(),
	})
}

func (f *Feed) push(n Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.notices) == f.size {
		copy(f.notices, f.notices[1:])
		f.notices = f.notices[:len(f.notices)-1]
	}
	f.notices = append(f.notices, n)
}

// Recent returns the buffered notices, oldest first, without consuming them.
func (f *Feed) Recent() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Notice, len(f.notices))
	copy(out, f.notices)
	return out
}

// Drain returns the buffered notices and empties the feed.
func (f *Feed) Drain() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.notices
	f.notices = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}
