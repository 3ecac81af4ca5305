package port

import "context"

type KeyValueStore interface {
	// GetItem returns the value stored under key; ok is false when the key is absent
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)

	// SetItem overwrites the value stored under key
	SetItem(ctx context.Context, key, value string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}
