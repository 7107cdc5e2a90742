package ports

import "context"

// Store persists a single serialized value per key. Writes replace the
// previous value wholesale.
type Store interface {
	// Read returns ok=false when nothing has been written under key.
	Read(ctx context.Context, key string) (value string, ok bool, err error)
	Write(ctx context.Context, key, value string) error
}
