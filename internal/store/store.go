package store

import "context"

// Store is the blob collaborator the engine persists through. Blobs are
// opaque serialized text, read and replaced whole on every cycle. A Get
// for a key that was never written reports ok=false with a nil error.
//
//go:generate mockgen -source=store.go -destination=mock/store_mock.go -package=mock
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string) error
}
