// Package blob defines the key-value persistence port the ledger writes its
// snapshot through. Values are opaque strings; a missing key is not an error.
package blob

import "context"

// Store is a flat key-value store.
type Store interface {
	// Get returns the value stored under key. ok is false when the key was
	// never set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}
