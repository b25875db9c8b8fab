// Package credstore holds the single-slot credential cache that enables
// biometric re-login. The slot stores the exact login request body of the last
// successful attempt, encrypted at rest by the backend.
package credstore

import "context"

// Key is the fixed name of the one slot every backend exposes.
const Key = "credentials"

// Store is the credential cache contract. Get reports absence as
// (nil, false, nil) rather than an error; a never-written slot and an
// unavailable backing store both read as absent.
type Store interface {
	Put(ctx context.Context, blob []byte) error
	Get(ctx context.Context) ([]byte, bool, error)
	Clear(ctx context.Context) error
}
