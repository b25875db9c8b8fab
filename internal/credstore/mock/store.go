package credstoremock

import (
	"context"

	"github.com/openkcm/login-agent/internal/credstore"
)

type StoreOption func(*Store)

// Store is an in-memory credential slot with error injection and call
// counters for asserting side-effect ordering in tests.
type Store struct {
	blob    []byte
	present bool

	getErr, putErr, clearErr error

	GetCalls, PutCalls, ClearCalls int
}

func WithBlob(blob []byte) StoreOption {
	return func(s *Store) {
		s.blob = blob
		s.present = true
	}
}

func WithGetError(err error) StoreOption {
	return func(s *Store) { s.getErr = err }
}

func WithPutError(err error) StoreOption {
	return func(s *Store) { s.putErr = err }
}

func WithClearError(err error) StoreOption {
	return func(s *Store) { s.clearErr = err }
}

var _ = credstore.Store(&Store{})

func NewInMemStore(opts ...StoreOption) *Store {
	s := &Store{}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

func (s *Store) Put(_ context.Context, blob []byte) error {
	s.PutCalls++
	if s.putErr != nil {
		return s.putErr
	}

	s.blob = append([]byte(nil), blob...)
	s.present = true

	return nil
}

func (s *Store) Get(_ context.Context) ([]byte, bool, error) {
	s.GetCalls++
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	if !s.present {
		return nil, false, nil
	}

	return append([]byte(nil), s.blob...), true, nil
}

func (s *Store) Clear(_ context.Context) error {
	s.ClearCalls++
	if s.clearErr != nil {
		return s.clearErr
	}

	s.blob = nil
	s.present = false

	return nil
}

// Present reports whether the slot currently holds a blob, bypassing the
// Get error injection.
func (s *Store) Present() bool {
	return s.present
}

// Blob returns the stored bytes for content assertions.
func (s *Store) Blob() []byte {
	return s.blob
}
