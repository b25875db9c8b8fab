// Package credstorevalkey keeps the credential slot in a valkey instance, for
// deployments where several agent instances share one logical user session.
// Concurrent writers race with last-write-wins semantics, which is all the
// single-slot model needs.
package credstorevalkey

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/valkey-io/valkey-go"

	"github.com/openkcm/login-agent/internal/credstore"
)

var (
	ErrGetSlot   = errors.New("getting credential slot from store")
	ErrStoreSlot = errors.New("setting credential slot into storage")
	ErrClearSlot = errors.New("deleting credential slot from storage")
)

type Store struct {
	valkey valkey.Client
	prefix string
}

func New(valkeyClient valkey.Client, prefix string) *Store {
	prefix = strings.TrimSuffix(prefix, ":")
	return &Store{
		valkey: valkeyClient,
		prefix: prefix,
	}
}

var _ = credstore.Store(&Store{})

func (s *Store) Put(ctx context.Context, blob []byte) error {
	cmd := s.valkey.B().Set().Key(s.key()).Value(valkey.BinaryString(blob)).Build()
	if err := s.valkey.Do(ctx, cmd).Error(); err != nil {
		return errors.Join(ErrStoreSlot, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context) ([]byte, bool, error) {
	blob, err := s.valkey.Do(ctx, s.valkey.B().Get().Key(s.key()).Build()).AsBytes()
	if err != nil {
		valkeyErr, ok := valkey.IsValkeyErr(err)
		if ok && valkeyErr.IsNil() {
			return nil, false, nil
		}

		return nil, false, errors.Join(ErrGetSlot, err)
	}

	return blob, true, nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.valkey.Do(ctx, s.valkey.B().Del().Key(s.key()).Build()).Error(); err != nil {
		return errors.Join(ErrClearSlot, err)
	}

	return nil
}

func (s *Store) key() string {
	return fmt.Sprintf("%s:%s", s.prefix, credstore.Key)
}
