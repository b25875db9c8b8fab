// Package credstorefile persists the credential slot as an encrypted file,
// for devices without a shared cache. The blob is sealed with
// XChaCha20-Poly1305 under a key held in a separate 0600 key file.
package credstorefile

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/login-agent/internal/credstore"
)

type Store struct {
	path    string
	keyPath string
}

// New expands environment references in both paths. The key file is created
// lazily on the first Put.
func New(path, keyPath string) *Store {
	return &Store{
		path:    os.ExpandEnv(path),
		keyPath: os.ExpandEnv(keyPath),
	}
}

var _ = credstore.Store(&Store{})

func (s *Store) Put(ctx context.Context, blob []byte) error {
	key, err := s.loadOrCreateKey()
	if err != nil {
		return fmt.Errorf("loading store key: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return fmt.Errorf("initialising cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generating nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, blob, nil)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	// Write-then-rename keeps partial writes invisible to readers.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, sealed, 0o600); err != nil {
		return fmt.Errorf("writing credential slot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("committing credential slot: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context) ([]byte, bool, error) {
	sealed, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}

		// An unreadable backing file reads as absent; the login flow must
		// not fail on cache trouble.
		slogctx.Warn(ctx, "Credential slot is unreadable, treating as absent", "error", err)

		return nil, false, nil
	}

	key, err := s.loadKey()
	if err != nil {
		slogctx.Warn(ctx, "Credential store key is unreadable, treating slot as absent", "error", err)
		return nil, false, nil
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, false, fmt.Errorf("initialising cipher: %w", err)
	}

	if len(sealed) < aead.NonceSize() {
		slogctx.Warn(ctx, "Credential slot is truncated, treating as absent")
		return nil, false, nil
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	blob, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		slogctx.Warn(ctx, "Credential slot failed to decrypt, treating as absent", "error", err)
		return nil, false, nil
	}

	return blob, true, nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clearing credential slot: %w", err)
	}

	return nil
}

func (s *Store) loadKey() ([]byte, error) {
	key, err := os.ReadFile(s.keyPath)
	if err != nil {
		return nil, err
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("store key has %d bytes, want %d", len(key), chacha20poly1305.KeySize)
	}

	return key, nil
}

func (s *Store) loadOrCreateKey() ([]byte, error) {
	key, err := s.loadKey()
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	key = make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating store key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.keyPath), 0o700); err != nil {
		return nil, fmt.Errorf("creating key directory: %w", err)
	}
	if err := os.WriteFile(s.keyPath, key, 0o600); err != nil {
		return nil, fmt.Errorf("writing store key: %w", err)
	}

	return key, nil
}
