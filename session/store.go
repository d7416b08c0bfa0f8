package session

import (
	"context"
	"encoding/json"
	"fmt"
)

// Storage keys. Every adapter persists these three entries and nothing else.
const (
	KeyCredential      = "sudburry.credential"
	KeyRole            = "sudburry.role"
	KeyProfileSnapshot = "sudburry.profile"
)

// Adapter is the durable key-value backing for a Store. Implementations must
// be safe for concurrent use. Get returns "" with a nil error when the key is
// absent; Delete removes all given keys in a single atomic operation so a
// concurrent reader never observes a partially cleared session.
type Adapter interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Store is the single source of truth for the caller's credential, role and
// cached profile snapshot. It is an explicit dependency: feature services
// receive a *Store rather than reaching for ambient global storage.
type Store struct {
	kv Adapter
}

// NewStore creates a Store over the given adapter.
func NewStore(kv Adapter) *Store {
	return &Store{kv: kv}
}

// Credential returns the stored bearer credential, normalized across the
// historical storage encodings (see DecodeStoredCredential). Returns
// ErrNoCredential when nothing is stored.
func (s *Store) Credential(ctx context.Context) (string, error) {
	raw, err := s.kv.Get(ctx, KeyCredential)
	if err != nil {
		return "", fmt.Errorf("read credential: %w", err)
	}
	if raw == "" {
		return "", ErrNoCredential
	}
	return DecodeStoredCredential(raw), nil
}

// SetCredential stores the raw credential string as-is, with no wrapping.
func (s *Store) SetCredential(ctx context.Context, credential string) error {
	return s.kv.Set(ctx, KeyCredential, credential)
}

// Role returns the cached account role, or "" when none is stored. The role
// is derived once at sign-in and is not re-derived if the credential changes
// out of band.
func (s *Store) Role(ctx context.Context) (string, error) {
	return s.kv.Get(ctx, KeyRole)
}

// SetRole caches the account role alongside the credential.
func (s *Store) SetRole(ctx context.Context, role string) error {
	return s.kv.Set(ctx, KeyRole, role)
}

// ProfileSnapshot returns the cached profile snapshot, or nil when absent.
// An unparseable snapshot is treated as absent rather than an error: the
// snapshot is a convenience cache, never authoritative.
func (s *Store) ProfileSnapshot(ctx context.Context) (map[string]any, error) {
	raw, err := s.kv.Get(ctx, KeyProfileSnapshot)
	if err != nil {
		return nil, fmt.Errorf("read profile snapshot: %w", err)
	}
	if raw == "" {
		return nil, nil
	}
	var snapshot map[string]any
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, nil
	}
	return snapshot, nil
}

// SetProfileSnapshot caches a profile snapshot for identity resolution and
// offline display.
func (s *Store) SetProfileSnapshot(ctx context.Context, snapshot map[string]any) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode profile snapshot: %w", err)
	}
	return s.kv.Set(ctx, KeyProfileSnapshot, string(data))
}

// Clear removes the credential, role and profile snapshot in one atomic
// delete. Called on sign-out; must succeed locally even when the backend
// logout call fails.
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, KeyCredential, KeyRole, KeyProfileSnapshot)
}
