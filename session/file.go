package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileAdapter persists session state as a single JSON document on disk, the
// durable option for CLI and desktop consumers. When a secret is supplied,
// every value is sealed before it touches the filesystem. The whole document
// is rewritten on each mutation, so a multi-key Delete is atomic at the file
// level.
type FileAdapter struct {
	mu     sync.Mutex
	path   string
	sealer *sealer
}

// NewFileAdapter creates a file-backed adapter at path. An empty secret
// stores values in the clear; pass a secret whenever the session may contain
// a live credential.
func NewFileAdapter(path, secret string) *FileAdapter {
	a := &FileAdapter{path: path}
	if secret != "" {
		a.sealer = newSealer(secret)
	}
	return a
}

func (f *FileAdapter) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		return "", err
	}
	value, ok := entries[key]
	if !ok {
		return "", nil
	}
	if f.sealer != nil {
		opened, err := f.sealer.open(value)
		if err != nil {
			// A value sealed under a different secret is unreadable, not an
			// error condition: treat it as absent and let the caller sign in
			// again.
			return "", nil
		}
		return opened, nil
	}
	return value, nil
}

func (f *FileAdapter) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		return err
	}
	if f.sealer != nil {
		sealed, err := f.sealer.seal(value)
		if err != nil {
			return err
		}
		value = sealed
	}
	entries[key] = value
	return f.save(entries)
}

func (f *FileAdapter) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		return err
	}
	for _, key := range keys {
		delete(entries, key)
	}
	return f.save(entries)
}

func (f *FileAdapter) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		// Corrupt session files are discarded rather than wedging every
		// subsequent operation.
		return make(map[string]string), nil
	}
	return entries, nil
}

func (f *FileAdapter) save(entries map[string]string) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return os.Rename(tmp, f.path)
}
