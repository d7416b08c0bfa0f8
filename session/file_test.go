package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(NewFileAdapter(path, ""))

	if err := store.SetCredential(ctx, "aaa.bbb.ccc"); err != nil {
		t.Fatalf("SetCredential() error = %v", err)
	}

	// A fresh adapter over the same file sees the persisted state.
	reopened := NewStore(NewFileAdapter(path, ""))
	got, err := reopened.Credential(ctx)
	if err != nil {
		t.Fatalf("Credential() error = %v", err)
	}
	if got != "aaa.bbb.ccc" {
		t.Errorf("Credential() = %q, want aaa.bbb.ccc", got)
	}
}

func TestFileAdapter_SealedAtRest(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	adapter := NewFileAdapter(path, "hunter2")

	if err := adapter.Set(ctx, KeyCredential, "aaa.bbb.ccc"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read session file: %v", err)
	}
	if strings.Contains(string(data), "aaa.bbb.ccc") {
		t.Error("credential stored in the clear despite secret")
	}

	got, err := NewFileAdapter(path, "hunter2").Get(ctx, KeyCredential)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "aaa.bbb.ccc" {
		t.Errorf("Get() = %q, want aaa.bbb.ccc", got)
	}
}

func TestFileAdapter_WrongSecretTreatedAsAbsent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	if err := NewFileAdapter(path, "secret-a").Set(ctx, KeyCredential, "aaa.bbb.ccc"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	store := NewStore(NewFileAdapter(path, "secret-b"))
	if _, err := store.Credential(ctx); !errors.Is(err, ErrNoCredential) {
		t.Errorf("Credential() under wrong secret error = %v, want ErrNoCredential", err)
	}
}

func TestFileAdapter_Clear(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewStore(NewFileAdapter(path, "hunter2"))

	if err := store.SetCredential(ctx, "aaa.bbb.ccc"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetRole(ctx, "EMPLOYER"); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := store.Credential(ctx); !errors.Is(err, ErrNoCredential) {
		t.Errorf("Credential() after Clear error = %v, want ErrNoCredential", err)
	}
}

func TestFileAdapter_CorruptFileDiscarded(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("not json at all"), 0o600); err != nil {
		t.Fatal(err)
	}

	adapter := NewFileAdapter(path, "")
	if got, err := adapter.Get(ctx, KeyCredential); err != nil || got != "" {
		t.Errorf("Get() on corrupt file = (%q, %v), want empty", got, err)
	}
	if err := adapter.Set(ctx, KeyRole, "EMPLOYER"); err != nil {
		t.Errorf("Set() after corrupt file error = %v", err)
	}
}
