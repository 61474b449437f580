package session

import (
	"path/filepath"
	"testing"

	"github.com/coworkhq/cowork/internal/models"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestStoreStartsEmpty(t *testing.T) {
	s, _ := openTestStore(t)

	got := s.Get()
	if got.Token != "" {
		t.Errorf("Token = %q, want empty", got.Token)
	}
	if got.User != nil {
		t.Errorf("User = %+v, want nil", got.User)
	}
}

func TestStoreSetAndGet(t *testing.T) {
	s, _ := openTestStore(t)

	user := &models.User{ID: 1, LoginID: "alice", Nickname: "Alice"}
	if err := s.Set("tok-123", user); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got := s.Get()
	if got.Token != "tok-123" {
		t.Errorf("Token = %q, want %q", got.Token, "tok-123")
	}
	if got.User == nil || got.User.LoginID != "alice" {
		t.Errorf("User = %+v, want alice", got.User)
	}
}

func TestStoreClear(t *testing.T) {
	s, _ := openTestStore(t)

	if err := s.Set("tok-123", &models.User{ID: 1, LoginID: "alice"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	got := s.Get()
	if got.Token != "" || got.User != nil {
		t.Errorf("after Clear, session = %+v, want empty", got)
	}
}

func TestStoreSetEmptyTokenClears(t *testing.T) {
	s, _ := openTestStore(t)

	if err := s.Set("tok-123", &models.User{ID: 1, LoginID: "alice"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	// An empty token must never coexist with a cached profile.
	if err := s.Set("", &models.User{ID: 2, LoginID: "bob"}); err != nil {
		t.Fatalf("Set(\"\") error = %v", err)
	}

	got := s.Get()
	if got.Token != "" || got.User != nil {
		t.Errorf("session = %+v, want empty", got)
	}
}

func TestStoreSetTokenWithoutUser(t *testing.T) {
	s, _ := openTestStore(t)

	if err := s.Set("tok-123", &models.User{ID: 1, LoginID: "alice"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	// Replacing with a nil profile drops the old one instead of keeping
	// a profile that no longer matches the token.
	if err := s.Set("tok-456", nil); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got := s.Get()
	if got.Token != "tok-456" {
		t.Errorf("Token = %q, want %q", got.Token, "tok-456")
	}
	if got.User != nil {
		t.Errorf("User = %+v, want nil", got.User)
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	user := &models.User{ID: 7, LoginID: "carol", Nickname: "Carol", Role: models.RoleUser}
	if err := s.Set("tok-789", user); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got := reopened.Get()
	if got.Token != "tok-789" {
		t.Errorf("Token = %q, want %q", got.Token, "tok-789")
	}
	if got.User == nil {
		t.Fatal("User = nil, want persisted profile")
	}
	if got.User.LoginID != "carol" || got.User.Nickname != "Carol" {
		t.Errorf("User = %+v, want carol/Carol", got.User)
	}
}

func TestStoreClearPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Set("tok-789", nil); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	s.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	if got := reopened.Get(); got.Token != "" {
		t.Errorf("Token = %q after cleared reopen, want empty", got.Token)
	}
}
