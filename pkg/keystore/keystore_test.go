package keystore_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/deadside-ru/hub/pkg/keystore"
)

func openTestStore(t *testing.T) *keystore.Store {
	t.Helper()
	st, err := keystore.Open(filepath.Join(t.TempDir(), "hub.db"))
	if err != nil {
		t.Fatalf("Open: unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestTokenRoundTrip(t *testing.T) {
	st := openTestStore(t)

	if _, err := st.LoadToken(); !errors.Is(err, keystore.ErrNotFound) {
		t.Fatalf("LoadToken on empty store = %v, want ErrNotFound", err)
	}

	if err := st.SaveToken("tok-abc"); err != nil {
		t.Fatalf("SaveToken: unexpected error: %v", err)
	}
	tok, err := st.LoadToken()
	if err != nil {
		t.Fatalf("LoadToken: unexpected error: %v", err)
	}
	if tok != "tok-abc" {
		t.Errorf("LoadToken = %q, want %q", tok, "tok-abc")
	}

	// Overwrite replaces the value.
	if err := st.SaveToken("tok-def"); err != nil {
		t.Fatalf("SaveToken: unexpected error: %v", err)
	}
	tok, _ = st.LoadToken()
	if tok != "tok-def" {
		t.Errorf("LoadToken after overwrite = %q, want %q", tok, "tok-def")
	}
}

func TestDeleteToken(t *testing.T) {
	st := openTestStore(t)

	if err := st.SaveToken("tok"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	if err := st.Set(keystore.ProfileKey, `{"id":"u1"}`); err != nil {
		t.Fatalf("Set profile: %v", err)
	}

	if err := st.DeleteToken(); err != nil {
		t.Fatalf("DeleteToken: unexpected error: %v", err)
	}
	if _, err := st.LoadToken(); !errors.Is(err, keystore.ErrNotFound) {
		t.Errorf("LoadToken after delete = %v, want ErrNotFound", err)
	}
	if _, err := st.Get(keystore.ProfileKey); !errors.Is(err, keystore.ErrNotFound) {
		t.Errorf("profile after delete = %v, want ErrNotFound", err)
	}

	// Deleting again is not an error.
	if err := st.DeleteToken(); err != nil {
		t.Errorf("DeleteToken on empty store: %v", err)
	}
}
