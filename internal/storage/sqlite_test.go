package storage

import (
	"bytes"
	"testing"

	"github.com/mhartig/putzplan/internal/database"
)

func setupSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLiteStore(db)
}

func TestGetMissingKey(t *testing.T) {
	s := setupSQLiteStore(t)

	_, ok, err := s.Get("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("expected missing key")
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	s := setupSQLiteStore(t)

	want := []byte(`{"hello":"world"}`)
	if err := s.Set("k", want); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := s.Get("k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected key to exist")
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSetOverwrites(t *testing.T) {
	s := setupSQLiteStore(t)

	if err := s.Set("k", []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("k", []byte("v2")); err != nil {
		t.Fatalf("set again: %v", err)
	}

	got, _, err := s.Get("k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("got %q, want %q", got, "v2")
	}
}

func TestRemove(t *testing.T) {
	s := setupSQLiteStore(t)

	if err := s.Set("k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Remove("k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	_, ok, err := s.Get("k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("expected key to be gone")
	}

	// Removing a missing key is not an error.
	if err := s.Remove("k"); err != nil {
		t.Errorf("remove missing: %v", err)
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	s := NewMemoryStore()

	value := []byte("original")
	if err := s.Set("k", value); err != nil {
		t.Fatalf("set: %v", err)
	}
	value[0] = 'X'

	got, _, err := s.Get("k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "original" {
		t.Errorf("stored value mutated: %q", got)
	}

	got[0] = 'Y'
	again, _, _ := s.Get("k")
	if string(again) != "original" {
		t.Errorf("returned slice aliases the store: %q", again)
	}
}
