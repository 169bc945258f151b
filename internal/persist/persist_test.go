package persist

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mhartig/putzplan/internal/model"
	"github.com/mhartig/putzplan/internal/storage"
)

func setupAdapter(t *testing.T) (*Adapter, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewAdapter(store, nil), store
}

func TestLoadMissingYieldsBlankState(t *testing.T) {
	a, _ := setupAdapter(t)

	state, err := a.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if state.CurrentUserID != "" || len(state.Users) != 0 {
		t.Error("expected blank initial state")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	a, _ := setupAdapter(t)

	state := model.NewAppState()
	user := &model.Member{
		ID: "u1", Name: "Anna",
		JoinedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
	}
	state.Users[user.ID] = user
	state.CurrentUserID = user.ID

	if err := a.Save(state); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := a.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.CurrentUserID != "u1" {
		t.Errorf("CurrentUserID = %q, want %q", loaded.CurrentUserID, "u1")
	}
	got := loaded.Users["u1"]
	if got == nil || got.Name != "Anna" {
		t.Fatalf("user not restored: %+v", got)
	}
	if !got.JoinedAt.Equal(user.JoinedAt) {
		t.Errorf("JoinedAt = %v, want %v", got.JoinedAt, user.JoinedAt)
	}
}

func TestTimestampsNormalizedToUTC(t *testing.T) {
	a, store := setupAdapter(t)

	berlin := time.FixedZone("CET", 3600)
	state := model.NewAppState()
	state.Users["u1"] = &model.Member{
		ID: "u1", Name: "Ben",
		JoinedAt: time.Date(2026, 3, 1, 11, 30, 0, 0, berlin),
	}
	if err := a.Save(state); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, _, err := store.Get(StorageKey)
	if err != nil {
		t.Fatalf("get raw: %v", err)
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	var decoded struct {
		Users map[string]struct {
			JoinedAt string `json:"joined_at"`
		} `json:"users"`
	}
	if err := json.Unmarshal(env.State, &decoded); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if got := decoded.Users["u1"].JoinedAt; got != "2026-03-01T10:30:00Z" {
		t.Errorf("stored JoinedAt = %q, want UTC form", got)
	}
}

func TestCorruptPayloadResetsBlank(t *testing.T) {
	a, store := setupAdapter(t)

	if err := store.Set(StorageKey, []byte("{not json")); err != nil {
		t.Fatalf("set: %v", err)
	}
	state, err := a.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(state.Users) != 0 || state.CurrentUserID != "" {
		t.Error("expected blank state after corrupt payload")
	}
}

func TestVersionMismatchResetsBlank(t *testing.T) {
	a, store := setupAdapter(t)

	env := Envelope{Version: "0.9", State: json.RawMessage(`{}`), SavedAt: time.Now()}
	data, _ := json.Marshal(env)
	if err := store.Set(StorageKey, data); err != nil {
		t.Fatalf("set: %v", err)
	}

	state, err := a.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(state.Users) != 0 {
		t.Error("expected blank state after version mismatch")
	}
}

func TestClear(t *testing.T) {
	a, store := setupAdapter(t)

	if err := a.Save(model.NewAppState()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := a.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	_, ok, err := store.Get(StorageKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("expected envelope to be removed")
	}
}

func TestCustomKeyIsolation(t *testing.T) {
	store := storage.NewMemoryStore()
	a1 := NewAdapter(store, nil, WithKey("slot-a"))
	a2 := NewAdapter(store, nil, WithKey("slot-b"))

	state := model.NewAppState()
	state.CurrentUserID = "u1"
	state.Users["u1"] = &model.Member{ID: "u1", Name: "Clara"}
	if err := a1.Save(state); err != nil {
		t.Fatalf("save: %v", err)
	}

	other, err := a2.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if other.CurrentUserID != "" {
		t.Error("expected the second key to be empty")
	}
}
