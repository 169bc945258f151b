// Package persist serializes the canonical app state into a versioned
// envelope and round-trips it through the durable key-value store.
package persist

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/mhartig/putzplan/internal/model"
	"github.com/mhartig/putzplan/internal/storage"
)

const (
	// StorageKey is the single key the whole state envelope lives under.
	StorageKey = "putzplan-app-data"

	// SchemaVersion gates loading: any stored envelope with a different
	// version is discarded and the state starts blank. Full reset, no
	// partial migration.
	SchemaVersion = "1.0"
)

// Envelope is the persisted record shape.
type Envelope struct {
	Version string          `json:"version"`
	State   json.RawMessage `json:"state"`
	SavedAt time.Time       `json:"saved_at"`
}

// Adapter writes and reads the state envelope. A corrupt or mismatched
// payload never fails a Load; it falls back to the blank initial state so
// startup cannot crash on bad data.
type Adapter struct {
	store  storage.Store
	key    string
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Adapter)

// WithKey overrides the storage key, used by tests to isolate instances.
func WithKey(key string) Option {
	return func(a *Adapter) { a.key = key }
}

func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

func NewAdapter(store storage.Store, logger *slog.Logger, opts ...Option) *Adapter {
	a := &Adapter{
		store:  store,
		key:    StorageKey,
		logger: logger,
		now:    time.Now,
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Save persists the full state synchronously. Every date in the tree is
// rewritten to canonical UTC RFC3339 before writing.
func (a *Adapter) Save(state *model.AppState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	raw, err = normalizeTimestamps(raw)
	if err != nil {
		return fmt.Errorf("normalize state: %w", err)
	}

	env := Envelope{
		Version: SchemaVersion,
		State:   raw,
		SavedAt: a.now().UTC(),
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	if err := a.store.Set(a.key, data); err != nil {
		return fmt.Errorf("persist envelope: %w", err)
	}
	return nil
}

// Load reads the envelope back. Missing key, parse failure or a schema
// version mismatch all yield the blank initial state; only a store I/O
// failure is surfaced as an error.
func (a *Adapter) Load() (*model.AppState, error) {
	data, ok, err := a.store.Get(a.key)
	if err != nil {
		return nil, fmt.Errorf("read envelope: %w", err)
	}
	if !ok {
		return model.NewAppState(), nil
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		a.logger.Warn("stored state unparseable, resetting", "key", a.key, "error", err)
		return model.NewAppState(), nil
	}
	if env.Version != SchemaVersion {
		a.logger.Warn("stored state version mismatch, resetting",
			"key", a.key, "stored", env.Version, "want", SchemaVersion)
		return model.NewAppState(), nil
	}

	raw, err := normalizeTimestamps(env.State)
	if err != nil {
		a.logger.Warn("stored state payload invalid, resetting", "key", a.key, "error", err)
		return model.NewAppState(), nil
	}

	state := model.NewAppState()
	if err := json.Unmarshal(raw, state); err != nil {
		a.logger.Warn("stored state payload invalid, resetting", "key", a.key, "error", err)
		return model.NewAppState(), nil
	}
	state.EnsureMaps()
	return state, nil
}

// Clear removes the persisted envelope.
func (a *Adapter) Clear() error {
	if err := a.store.Remove(a.key); err != nil {
		return fmt.Errorf("clear envelope: %w", err)
	}
	return nil
}

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T`)

// normalizeTimestamps walks the whole decoded JSON tree and rewrites every
// timestamp-shaped string to UTC RFC3339, so dates survive save/load cycles
// independent of the zone they were written in.
func normalizeTimestamps(raw []byte) ([]byte, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	v = normalizeValue(v)
	out, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case string:
		if timestampPattern.MatchString(x) {
			if t, err := time.Parse(time.RFC3339Nano, x); err == nil {
				return t.UTC().Format(time.RFC3339Nano)
			}
		}
		return x
	case []any:
		for i := range x {
			x[i] = normalizeValue(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = normalizeValue(x[k])
		}
		return x
	default:
		return v
	}
}
