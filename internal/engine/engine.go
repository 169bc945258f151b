// Package engine owns the canonical household state and every authorized
// mutation of it. All writes flow through a single commit path that
// synchronously persists the full state envelope before returning, so a
// finished call is always durable.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mhartig/putzplan/internal/backup"
	"github.com/mhartig/putzplan/internal/model"
	"github.com/mhartig/putzplan/internal/persist"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrNoHousehold   = errors.New("no current household")
	ErrNoCurrentUser = errors.New("no current user")
	ErrInvalidPeriod = errors.New("invalid period bounds")
)

// Engine is the state container plus the period, point, absence and audit
// operations built on top of it. It is a plain single-threaded component;
// callers sequence their own invocations.
type Engine struct {
	adapter *persist.Adapter
	audit   *backup.Log
	logger  *slog.Logger
	now     func() time.Time

	state *model.AppState

	// displayPeriodID is a view-only selector, deliberately not persisted.
	// Empty means "show the live active period".
	displayPeriodID string
}

type Option func(*Engine)

// WithClock injects a deterministic clock for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New loads the persisted state (or the blank initial state) and returns a
// ready engine. The audit log may be nil; mutations then go unrecorded.
func New(adapter *persist.Adapter, audit *backup.Log, logger *slog.Logger, opts ...Option) (*Engine, error) {
	e := &Engine{
		adapter: adapter,
		audit:   audit,
		logger:  logger,
		now:     time.Now,
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	for _, opt := range opts {
		opt(e)
	}

	state, err := adapter.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	e.state = state
	return e, nil
}

// GetState returns the live canonical state. Callers must not mutate it;
// every write goes through an engine method.
func (e *Engine) GetState() *model.AppState {
	return e.state
}

// Reset discards all state and persists the blank initial state.
func (e *Engine) Reset() error {
	e.state = model.NewAppState()
	e.displayPeriodID = ""
	if err := e.adapter.Save(e.state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// ImportState replaces the whole state in one bulk operation. This is the
// seed entry point; the producer is trusted to hand over a valid state.
func (e *Engine) ImportState(s *model.AppState) error {
	if s == nil {
		return fmt.Errorf("import state: nil state")
	}
	s.EnsureMaps()
	e.state = s
	e.displayPeriodID = ""
	if err := e.adapter.Save(e.state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	e.recordChange(backup.Change{
		Description: "bulk state import",
		Type:        backup.ChangeBulk,
		Entity:      "app-state",
		EntityID:    "full-state",
		After:       e.state,
	})
	return nil
}

// exportEnvelope is the shape produced by ExportData.
type exportEnvelope struct {
	Version    string          `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	Data       *model.AppState `json:"data"`
}

// ExportData serializes the current state for transfer between devices.
func (e *Engine) ExportData() ([]byte, error) {
	data, err := json.MarshalIndent(exportEnvelope{
		Version:    persist.SchemaVersion,
		ExportedAt: e.now().UTC(),
		Data:       e.state,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export state: %w", err)
	}
	return data, nil
}

// ImportData replaces the state from an ExportData payload.
func (e *Engine) ImportData(data []byte) error {
	var env exportEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("import state: %w", err)
	}
	if env.Data == nil {
		return fmt.Errorf("import state: missing data")
	}
	return e.ImportState(env.Data)
}

// commit applies a mutation and synchronously persists the full state. No
// mutation is visible to later reads unless it also reached the store.
func (e *Engine) commit(mutate func(s *model.AppState)) error {
	mutate(e.state)
	e.state.LastSavedAt = e.now().UTC()
	if err := e.adapter.Save(e.state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// recordChange appends an audit entry, best effort.
func (e *Engine) recordChange(change backup.Change) {
	if e.audit == nil {
		return
	}
	if _, err := e.audit.SaveStateChange(change); err != nil {
		e.logger.Warn("audit record failed",
			"entity", change.Entity, "entity_id", change.EntityID, "error", err)
	}
}

// unmarshalSnapshot decodes an audit snapshot payload.
func unmarshalSnapshot(payload json.RawMessage, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}

func newInviteCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
