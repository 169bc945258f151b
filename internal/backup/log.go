// Package backup keeps an append-only audit log of entity mutations so
// deleted entities can be inspected and restored. The log is a bounded ring
// buffer; it never mutates engine state itself.
package backup

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mhartig/putzplan/internal/storage"
)

// DefaultCapacity bounds the ring buffer. Oldest entries are evicted first.
const DefaultCapacity = 100

// DefaultStorageKey is where the log persists itself when given a store.
const DefaultStorageKey = "putzplan-state-backups"

type ChangeType string

const (
	ChangeCreate ChangeType = "create"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
	ChangeBulk   ChangeType = "bulk_update"
)

// StateSnapshot is one audit entry: the entity payload before and after a
// mutation, identified by a lexicographically sortable ULID.
type StateSnapshot struct {
	ID          string            `json:"id"`
	Timestamp   time.Time         `json:"timestamp"`
	Description string            `json:"description,omitempty"`
	Type        ChangeType        `json:"type"`
	Entity      string            `json:"entity"`
	EntityID    string            `json:"entity_id"`
	Before      json.RawMessage   `json:"before,omitempty"`
	After       json.RawMessage   `json:"after,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Change is the caller-facing input for SaveStateChange. Before and After
// are marshaled at append time so later mutation of the originals cannot
// alter the log.
type Change struct {
	Description string
	Type        ChangeType
	Entity      string
	EntityID    string
	Before      any
	After       any
	Metadata    map[string]string
}

// Log is a capacity-bounded ring buffer of snapshots.
type Log struct {
	buf   []StateSnapshot
	head  int // index of the oldest entry
	count int

	store   storage.Store
	key     string
	logger  *slog.Logger
	now     func() time.Time
	entropy io.Reader
}

type Option func(*Log)

func WithCapacity(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.buf = make([]StateSnapshot, n)
		}
	}
}

// WithStore makes the log persist itself under key after every append.
func WithStore(store storage.Store, key string) Option {
	return func(l *Log) {
		l.store = store
		if key != "" {
			l.key = key
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

func NewLog(logger *slog.Logger, opts ...Option) *Log {
	l := &Log{
		buf:     make([]StateSnapshot, DefaultCapacity),
		key:     DefaultStorageKey,
		logger:  logger,
		now:     time.Now,
		entropy: rand.Reader,
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	for _, opt := range opts {
		opt(l)
	}
	l.restore()
	return l
}

// SaveStateChange appends a snapshot and returns its id. Once the buffer is
// full the oldest entry is evicted.
func (l *Log) SaveStateChange(change Change) (string, error) {
	before, err := marshalPayload(change.Before)
	if err != nil {
		return "", fmt.Errorf("marshal before state: %w", err)
	}
	after, err := marshalPayload(change.After)
	if err != nil {
		return "", fmt.Errorf("marshal after state: %w", err)
	}

	now := l.now().UTC()
	id, err := ulid.New(ulid.Timestamp(now), l.entropy)
	if err != nil {
		return "", fmt.Errorf("snapshot id: %w", err)
	}

	snap := StateSnapshot{
		ID:          id.String(),
		Timestamp:   now,
		Description: change.Description,
		Type:        change.Type,
		Entity:      change.Entity,
		EntityID:    change.EntityID,
		Before:      before,
		After:       after,
		Metadata:    change.Metadata,
	}

	if l.count == len(l.buf) {
		// Full: overwrite the oldest slot.
		l.buf[l.head] = snap
		l.head = (l.head + 1) % len(l.buf)
	} else {
		l.buf[(l.head+l.count)%len(l.buf)] = snap
		l.count++
	}

	l.persist()
	return snap.ID, nil
}

// GetSnapshotsForEntity returns snapshots for an entity type, newest first.
// An optional entity id narrows the match.
func (l *Log) GetSnapshotsForEntity(entity string, entityID ...string) []StateSnapshot {
	var id string
	if len(entityID) > 0 {
		id = entityID[0]
	}

	var out []StateSnapshot
	// Walk newest to oldest so the result is already sorted.
	for i := l.count - 1; i >= 0; i-- {
		s := l.buf[(l.head+i)%len(l.buf)]
		if s.Entity != entity {
			continue
		}
		if id != "" && s.EntityID != id {
			continue
		}
		out = append(out, s)
	}
	return out
}

// All returns every snapshot, oldest first.
func (l *Log) All() []StateSnapshot {
	out := make([]StateSnapshot, 0, l.count)
	for i := 0; i < l.count; i++ {
		out = append(out, l.buf[(l.head+i)%len(l.buf)])
	}
	return out
}

// Cleanup drops entries older than maxAge and returns how many were removed.
func (l *Log) Cleanup(maxAge time.Duration) int {
	cutoff := l.now().UTC().Add(-maxAge)

	kept := make([]StateSnapshot, 0, l.count)
	for i := 0; i < l.count; i++ {
		s := l.buf[(l.head+i)%len(l.buf)]
		if s.Timestamp.After(cutoff) {
			kept = append(kept, s)
		}
	}

	removed := l.count - len(kept)
	if removed > 0 {
		l.head = 0
		l.count = copy(l.buf, kept)
		l.persist()
		l.logger.Debug("audit log cleanup", "removed", removed, "kept", l.count)
	}
	return removed
}

// Clear empties the log.
func (l *Log) Clear() {
	l.head = 0
	l.count = 0
	l.persist()
}

// Stats summarizes the log contents.
type Stats struct {
	Total    int            `json:"total"`
	ByEntity map[string]int `json:"by_entity"`
	Oldest   *time.Time     `json:"oldest,omitempty"`
	Newest   *time.Time     `json:"newest,omitempty"`
}

func (l *Log) Stats() Stats {
	st := Stats{ByEntity: make(map[string]int)}
	for i := 0; i < l.count; i++ {
		s := l.buf[(l.head+i)%len(l.buf)]
		st.ByEntity[s.Entity]++
		st.Total++
		ts := s.Timestamp
		if st.Oldest == nil || ts.Before(*st.Oldest) {
			st.Oldest = &ts
		}
		if st.Newest == nil || ts.After(*st.Newest) {
			st.Newest = &ts
		}
	}
	return st
}

func marshalPayload(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(v)
}

// persist writes the current entries to the backing store, best effort: an
// audit write must never fail the mutation it records.
func (l *Log) persist() {
	if l.store == nil {
		return
	}
	data, err := json.Marshal(l.All())
	if err != nil {
		l.logger.Error("marshal audit log", "error", err)
		return
	}
	if err := l.store.Set(l.key, data); err != nil {
		l.logger.Error("persist audit log", "error", err)
	}
}

func (l *Log) restore() {
	if l.store == nil {
		return
	}
	data, ok, err := l.store.Get(l.key)
	if err != nil || !ok {
		if err != nil {
			l.logger.Warn("read audit log", "error", err)
		}
		return
	}
	var entries []StateSnapshot
	if err := json.Unmarshal(data, &entries); err != nil {
		l.logger.Warn("stored audit log unparseable, starting empty", "error", err)
		return
	}
	if len(entries) > len(l.buf) {
		entries = entries[len(entries)-len(l.buf):]
	}
	l.head = 0
	l.count = copy(l.buf, entries)
}
