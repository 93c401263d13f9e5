package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// RecordKey is the storage key of the device-scoped completion record.
const RecordKey = "completedQuizzes"

// KV is the persistence port: a string-keyed blob store. found is false
// when the key has never been written.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// recordSchema is the shape every stored record must have: an object whose
// values are arrays of strings.
var recordSchema = map[string]any{
	"type": "object",
	"additionalProperties": map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	},
}

var compiledRecordSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	const url = "schema://completion-record.json"
	if err := c.AddResource(url, recordSchema); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
})

// Store hands out accessors over one KV. Accessors from the same Store
// serialize their read-modify-write cycles.
type Store struct {
	kv     KV
	logger *slog.Logger
	mu     sync.Mutex
}

// NewStore creates a Store. A nil logger uses slog.Default().
func NewStore(kv KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, logger: logger}
}

// For returns the accessor for a user. An empty userID selects the
// device-scoped record.
func (s *Store) For(userID string) *Accessor {
	return &Accessor{store: s, key: scopedKey(RecordKey, userID)}
}

func scopedKey(base, userID string) string {
	if userID == "" {
		return base
	}
	return base + ":" + userID
}

// Accessor reads and updates one completion record.
type Accessor struct {
	store *Store
	key   string
}

// Key returns the storage key this accessor uses.
func (a *Accessor) Key() string {
	return a.key
}

// Load returns the stored record. Missing, unreadable, malformed, or
// wrongly shaped data yields an empty record.
func (a *Accessor) Load(ctx context.Context) Record {
	rec, _ := a.load(ctx)
	return rec
}

// load is Load that also reports a backend read failure, so callers can
// avoid writing over a record they never saw.
func (a *Accessor) load(ctx context.Context) (Record, error) {
	raw, found, err := a.store.kv.Get(ctx, a.key)
	if err != nil {
		a.store.logger.Warn("read completion record", "key", a.key, "error", err)
		return Record{}, err
	}
	if !found || raw == "" {
		return Record{}, nil
	}

	rec, err := decodeRecord(raw)
	if err != nil {
		a.store.logger.Warn("discarding completion record", "key", a.key, "error", err)
		return Record{}, nil
	}
	return rec, nil
}

// MarkLevelComplete adds the level to the record and persists it. The call
// is idempotent. A failed write is logged and the updated record is still
// returned.
func (a *Accessor) MarkLevelComplete(ctx context.Context, topicID, levelID string) Record {
	_, after := a.CompleteLevel(ctx, topicID, levelID)
	return after
}

// CompleteLevel is MarkLevelComplete that also returns the record as read
// before the change, both taken under the same lock. When the backend read
// fails nothing is written: the returned record holds only the new level
// and the stored record is left untouched.
func (a *Accessor) CompleteLevel(ctx context.Context, topicID, levelID string) (before, after Record) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	before, readErr := a.load(ctx)
	after = before.Clone()
	if !after.add(topicID, levelID) {
		return before, after
	}
	if readErr != nil {
		a.store.logger.Warn("skipping completion write after failed read",
			"key", a.key, "topic_id", topicID, "level_id", levelID)
		return before, after
	}

	data, err := json.Marshal(after)
	if err != nil {
		a.store.logger.Warn("encode completion record", "key", a.key, "error", err)
		return before, after
	}
	if err := a.store.kv.Set(ctx, a.key, string(data)); err != nil {
		a.store.logger.Warn("write completion record",
			"key", a.key, "topic_id", topicID, "level_id", levelID, "error", err)
	}
	return before, after
}

func decodeRecord(raw string) (Record, error) {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := compiledRecordSchema()
	if err != nil {
		return nil, fmt.Errorf("compile record schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return dedupe(rec), nil
}
