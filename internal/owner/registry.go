package owner

import (
	"context"
	"sync"
	"time"

	"github.com/mvickery/hearth-core/internal/infrastructure/logging"
)

// Registry fronts the Store with an in-memory cache and serialises all
// mutation per owner.
//
// Every mutation runs as read, mutate, persist under that owner's lock,
// so a user command and a scheduler tick can never interleave inside one
// record. Different owners proceed concurrently.
//
// When a save fails the in-memory record keeps the mutation and the
// failure is logged; the drift heals at the next successful save.
type Registry struct {
	store  Store
	logger *logging.Logger

	mu      sync.RWMutex
	entries map[string]*entry

	// now is the clock used to stamp UpdatedAt, swapped in tests.
	now func() time.Time
}

// entry pairs one cached record with its mutation lock.
type entry struct {
	mu  sync.Mutex
	rec *Record
}

// NewRegistry creates a registry over the given store.
func NewRegistry(store Store, logger *logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Default()
	}
	return &Registry{
		store:   store,
		logger:  logger,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Create makes a new owner record and persists it.
func (r *Registry) Create(ctx context.Context, name string, now time.Time) (*Record, error) {
	rec, err := NewRecord(name, now)
	if err != nil {
		return nil, err
	}
	if err := r.store.Save(ctx, rec); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.entries[rec.ID] = &entry{rec: rec}
	r.mu.Unlock()

	return rec.DeepCopy(), nil
}

// Get returns an isolated copy of the owner's record.
func (r *Registry) Get(ctx context.Context, id string) (*Record, error) {
	e, err := r.entry(ctx, id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec.DeepCopy(), nil
}

// IDs returns the ids of all known owners, cached or not.
func (r *Registry) IDs(ctx context.Context) ([]string, error) {
	records, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	return ids, nil
}

// List returns isolated copies of all owner records.
func (r *Registry) List(ctx context.Context) ([]*Record, error) {
	ids, err := r.IDs(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(ids))
	for _, id := range ids {
		rec, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Delete removes the owner from the store and drops the cached entry.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
	return nil
}

// Update runs fn on the owner's live record under its mutation lock.
//
// fn reports whether it changed the record; a change stamps UpdatedAt
// and triggers one Save. The in-memory mutation is kept even when the
// save fails; the error is logged and returned so user-facing callers
// can surface it, while the scheduler deliberately ignores it.
func (r *Registry) Update(ctx context.Context, id string, fn func(rec *Record) (changed bool, err error)) error {
	e, err := r.entry(ctx, id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	changed, err := fn(e.rec)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	e.rec.UpdatedAt = r.now().UTC()
	if saveErr := r.store.Save(ctx, e.rec); saveErr != nil {
		r.logger.Warn("owner save failed, in-memory state kept",
			"owner_id", id,
			"error", saveErr)
		return saveErr
	}
	return nil
}

// entry returns the cached entry for the owner, loading it from the
// store on first touch.
func (r *Registry) entry(ctx context.Context, id string) (*entry, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if ok {
		return e, nil
	}

	rec, err := r.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another goroutine may have loaded it while we were reading.
	if existing, ok := r.entries[id]; ok {
		return existing, nil
	}
	e = &entry{rec: rec}
	r.entries[id] = e
	return e, nil
}
