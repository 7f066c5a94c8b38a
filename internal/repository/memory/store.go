// Package memory provides in-process implementations of the repository
// interfaces. They back the service tests and STORAGE_DRIVER=memory runs.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"codegen/internal/domain/models"
	"codegen/internal/domain/repositories"
)

type record[T any] struct {
	seq    uint64
	entity T
}

// Store holds every table. Repositories and the transaction manager built
// from the same Store share its data.
type Store struct {
	mu        sync.RWMutex
	txMu      sync.Mutex
	seq       uint64
	templates map[string]record[models.Template]
	projects  map[string]record[models.Project]
	now       func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		templates: make(map[string]record[models.Template]),
		projects:  make(map[string]record[models.Project]),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type txKey struct{}

func inTx(ctx context.Context, s *Store) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// write runs fn under the write lock. Outside a unit of work it also waits
// for any running unit so a rollback cannot discard the write.
func (s *Store) write(ctx context.Context, fn func()) {
	if !inTx(ctx, s) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// read runs fn under the read lock. Outside a unit of work it waits for any
// running unit to commit or roll back, so uncommitted writes are never seen.
func (s *Store) read(ctx context.Context, fn func()) {
	if !inTx(ctx, s) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *Store) nextSeq() uint64 {
	s.seq++
	return s.seq
}

type snapshot struct {
	seq       uint64
	templates map[string]record[models.Template]
	projects  map[string]record[models.Project]
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{seq: s.seq, templates: maps.Clone(s.templates), projects: maps.Clone(s.projects)}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = snap.seq
	s.templates = snap.templates
	s.projects = snap.projects
}

// TransactionManager runs units of work against a Store one at a time and
// restores the pre-unit snapshot when the unit fails.
type TransactionManager struct {
	store *Store
}

// NewTransactionManager creates a transaction manager for store
func NewTransactionManager(store *Store) repositories.TransactionManager {
	return &TransactionManager{store: store}
}

// ExecTx executes fn as a single unit of work
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) (err error) {
	if inTx(ctx, tm.store) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tm.store.txMu.Lock()
	defer tm.store.txMu.Unlock()

	snap := tm.store.snapshot()
	committed := false
	defer func() {
		if !committed {
			tm.store.restore(snap)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tm.store)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	committed = true
	return nil
}

// sortNewest orders records by creation, newest first
func sortNewest[T any](recs []record[T], created func(T) time.Time) {
	sort.SliceStable(recs, func(i, j int) bool {
		ci, cj := created(recs[i].entity), created(recs[j].entity)
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return recs[i].seq > recs[j].seq
	})
}

// window applies page to an ordered result set
func window[T any](recs []record[T], page models.Page) []T {
	page.ApplyDefaults()
	start, end := page.Window(len(recs))
	out := make([]T, 0, end-start)
	for _, r := range recs[start:end] {
		out = append(out, r.entity)
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
