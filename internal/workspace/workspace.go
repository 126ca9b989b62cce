package workspace

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"fieldnotes/internal/logger"
	"fieldnotes/internal/nav"
	"fieldnotes/internal/store"
)

// Storage persists the full workspace state. store.Store is the production implementation.
type Storage interface {
	Load(ctx context.Context) (*store.DB, error)
	Save(ctx context.Context, db *store.DB) error
}

// ActivityLog receives one entry per successful mutation.
type ActivityLog interface {
	AppendActivity(ctx context.Context, kind, entityID, summary string) error
}

// Workspace is the single write surface over the workspace state. Every mutation is
// applied to a copy, saved, and only then becomes the current state.
type Workspace struct {
	mu       sync.Mutex
	db       *store.DB
	storage  Storage
	activity ActivityLog
	now      func() time.Time
	newID    store.IDGenerator
	log      *zap.Logger
}

type Option func(*Workspace)

func WithClock(now func() time.Time) Option {
	return func(w *Workspace) {
		if now != nil {
			w.now = now
		}
	}
}

func WithIDGenerator(gen store.IDGenerator) Option {
	return func(w *Workspace) {
		if gen != nil {
			w.newID = gen
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.log = l
		}
	}
}

// WithActivityLog overrides the activity sink. By default a Storage that also implements
// ActivityLog is used; pass nil to disable.
func WithActivityLog(a ActivityLog) Option {
	return func(w *Workspace) {
		w.activity = a
	}
}

// Open loads the persisted state. An empty workspace is seeded with a welcome page and a
// sample project, and the seed is saved before Open returns.
func Open(ctx context.Context, storage Storage, opts ...Option) (*Workspace, error) {
	w := &Workspace{
		storage: storage,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   store.NewID,
		log:     logger.Get(),
	}
	if a, ok := storage.(ActivityLog); ok {
		w.activity = a
	}
	for _, opt := range opts {
		opt(w)
	}

	db, err := storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	if db == nil {
		db = &store.DB{}
	}
	db.Normalize()

	if len(db.Pages) == 0 {
		seeded := db.Clone()
		w.seed(seeded)
		if err := storage.Save(ctx, seeded); err != nil {
			return nil, &PersistError{Op: "seed", Err: err}
		}
		w.log.Info("seeded empty workspace", zap.Int("pages", len(seeded.Pages)), zap.Int("projects", len(seeded.Projects)))
		db = seeded
	}
	if _, ok := db.CurrentPage(); !ok {
		db.Nav.PageID = db.Pages[0].ID
	}
	w.db = db
	return w, nil
}

// Snapshot returns a deep copy of the current state. Callers may read and modify it
// freely; changes never reach the workspace.
func (w *Workspace) Snapshot() *store.DB {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.db.Clone()
}

func (w *Workspace) Nav() nav.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.db.Nav
}

// Navigate applies the navigation transition and persists the new selection.
func (w *Workspace) Navigate(ctx context.Context, view nav.View, id string) (nav.State, error) {
	var out nav.State
	err := w.apply(ctx, "navigate", func(db *store.DB) (change, error) {
		db.Nav = db.Nav.Navigate(view, id)
		out = db.Nav
		return change{}, nil
	})
	return out, err
}

// change describes a successful mutation for the activity log. An empty Kind skips logging.
type change struct {
	Kind     string
	EntityID string
	Summary  string
}

// apply runs fn against a copy of the state, saves the copy and swaps it in. When fn or
// the save fails, the current state is untouched.
func (w *Workspace) apply(ctx context.Context, op string, fn func(db *store.DB) (change, error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.db.Clone()
	ch, err := fn(next)
	if err != nil {
		w.log.Debug("mutation rejected", zap.String("op", op), zap.Error(err))
		return err
	}
	if err := w.storage.Save(ctx, next); err != nil {
		w.log.Error("save failed", zap.String("op", op), zap.Error(err))
		return &PersistError{Op: op, Err: err}
	}
	w.db = next
	w.log.Debug("mutation applied", zap.String("op", op), zap.String("entity", ch.EntityID))
	w.record(ctx, ch)
	return nil
}

func (w *Workspace) record(ctx context.Context, ch change) {
	if w.activity == nil || strings.TrimSpace(ch.Kind) == "" {
		return
	}
	if err := w.activity.AppendActivity(ctx, ch.Kind, ch.EntityID, ch.Summary); err != nil {
		w.log.Warn("activity log append failed", zap.String("kind", ch.Kind), zap.Error(err))
	}
}

func (w *Workspace) stamp() time.Time {
	return w.now().UTC()
}
