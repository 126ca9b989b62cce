package workspace

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"fieldnotes/internal/model"
	"fieldnotes/internal/nav"
	"fieldnotes/internal/store"
)

// memStorage keeps the saved state in memory and can be told to fail saves.
type memStorage struct {
	db      *store.DB
	saves   int
	failErr error
}

func (m *memStorage) Load(context.Context) (*store.DB, error) {
	if m.db == nil {
		return &store.DB{}, nil
	}
	return m.db.Clone(), nil
}

func (m *memStorage) Save(_ context.Context, db *store.DB) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.saves++
	m.db = db.Clone()
	return nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func seqIDs() store.IDGenerator {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newTestWorkspace(t *testing.T, st Storage) (*Workspace, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	w, err := Open(context.Background(), st, WithClock(clock.Now), WithIDGenerator(seqIDs()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return w, clock
}

func strPtr(s string) *string { return &s }

func TestOpen_SeedsEmptyWorkspace(t *testing.T) {
	st := &memStorage{}
	w, _ := newTestWorkspace(t, st)

	db := w.Snapshot()
	if len(db.Pages) != 1 || db.Pages[0].Title != welcomeTitle {
		t.Fatalf("expected welcome page, got %+v", db.Pages)
	}
	p := db.Pages[0]
	if p.Version != 1 || len(p.Versions) != 0 || p.IsStarred || len(p.Tags) != 0 || p.CustomFields == nil {
		t.Fatalf("unexpected page defaults: %+v", p)
	}
	if len(db.Projects) != 1 || !reflect.DeepEqual(db.Projects[0].Tags, []string{"sample", "demo"}) {
		t.Fatalf("expected sample project, got %+v", db.Projects)
	}
	if db.Nav.View != nav.ViewDashboard || db.Nav.PageID != p.ID {
		t.Fatalf("unexpected nav: %+v", db.Nav)
	}
	if st.saves != 1 {
		t.Fatalf("expected seed to be saved once, got %d", st.saves)
	}
}

func TestOpen_KeepsExistingPages(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	st := &memStorage{db: &store.DB{
		Pages: []model.Page{{ID: "page-a", Title: "A", CreatedAt: now, UpdatedAt: now, Version: 1}},
	}}
	w, _ := newTestWorkspace(t, st)

	db := w.Snapshot()
	if len(db.Pages) != 1 || db.Pages[0].ID != "page-a" || len(db.Projects) != 0 {
		t.Fatalf("unexpected state: %+v", db)
	}
	if db.Nav.PageID != "page-a" {
		t.Fatalf("expected current page to default to the first page, got %q", db.Nav.PageID)
	}
	if st.saves != 0 {
		t.Fatalf("expected no save, got %d", st.saves)
	}
}

func TestOpen_LoadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Open(context.Background(), failingLoad{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
}

type failingLoad struct{ err error }

func (f failingLoad) Load(context.Context) (*store.DB, error) { return nil, f.err }
func (f failingLoad) Save(context.Context, *store.DB) error   { return nil }

func TestPersistFailure_LeavesStateUnchanged(t *testing.T) {
	st := &memStorage{}
	w, _ := newTestWorkspace(t, st)
	before := w.Snapshot()

	st.failErr = errors.New("disk full")
	_, err := w.CreatePage(context.Background(), PageInput{Title: "lost"})
	var pe *PersistError
	if !errors.As(err, &pe) || !errors.Is(err, st.failErr) {
		t.Fatalf("expected PersistError wrapping the cause, got %v", err)
	}
	if !reflect.DeepEqual(w.Snapshot(), before) {
		t.Fatalf("state changed after failed save")
	}

	st.failErr = nil
	if _, err := w.CreatePage(context.Background(), PageInput{Title: "kept"}); err != nil {
		t.Fatalf("CreatePage after recovery: %v", err)
	}
	if got := len(w.Snapshot().Pages); got != 2 {
		t.Fatalf("expected 2 pages, got %d", got)
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	w, _ := newTestWorkspace(t, &memStorage{})
	snap := w.Snapshot()
	snap.Pages[0].Title = "mutated"
	snap.Pages[0].Tags = append(snap.Pages[0].Tags, "x")
	if got := w.Snapshot().Pages[0]; got.Title != welcomeTitle || len(got.Tags) != 0 {
		t.Fatalf("snapshot mutation leaked: %+v", got)
	}
}

func TestSnapshot_CustomFieldsAreDeepCopies(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})

	input := map[string]any{"refs": map[string]any{"a": "1"}, "ids": []any{"x"}}
	p, err := w.CreatePage(ctx, PageInput{Title: "Refs", CustomFields: input})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	input["refs"].(map[string]any)["a"] = "from input"
	p.CustomFields["refs"].(map[string]any)["a"] = "from result"

	snap := w.Snapshot()
	got, _ := snap.FindPage(p.ID)
	got.CustomFields["refs"].(map[string]any)["a"] = "from snapshot"
	got.CustomFields["ids"].([]any)[0] = "y"

	fresh, _ := w.Snapshot().FindPage(p.ID)
	if v := fresh.CustomFields["refs"].(map[string]any)["a"]; v != "1" {
		t.Fatalf("nested custom field leaked: %v", v)
	}
	if v := fresh.CustomFields["ids"].([]any)[0]; v != "x" {
		t.Fatalf("nested custom field slice leaked: %v", v)
	}
}

func TestCustomFields_Canonicalized(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})

	p, err := w.CreatePage(ctx, PageInput{CustomFields: map[string]any{"wordCount": 3, "tags": []string{"a"}}})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if v, ok := p.CustomFields["wordCount"].(float64); !ok || v != 3 {
		t.Fatalf("expected float64 3, got %T %v", p.CustomFields["wordCount"], p.CustomFields["wordCount"])
	}
	if _, ok := p.CustomFields["tags"].([]any); !ok {
		t.Fatalf("expected []any, got %T", p.CustomFields["tags"])
	}

	pr, err := w.CreateProject(ctx, ProjectInput{Name: "P"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	pr, err = w.UpdateProject(ctx, pr.ID, ProjectPatch{CustomFields: map[string]any{"budget": int64(1200)}})
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if v, ok := pr.CustomFields["budget"].(float64); !ok || v != 1200 {
		t.Fatalf("expected float64 1200, got %T %v", pr.CustomFields["budget"], pr.CustomFields["budget"])
	}

	var ve *ValidationError
	if _, err := w.CreatePage(ctx, PageInput{CustomFields: map[string]any{"bad": make(chan int)}}); !errors.As(err, &ve) {
		t.Fatalf("expected unencodable field to be rejected, got %v", err)
	}
}

func TestNavigate(t *testing.T) {
	st := &memStorage{}
	w, _ := newTestWorkspace(t, st)
	ctx := context.Background()

	pageID := w.Snapshot().Pages[0].ID
	s, err := w.Navigate(ctx, nav.ViewProject, "proj-missing")
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if s.View != nav.ViewProject || s.ItemID != "proj-missing" || s.PageID != pageID {
		t.Fatalf("unexpected state: %+v", s)
	}
	if st.db.Nav != s {
		t.Fatalf("navigation not persisted: %+v", st.db.Nav)
	}

	s, err = w.Navigate(ctx, nav.ViewNote, "page-x")
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if s.PageID != "page-x" || s.ItemID != "page-x" {
		t.Fatalf("note view should set page slot: %+v", s)
	}
	if w.Nav() != s {
		t.Fatalf("Nav() out of sync: %+v", w.Nav())
	}
}

func TestRoundTripThroughSQLiteStore(t *testing.T) {
	ctx := context.Background()
	st := store.Store{Dir: t.TempDir()}
	w, _ := newTestWorkspace(t, st)

	a, err := w.CreatePage(ctx, PageInput{
		Title:        "Alpha",
		Tags:         []string{"x", " x ", ""},
		CustomFields: map[string]any{"wordCount": 3, "refs": map[string]string{"doi": "10.1/x"}},
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	b, err := w.CreatePage(ctx, PageInput{Title: "Beta", CustomFields: map[string]any{"mood": "curious"}})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if _, err := w.CreateProject(ctx, ProjectInput{Name: "Budgeted", CustomFields: map[string]any{"budget": 1200, "sites": []int{1, 2}}}); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	content := "revised"
	if _, err := w.UpdatePage(ctx, a.ID, PagePatch{Content: &content}); err != nil {
		t.Fatalf("UpdatePage: %v", err)
	}
	if err := w.DeletePage(ctx, b.ID); err != nil {
		t.Fatalf("DeletePage: %v", err)
	}

	loaded, err := st.LoadPages(ctx)
	if err != nil {
		t.Fatalf("LoadPages: %v", err)
	}
	if !reflect.DeepEqual(loaded, w.Snapshot().Pages) {
		t.Fatalf("round trip mismatch:\n got: %+v\nwant: %+v", loaded, w.Snapshot().Pages)
	}

	reopened, err := Open(ctx, st)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !reflect.DeepEqual(reopened.Snapshot(), w.Snapshot()) {
		t.Fatalf("reopened workspace differs")
	}

	acts, err := st.ReadActivity(ctx, 0)
	if err != nil {
		t.Fatalf("ReadActivity: %v", err)
	}
	kinds := map[string]bool{}
	for _, a := range acts {
		kinds[a.Kind] = true
	}
	for _, k := range []string{"page.create", "page.update", "page.delete"} {
		if !kinds[k] {
			t.Fatalf("missing activity %q in %+v", k, acts)
		}
	}
}
