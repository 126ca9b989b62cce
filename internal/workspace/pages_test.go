package workspace

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"fieldnotes/internal/nav"
)

func TestDeletePage_LastPageIsRejected(t *testing.T) {
	st := &memStorage{}
	w, _ := newTestWorkspace(t, st)
	before := w.Snapshot()
	saves := st.saves

	err := w.DeletePage(context.Background(), before.Pages[0].ID)
	if !errors.Is(err, ErrLastPage) {
		t.Fatalf("expected ErrLastPage, got %v", err)
	}
	if err.Error() != "cannot delete: at least one page required" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !reflect.DeepEqual(w.Snapshot().Pages, before.Pages) {
		t.Fatalf("pages changed")
	}
	if st.saves != saves {
		t.Fatalf("rejected delete should not save")
	}
}

func TestDeletePage_CurrentRedirectsToFirstRemaining(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})
	welcome := w.Snapshot().Pages[0].ID

	a, _ := w.CreatePage(ctx, PageInput{Title: "a"})
	b, _ := w.CreatePage(ctx, PageInput{Title: "b"})
	if w.Nav().PageID != b.ID {
		t.Fatalf("expected new page selected")
	}

	if err := w.DeletePage(ctx, b.ID); err != nil {
		t.Fatalf("DeletePage: %v", err)
	}
	if got := w.Nav().PageID; got != welcome {
		t.Fatalf("expected selection at first page %q, got %q", welcome, got)
	}

	// Deleting the first page while it is current moves to the new first page.
	if err := w.DeletePage(ctx, welcome); err != nil {
		t.Fatalf("DeletePage: %v", err)
	}
	if got := w.Nav().PageID; got != a.ID {
		t.Fatalf("expected selection at %q, got %q", a.ID, got)
	}
}

func TestDeletePage_OtherPageKeepsSelection(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})
	welcome := w.Snapshot().Pages[0].ID
	b, _ := w.CreatePage(ctx, PageInput{Title: "b"})

	if err := w.DeletePage(ctx, welcome); err != nil {
		t.Fatalf("DeletePage: %v", err)
	}
	if got := w.Nav().PageID; got != b.ID {
		t.Fatalf("selection moved unexpectedly: %q", got)
	}
}

func TestDeletePage_NotFound(t *testing.T) {
	w, _ := newTestWorkspace(t, &memStorage{})
	w.CreatePage(context.Background(), PageInput{})
	err := w.DeletePage(context.Background(), "page-nope")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreatePage_Defaults(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})

	p, err := w.CreatePage(ctx, PageInput{Title: "   "})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if p.Title != defaultPageTitle || p.Version != 1 || p.IsStarred || p.ProjectID != nil {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	if p.Tags == nil || p.CustomFields == nil || p.Versions == nil {
		t.Fatalf("collections should be empty, not nil: %+v", p)
	}
	if !p.UpdatedAt.Equal(p.CreatedAt) {
		t.Fatalf("expected updatedAt == createdAt")
	}
	s := w.Nav()
	if s.View != nav.ViewNote || s.PageID != p.ID {
		t.Fatalf("expected note view on new page, got %+v", s)
	}
}

func TestCreatePage_FiledUnderCurrentProject(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})
	proj := w.Snapshot().Projects[0]

	if _, err := w.Navigate(ctx, nav.ViewProject, proj.ID); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	p, err := w.CreatePage(ctx, PageInput{Title: "in project"})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if p.ProjectID == nil || *p.ProjectID != proj.ID {
		t.Fatalf("expected project %q, got %v", proj.ID, p.ProjectID)
	}

	// An explicit empty project keeps the page unfiled.
	p, err = w.CreatePage(ctx, PageInput{Title: "loose", ProjectID: strPtr("")})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if p.ProjectID != nil {
		t.Fatalf("expected no project, got %q", *p.ProjectID)
	}

	if _, err := w.CreatePage(ctx, PageInput{ProjectID: strPtr("proj-missing")}); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClipPage(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})
	viewBefore := w.Nav().View

	p, err := w.ClipPage(ctx, "Article", "body", "https://example.com/a")
	if err != nil {
		t.Fatalf("ClipPage: %v", err)
	}
	if !reflect.DeepEqual(p.Tags, []string{webClipTag}) || p.CustomFields[sourceURLField] != "https://example.com/a" {
		t.Fatalf("unexpected clip: %+v", p)
	}
	s := w.Nav()
	if s.PageID != p.ID || s.View != viewBefore {
		t.Fatalf("clip should select without changing view: %+v", s)
	}

	var ve *ValidationError
	if _, err := w.ClipPage(ctx, "x", "y", "not a url"); !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdatePage_SnapshotsTitleAndContentEdits(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})
	p, _ := w.CreatePage(ctx, PageInput{Title: "draft", Content: "v1"})

	content := "v2"
	up, err := w.UpdatePage(ctx, p.ID, PagePatch{Content: &content})
	if err != nil {
		t.Fatalf("UpdatePage: %v", err)
	}
	if up.Version != 2 || len(up.Versions) != 1 {
		t.Fatalf("expected one snapshot, got %+v", up)
	}
	if v := up.Versions[0]; v.Version != 1 || v.Title != "draft" || v.Content != "v1" {
		t.Fatalf("unexpected snapshot: %+v", v)
	}
	if !up.UpdatedAt.After(p.UpdatedAt) {
		t.Fatalf("updatedAt not refreshed")
	}

	// Same content again: no new snapshot.
	up, _ = w.UpdatePage(ctx, p.ID, PagePatch{Content: &content})
	if up.Version != 2 {
		t.Fatalf("no-op content edit bumped the version")
	}

	tags := []string{"b", "a", "b"}
	up, err = w.UpdatePage(ctx, p.ID, PagePatch{Tags: &tags, CustomFields: map[string]any{"k": "v"}})
	if err != nil {
		t.Fatalf("UpdatePage: %v", err)
	}
	if up.Version != 2 || !reflect.DeepEqual(up.Tags, []string{"b", "a"}) || up.CustomFields["k"] != "v" {
		t.Fatalf("unexpected page: %+v", up)
	}
	up, _ = w.UpdatePage(ctx, p.ID, PagePatch{CustomFields: map[string]any{"k": nil}})
	if _, ok := up.CustomFields["k"]; ok {
		t.Fatalf("nil custom field should be removed")
	}

	if _, err := w.UpdatePage(ctx, "page-missing", PagePatch{Content: &content}); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRestorePageVersion(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})
	p, _ := w.CreatePage(ctx, PageInput{Title: "t1", Content: "c1"})
	title := "t2"
	w.UpdatePage(ctx, p.ID, PagePatch{Title: &title})

	got, err := w.RestorePageVersion(ctx, p.ID, 1)
	if err != nil {
		t.Fatalf("RestorePageVersion: %v", err)
	}
	if got.Title != "t1" || got.Content != "c1" || got.Version != 3 || len(got.Versions) != 2 {
		t.Fatalf("unexpected restore result: %+v", got)
	}
	if got.Versions[1].Title != "t2" {
		t.Fatalf("restore should snapshot the replaced state: %+v", got.Versions)
	}
	if _, err := w.RestorePageVersion(ctx, p.ID, 42); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestToggleStar_DoesNotVersion(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})
	id := w.Snapshot().Pages[0].ID

	p, err := w.ToggleStar(ctx, id)
	if err != nil {
		t.Fatalf("ToggleStar: %v", err)
	}
	if !p.IsStarred || p.Version != 1 {
		t.Fatalf("unexpected: %+v", p)
	}
	p, _ = w.ToggleStar(ctx, id)
	if p.IsStarred {
		t.Fatalf("expected unstarred")
	}
}

func TestFilePage(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})
	proj := w.Snapshot().Projects[0]
	other, _ := w.CreateProject(ctx, ProjectInput{Name: "Other"})
	f, err := w.CreateFolder(ctx, FolderInput{Name: "Sources", ProjectID: proj.ID})
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	page, _ := w.CreatePage(ctx, PageInput{Title: "p", ProjectID: strPtr("")})

	// Folder alone files the page under the folder's project.
	got, err := w.FilePage(ctx, page.ID, "", f.ID)
	if err != nil {
		t.Fatalf("FilePage: %v", err)
	}
	if got.ProjectID == nil || *got.ProjectID != proj.ID || got.FolderID == nil || *got.FolderID != f.ID {
		t.Fatalf("unexpected filing: %+v", got)
	}

	var ve *ValidationError
	if _, err := w.FilePage(ctx, page.ID, other.ID, f.ID); !errors.As(err, &ve) {
		t.Fatalf("expected mismatch to be rejected, got %v", err)
	}

	// Moving to another project drops the folder.
	got, err = w.UpdatePage(ctx, page.ID, PagePatch{ProjectID: &other.ID})
	if err != nil {
		t.Fatalf("UpdatePage: %v", err)
	}
	if *got.ProjectID != other.ID || got.FolderID != nil {
		t.Fatalf("unexpected filing: %+v", got)
	}

	got, _ = w.FilePage(ctx, page.ID, "", "")
	if got.ProjectID != nil || got.FolderID != nil {
		t.Fatalf("expected unfiled page: %+v", got)
	}
}

func TestPageVersionsSurviveCloneIsolation(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})
	p, _ := w.CreatePage(ctx, PageInput{Title: "a"})
	title := "b"
	up, _ := w.UpdatePage(ctx, p.ID, PagePatch{Title: &title})
	up.Versions[0].Title = "tampered"
	if got, _ := w.Snapshot().FindPage(p.ID); got.Versions[0].Title != "a" {
		t.Fatalf("returned page aliases workspace state")
	}
}
