package workspace

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"fieldnotes/internal/model"
	"fieldnotes/internal/nav"
)

func TestCreateProject_DefaultsAndValidation(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})

	p, err := w.CreateProject(ctx, ProjectInput{Name: "  Thesis  ", Tags: []string{"phd", "phd"}})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if p.Name != "Thesis" || p.Stage != model.StageIdeation || p.Status != model.StatusInProgress || p.Template != model.TemplateGeneral {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	if len(p.Tags) != 1 || p.CustomFields == nil {
		t.Fatalf("unexpected collections: %+v", p)
	}

	var ve *ValidationError
	_, err = w.CreateProject(ctx, ProjectInput{Name: ""})
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var fields validation.Errors
	if !errors.As(err, &fields) || fields["name"] == nil {
		t.Fatalf("expected a name field error, got %v", err)
	}
	if _, err := w.CreateProject(ctx, ProjectInput{Name: "x", Stage: "brainstorm"}); !errors.As(err, &ve) {
		t.Fatalf("expected stage to be rejected, got %v", err)
	}
}

func TestUpdateProject(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})
	p, _ := w.CreateProject(ctx, ProjectInput{Name: "P"})

	deadline := time.Date(2025, 4, 1, 0, 0, 0, 0, time.FixedZone("CET", 3600))
	stage := model.StageWriting
	up, err := w.UpdateProject(ctx, p.ID, ProjectPatch{Stage: &stage, Deadline: &deadline})
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if up.Stage != model.StageWriting || up.Deadline == nil || !up.Deadline.Equal(deadline) || up.Deadline.Location() != time.UTC {
		t.Fatalf("unexpected project: %+v", up)
	}
	if !up.UpdatedAt.After(p.UpdatedAt) {
		t.Fatalf("updatedAt not refreshed")
	}

	up, _ = w.UpdateProject(ctx, p.ID, ProjectPatch{ClearDeadline: true})
	if up.Deadline != nil {
		t.Fatalf("expected deadline cleared")
	}

	empty := " "
	var ve *ValidationError
	if _, err := w.UpdateProject(ctx, p.ID, ProjectPatch{Name: &empty}); !errors.As(err, &ve) {
		t.Fatalf("expected blank name to be rejected, got %v", err)
	}
	if _, err := w.UpdateProject(ctx, "proj-missing", ProjectPatch{}); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdatePatches_RejectEmptyEnums(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})
	p, _ := w.CreateProject(ctx, ProjectInput{Name: "P"})
	d, _ := w.AddDocument(ctx, DocumentInput{Name: "notes.txt"})
	c, _ := w.CreateCitation(ctx, CitationInput{Type: model.CitationBook, Title: "T"})

	var ve *ValidationError
	stage, status, tmpl := model.ProjectStage(""), model.ProjectStatus(""), model.ProjectTemplate("")
	for name, patch := range map[string]ProjectPatch{
		"stage":    {Stage: &stage},
		"status":   {Status: &status},
		"template": {Template: &tmpl},
	} {
		if _, err := w.UpdateProject(ctx, p.ID, patch); !errors.As(err, &ve) {
			t.Fatalf("%s: expected empty value to be rejected, got %v", name, err)
		}
	}
	docType := model.DocumentType("")
	if _, err := w.UpdateDocument(ctx, d.ID, DocumentPatch{Type: &docType}); !errors.As(err, &ve) {
		t.Fatalf("expected empty document type to be rejected, got %v", err)
	}
	citeType := model.CitationType("")
	if _, err := w.UpdateCitation(ctx, c.ID, CitationPatch{Type: &citeType}); !errors.As(err, &ve) {
		t.Fatalf("expected empty citation type to be rejected, got %v", err)
	}

	got, _ := w.Snapshot().FindProject(p.ID)
	if got.Stage != model.StageIdeation || got.Status != model.StatusInProgress || got.Template != model.TemplateGeneral {
		t.Fatalf("project changed by rejected patches: %+v", got)
	}
}

func TestUpdatePatches_RejectBlankNames(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})
	d, _ := w.AddDocument(ctx, DocumentInput{Name: "notes.txt"})
	c, _ := w.CreateCitation(ctx, CitationInput{Type: model.CitationBook, Title: "T"})

	blank := "   "
	var ve *ValidationError
	if _, err := w.UpdateDocument(ctx, d.ID, DocumentPatch{Name: &blank}); !errors.As(err, &ve) {
		t.Fatalf("expected blank document name to be rejected, got %v", err)
	}
	if _, err := w.UpdateCitation(ctx, c.ID, CitationPatch{Title: &blank}); !errors.As(err, &ve) {
		t.Fatalf("expected blank citation title to be rejected, got %v", err)
	}
	db := w.Snapshot()
	if got, _ := db.FindDocument(d.ID); got.Name != "notes.txt" {
		t.Fatalf("document renamed by rejected patch: %q", got.Name)
	}
	if got, _ := db.FindCitation(c.ID); got.Title != "T" {
		t.Fatalf("citation retitled by rejected patch: %q", got.Title)
	}

	padded := "  Field notes  "
	up, err := w.UpdateDocument(ctx, d.ID, DocumentPatch{Name: &padded})
	if err != nil || up.Name != "Field notes" {
		t.Fatalf("expected trimmed name, got %q (%v)", up.Name, err)
	}
}

func TestDeleteProject_CascadesAndDetaches(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})
	p, _ := w.CreateProject(ctx, ProjectInput{Name: "Doomed"})
	keep, _ := w.CreateProject(ctx, ProjectInput{Name: "Kept"})
	f, _ := w.CreateFolder(ctx, FolderInput{Name: "F", ProjectID: p.ID})
	w.CreateFolder(ctx, FolderInput{Name: "K", ProjectID: keep.ID})
	page, _ := w.CreatePage(ctx, PageInput{Title: "pg", ProjectID: &p.ID, FolderID: &f.ID})
	doc, _ := w.AddDocument(ctx, DocumentInput{Name: "paper.pdf", ProjectID: &p.ID})
	cit, _ := w.CreateCitation(ctx, CitationInput{Type: model.CitationBook, Title: "B", ProjectID: &p.ID})
	w.Navigate(ctx, nav.ViewProject, p.ID)

	if err := w.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	db := w.Snapshot()
	if _, ok := db.FindProject(p.ID); ok {
		t.Fatalf("project still present")
	}
	if len(db.Folders) != 1 || db.Folders[0].ProjectID != keep.ID {
		t.Fatalf("expected only the other project's folder, got %+v", db.Folders)
	}
	pg, _ := db.FindPage(page.ID)
	if pg.ProjectID != nil || pg.FolderID != nil {
		t.Fatalf("page not detached: %+v", pg)
	}
	d, _ := db.FindDocument(doc.ID)
	c, _ := db.FindCitation(cit.ID)
	if d.ProjectID != nil || c.ProjectID != nil {
		t.Fatalf("document/citation not detached")
	}
	if db.Nav.ItemID != "" {
		t.Fatalf("selection should be cleared, got %q", db.Nav.ItemID)
	}
}

func TestFolders_TreeMoveAndDelete(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})
	proj := w.Snapshot().Projects[0]
	other, _ := w.CreateProject(ctx, ProjectInput{Name: "Other"})

	root, err := w.CreateFolder(ctx, FolderInput{Name: "Root", ProjectID: proj.ID})
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	child, err := w.CreateFolder(ctx, FolderInput{Name: "Child", ProjectID: proj.ID, ParentID: &root.ID})
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	grand, _ := w.CreateFolder(ctx, FolderInput{Name: "Grand", ProjectID: proj.ID, ParentID: &child.ID})
	side, _ := w.CreateFolder(ctx, FolderInput{Name: "Side", ProjectID: proj.ID})

	var ve *ValidationError
	if _, err := w.CreateFolder(ctx, FolderInput{Name: "x", ProjectID: other.ID, ParentID: &root.ID}); !errors.As(err, &ve) {
		t.Fatalf("expected cross-project parent to be rejected, got %v", err)
	}
	if _, err := w.CreateFolder(ctx, FolderInput{Name: "a/b", ProjectID: proj.ID}); !errors.As(err, &ve) {
		t.Fatalf("expected slash to be rejected, got %v", err)
	}

	if _, err := w.MoveFolder(ctx, root.ID, grand.ID); !errors.Is(err, ErrFolderCycle) {
		t.Fatalf("expected ErrFolderCycle, got %v", err)
	}
	if _, err := w.MoveFolder(ctx, root.ID, root.ID); !errors.Is(err, ErrFolderCycle) {
		t.Fatalf("expected ErrFolderCycle for self, got %v", err)
	}
	moved, err := w.MoveFolder(ctx, child.ID, side.ID)
	if err != nil {
		t.Fatalf("MoveFolder: %v", err)
	}
	if moved.ParentID == nil || *moved.ParentID != side.ID {
		t.Fatalf("unexpected parent: %+v", moved)
	}
	if m, _ := w.MoveFolder(ctx, child.ID, ""); m.ParentID != nil {
		t.Fatalf("expected move to root")
	}
	w.MoveFolder(ctx, child.ID, root.ID)

	renamed, err := w.RenameFolder(ctx, child.ID, "Renamed")
	if err != nil || renamed.Name != "Renamed" {
		t.Fatalf("RenameFolder: %+v %v", renamed, err)
	}

	page, _ := w.CreatePage(ctx, PageInput{Title: "in grand", FolderID: &grand.ID})
	if page.ProjectID == nil || *page.ProjectID != proj.ID {
		t.Fatalf("page should inherit the folder's project: %+v", page)
	}

	if err := w.DeleteFolder(ctx, root.ID); err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}
	db := w.Snapshot()
	for _, f := range db.Folders {
		if f.ID == root.ID || f.ID == child.ID || f.ID == grand.ID {
			t.Fatalf("subtree folder %s survived", f.ID)
		}
	}
	if _, ok := db.FindFolder(side.ID); !ok {
		t.Fatalf("unrelated folder removed")
	}
	pg, _ := db.FindPage(page.ID)
	if pg.FolderID != nil || pg.ProjectID == nil {
		t.Fatalf("page should stay in the project without a folder: %+v", pg)
	}
}

func TestCreateFolder_UsesCurrentProject(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})
	proj := w.Snapshot().Projects[0]

	var ve *ValidationError
	if _, err := w.CreateFolder(ctx, FolderInput{Name: "Loose"}); !errors.As(err, &ve) {
		t.Fatalf("expected project to be required, got %v", err)
	}
	w.Navigate(ctx, nav.ViewProject, proj.ID)
	f, err := w.CreateFolder(ctx, FolderInput{Name: "Notes"})
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	if f.ProjectID != proj.ID {
		t.Fatalf("expected current project, got %q", f.ProjectID)
	}
}

func TestDocuments_HighlightsAndAnnotations(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})

	d, err := w.AddDocument(ctx, DocumentInput{SourcePath: "/tmp/papers/field-study.PDF", Size: 2048})
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}
	if d.Name != "field-study.PDF" || d.Type != model.DocumentPDF || d.Highlights == nil || d.Annotations == nil {
		t.Fatalf("unexpected document: %+v", d)
	}

	var ve *ValidationError
	if _, err := w.AddDocument(ctx, DocumentInput{Name: "x", Size: -1}); !errors.As(err, &ve) {
		t.Fatalf("expected negative size to be rejected, got %v", err)
	}

	h, err := w.AddHighlight(ctx, d.ID, HighlightInput{Text: "key finding", Page: 3})
	if err != nil {
		t.Fatalf("AddHighlight: %v", err)
	}
	if h.Color != "yellow" {
		t.Fatalf("expected default color, got %q", h.Color)
	}
	a, err := w.AddAnnotation(ctx, d.ID, AnnotationInput{Body: "check this", HighlightID: &h.ID})
	if err != nil {
		t.Fatalf("AddAnnotation: %v", err)
	}
	if a.HighlightID == nil || *a.HighlightID != h.ID {
		t.Fatalf("unexpected annotation: %+v", a)
	}
	if _, err := w.AddAnnotation(ctx, d.ID, AnnotationInput{Body: "x", HighlightID: strPtr("hl-missing")}); !IsNotFound(err) {
		t.Fatalf("expected unknown highlight to be rejected, got %v", err)
	}
	if _, err := w.AddHighlight(ctx, "doc-missing", HighlightInput{Text: "x"}); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	name := "Field study"
	up, err := w.UpdateDocument(ctx, d.ID, DocumentPatch{Name: &name})
	if err != nil {
		t.Fatalf("UpdateDocument: %v", err)
	}
	if up.Name != name || !up.UpdatedAt.After(d.UpdatedAt) || len(up.Highlights) != 1 || len(up.Annotations) != 1 {
		t.Fatalf("unexpected update: %+v", up)
	}

	if err := w.DeleteDocument(ctx, d.ID); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if err := w.DeleteDocument(ctx, d.ID); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCitations_CRUDAndExport(t *testing.T) {
	ctx := context.Background()
	w, _ := newTestWorkspace(t, &memStorage{})

	a, err := w.CreateCitation(ctx, CitationInput{
		Type:      model.CitationBook,
		Title:     "The Structure of Scientific Revolutions",
		Authors:   []string{"Kuhn, Thomas S.", " "},
		Year:      1962,
		Publisher: "University of Chicago Press",
	})
	if err != nil {
		t.Fatalf("CreateCitation: %v", err)
	}
	if len(a.Authors) != 1 {
		t.Fatalf("blank authors should be dropped: %+v", a.Authors)
	}
	b, _ := w.CreateCitation(ctx, CitationInput{Type: model.CitationWebsite, Title: "Field guide", URL: "https://example.org/guide"})

	var ve *ValidationError
	if _, err := w.CreateCitation(ctx, CitationInput{Type: "zine", Title: "x"}); !errors.As(err, &ve) {
		t.Fatalf("expected type to be rejected, got %v", err)
	}

	year := 1970
	up, err := w.UpdateCitation(ctx, a.ID, CitationPatch{Year: &year})
	if err != nil {
		t.Fatalf("UpdateCitation: %v", err)
	}
	if up.Year != 1970 || !up.UpdatedAt.After(a.UpdatedAt) {
		t.Fatalf("unexpected update: %+v", up)
	}

	out, err := w.ExportBibliography([]string{b.ID, a.ID}, model.StyleIEEE)
	if err != nil {
		t.Fatalf("ExportBibliography: %v", err)
	}
	if !strings.HasPrefix(out, "[1] \"Field guide.\"") || !strings.Contains(out, "[2] T. S. Kuhn") {
		t.Fatalf("unexpected export:\n%s", out)
	}
	all, err := w.ExportBibliography(nil, model.StyleBibTeX)
	if err != nil || strings.Count(all, "@") != 2 {
		t.Fatalf("expected both entries, got %q %v", all, err)
	}
	if _, err := w.ExportBibliography([]string{"cit-missing"}, model.StyleAPA); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := w.DeleteCitation(ctx, a.ID); err != nil {
		t.Fatalf("DeleteCitation: %v", err)
	}
	if len(w.Snapshot().Citations) != 1 {
		t.Fatalf("expected one citation left")
	}
}
