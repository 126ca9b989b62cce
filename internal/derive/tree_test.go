package derive

import (
	"encoding/json"
	"testing"
	"time"

	"fieldnotes/internal/model"
	"fieldnotes/internal/store"
)

func sp(s string) *string { return &s }

func TestBuildProjectTree_NestsByParentID(t *testing.T) {
	folders := []model.Folder{
		{ID: "f-root", Name: "Sources", ProjectID: "p1"},
		{ID: "f-child", Name: "Papers", ProjectID: "p1", ParentID: sp("f-root")},
		{ID: "f-orphan", Name: "Orphan", ProjectID: "p1", ParentID: sp("f-gone")},
		{ID: "f-other", Name: "Elsewhere", ProjectID: "p2"},
	}
	pages := []model.Page{
		{ID: "pg-1", ProjectID: sp("p1"), FolderID: sp("f-child")},
		{ID: "pg-2", ProjectID: sp("p1")},
		{ID: "pg-3", ProjectID: sp("p1"), FolderID: sp("f-gone")},
		{ID: "pg-4", ProjectID: sp("p2"), FolderID: sp("f-other")},
		{ID: "pg-5"},
	}

	tree := BuildProjectTree(folders, pages, "p1")
	if len(tree.Folders) != 2 || tree.Folders[0].ID != "f-root" || tree.Folders[1].ID != "f-orphan" {
		t.Fatalf("unexpected roots: %+v", tree.Folders)
	}
	root := tree.Folders[0]
	if len(root.Children) != 1 || root.Children[0].ID != "f-child" {
		t.Fatalf("unexpected children: %+v", root.Children)
	}
	if got := root.Children[0].PageIDs; len(got) != 1 || got[0] != "pg-1" {
		t.Fatalf("unexpected child pages: %v", got)
	}
	if got := tree.RootPageIDs; len(got) != 2 || got[0] != "pg-2" || got[1] != "pg-3" {
		t.Fatalf("unexpected root pages: %v", got)
	}
}

func TestBuildProjectTree_CyclicParentsStayAtRoot(t *testing.T) {
	folders := []model.Folder{
		{ID: "a", Name: "A", ProjectID: "p1", ParentID: sp("b")},
		{ID: "b", Name: "B", ProjectID: "p1", ParentID: sp("a")},
		{ID: "c", Name: "C", ProjectID: "p1", ParentID: sp("a")},
		{ID: "self", Name: "Self", ProjectID: "p1", ParentID: sp("self")},
	}
	tree := BuildProjectTree(folders, nil, "p1")
	if len(tree.Folders) != 3 || tree.Folders[0].ID != "a" || tree.Folders[1].ID != "b" || tree.Folders[2].ID != "self" {
		t.Fatalf("unexpected roots: %+v", tree.Folders)
	}
	if got := tree.Folders[0].Children; len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("unexpected children of a: %+v", got)
	}
	if len(tree.Folders[1].Children) != 0 {
		t.Fatalf("b should have no children: %+v", tree.Folders[1].Children)
	}
	if _, err := json.Marshal(tree); err != nil {
		t.Fatalf("marshal tree: %v", err)
	}
}

func TestFolderPathAndDescendants(t *testing.T) {
	folders := []model.Folder{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B", ParentID: sp("a")},
		{ID: "c", Name: "C", ParentID: sp("b")},
		{ID: "d", Name: "D"},
	}
	if got := FolderPath(folders, "c"); len(got) != 3 || got[0] != "A" || got[2] != "C" {
		t.Fatalf("unexpected path: %v", got)
	}
	desc := Descendants(folders, "a")
	if !desc["a"] || !desc["b"] || !desc["c"] || desc["d"] {
		t.Fatalf("unexpected descendants: %v", desc)
	}
}

func TestFilterPages(t *testing.T) {
	pages := []model.Page{
		{ID: "1", Title: "Reading list", Tags: []string{"web-clip"}, IsStarred: true},
		{ID: "2", Title: "Notes", Content: "about Reading groups", ProjectID: sp("p1")},
		{ID: "3", Title: "Other", ProjectID: sp("p1"), FolderID: sp("f1")},
	}
	if got := FilterPages(pages, PageQuery{Query: "reading"}); len(got) != 2 {
		t.Fatalf("query: %+v", got)
	}
	if got := FilterPages(pages, PageQuery{Tag: "WEB-CLIP"}); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("tag: %+v", got)
	}
	if got := FilterPages(pages, PageQuery{Starred: true}); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("starred: %+v", got)
	}
	if got := FilterPages(pages, PageQuery{ProjectID: "p1", FolderID: "f1"}); len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("project+folder: %+v", got)
	}
}

func TestDashboard(t *testing.T) {
	soon := testNow.Add(5 * 24 * time.Hour)
	past := testNow.Add(-time.Hour)
	db := &store.DB{
		Pages: []model.Page{
			{ID: "pg-old", Title: "old", UpdatedAt: testNow.Add(-time.Hour), IsStarred: true},
			{ID: "pg-new", Title: "new", UpdatedAt: testNow, ProjectID: sp("p-active")},
		},
		Projects: []model.Project{
			{ID: "p-active", Name: "A", Stage: model.StageResearch, Status: model.StatusInProgress, Deadline: &soon},
			{ID: "p-done", Name: "D", Stage: model.StagePublished, Status: model.StatusCompleted, Deadline: &past},
			{ID: "p-hold", Name: "H", Stage: model.StageIdeation, Status: model.StatusOnHold},
		},
	}
	v := Dashboard(db, testNow)
	if v.Counts.Pages != 2 || v.Counts.Projects != 3 {
		t.Fatalf("unexpected counts: %+v", v.Counts)
	}
	if len(v.ActiveProjects) != 1 || v.ActiveProjects[0].ID != "p-active" || v.ActiveProjects[0].PageCount != 1 {
		t.Fatalf("unexpected active projects: %+v", v.ActiveProjects)
	}
	if len(v.UpcomingDeadlines) != 1 || v.UpcomingDeadlines[0].Urgency != UrgencySoon {
		t.Fatalf("unexpected deadlines: %+v", v.UpcomingDeadlines)
	}
	if *v.UpcomingDeadlines[0].DaysLeft != 5 {
		t.Fatalf("unexpected days left: %d", *v.UpcomingDeadlines[0].DaysLeft)
	}
	if len(v.StarredPages) != 1 || v.StarredPages[0].ID != "pg-old" {
		t.Fatalf("unexpected starred: %+v", v.StarredPages)
	}
	if len(v.RecentPages) != 2 || v.RecentPages[0].ID != "pg-new" {
		t.Fatalf("unexpected recent: %+v", v.RecentPages)
	}
}
