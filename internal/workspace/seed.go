package workspace

import (
	"fieldnotes/internal/model"
	"fieldnotes/internal/nav"
	"fieldnotes/internal/store"
)

const (
	welcomeTitle   = "Welcome to fieldnotes"
	welcomeContent = "Start writing your thoughts here..."

	sampleProjectName        = "Sample Research Project"
	sampleProjectDescription = "A sample project to demonstrate the research workspace"
)

// seed gives a workspace with no pages its welcome page. A workspace with nothing at all
// also gets the sample project.
func (w *Workspace) seed(db *store.DB) {
	now := w.stamp()
	if db.Empty() {
		db.Projects = append(db.Projects, model.Project{
			ID:           w.newID("proj"),
			Name:         sampleProjectName,
			Description:  sampleProjectDescription,
			Stage:        model.StageResearch,
			Status:       model.StatusInProgress,
			Template:     model.TemplateGeneral,
			CreatedAt:    now,
			UpdatedAt:    now,
			CustomFields: map[string]any{},
			Tags:         []string{"sample", "demo"},
		})
	}
	page := model.Page{
		ID:           w.newID("page"),
		Title:        welcomeTitle,
		Content:      welcomeContent,
		CreatedAt:    now,
		UpdatedAt:    now,
		Tags:         []string{},
		CustomFields: map[string]any{},
		Version:      1,
		Versions:     []model.PageVersion{},
	}
	db.Pages = append(db.Pages, page)
	db.Nav = nav.Initial(page.ID)
}
