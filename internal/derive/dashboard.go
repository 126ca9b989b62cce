package derive

import (
	"time"

	"fieldnotes/internal/model"
	"fieldnotes/internal/store"
)

type Counts struct {
	Pages     int `json:"pages"`
	Projects  int `json:"projects"`
	Folders   int `json:"folders"`
	Documents int `json:"documents"`
	Citations int `json:"citations"`
}

type ProjectSummary struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Stage     model.ProjectStage  `json:"stage"`
	Status    model.ProjectStatus `json:"status"`
	Progress  float64             `json:"progress"`
	Deadline  *time.Time          `json:"deadline,omitempty"`
	DaysLeft  *int                `json:"daysLeft,omitempty"`
	Urgency   Urgency             `json:"urgency"`
	PageCount int                 `json:"pageCount"`
}

type PageSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	IsStarred bool      `json:"isStarred"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type DashboardView struct {
	Counts            Counts           `json:"counts"`
	ActiveProjects    []ProjectSummary `json:"activeProjects"`
	UpcomingDeadlines []ProjectSummary `json:"upcomingDeadlines"`
	StarredPages      []PageSummary    `json:"starredPages"`
	RecentPages       []PageSummary    `json:"recentPages"`
}

const dashboardListLimit = 5

// SummarizeProject computes the derived fields shown next to a project.
// A project with an unknown stage reports 0 progress.
func SummarizeProject(p model.Project, pages []model.Page, now time.Time) ProjectSummary {
	progress, err := StageProgress(p.Stage)
	if err != nil {
		progress = 0
	}
	s := ProjectSummary{
		ID:        p.ID,
		Name:      p.Name,
		Stage:     p.Stage,
		Status:    p.Status,
		Progress:  progress,
		Deadline:  p.Deadline,
		Urgency:   ProjectUrgency(p, now),
		PageCount: len(ProjectPages(pages, p.ID)),
	}
	if p.Deadline != nil {
		d := DaysUntil(*p.Deadline, now)
		s.DaysLeft = &d
	}
	return s
}

func Dashboard(db *store.DB, now time.Time) DashboardView {
	v := DashboardView{
		Counts: Counts{
			Pages:     len(db.Pages),
			Projects:  len(db.Projects),
			Folders:   len(db.Folders),
			Documents: len(db.Documents),
			Citations: len(db.Citations),
		},
		ActiveProjects:    []ProjectSummary{},
		UpcomingDeadlines: []ProjectSummary{},
		StarredPages:      []PageSummary{},
		RecentPages:       []PageSummary{},
	}

	for _, p := range SortProjects(db.Projects, SortUpdated) {
		if p.Status != model.StatusInProgress {
			continue
		}
		if len(v.ActiveProjects) == dashboardListLimit {
			break
		}
		v.ActiveProjects = append(v.ActiveProjects, SummarizeProject(p, db.Pages, now))
	}

	for _, p := range SortProjects(db.Projects, SortDeadline) {
		if p.Deadline == nil || len(v.UpcomingDeadlines) == dashboardListLimit {
			break
		}
		if p.Status == model.StatusCompleted || p.Status == model.StatusArchived {
			continue
		}
		v.UpcomingDeadlines = append(v.UpcomingDeadlines, SummarizeProject(p, db.Pages, now))
	}

	for _, p := range SortPages(FilterPages(db.Pages, PageQuery{Starred: true}), PageSortUpdated) {
		if len(v.StarredPages) == dashboardListLimit {
			break
		}
		v.StarredPages = append(v.StarredPages, summarizePage(p))
	}
	for _, p := range RecentPages(db.Pages, dashboardListLimit) {
		v.RecentPages = append(v.RecentPages, summarizePage(p))
	}
	return v
}

func summarizePage(p model.Page) PageSummary {
	return PageSummary{ID: p.ID, Title: p.Title, IsStarred: p.IsStarred, UpdatedAt: p.UpdatedAt}
}
