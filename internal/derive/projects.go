package derive

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"fieldnotes/internal/model"
)

// All matches every status or stage in FilterProjects.
const All = "all"

var ErrUnknownStage = errors.New("unknown stage")

type SortKey string

const (
	SortUpdated  SortKey = "updated"
	SortCreated  SortKey = "created"
	SortName     SortKey = "name"
	SortDeadline SortKey = "deadline"
)

func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortUpdated:
		return SortUpdated, nil
	case SortCreated:
		return SortCreated, nil
	case SortName:
		return SortName, nil
	case SortDeadline:
		return SortDeadline, nil
	default:
		return "", fmt.Errorf("invalid sort key: %q (expected updated|created|name|deadline)", s)
	}
}

type Urgency string

const (
	UrgencyNone    Urgency = "none"
	UrgencyOverdue Urgency = "overdue"
	UrgencyUrgent  Urgency = "urgent"
	UrgencySoon    Urgency = "soon"
	UrgencyNormal  Urgency = "normal"
)

// FilterProjects keeps projects matching all three predicates. An empty query matches
// everything; otherwise it must be a case-insensitive substring of the name, the
// description or any tag. status and stage match when empty, "all", or equal.
func FilterProjects(projects []model.Project, query, status, stage string) []model.Project {
	q := strings.ToLower(strings.TrimSpace(query))
	status = strings.TrimSpace(status)
	stage = strings.TrimSpace(stage)

	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if !matchesQuery(p, q) {
			continue
		}
		if status != "" && status != All && string(p.Status) != status {
			continue
		}
		if stage != "" && stage != All && string(p.Stage) != stage {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesQuery(p model.Project, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// SortProjects returns a stably sorted copy.
func SortProjects(projects []model.Project, key SortKey) []model.Project {
	out := make([]model.Project, len(projects))
	copy(out, projects)

	var less func(a, b model.Project) bool
	switch key {
	case SortName:
		less = func(a, b model.Project) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case SortCreated:
		less = func(a, b model.Project) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortDeadline:
		less = func(a, b model.Project) bool {
			switch {
			case a.Deadline == nil:
				return false
			case b.Deadline == nil:
				return true
			default:
				return a.Deadline.Before(*b.Deadline)
			}
		}
	default:
		less = func(a, b model.Project) bool { return a.UpdatedAt.After(b.UpdatedAt) }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// StageProgress is the percentage of the workflow reached at stage: the first stage is
// above 0 and the last is exactly 100.
func StageProgress(stage model.ProjectStage) (float64, error) {
	stages := model.AllProjectStages()
	for i, s := range stages {
		if s == stage {
			return float64(i+1) / float64(len(stages)) * 100, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStage, stage)
}

// DaysUntil is the number of started days between now and t, rounded up.
func DaysUntil(t, now time.Time) int {
	return int(math.Ceil(float64(t.Sub(now).Milliseconds()) / float64(24*time.Hour/time.Millisecond)))
}

// ProjectUrgency classifies how close a project's deadline is.
// A deadline already in the past is overdue even when it passed less than a day ago.
func ProjectUrgency(p model.Project, now time.Time) Urgency {
	if p.Deadline == nil {
		return UrgencyNone
	}
	if p.Deadline.Before(now) {
		return UrgencyOverdue
	}
	days := DaysUntil(*p.Deadline, now)
	switch {
	case days <= 3:
		return UrgencyUrgent
	case days <= 7:
		return UrgencySoon
	default:
		return UrgencyNormal
	}
}
