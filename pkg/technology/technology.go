package technology

import (
	"strings"
	"time"

	"github.com/techtrack/techtrack/pkg/studyplan"
)

type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusCompleted}

func (s Status) Valid() bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Technology is one tracked entry. Records are persisted together as a single
// JSON array, so the json tags define the storage layout as well.
type Technology struct {
	Id          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	// StudyTimeline is nil when no plan exists.
	StudyTimeline *studyplan.StudyPlan `json:"studyTimeline"`
	HasStudyPlan  bool                 `json:"hasStudyPlan"`
}

// Filter narrows a technology list. An empty Status or "all" keeps every
// status; Query is matched case-insensitively against title, description and notes.
type Filter struct {
	Status string
	Query  string
}

const FilterAll = "all"

func (f Filter) Apply(technologies []Technology) []Technology {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	result := make([]Technology, 0, len(technologies))
	for _, tech := range technologies {
		if f.Status != "" && f.Status != FilterAll && string(tech.Status) != f.Status {
			continue
		}
		if query != "" && !tech.matches(query) {
			continue
		}
		result = append(result, tech)
	}
	return result
}

func (t Technology) matches(query string) bool {
	return strings.Contains(strings.ToLower(t.Title), query) ||
		strings.Contains(strings.ToLower(t.Description), query) ||
		(t.Notes != "" && strings.Contains(strings.ToLower(t.Notes), query))
}

// StatusCounts holds the number of technologies per status.
type StatusCounts struct {
	Total      int `json:"total"`
	NotStarted int `json:"notStarted"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

func CountStatuses(technologies []Technology) StatusCounts {
	counts := StatusCounts{Total: len(technologies)}
	for _, tech := range technologies {
		switch tech.Status {
		case StatusNotStarted:
			counts.NotStarted++
		case StatusInProgress:
			counts.InProgress++
		case StatusCompleted:
			counts.Completed++
		}
	}
	return counts
}
