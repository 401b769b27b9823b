package studyplan

import "time"

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// StudyPlan is the study timeline attached to one technology. It is treated
// as an immutable value: edits produce a new plan that replaces the old one.
type StudyPlan struct {
	TechnologyId int64       `json:"technologyId"`
	StartDate    Date        `json:"startDate"`
	EndDate      Date        `json:"endDate"`
	HoursPerWeek int         `json:"hoursPerWeek"`
	Milestones   []Milestone `json:"milestones"`
	Priority     Priority    `json:"priority,omitempty"`
	// Stats is derived from the dates and weekly hours and recomputed on every save.
	Stats     Stats      `json:"stats"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type Milestone struct {
	Title     string `json:"title"`
	Date      Date   `json:"date"`
	Completed bool   `json:"completed"`
}

// WithMilestones returns a copy of the plan holding its own copy of milestones.
func (p StudyPlan) WithMilestones(milestones []Milestone) StudyPlan {
	p.Milestones = append([]Milestone(nil), milestones...)
	return p
}

// CompletedMilestones counts milestones marked as done.
func (p StudyPlan) CompletedMilestones() int {
	count := 0
	for _, m := range p.Milestones {
		if m.Completed {
			count++
		}
	}
	return count
}
