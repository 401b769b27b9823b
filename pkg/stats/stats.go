package stats

import (
	"math"

	"github.com/techtrack/techtrack/pkg/studyplan"
	"github.com/techtrack/techtrack/pkg/technology"
)

// Overview aggregates progress over all tracked technologies.
type Overview struct {
	Counts               technology.StatusCounts
	CompletionPercentage int
	PlannedTechnologies  int
	PlannedHours         int
	Technologies         []TechnologyStats
}

type TechnologyStats struct {
	Id                  int64
	Title               string
	Status              technology.Status
	Plan                *studyplan.StudyPlan
	MilestonesTotal     int
	MilestonesCompleted int
}

// CompletionPercentage is the rounded share of completed technologies, 0 for an empty list.
func CompletionPercentage(counts technology.StatusCounts) int {
	if counts.Total == 0 {
		return 0
	}
	return int(math.Round(float64(counts.Completed) / float64(counts.Total) * 100))
}
