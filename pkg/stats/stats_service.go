package stats

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/techtrack/techtrack/pkg/technology"
)

// TechnologyReader is the part of the technology service the statistics need.
type TechnologyReader interface {
	List(ctx context.Context, filter technology.Filter) ([]technology.Technology, error)
}

type StatsService interface {
	GetOverview(ctx context.Context) (Overview, error)
}

type StatsServiceImpl struct {
	technologies TechnologyReader
}

func NewStatsServiceImpl(technologies TechnologyReader) *StatsServiceImpl {
	return &StatsServiceImpl{technologies: technologies}
}

func (s *StatsServiceImpl) GetOverview(ctx context.Context) (Overview, error) {
	technologies, err := s.technologies.List(ctx, technology.Filter{})
	if err != nil {
		return Overview{}, err
	}
	log.Tracef("Technologies: %d", len(technologies))

	counts := technology.CountStatuses(technologies)
	overview := Overview{
		Counts:               counts,
		CompletionPercentage: CompletionPercentage(counts),
		Technologies:         make([]TechnologyStats, 0, len(technologies)),
	}

	for _, tech := range technologies {
		techStats := TechnologyStats{
			Id:     tech.Id,
			Title:  tech.Title,
			Status: tech.Status,
		}
		if tech.HasStudyPlan && tech.StudyTimeline != nil {
			plan := *tech.StudyTimeline
			techStats.Plan = &plan
			techStats.MilestonesTotal = len(plan.Milestones)
			techStats.MilestonesCompleted = plan.CompletedMilestones()
			overview.PlannedTechnologies++
			overview.PlannedHours += plan.Stats.TotalHours
		}
		overview.Technologies = append(overview.Technologies, techStats)
	}

	return overview, nil
}
