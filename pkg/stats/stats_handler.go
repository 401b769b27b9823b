package stats

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/techtrack/techtrack/internal/rest"
	"github.com/techtrack/techtrack/pkg/studyplan"
)

type TechnologyStatsDTO struct {
	Id                  int64            `json:"id"`
	Title               string           `json:"title"`
	Status              string           `json:"status"`
	StartDate           *studyplan.Date  `json:"startDate,omitempty"`
	EndDate             *studyplan.Date  `json:"endDate,omitempty"`
	HoursPerWeek        int              `json:"hoursPerWeek"`
	Stats               *studyplan.Stats `json:"stats,omitempty"`
	MilestonesTotal     int              `json:"milestonesTotal"`
	MilestonesCompleted int              `json:"milestonesCompleted"`
}

type OverviewDTO struct {
	Total                int                  `json:"total"`
	NotStarted           int                  `json:"notStarted"`
	InProgress           int                  `json:"inProgress"`
	Completed            int                  `json:"completed"`
	CompletionPercentage int                  `json:"completionPercentage"`
	PlannedTechnologies  int                  `json:"plannedTechnologies"`
	PlannedHours         int                  `json:"plannedHours"`
	Technologies         []TechnologyStatsDTO `json:"technologies"`
}

type StatsHandler struct {
	statsService     StatsService
	csvStatsRenderer StatsRenderer
}

func NewStatsHandler(statsService StatsService, csvStatsRenderer StatsRenderer) *StatsHandler {
	return &StatsHandler{statsService, csvStatsRenderer}
}

// GetStats godoc
// @Summary Progress statistics
// @Description Status counts, completion percentage and planned hours. Send Accept: text/csv for a spreadsheet.
// @Tags Stats
// @Produce json
// @Produce text/csv
// @Success 200 {object} OverviewDTO
// @Router /api/stats [get]
func (handler *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting stats")
	overview, err := handler.statsService.GetOverview(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "could not compute stats", err.Error())
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		csv, err := handler.csvStatsRenderer.RenderStats(overview)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv stats: %v", err)
		}
		return
	}

	rest.WriteJSON(w, http.StatusOK, convertToJsonResponse(overview))
}

func convertToJsonResponse(overview Overview) OverviewDTO {
	technologies := make([]TechnologyStatsDTO, 0, len(overview.Technologies))
	for _, techStats := range overview.Technologies {
		dto := TechnologyStatsDTO{
			Id:                  techStats.Id,
			Title:               techStats.Title,
			Status:              string(techStats.Status),
			MilestonesTotal:     techStats.MilestonesTotal,
			MilestonesCompleted: techStats.MilestonesCompleted,
		}
		if techStats.Plan != nil {
			startDate := techStats.Plan.StartDate
			endDate := techStats.Plan.EndDate
			planStats := techStats.Plan.Stats
			dto.StartDate = &startDate
			dto.EndDate = &endDate
			dto.HoursPerWeek = techStats.Plan.HoursPerWeek
			dto.Stats = &planStats
		}
		technologies = append(technologies, dto)
	}

	return OverviewDTO{
		Total:                overview.Counts.Total,
		NotStarted:           overview.Counts.NotStarted,
		InProgress:           overview.Counts.InProgress,
		Completed:            overview.Counts.Completed,
		CompletionPercentage: overview.CompletionPercentage,
		PlannedTechnologies:  overview.PlannedTechnologies,
		PlannedHours:         overview.PlannedHours,
		Technologies:         technologies,
	}
}
