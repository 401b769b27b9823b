package stats

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type StatsRenderer interface {
	RenderStats(overview Overview) (string, error)
}

type CsvStatsRendererImpl struct {
}

func NewCsvStatsRenderer() *CsvStatsRendererImpl {
	return &CsvStatsRendererImpl{}
}

var csvHeader = []string{"Technology", "Status", "Start date", "End date", "Hours per week", "Days", "Weeks", "Planned hours", "Milestones"}

func (t *CsvStatsRendererImpl) RenderStats(overview Overview) (string, error) {
	data := make([][]string, 0, len(overview.Technologies)+2)
	data = append(data, csvHeader)
	for _, techStats := range overview.Technologies {
		data = append(data, getRowForTechnology(techStats))
	}
	data = append(data, []string{
		"Total",
		strconv.Itoa(overview.Counts.Completed) + "/" + strconv.Itoa(overview.Counts.Total) + " completed",
		"", "", "", "", "",
		strconv.Itoa(overview.PlannedHours),
		strconv.Itoa(overview.CompletionPercentage) + "%",
	})

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func getRowForTechnology(techStats TechnologyStats) []string {
	row := []string{techStats.Title, string(techStats.Status)}
	if techStats.Plan == nil {
		return append(row, "", "", "", "", "", "", "")
	}
	plan := techStats.Plan
	return append(row,
		plan.StartDate.Time().Format("02/01/2006"),
		plan.EndDate.Time().Format("02/01/2006"),
		strconv.Itoa(plan.HoursPerWeek),
		strconv.Itoa(plan.Stats.TotalDays),
		strconv.Itoa(plan.Stats.TotalWeeks),
		strconv.Itoa(plan.Stats.TotalHours),
		strconv.Itoa(techStats.MilestonesCompleted)+"/"+strconv.Itoa(techStats.MilestonesTotal),
	)
}
