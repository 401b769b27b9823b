package studyplan

import "math"

type Stats struct {
	TotalDays  int `json:"totalDays"`
	TotalWeeks int `json:"totalWeeks"`
	TotalHours int `json:"totalHours"`
}

// ComputeStats derives the plan totals. A same-day range has zero days.
func ComputeStats(start, end Date, hoursPerWeek int) Stats {
	if start.IsZero() || end.IsZero() {
		return Stats{}
	}
	totalDays := start.DaysUntil(end)
	totalWeeks := int(math.Ceil(float64(totalDays) / 7))
	return Stats{
		TotalDays:  totalDays,
		TotalWeeks: totalWeeks,
		TotalHours: totalWeeks * hoursPerWeek,
	}
}
