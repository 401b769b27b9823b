package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techtrack/techtrack/pkg/technology"
)

func TestCsvStatsRendererImpl_RenderStats(t *testing.T) {
	tests := []struct {
		name     string
		overview Overview
		want     string
	}{
		{
			name: "RenderStats with planned and unplanned technologies",
			overview: Overview{
				Counts:               technology.StatusCounts{Total: 2, InProgress: 1, Completed: 1},
				CompletionPercentage: 50,
				PlannedTechnologies:  1,
				PlannedHours:         20,
				Technologies: []TechnologyStats{
					{Id: 1, Title: "Go", Status: technology.StatusInProgress, Plan: &goPlan, MilestonesTotal: 2, MilestonesCompleted: 1},
					{Id: 2, Title: "Rust, the book", Status: technology.StatusCompleted},
				},
			},
			want: "Technology,Status,Start date,End date,Hours per week,Days,Weeks,Planned hours,Milestones\n" +
				"Go,in-progress,11/03/2024,25/03/2024,10,14,2,20,1/2\n" +
				"\"Rust, the book\",completed,,,,,,,\n" +
				"Total,1/2 completed,,,,,,20,50%\n",
		},
		{
			name:     "RenderStats with no technologies",
			overview: Overview{},
			want: "Technology,Status,Start date,End date,Hours per week,Days,Weeks,Planned hours,Milestones\n" +
				"Total,0/0 completed,,,,,,0,0%\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderer := NewCsvStatsRenderer()

			got, err := renderer.RenderStats(tt.overview)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
