package studyplan

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("should parse calendar date", func(t *testing.T) {
		d, err := ParseDate("2024-02-29")

		require.NoError(t, err)
		assert.Equal(t, NewDate(2024, time.February, 29), d)
		assert.Equal(t, "2024-02-29", d.String())
	})

	t.Run("empty string is the zero date", func(t *testing.T) {
		d, err := ParseDate("")

		require.NoError(t, err)
		assert.True(t, d.IsZero())
	})

	t.Run("should reject malformed input", func(t *testing.T) {
		for _, in := range []string{"2024-13-01", "yesterday", "2024/01/01", "2023-02-29"} {
			_, err := ParseDate(in)
			assert.Error(t, err, in)
		}
	})
}

func TestDateOf_UsesLocalCalendarDay(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	// 23:30 UTC on the 9th is already the 10th in Warsaw
	instant := time.Date(2024, time.March, 9, 23, 30, 0, 0, time.UTC).In(warsaw)

	assert.Equal(t, NewDate(2024, time.March, 10), DateOf(instant))
}

func TestDate_DaysUntil(t *testing.T) {
	start := NewDate(2024, time.March, 30)

	assert.Equal(t, 2, start.DaysUntil(NewDate(2024, time.April, 1)))
	assert.Equal(t, -2, NewDate(2024, time.April, 1).DaysUntil(start))
	assert.Equal(t, 0, start.DaysUntil(start))
}

func TestDate_JSON(t *testing.T) {
	var plan StudyPlan
	err := json.Unmarshal([]byte(`{"startDate":"2024-01-01","endDate":null,"milestones":[{"title":"a","date":""}]}`), &plan)

	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.January, 1), plan.StartDate)
	assert.True(t, plan.EndDate.IsZero())
	assert.True(t, plan.Milestones[0].Date.IsZero())

	out, err := json.Marshal(Milestone{Title: "a", Date: NewDate(2024, time.May, 2)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"a","date":"2024-05-02","completed":false}`, string(out))

	err = json.Unmarshal([]byte(`{"startDate":"not-a-date"}`), &plan)
	assert.Error(t, err)
}
