package studyplan

import "fmt"

const (
	FieldStartDate    = "startDate"
	FieldEndDate      = "endDate"
	FieldHoursPerWeek = "hoursPerWeek"

	maxSpanDays     = 730
	minSpanDays     = 1
	minHoursPerWeek = 1
	maxHoursPerWeek = 40
)

const (
	MsgStartDateRequired = "start date required"
	MsgStartDateInPast   = "start date cannot be in the past"
	MsgEndDateRequired   = "end date required"
	MsgEndDateInPast     = "end date cannot be in the past"
	MsgEndNotAfterStart  = "end date must be after start date"
	MsgSpanTooLong       = "span cannot exceed 2 years"
	MsgSpanTooShort      = "span must be at least 1 day"
	MsgHoursOutOfRange   = "hours per week must be between 1 and 40"
	MsgMilestoneTooEarly = "milestone date cannot be earlier than start date"
	MsgMilestoneTooLate  = "milestone date cannot be later than end date"
)

// Errors maps a field key to a human readable message. An empty message means
// the field passed validation.
type Errors map[string]string

// Valid reports whether every message in the map is empty.
func (e Errors) Valid() bool {
	for _, msg := range e {
		if msg != "" {
			return false
		}
	}
	return true
}

// Failed returns only the keys that carry a message.
func (e Errors) Failed() Errors {
	failed := Errors{}
	for key, msg := range e {
		if msg != "" {
			failed[key] = msg
		}
	}
	return failed
}

// MilestoneKey is the error slot of the milestone at index i.
func MilestoneKey(i int) string {
	return fmt.Sprintf("milestone_%d", i)
}

// Validate checks a candidate plan against today's date. Every rule runs
// independently; nothing is persisted.
func Validate(plan StudyPlan, today Date) Errors {
	errs := Errors{
		FieldStartDate: validateStartDate(plan.StartDate, today),
		FieldEndDate:   validateEndDate(plan.StartDate, plan.EndDate, today),
	}

	if plan.HoursPerWeek != 0 {
		if plan.HoursPerWeek < minHoursPerWeek || plan.HoursPerWeek > maxHoursPerWeek {
			errs[FieldHoursPerWeek] = MsgHoursOutOfRange
		}
	}

	for i, milestone := range plan.Milestones {
		if milestone.Date.IsZero() {
			continue
		}
		key := MilestoneKey(i)
		if !plan.StartDate.IsZero() && milestone.Date.Before(plan.StartDate) {
			errs[key] = MsgMilestoneTooEarly
		}
		// overwrites the earlier message for the same milestone
		if !plan.EndDate.IsZero() && milestone.Date.After(plan.EndDate) {
			errs[key] = MsgMilestoneTooLate
		}
	}

	return errs
}

func validateStartDate(start, today Date) string {
	if start.IsZero() {
		return MsgStartDateRequired
	}
	if start.Before(today) {
		return MsgStartDateInPast
	}
	return ""
}

func validateEndDate(start, end, today Date) string {
	if end.IsZero() {
		return MsgEndDateRequired
	}
	if end.Before(today) {
		return MsgEndDateInPast
	}
	if start.IsZero() {
		return ""
	}
	if !end.After(start) {
		return MsgEndNotAfterStart
	}
	span := start.DaysUntil(end)
	if span > maxSpanDays {
		return MsgSpanTooLong
	}
	if span < minSpanDays {
		return MsgSpanTooShort
	}
	return ""
}
