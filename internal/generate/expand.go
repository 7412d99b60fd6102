package generate

import (
	"fmt"
	"time"

	"github.com/fernwood/choreboard/internal/model"
	"github.com/fernwood/choreboard/internal/rule"
)

// storeError marks a persistence failure during expansion. It aborts the
// whole run instead of being attributed to the task being expanded.
type storeError struct {
	err error
}

func (e *storeError) Error() string { return e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

// expandTask produces the candidate assignments for one task across the date
// list. Rule-configuration problems come back as plain errors the caller
// records against the task.
func (g *Generator) expandTask(t model.Task, dates []time.Time) ([]model.NewAssignment, error) {
	r, err := rule.Parse(t.RuleType, t.RuleConfig)
	if err != nil {
		return nil, err
	}

	switch r := r.(type) {
	case rule.Daily:
		return expandDaily(t, r, dates), nil
	case rule.Repeating:
		return expandRepeating(t, r, dates), nil
	case rule.WeeklyRotation:
		return g.expandWeeklyRotation(t, r, dates)
	}
	return nil, fmt.Errorf("unknown rule type %q", t.RuleType)
}

// expandDaily emits one candidate per date. With participants, date index i
// goes to participant i mod len; without, candidates are unassigned.
func expandDaily(t model.Task, r rule.Daily, dates []time.Time) []model.NewAssignment {
	out := make([]model.NewAssignment, 0, len(dates))
	for i, date := range dates {
		var member *int64
		if n := len(r.Participants); n > 0 {
			member = &r.Participants[i%n]
		}
		out = append(out, model.NewAssignment{
			HouseholdID: t.HouseholdID,
			TaskID:      t.ID,
			MemberID:    member,
			Date:        date,
		})
	}
	return out
}

// expandRepeating emits candidates only on the configured weekdays. The
// participant rotation advances per occurrence, not per calendar date, so a
// Mon/Fri task alternates owners across occurrences regardless of the gap
// between them.
func expandRepeating(t model.Task, r rule.Repeating, dates []time.Time) []model.NewAssignment {
	match := make(map[time.Weekday]bool, len(r.RepeatDays))
	for _, d := range r.RepeatDays {
		match[d] = true
	}

	var out []model.NewAssignment
	occurrences := 0
	for _, date := range dates {
		if !match[date.Weekday()] {
			continue
		}
		var member *int64
		if n := len(r.Participants); n > 0 {
			member = &r.Participants[occurrences%n]
		}
		occurrences++
		out = append(out, model.NewAssignment{
			HouseholdID: t.HouseholdID,
			TaskID:      t.ID,
			MemberID:    member,
			Date:        date,
		})
	}
	return out
}

// expandWeeklyRotation assigns a single participant to every date in the
// window. The rotation position is computed once per call, from ISO week
// parity or from the task's most recent prior assignment, so a window that
// spans a week boundary still stays with one participant.
func (g *Generator) expandWeeklyRotation(t model.Task, r rule.WeeklyRotation, dates []time.Time) ([]model.NewAssignment, error) {
	if len(dates) == 0 {
		return nil, nil
	}

	var idx int
	switch r.Rotation {
	case rule.RotationOddEvenWeek:
		idx = oddEvenIndex(dates[0], len(r.Participants))
	case rule.RotationAlternating:
		last, err := g.assignments.LastForTask(t.ID)
		if err != nil {
			return nil, &storeError{err: err}
		}
		var lastMember *int64
		if last != nil {
			lastMember = last.MemberID
		}
		idx = alternatingIndex(lastMember, r.Participants)
	}

	member := r.Participants[idx]
	out := make([]model.NewAssignment, 0, len(dates))
	for _, date := range dates {
		m := member
		out = append(out, model.NewAssignment{
			HouseholdID: t.HouseholdID,
			TaskID:      t.ID,
			MemberID:    &m,
			Date:        date,
		})
	}
	return out, nil
}

// oddEvenIndex derives the rotation position from the ISO-8601 week number
// of the window's first date: week 1 maps to index 0.
func oddEvenIndex(first time.Time, n int) int {
	_, week := first.ISOWeek()
	return (week - 1) % n
}

// alternatingIndex advances one position past the participant who received
// the task's most recent assignment. The rotation restarts at the front when
// there is no history, the last assignment was unassigned, or the previous
// participant is no longer in the list.
func alternatingIndex(last *int64, participants []int64) int {
	if last == nil {
		return 0
	}
	for i, p := range participants {
		if p == *last {
			return (i + 1) % len(participants)
		}
	}
	return 0
}
