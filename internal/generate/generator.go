package generate

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fernwood/choreboard/internal/model"
)

// Day-count bounds accepted by a single generation call.
const (
	MinDays = 1
	MaxDays = 365
)

const dateLayout = "2006-01-02"

// TaskSource lists a household's active recurring tasks, ordered by name.
type TaskSource interface {
	ListActive(householdID int64) ([]model.Task, error)
}

// AssignmentStore is the persistence surface the engine consumes. BulkInsert
// must be atomic and treat uniqueness conflicts as silent no-ops, reporting
// only the rows actually inserted.
type AssignmentStore interface {
	ListRange(householdID int64, start, end time.Time) ([]model.Assignment, error)
	LastForTask(taskID int64) (*model.Assignment, error)
	BulkInsert(rows []model.NewAssignment) (int, error)
}

// Result summarizes one generation run. Per-task rule problems land in
// Errors without aborting the run; a fatal storage failure produces a single
// "Transaction failed" entry and no persisted rows.
type Result struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

// Generator expands active tasks into dated assignment rows. It holds no
// state between runs; rotation history lives entirely in the store.
type Generator struct {
	tasks       TaskSource
	assignments AssignmentStore
	logger      *slog.Logger
}

func New(tasks TaskSource, assignments AssignmentStore, logger *slog.Logger) *Generator {
	return &Generator{tasks: tasks, assignments: assignments, logger: logger}
}

// key identifies an assignment for idempotency. A memberID of 0 stands in
// for "unassigned"; real member ids are always positive, so the sentinel
// keeps the two uniqueness domains disjoint.
type key struct {
	taskID   int64
	date     string
	memberID int64
}

func keyFor(taskID int64, date time.Time, memberID *int64) key {
	k := key{taskID: taskID, date: date.Format(dateLayout)}
	if memberID != nil {
		k.memberID = *memberID
	}
	return k
}

// dateRange returns days consecutive calendar dates starting at start,
// normalized to midnight UTC so the same request yields the same dates
// regardless of the machine's local timezone.
func dateRange(start time.Time, days int) []time.Time {
	first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, days)
	for i := range dates {
		dates[i] = first.AddDate(0, 0, i)
	}
	return dates
}

// Generate expands every active task for the household across days
// consecutive dates starting at start, persisting only assignments that do
// not already exist. Calling it again with the same arguments is a no-op.
func (g *Generator) Generate(householdID int64, start time.Time, days int) Result {
	res := Result{Errors: []string{}}

	if householdID <= 0 {
		res.Errors = append(res.Errors, "household id is required")
		return res
	}
	if days < MinDays || days > MaxDays {
		res.Errors = append(res.Errors, fmt.Sprintf("days must be between %d and %d", MinDays, MaxDays))
		return res
	}

	log := g.logger.With("run_id", uuid.NewString(), "household_id", householdID)

	tasks, err := g.tasks.ListActive(householdID)
	if err != nil {
		return g.fatal(log, err)
	}
	if len(tasks) == 0 {
		return res
	}

	dates := dateRange(start, days)

	existing, err := g.assignments.ListRange(householdID, dates[0], dates[len(dates)-1])
	if err != nil {
		return g.fatal(log, err)
	}
	seen := make(map[key]struct{}, len(existing))
	for _, a := range existing {
		seen[keyFor(a.TaskID, a.Date, a.MemberID)] = struct{}{}
	}

	var candidates []model.NewAssignment
	for _, t := range tasks {
		cands, err := g.expandTask(t, dates)
		if err != nil {
			var se *storeError
			if errors.As(err, &se) {
				return g.fatal(log, se.err)
			}
			res.Errors = append(res.Errors, fmt.Sprintf("Task %s (%d): %v", t.Name, t.ID, err))
			continue
		}
		candidates = append(candidates, cands...)
	}

	fresh := make([]model.NewAssignment, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[keyFor(c.TaskID, c.Date, c.MemberID)]; ok {
			res.Skipped++
			continue
		}
		fresh = append(fresh, c)
	}

	created, err := g.assignments.BulkInsert(fresh)
	if err != nil {
		return g.fatal(log, err)
	}
	res.Created = created

	log.Info("generation complete",
		"tasks", len(tasks),
		"days", days,
		"created", res.Created,
		"skipped", res.Skipped,
		"task_errors", len(res.Errors),
	)
	return res
}

// fatal reports a run-aborting failure as the run's only error. Counts are
// zeroed: the transactional insert guarantees nothing from this run survived.
func (g *Generator) fatal(log *slog.Logger, err error) Result {
	log.Error("generation failed", "error", err)
	return Result{Errors: []string{"Transaction failed: " + err.Error()}}
}
