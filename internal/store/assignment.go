package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fernwood/choreboard/internal/model"
)

// DateLayout is the date-only format assignments are keyed by. Dates carry no
// time-of-day or timezone component; range queries are text comparisons.
const DateLayout = "2006-01-02"

type AssignmentStore struct {
	db *sql.DB
}

func NewAssignmentStore(db *sql.DB) *AssignmentStore {
	return &AssignmentStore{db: db}
}

const assignmentCols = `id, household_id, task_id, member_id, date, status, created_at, updated_at`

func scanAssignment(scanner interface{ Scan(...any) error }) (*model.Assignment, error) {
	var a model.Assignment
	var memberID sql.NullInt64
	var date string

	err := scanner.Scan(
		&a.ID, &a.HouseholdID, &a.TaskID, &memberID, &date,
		&a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if memberID.Valid {
		a.MemberID = &memberID.Int64
	}
	a.Date, err = time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", date, err)
	}
	return &a, nil
}

func (s *AssignmentStore) GetByID(id int64) (*model.Assignment, error) {
	row := s.db.QueryRow(`SELECT `+assignmentCols+` FROM assignments WHERE id = ?`, id)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

// ListRange returns a household's assignments with dates in [start, end],
// inclusive on both ends.
func (s *AssignmentStore) ListRange(householdID int64, start, end time.Time) ([]model.Assignment, error) {
	rows, err := s.db.Query(
		`SELECT `+assignmentCols+` FROM assignments
		 WHERE household_id = ? AND date >= ? AND date <= ?
		 ORDER BY date ASC, task_id ASC, id ASC`,
		householdID, start.Format(DateLayout), end.Format(DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

// ListMemberRange is ListRange narrowed to a single member's assignments.
func (s *AssignmentStore) ListMemberRange(householdID, memberID int64, start, end time.Time) ([]model.Assignment, error) {
	rows, err := s.db.Query(
		`SELECT `+assignmentCols+` FROM assignments
		 WHERE household_id = ? AND member_id = ? AND date >= ? AND date <= ?
		 ORDER BY date ASC, task_id ASC, id ASC`,
		householdID, memberID, start.Format(DateLayout), end.Format(DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("list member assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

// LastForTask returns the chronologically most recent assignment ever
// recorded for a task, or nil if the task has no history.
func (s *AssignmentStore) LastForTask(taskID int64) (*model.Assignment, error) {
	row := s.db.QueryRow(
		`SELECT `+assignmentCols+` FROM assignments WHERE task_id = ? ORDER BY date DESC, id DESC LIMIT 1`,
		taskID,
	)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last assignment for task: %w", err)
	}
	return a, nil
}

// BulkInsert inserts the given rows in a single transaction and returns the
// number of rows actually inserted. Rows that collide with an existing
// (task, date, member) or unassigned (task, date) row are silently dropped
// by the partial unique indexes, so concurrent writers cannot fail the batch.
func (s *AssignmentStore) BulkInsert(rows []model.NewAssignment) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT OR IGNORE INTO assignments (household_id, task_id, member_id, date, status) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, row := range rows {
		var memberID sql.NullInt64
		if row.MemberID != nil {
			memberID = sql.NullInt64{Int64: *row.MemberID, Valid: true}
		}
		result, err := stmt.Exec(
			row.HouseholdID, row.TaskID, memberID,
			row.Date.Format(DateLayout), model.AssignmentPending,
		)
		if err != nil {
			return 0, fmt.Errorf("insert assignment: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return inserted, nil
}

func (s *AssignmentStore) UpdateStatus(id int64, status string) (*model.Assignment, error) {
	_, err := s.db.Exec(
		`UPDATE assignments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update assignment status: %w", err)
	}
	return s.GetByID(id)
}

// PointTotals sums task points for completed assignments per member within
// the given date window, for the household leaderboard.
func (s *AssignmentStore) PointTotals(householdID int64, start, end time.Time) ([]model.PointTotal, error) {
	rows, err := s.db.Query(
		`SELECT m.id, m.name,
		        COALESCE(SUM(CASE WHEN a.status = ? THEN t.points ELSE 0 END), 0) AS points
		 FROM members m
		 LEFT JOIN assignments a ON a.member_id = m.id AND a.date >= ? AND a.date <= ?
		 LEFT JOIN tasks t ON t.id = a.task_id
		 WHERE m.household_id = ?
		 GROUP BY m.id, m.name
		 ORDER BY points DESC, m.name ASC`,
		model.AssignmentDone, start.Format(DateLayout), end.Format(DateLayout), householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("point totals: %w", err)
	}
	defer rows.Close()

	var totals []model.PointTotal
	for rows.Next() {
		var t model.PointTotal
		if err := rows.Scan(&t.MemberID, &t.MemberName, &t.Points); err != nil {
			return nil, fmt.Errorf("scan point total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
