package model

import "time"

const (
	AssignmentPending = "pending"
	AssignmentDone    = "done"
	AssignmentMissed  = "missed"
)

// Assignment is one dated occurrence of a task. MemberID is nil for
// household-wide assignments that no particular member owns.
type Assignment struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	TaskID      int64     `json:"task_id"`
	MemberID    *int64    `json:"member_id"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewAssignment is the insert shape used by the generation engine.
type NewAssignment struct {
	HouseholdID int64
	TaskID      int64
	MemberID    *int64
	Date        time.Time
}
