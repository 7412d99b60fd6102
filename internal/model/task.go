package model

import "time"

// Task is a standing chore definition. RuleType selects the recurrence
// algorithm and RuleConfig holds its JSON configuration; see internal/rule
// for the concrete shapes.
type Task struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	RuleType    string    `json:"rule_type"`
	RuleConfig  string    `json:"rule_config"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
