package store

import (
	"database/sql"
	"fmt"

	"github.com/fernwood/choreboard/internal/model"
	"github.com/fernwood/choreboard/internal/rule"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskCols = `id, household_id, name, description, points, rule_type, rule_config, active, created_at, updated_at`

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	err := scanner.Scan(
		&t.ID, &t.HouseholdID, &t.Name, &t.Description, &t.Points,
		&t.RuleType, &t.RuleConfig, &t.Active, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TaskStore) Create(householdID int64, name, description string, points int, ruleType, ruleConfig string) (*model.Task, error) {
	result, err := s.db.Exec(
		`INSERT INTO tasks (household_id, name, description, points, rule_type, rule_config) VALUES (?, ?, ?, ?, ?, ?)`,
		householdID, name, description, points, ruleType, ruleConfig,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) GetByID(id int64) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *TaskStore) ListByHousehold(householdID int64) ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskCols+` FROM tasks WHERE household_id = ? ORDER BY name ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

// ListActive returns the household's active recurring tasks ordered by name.
// Single tasks are excluded: they enter the schedule through the claiming
// workflow, not through generation.
func (s *TaskStore) ListActive(householdID int64) ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskCols+` FROM tasks
		 WHERE household_id = ? AND active = 1 AND rule_type != ?
		 ORDER BY name ASC`,
		householdID, rule.TypeSingle,
	)
	if err != nil {
		return nil, fmt.Errorf("list active tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

func collectTasks(rows *sql.Rows) ([]model.Task, error) {
	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *TaskStore) Update(id int64, name, description string, points int, ruleType, ruleConfig string) (*model.Task, error) {
	_, err := s.db.Exec(
		`UPDATE tasks SET name = ?, description = ?, points = ?, rule_type = ?, rule_config = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, description, points, ruleType, ruleConfig, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) SetActive(id int64, active bool) (*model.Task, error) {
	_, err := s.db.Exec(
		`UPDATE tasks SET active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		active, id,
	)
	if err != nil {
		return nil, fmt.Errorf("set task active: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
