package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/fernwood/choreboard/internal/database"
	"github.com/fernwood/choreboard/internal/model"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func utcDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type assignmentFixture struct {
	assignments *AssignmentStore
	householdID int64
	taskID      int64
	memberID    int64
}

func setupAssignmentTest(t *testing.T) *assignmentFixture {
	t.Helper()
	db := newTestDB(t)

	h, err := NewHouseholdStore(db).Create("Test Household")
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	m, err := NewMemberStore(db).Create(h.ID, "Alice", "#3B82F6", "")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	task, err := NewTaskStore(db).Create(h.ID, "Dishes", "", 5, "daily", "{}")
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	return &assignmentFixture{
		assignments: NewAssignmentStore(db),
		householdID: h.ID,
		taskID:      task.ID,
		memberID:    m.ID,
	}
}

func TestAssignmentBulkInsert(t *testing.T) {
	f := setupAssignmentTest(t)

	n, err := f.assignments.BulkInsert([]model.NewAssignment{
		{HouseholdID: f.householdID, TaskID: f.taskID, MemberID: &f.memberID, Date: utcDate(2026, 1, 5)},
		{HouseholdID: f.householdID, TaskID: f.taskID, MemberID: &f.memberID, Date: utcDate(2026, 1, 6)},
	})
	if err != nil {
		t.Fatalf("bulk insert: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}

	rows, err := f.assignments.ListRange(f.householdID, utcDate(2026, 1, 5), utcDate(2026, 1, 6))
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Status != model.AssignmentPending {
		t.Errorf("status = %q, want pending", rows[0].Status)
	}
	if !rows[0].Date.Equal(utcDate(2026, 1, 5)) {
		t.Errorf("date = %v, want 2026-01-05", rows[0].Date)
	}
}

func TestAssignmentBulkInsertEmpty(t *testing.T) {
	f := setupAssignmentTest(t)
	n, err := f.assignments.BulkInsert(nil)
	if err != nil {
		t.Fatalf("bulk insert: %v", err)
	}
	if n != 0 {
		t.Errorf("inserted = %d, want 0", n)
	}
}

func TestAssignmentConflictIsSilent(t *testing.T) {
	f := setupAssignmentTest(t)

	row := model.NewAssignment{HouseholdID: f.householdID, TaskID: f.taskID, MemberID: &f.memberID, Date: utcDate(2026, 1, 5)}
	if _, err := f.assignments.BulkInsert([]model.NewAssignment{row}); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	n, err := f.assignments.BulkInsert([]model.NewAssignment{row})
	if err != nil {
		t.Fatalf("conflicting insert should not error: %v", err)
	}
	if n != 0 {
		t.Errorf("inserted = %d, want 0 for a duplicate", n)
	}
}

func TestAssignmentUnassignedConflictIsSilent(t *testing.T) {
	f := setupAssignmentTest(t)

	row := model.NewAssignment{HouseholdID: f.householdID, TaskID: f.taskID, Date: utcDate(2026, 1, 5)}
	if _, err := f.assignments.BulkInsert([]model.NewAssignment{row}); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	n, err := f.assignments.BulkInsert([]model.NewAssignment{row})
	if err != nil {
		t.Fatalf("conflicting insert should not error: %v", err)
	}
	if n != 0 {
		t.Errorf("inserted = %d, want 0 for a duplicate unassigned row", n)
	}
}

func TestAssignmentUniquenessDomainsAreDisjoint(t *testing.T) {
	f := setupAssignmentTest(t)

	// An unassigned row and a member row for the same task and date are not
	// duplicates of each other.
	n, err := f.assignments.BulkInsert([]model.NewAssignment{
		{HouseholdID: f.householdID, TaskID: f.taskID, Date: utcDate(2026, 1, 5)},
		{HouseholdID: f.householdID, TaskID: f.taskID, MemberID: &f.memberID, Date: utcDate(2026, 1, 5)},
	})
	if err != nil {
		t.Fatalf("bulk insert: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}
}

func TestAssignmentListRangeBounds(t *testing.T) {
	f := setupAssignmentTest(t)

	var rows []model.NewAssignment
	for d := 4; d <= 8; d++ {
		rows = append(rows, model.NewAssignment{HouseholdID: f.householdID, TaskID: f.taskID, Date: utcDate(2026, 1, d)})
	}
	if _, err := f.assignments.BulkInsert(rows); err != nil {
		t.Fatalf("bulk insert: %v", err)
	}

	got, err := f.assignments.ListRange(f.householdID, utcDate(2026, 1, 5), utcDate(2026, 1, 7))
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("rows = %d, want 3 (inclusive bounds)", len(got))
	}
	if !got[0].Date.Equal(utcDate(2026, 1, 5)) || !got[2].Date.Equal(utcDate(2026, 1, 7)) {
		t.Errorf("range = %v .. %v, want Jan 5 .. Jan 7", got[0].Date, got[2].Date)
	}
}

func TestAssignmentListMemberRange(t *testing.T) {
	db := newTestDB(t)
	households := NewHouseholdStore(db)
	members := NewMemberStore(db)
	tasks := NewTaskStore(db)
	assignments := NewAssignmentStore(db)

	h, _ := households.Create("Test Household")
	alice, _ := members.Create(h.ID, "Alice", "#3B82F6", "")
	bob, _ := members.Create(h.ID, "Bob", "#3B82F6", "")
	task, _ := tasks.Create(h.ID, "Dishes", "", 0, "daily", "{}")

	if _, err := assignments.BulkInsert([]model.NewAssignment{
		{HouseholdID: h.ID, TaskID: task.ID, MemberID: &alice.ID, Date: utcDate(2026, 1, 5)},
		{HouseholdID: h.ID, TaskID: task.ID, MemberID: &bob.ID, Date: utcDate(2026, 1, 6)},
		{HouseholdID: h.ID, TaskID: task.ID, MemberID: &alice.ID, Date: utcDate(2026, 1, 7)},
		{HouseholdID: h.ID, TaskID: task.ID, Date: utcDate(2026, 1, 8)},
	}); err != nil {
		t.Fatalf("bulk insert: %v", err)
	}

	got, err := assignments.ListMemberRange(h.ID, alice.ID, utcDate(2026, 1, 5), utcDate(2026, 1, 8))
	if err != nil {
		t.Fatalf("list member range: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d, want Alice's 2", len(got))
	}
	for _, a := range got {
		if a.MemberID == nil || *a.MemberID != alice.ID {
			t.Errorf("member = %v, want %d", a.MemberID, alice.ID)
		}
	}
}

func TestAssignmentLastForTask(t *testing.T) {
	f := setupAssignmentTest(t)

	last, err := f.assignments.LastForTask(f.taskID)
	if err != nil {
		t.Fatalf("last for task: %v", err)
	}
	if last != nil {
		t.Fatal("expected nil with no history")
	}

	if _, err := f.assignments.BulkInsert([]model.NewAssignment{
		{HouseholdID: f.householdID, TaskID: f.taskID, Date: utcDate(2026, 1, 5)},
		{HouseholdID: f.householdID, TaskID: f.taskID, MemberID: &f.memberID, Date: utcDate(2026, 1, 9)},
		{HouseholdID: f.householdID, TaskID: f.taskID, Date: utcDate(2026, 1, 7)},
	}); err != nil {
		t.Fatalf("bulk insert: %v", err)
	}

	last, err = f.assignments.LastForTask(f.taskID)
	if err != nil {
		t.Fatalf("last for task: %v", err)
	}
	if last == nil {
		t.Fatal("expected a row")
	}
	if !last.Date.Equal(utcDate(2026, 1, 9)) {
		t.Errorf("last date = %v, want Jan 9", last.Date)
	}
	if last.MemberID == nil || *last.MemberID != f.memberID {
		t.Errorf("last member = %v, want %d", last.MemberID, f.memberID)
	}
}

func TestAssignmentUpdateStatus(t *testing.T) {
	f := setupAssignmentTest(t)

	if _, err := f.assignments.BulkInsert([]model.NewAssignment{
		{HouseholdID: f.householdID, TaskID: f.taskID, MemberID: &f.memberID, Date: utcDate(2026, 1, 5)},
	}); err != nil {
		t.Fatalf("bulk insert: %v", err)
	}
	rows, _ := f.assignments.ListRange(f.householdID, utcDate(2026, 1, 5), utcDate(2026, 1, 5))
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}

	updated, err := f.assignments.UpdateStatus(rows[0].ID, model.AssignmentDone)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != model.AssignmentDone {
		t.Errorf("status = %q, want done", updated.Status)
	}
}

func TestAssignmentPointTotals(t *testing.T) {
	db := newTestDB(t)
	households := NewHouseholdStore(db)
	members := NewMemberStore(db)
	tasks := NewTaskStore(db)
	assignments := NewAssignmentStore(db)

	h, _ := households.Create("Test Household")
	alice, _ := members.Create(h.ID, "Alice", "#3B82F6", "")
	bob, _ := members.Create(h.ID, "Bob", "#3B82F6", "")
	task, _ := tasks.Create(h.ID, "Dishes", "", 10, "daily", "{}")

	if _, err := assignments.BulkInsert([]model.NewAssignment{
		{HouseholdID: h.ID, TaskID: task.ID, MemberID: &alice.ID, Date: utcDate(2026, 1, 5)},
		{HouseholdID: h.ID, TaskID: task.ID, MemberID: &alice.ID, Date: utcDate(2026, 1, 6)},
		{HouseholdID: h.ID, TaskID: task.ID, MemberID: &bob.ID, Date: utcDate(2026, 1, 7)},
	}); err != nil {
		t.Fatalf("bulk insert: %v", err)
	}

	rows, err := assignments.ListRange(h.ID, utcDate(2026, 1, 5), utcDate(2026, 1, 7))
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	// Alice completes both of hers; Bob completes nothing.
	for _, a := range rows {
		if a.MemberID != nil && *a.MemberID == alice.ID {
			if _, err := assignments.UpdateStatus(a.ID, model.AssignmentDone); err != nil {
				t.Fatalf("update status: %v", err)
			}
		}
	}

	totals, err := assignments.PointTotals(h.ID, utcDate(2026, 1, 1), utcDate(2026, 1, 31))
	if err != nil {
		t.Fatalf("point totals: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("totals = %d, want 2", len(totals))
	}
	if totals[0].MemberID != alice.ID || totals[0].Points != 20 {
		t.Errorf("top = %+v, want Alice with 20", totals[0])
	}
	if totals[1].MemberID != bob.ID || totals[1].Points != 0 {
		t.Errorf("second = %+v, want Bob with 0", totals[1])
	}
}
