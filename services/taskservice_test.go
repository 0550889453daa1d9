package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"taskpanel/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"pgregory.net/rapid"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTestService(db *gorm.DB) *TaskService {
	return NewTaskService(NewGormTaskStore(db), NewGormUserStore(db))
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad fixture date %q: %v", value, err)
	}
	return parsed
}

// seedUsers inserts two employers (ids 1-2) and three employees (ids 3-5).
func seedUsers(t *testing.T, db *gorm.DB) []model.User {
	t.Helper()

	users := []model.User{
		{ID: 1, Email: "employer1@example.com", FirstName: "Alice", LastName: "Employer", Role: model.RoleEmployer, Password: "x"},
		{ID: 2, Email: "employer2@example.com", FirstName: "Bob", LastName: "Employer", Role: model.RoleEmployer, Password: "x"},
		{ID: 3, Email: "carol@example.com", FirstName: "Carol", LastName: "Employee", Role: model.RoleEmployee, Password: "x"},
		{ID: 4, Email: "dave@example.com", FirstName: "Dave", LastName: "Employee", Role: model.RoleEmployee, Password: "x"},
		{ID: 5, Email: "eve@example.com", FirstName: "Eve", LastName: "Employee", Role: model.RoleEmployee, Password: "x"},
	}
	if err := db.Create(&users).Error; err != nil {
		t.Fatalf("failed to seed users: %v", err)
	}
	return users
}

// seedTasks inserts one task per employee: Carol pending, Dave in
// progress, Eve completed (without a due date).
func seedTasks(t *testing.T, db *gorm.DB) {
	t.Helper()

	due1 := date(t, "2024-06-10T09:00:00Z")
	due2 := date(t, "2024-06-12T09:00:00Z")
	tasks := []model.Task{
		{ID: 1, Title: "Prepare report", Description: "Prepare the monthly report", Status: model.StatusPending, CreatedAt: date(t, "2024-06-01T09:00:00Z"), DueDate: &due1, AssigneeID: 3, CreatedByID: 1},
		{ID: 2, Title: "Update website", Status: model.StatusInProgress, CreatedAt: date(t, "2024-06-02T10:00:00Z"), DueDate: &due2, AssigneeID: 4, CreatedByID: 2},
		{ID: 3, Title: "Fix bugs", Status: model.StatusCompleted, CreatedAt: date(t, "2024-06-03T11:00:00Z"), AssigneeID: 5, CreatedByID: 1},
	}
	if err := db.Create(&tasks).Error; err != nil {
		t.Fatalf("failed to seed tasks: %v", err)
	}
}

func taskIDs(tasks []model.Task) []uint {
	ids := make([]uint, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	return ids
}

func userByID(users []model.User, id uint) model.User {
	for _, u := range users {
		if u.ID == id {
			return u
		}
	}
	return model.User{}
}

func TestList_EmployeeSeesOnlyOwnTasks(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db)
	seedTasks(t, db)
	svc := newTestService(db)
	carol := userByID(users, 3)

	// The assignee filter points at Dave, but Carol is an employee and
	// must still only see her own tasks.
	tasks, _, err := svc.List(context.Background(), TaskQuery{AssigneeIDs: []uint{4}}, carol)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].AssigneeID != carol.ID {
		t.Errorf("expected assignee %d, got %d", carol.ID, tasks[0].AssigneeID)
	}
}

func TestList_FilterByAssignee(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db)
	seedTasks(t, db)
	svc := newTestService(db)
	alice := userByID(users, 1)

	tasks, _, err := svc.List(context.Background(), TaskQuery{AssigneeIDs: []uint{4}}, alice)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != 2 {
		t.Fatalf("expected task 2, got %v", taskIDs(tasks))
	}
}

func TestList_FilterByStatus(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db)
	seedTasks(t, db)
	svc := newTestService(db)
	alice := userByID(users, 1)

	tasks, _, err := svc.List(context.Background(), TaskQuery{Statuses: []model.TaskStatus{model.StatusCompleted}}, alice)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].Status != model.StatusCompleted {
		t.Fatalf("expected the completed task, got %v", taskIDs(tasks))
	}

	// The union of the three status filters is the unfiltered set.
	seen := map[uint]bool{}
	for _, status := range []model.TaskStatus{model.StatusPending, model.StatusInProgress, model.StatusCompleted} {
		part, _, err := svc.List(context.Background(), TaskQuery{Statuses: []model.TaskStatus{status}}, alice)
		if err != nil {
			t.Fatalf("List(%s) error = %v", status, err)
		}
		for _, task := range part {
			if seen[task.ID] {
				t.Errorf("task %d returned for more than one status", task.ID)
			}
			seen[task.ID] = true
		}
	}
	if len(seen) != 3 {
		t.Errorf("expected union of 3 tasks, got %d", len(seen))
	}
}

func TestList_SortByCreatedAtDescending(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db)
	seedTasks(t, db)
	svc := newTestService(db)

	tasks, _, err := svc.List(context.Background(), TaskQuery{SortBy: SortByCreatedAt, Order: OrderDesc}, userByID(users, 1))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	got := taskIDs(tasks)
	want := []uint{3, 2, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestList_SortByDueDateKeepsUndatedInPlace(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db)
	seedTasks(t, db)
	svc := newTestService(db)

	// Task 3 has no due date; it compares equal to everything, so the
	// stable sort leaves it in its original (last) position even though
	// the dated tasks swap.
	tasks, _, err := svc.List(context.Background(), TaskQuery{SortBy: SortByDueDate, Order: OrderDesc}, userByID(users, 1))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	got := taskIDs(tasks)
	want := []uint{2, 1, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestList_SortByStatusAscending(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db)
	seedTasks(t, db)
	svc := newTestService(db)

	tasks, _, err := svc.List(context.Background(), TaskQuery{SortBy: SortByStatus}, userByID(users, 1))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []model.TaskStatus{model.StatusCompleted, model.StatusInProgress, model.StatusPending}
	for i := range want {
		if tasks[i].Status != want[i] {
			t.Fatalf("expected status order %v, got %v", want, tasks)
		}
	}
}

func TestList_RejectsUnsupportedSort(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db)
	seedTasks(t, db)
	svc := newTestService(db)
	alice := userByID(users, 1)

	_, _, err := svc.List(context.Background(), TaskQuery{SortBy: "title"}, alice)
	if !errors.Is(err, ErrUnsupportedSortField) {
		t.Errorf("expected ErrUnsupportedSortField, got %v", err)
	}

	_, _, err = svc.List(context.Background(), TaskQuery{SortBy: SortByCreatedAt, Order: "sideways"}, alice)
	if !errors.Is(err, ErrUnsupportedSortOrder) {
		t.Errorf("expected ErrUnsupportedSortOrder, got %v", err)
	}
}

func TestList_Pagination(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db)
	svc := newTestService(db)
	alice := userByID(users, 1)

	for i := 0; i < 25; i++ {
		_, err := svc.Create(context.Background(), NewTask{Title: fmt.Sprintf("Task %d", i+1), AssigneeID: 3}, alice)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	page2, hasNext, err := svc.List(context.Background(), TaskQuery{Page: 2, Limit: 10}, alice)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page2) != 10 {
		t.Fatalf("expected 10 tasks on page 2, got %d", len(page2))
	}
	if page2[0].ID != 11 || page2[9].ID != 20 {
		t.Errorf("expected tasks 11-20, got %v", taskIDs(page2))
	}
	if !hasNext {
		t.Error("expected hasNextPage on page 2")
	}

	page3, hasNext, err := svc.List(context.Background(), TaskQuery{Page: 3, Limit: 10}, alice)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page3) != 5 {
		t.Errorf("expected 5 tasks on page 3, got %d", len(page3))
	}
	if hasNext {
		t.Error("expected no next page after page 3")
	}

	empty, hasNext, err := svc.List(context.Background(), TaskQuery{Page: 4, Limit: 10}, alice)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(empty) != 0 || hasNext {
		t.Errorf("expected empty page 4, got %v", taskIDs(empty))
	}
}

func TestList_PaginationPartitionProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		total := rapid.IntRange(0, 30).Draw(rt, "total")
		limit := rapid.IntRange(1, 7).Draw(rt, "limit")

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			rt.Fatalf("failed to open test database: %v", err)
		}
		if err := db.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
			rt.Fatalf("failed to migrate test database: %v", err)
		}

		employer := model.User{ID: 1, Email: "boss@example.com", FirstName: "Boss", LastName: "Employer", Role: model.RoleEmployer, Password: "x"}
		employee := model.User{ID: 2, Email: "worker@example.com", FirstName: "Worker", LastName: "Employee", Role: model.RoleEmployee, Password: "x"}
		if err := db.Create(&[]model.User{employer, employee}).Error; err != nil {
			rt.Fatalf("failed to seed users: %v", err)
		}

		svc := newTestService(db)
		for i := 0; i < total; i++ {
			if _, err := svc.Create(context.Background(), NewTask{Title: fmt.Sprintf("Task %d", i+1), AssigneeID: 2}, employer); err != nil {
				rt.Fatalf("Create() error = %v", err)
			}
		}

		full, _, err := svc.List(context.Background(), TaskQuery{}, employer)
		if err != nil {
			rt.Fatalf("List() error = %v", err)
		}

		// Walking the pages visits every task exactly once, in order.
		var walked []uint
		for page := 1; ; page++ {
			tasks, hasNext, err := svc.List(context.Background(), TaskQuery{Page: page, Limit: limit}, employer)
			if err != nil {
				rt.Fatalf("List(page=%d) error = %v", page, err)
			}
			if len(tasks) > limit {
				rt.Fatalf("page %d has %d tasks, limit %d", page, len(tasks), limit)
			}
			walked = append(walked, taskIDs(tasks)...)
			if !hasNext {
				break
			}
		}

		if len(walked) != len(full) {
			rt.Fatalf("walked %d tasks, expected %d", len(walked), len(full))
		}
		for i, task := range full {
			if walked[i] != task.ID {
				rt.Fatalf("walked ids %v do not match full listing %v", walked, taskIDs(full))
			}
		}
	})
}

func TestCreate_AssignsMonotonicIncreasingIDs(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db)
	seedTasks(t, db)
	svc := newTestService(db)
	alice := userByID(users, 1)

	var lastID uint
	for i := 0; i < 3; i++ {
		task, err := svc.Create(context.Background(), NewTask{Title: fmt.Sprintf("New task %d", i+1), AssigneeID: 3}, alice)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if task.ID <= 3 || task.ID <= lastID {
			t.Errorf("expected id greater than %d, got %d", lastID, task.ID)
		}
		lastID = task.ID

		if task.Status != model.StatusPending {
			t.Errorf("expected new task to be pending, got %s", task.Status)
		}
		if task.CreatedBy.ID != alice.ID {
			t.Errorf("expected creator %d, got %d", alice.ID, task.CreatedBy.ID)
		}
		if task.CreatedAt.IsZero() {
			t.Error("expected createdAt to be set")
		}
	}
}

func TestCreate_AssigneeValidation(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db)
	svc := newTestService(db)
	alice := userByID(users, 1)

	_, err := svc.Create(context.Background(), NewTask{Title: "Orphan", AssigneeID: 99}, alice)
	if !errors.Is(err, ErrAssigneeNotFound) {
		t.Errorf("expected ErrAssigneeNotFound, got %v", err)
	}

	// Bob is an employer; tasks may only be assigned to employees.
	_, err = svc.Create(context.Background(), NewTask{Title: "Misassigned", AssigneeID: 2}, alice)
	if !errors.Is(err, ErrAssigneeNotEmployee) {
		t.Errorf("expected ErrAssigneeNotEmployee, got %v", err)
	}
}

func TestUpdateStatus_AssigneeCanUpdate(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db)
	seedTasks(t, db)
	svc := newTestService(db)
	carol := userByID(users, 3)

	task, err := svc.UpdateStatus(context.Background(), 1, model.StatusInProgress, carol)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if task.Status != model.StatusInProgress {
		t.Errorf("expected status InProgress, got %s", task.Status)
	}

	var stored model.Task
	if err := db.First(&stored, "id = ?", 1).Error; err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}
	if stored.Status != model.StatusInProgress {
		t.Errorf("expected persisted status InProgress, got %s", stored.Status)
	}
}

func TestUpdateStatus_OtherEmployeeForbidden(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db)
	seedTasks(t, db)
	svc := newTestService(db)
	dave := userByID(users, 4)

	_, err := svc.UpdateStatus(context.Background(), 1, model.StatusCompleted, dave)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	var stored model.Task
	if err := db.First(&stored, "id = ?", 1).Error; err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}
	if stored.Status != model.StatusPending {
		t.Errorf("expected status unchanged, got %s", stored.Status)
	}
}

func TestUpdateStatus_EmployerCanUpdateAnyTask(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db)
	seedTasks(t, db)
	svc := newTestService(db)
	bob := userByID(users, 2)

	task, err := svc.UpdateStatus(context.Background(), 1, model.StatusCompleted, bob)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if task.Status != model.StatusCompleted {
		t.Errorf("expected status Completed, got %s", task.Status)
	}
}

func TestUpdateStatus_PlainUserForbidden(t *testing.T) {
	db := setupTestDB(t)
	seedUsers(t, db)
	seedTasks(t, db)
	svc := newTestService(db)

	viewer := model.User{ID: 6, Email: "viewer@example.com", FirstName: "Vic", LastName: "Viewer", Role: model.RoleUser, Password: "x"}
	if err := db.Create(&viewer).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	_, err := svc.UpdateStatus(context.Background(), 1, model.StatusCompleted, viewer)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateStatus_Errors(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db)
	seedTasks(t, db)
	svc := newTestService(db)
	carol := userByID(users, 3)

	if _, err := svc.UpdateStatus(context.Background(), 99, model.StatusCompleted, carol); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), 1, "Done", carol); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateStatus_SameStatusIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db)
	seedTasks(t, db)
	svc := newTestService(db)
	carol := userByID(users, 3)

	task, err := svc.UpdateStatus(context.Background(), 1, model.StatusPending, carol)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if task.Status != model.StatusPending {
		t.Errorf("expected status Pending, got %s", task.Status)
	}
}

func TestSwapTaskStatus_StaleExpectedStatus(t *testing.T) {
	db := setupTestDB(t)
	seedUsers(t, db)
	seedTasks(t, db)
	store := NewGormTaskStore(db)

	// Task 1 is pending; a swap conditioned on InProgress must not apply.
	swapped, err := store.SwapTaskStatus(context.Background(), 1, model.StatusInProgress, model.StatusCompleted)
	if err != nil {
		t.Fatalf("SwapTaskStatus() error = %v", err)
	}
	if swapped {
		t.Error("expected swap with stale expected status to be rejected")
	}

	var stored model.Task
	if err := db.First(&stored, "id = ?", 1).Error; err != nil {
		t.Fatalf("failed to reload task: %v", err)
	}
	if stored.Status != model.StatusPending {
		t.Errorf("expected status unchanged, got %s", stored.Status)
	}
}

func TestSummary_FixtureCounts(t *testing.T) {
	db := setupTestDB(t)
	seedUsers(t, db)
	seedTasks(t, db)
	svc := newTestService(db)

	summaries, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(summaries))
	}

	for _, s := range summaries {
		if s.TotalTasks != 1 {
			t.Errorf("employee %d: expected 1 total task, got %d", s.EmployeeID, s.TotalTasks)
		}
		wantCompleted := 0
		if s.EmployeeID == 5 { // Eve's task is completed
			wantCompleted = 1
		}
		if s.CompletedTasks != wantCompleted {
			t.Errorf("employee %d: expected %d completed, got %d", s.EmployeeID, wantCompleted, s.CompletedTasks)
		}
	}
}

func TestSummary_IncludesEmployeesWithZeroTasks(t *testing.T) {
	db := setupTestDB(t)
	seedUsers(t, db)
	svc := newTestService(db)

	summaries, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(summaries))
	}
	for _, s := range summaries {
		if s.TotalTasks != 0 || s.CompletedTasks != 0 {
			t.Errorf("employee %d: expected zero counts, got %+v", s.EmployeeID, s)
		}
	}
}

func TestEmployees(t *testing.T) {
	db := setupTestDB(t)
	seedUsers(t, db)
	svc := newTestService(db)

	employees, err := svc.Employees(context.Background())
	if err != nil {
		t.Fatalf("Employees() error = %v", err)
	}
	if len(employees) != 3 {
		t.Fatalf("expected 3 employees, got %d", len(employees))
	}
	for _, emp := range employees {
		if emp.Role != model.RoleEmployee {
			t.Errorf("expected employee role, got %d", emp.Role)
		}
	}
}

func TestGet_EmployeeRestrictedToOwnTask(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db)
	seedTasks(t, db)
	svc := newTestService(db)
	carol := userByID(users, 3)

	task, err := svc.Get(context.Background(), 1, carol)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if task.ID != 1 {
		t.Errorf("expected task 1, got %d", task.ID)
	}

	if _, err := svc.Get(context.Background(), 2, carol); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	if _, err := svc.Get(context.Background(), 99, carol); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}
