package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"taskpanel/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	ErrAssigneeNotFound     = errors.New("assignee not found")
	ErrAssigneeNotEmployee  = errors.New("assignee must have the employee role")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidStatus        = errors.New("invalid task status")
	ErrUnsupportedSortField = errors.New("unsupported sort field")
	ErrUnsupportedSortOrder = errors.New("unsupported sort order")
	ErrStatusConflict       = errors.New("task status changed concurrently")
)

const (
	SortByCreatedAt = "createdAt"
	SortByDueDate   = "dueDate"
	SortByStatus    = "status"

	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// TaskQuery selects, orders and pages the task list. Zero values mean
// the corresponding step is skipped.
type TaskQuery struct {
	AssigneeIDs []uint
	Statuses    []model.TaskStatus
	SortBy      string
	Order       string
	Page        int
	Limit       int
}

// NewTask carries the caller-supplied fields of a task to create.
type NewTask struct {
	Title       string
	Description string
	AssigneeID  uint
	DueDate     *time.Time
}

type TaskService struct {
	tasks TaskStore
	users UserStore
	coll  *collate.Collator
}

func NewTaskService(tasks TaskStore, users UserStore) *TaskService {
	return &TaskService{
		tasks: tasks,
		users: users,
		coll:  collate.New(language.English),
	}
}

// List runs the filter/sort/paginate pipeline and reports whether more
// results remain past the returned page.
func (s *TaskService) List(ctx context.Context, q TaskQuery, current model.User) ([]model.Task, bool, error) {
	filter := TaskFilter{AssigneeIDs: q.AssigneeIDs, Statuses: q.Statuses}
	// An employee only ever sees their own tasks, whatever the
	// assignee filter says.
	if current.Role == model.RoleEmployee {
		filter.AssigneeIDs = []uint{current.ID}
	}

	tasks, err := s.tasks.FindTasks(ctx, filter)
	if err != nil {
		return nil, false, err
	}

	if q.SortBy != "" {
		if err := s.sortTasks(tasks, q.SortBy, q.Order); err != nil {
			return nil, false, err
		}
	}

	if q.Page > 0 && q.Limit > 0 {
		start := (q.Page - 1) * q.Limit
		if start >= len(tasks) {
			return []model.Task{}, false, nil
		}
		end := start + q.Limit
		if end > len(tasks) {
			end = len(tasks)
		}
		return tasks[start:end], end < len(tasks), nil
	}

	return tasks, false, nil
}

func (s *TaskService) sortTasks(tasks []model.Task, sortBy, order string) error {
	desc := false
	switch order {
	case "", OrderAsc:
	case OrderDesc:
		desc = true
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedSortOrder, order)
	}

	var cmp func(a, b model.Task) int
	switch sortBy {
	case SortByCreatedAt:
		cmp = func(a, b model.Task) int { return compareTimes(a.CreatedAt, b.CreatedAt) }
	case SortByDueDate:
		// A missing due date compares equal, so the stable sort leaves
		// the pair in its pre-sort position.
		cmp = func(a, b model.Task) int {
			if a.DueDate == nil || b.DueDate == nil {
				return 0
			}
			return compareTimes(*a.DueDate, *b.DueDate)
		}
	case SortByStatus:
		cmp = func(a, b model.Task) int {
			return s.coll.CompareString(string(a.Status), string(b.Status))
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedSortField, sortBy)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		c := cmp(tasks[i], tasks[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return nil
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

// Get returns a single task. Employees may only fetch their own tasks.
func (s *TaskService) Get(ctx context.Context, id uint, current model.User) (*model.Task, error) {
	task, err := s.tasks.FindTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Role == model.RoleEmployee && task.AssigneeID != current.ID {
		return nil, ErrForbidden
	}
	return task, nil
}

// UpdateStatus transitions a task to the requested status. Employees may
// only update tasks assigned to them; admins and employers may update any
// task; the plain user role may update none.
func (s *TaskService) UpdateStatus(ctx context.Context, id uint, status model.TaskStatus, current model.User) (*model.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	switch current.Role {
	case model.RoleAdmin, model.RoleEmployer, model.RoleEmployee:
	default:
		return nil, ErrForbidden
	}

	task, err := s.tasks.FindTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Role == model.RoleEmployee && task.AssigneeID != current.ID {
		return nil, ErrForbidden
	}

	if task.Status == status {
		// Setting the current status again is a no-op that still succeeds.
		return task, nil
	}

	swapped, err := s.tasks.SwapTaskStatus(ctx, id, task.Status, status)
	if err != nil {
		return nil, err
	}
	if !swapped {
		// The status moved between our read and the swap.
		return nil, ErrStatusConflict
	}

	task.Status = status
	return task, nil
}

// Create validates the assignee and persists a new pending task.
func (s *TaskService) Create(ctx context.Context, in NewTask, current model.User) (*model.Task, error) {
	assignee, err := s.users.FindUserByID(ctx, in.AssigneeID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, err
	}
	if assignee.Role != model.RoleEmployee {
		return nil, ErrAssigneeNotEmployee
	}

	task := &model.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      model.StatusPending,
		DueDate:     in.DueDate,
		AssigneeID:  assignee.ID,
		CreatedByID: current.ID,
	}
	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return s.tasks.FindTaskByID(ctx, task.ID)
}

// Summary returns one entry per employee in enumeration order, including
// employees with no tasks.
func (s *TaskService) Summary(ctx context.Context) ([]model.TaskSummary, error) {
	employees, err := s.users.FindUsersByRole(ctx, model.RoleEmployee)
	if err != nil {
		return nil, err
	}

	tallies, err := s.tasks.TallyByAssignee(ctx)
	if err != nil {
		return nil, err
	}
	byAssignee := make(map[uint]AssigneeTally, len(tallies))
	for _, t := range tallies {
		byAssignee[t.AssigneeID] = t
	}

	summaries := make([]model.TaskSummary, 0, len(employees))
	for _, emp := range employees {
		tally := byAssignee[emp.ID]
		summaries = append(summaries, model.TaskSummary{
			EmployeeID:     emp.ID,
			FirstName:      emp.FirstName,
			LastName:       emp.LastName,
			TotalTasks:     tally.Total,
			CompletedTasks: tally.Completed,
		})
	}
	return summaries, nil
}

// Employees lists the users that tasks can be assigned to.
func (s *TaskService) Employees(ctx context.Context) ([]model.User, error) {
	return s.users.FindUsersByRole(ctx, model.RoleEmployee)
}
