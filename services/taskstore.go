package services

import (
	"context"
	"errors"
	"fmt"

	"taskpanel/model"

	"gorm.io/gorm"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskFilter holds the exact-match predicates pushed down to the store.
// Empty slices mean the filter is not applied.
type TaskFilter struct {
	AssigneeIDs []uint
	Statuses    []model.TaskStatus
}

// AssigneeTally is one row of the grouped task counts per assignee.
type AssigneeTally struct {
	AssigneeID uint
	Total      int
	Completed  int
}

// TaskStore provides access to task storage. The query engine is written
// against this interface so the storage engine is swappable.
type TaskStore interface {
	FindTasks(ctx context.Context, f TaskFilter) ([]model.Task, error)
	FindTaskByID(ctx context.Context, id uint) (*model.Task, error)
	CreateTask(ctx context.Context, task *model.Task) error
	// SwapTaskStatus sets the status of the task only if it still has the
	// expected current status. Reports whether a row was updated.
	SwapTaskStatus(ctx context.Context, id uint, from, to model.TaskStatus) (bool, error)
	TallyByAssignee(ctx context.Context) ([]AssigneeTally, error)
}

type GormTaskStore struct {
	db *gorm.DB
}

func NewGormTaskStore(db *gorm.DB) *GormTaskStore {
	return &GormTaskStore{db: db}
}

func (s *GormTaskStore) FindTasks(ctx context.Context, f TaskFilter) ([]model.Task, error) {
	// Base order is insertion order; ids are monotonic so this is id order.
	q := s.db.WithContext(ctx).
		Preload("Assignee").
		Preload("CreatedBy").
		Order("id")
	if len(f.AssigneeIDs) > 0 {
		q = q.Where("assignee_id IN ?", f.AssigneeIDs)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}

	var tasks []model.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return tasks, nil
}

func (s *GormTaskStore) FindTaskByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := s.db.WithContext(ctx).
		Preload("Assignee").
		Preload("CreatedBy").
		First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

func (s *GormTaskStore) CreateTask(ctx context.Context, task *model.Task) error {
	if err := s.db.WithContext(ctx).Omit("Assignee", "CreatedBy").Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (s *GormTaskStore) SwapTaskStatus(ctx context.Context, id uint, from, to model.TaskStatus) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if err := result.Error; err != nil {
		return false, fmt.Errorf("failed to update task status: %w", err)
	}
	return result.RowsAffected > 0, nil
}

func (s *GormTaskStore) TallyByAssignee(ctx context.Context) ([]AssigneeTally, error) {
	var tallies []AssigneeTally
	err := s.db.WithContext(ctx).
		Model(&model.Task{}).
		Select("assignee_id, count(*) AS total, sum(CASE WHEN status = ? THEN 1 ELSE 0 END) AS completed", model.StatusCompleted).
		Group("assignee_id").
		Scan(&tallies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to tally tasks: %w", err)
	}
	return tallies, nil
}
