package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskFilters narrows a task listing. Zero values mean "no filter".
type TaskFilters struct {
	Status   string
	Priority string
	Assignee *uuid.UUID

	// VisibleTo restricts results to tasks created by or assigned to the
	// given user. Nil means no visibility scoping.
	VisibleTo *uuid.UUID
}

// TaskRepository is the query contract for task records.
type TaskRepository interface {
	FindByID(ctx context.Context, uid uuid.UUID) (*Task, error)
	Insert(ctx context.Context, task *Task) error
	UpdateFields(ctx context.Context, uid uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, uid uuid.UUID) error
	List(ctx context.Context, filters TaskFilters, page, limit int) ([]Task, int64, error)
}

// TaskStore implements TaskRepository on GORM.
type TaskStore struct {
	db *DB
}

// NewTaskStore creates a task repository.
func NewTaskStore(db *DB) *TaskStore {
	return &TaskStore{db: db}
}

// FindByID returns the task with the given uid, or gorm.ErrRecordNotFound.
func (s *TaskStore) FindByID(ctx context.Context, uid uuid.UUID) (*Task, error) {
	var task Task
	if err := s.db.WithContext(ctx).Where("uid = ?", uid).First(&task).Error; err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

// Insert persists a new task record.
func (s *TaskStore) Insert(ctx context.Context, task *Task) error {
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// UpdateFields applies a partial update to the task record.
func (s *TaskStore) UpdateFields(ctx context.Context, uid uuid.UUID, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&Task{}).Where("uid = ?", uid).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update task: %w", res.Error)
	}
	return nil
}

// Delete removes the task record.
func (s *TaskStore) Delete(ctx context.Context, uid uuid.UUID) error {
	if err := s.db.WithContext(ctx).Where("uid = ?", uid).Delete(&Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// List returns a page of tasks matching the filters plus the total count
// before pagination.
func (s *TaskStore) List(ctx context.Context, filters TaskFilters, page, limit int) ([]Task, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	q := s.applyFilters(s.db.WithContext(ctx).Model(&Task{}), filters)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	var tasks []Task
	offset := (page - 1) * limit
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, total, nil
}

func (s *TaskStore) applyFilters(q *gorm.DB, filters TaskFilters) *gorm.DB {
	if filters.VisibleTo != nil {
		q = q.Where("assigned_to = ? OR created_by = ?", *filters.VisibleTo, *filters.VisibleTo)
	}
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.Priority != "" {
		q = q.Where("priority = ?", filters.Priority)
	}
	if filters.Assignee != nil {
		q = q.Where("assigned_to = ?", *filters.Assignee)
	}
	return q
}
