// Package tasks implements task CRUD with role-scoped visibility and
// assignment notifications. Managers and admins create and update tasks;
// regular accounts see only tasks they created or were assigned.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/taskcollab/taskcollab/errors"
	"github.com/taskcollab/taskcollab/logger"
	"github.com/taskcollab/taskcollab/mail"
	"github.com/taskcollab/taskcollab/store"
)

var tracer = otel.Tracer("taskcollab/tasks")

// Service performs task operations against the task store.
type Service struct {
	tasks  store.TaskRepository
	users  store.UserRepository
	mailer mail.Sender
	log    *logger.Logger
}

// NewService creates the task service.
func NewService(tasks store.TaskRepository, users store.UserRepository, mailer mail.Sender, log *logger.Logger) *Service {
	return &Service{tasks: tasks, users: users, mailer: mailer, log: log.WithComponent("tasks")}
}

// Create persists a new task. When an assignee is set, it must exist and
// gets notified by email.
func (s *Service) Create(ctx context.Context, creator *store.User, req CreateTaskRequest) (*store.Task, error) {
	ctx, span := tracer.Start(ctx, "CreateTask")
	defer span.End()

	task := &store.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CreatedBy:   creator.UID,
	}
	if task.Status == "" {
		task.Status = store.StatusPending
	}
	if task.Priority == "" {
		task.Priority = store.PriorityMedium
	}

	var assignee *store.User
	if req.AssignedTo != nil {
		uid, err := uuid.Parse(*req.AssignedTo)
		if err != nil {
			return nil, errors.Validation("assigned_to must be a valid UUID")
		}
		assignee, err = s.users.FindByUID(ctx, uid)
		if err != nil {
			return nil, store.FromDatabase(err, "user")
		}
		task.AssignedTo = &uid
	}

	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, store.FromDatabase(err, "task")
	}

	s.log.Info("Task created", map[string]interface{}{
		"uid":     task.UID.String(),
		"creator": creator.UID.String(),
	})

	if assignee != nil {
		s.notifyAssignment(assignee, task)
	}
	return task, nil
}

// List returns a page of tasks visible to the caller. Accounts with the
// user or employee role only see tasks they created or were assigned;
// show-all is honored for managers and admins.
func (s *Service) List(ctx context.Context, caller *store.User, req ListTasksRequest) ([]store.Task, int64, error) {
	ctx, span := tracer.Start(ctx, "ListTasks")
	defer span.End()

	filters := store.TaskFilters{
		Status:   req.Status,
		Priority: req.Priority,
	}
	if req.AssignedTo != nil {
		uid, err := uuid.Parse(*req.AssignedTo)
		if err != nil {
			return nil, 0, errors.Validation("assigned_to must be a valid UUID")
		}
		filters.Assignee = &uid
	}

	privileged := caller.Role == store.RoleManager || caller.Role == store.RoleAdmin
	if !privileged || !req.ShowAll {
		filters.VisibleTo = &caller.UID
	}

	list, total, err := s.tasks.List(ctx, filters, req.Page, req.Limit)
	if err != nil {
		return nil, 0, store.FromDatabase(err, "task")
	}
	return list, total, nil
}

// Get returns a single task if the caller may see it.
func (s *Service) Get(ctx context.Context, caller *store.User, taskID uuid.UUID) (*store.Task, error) {
	ctx, span := tracer.Start(ctx, "GetTask")
	defer span.End()

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, store.FromDatabase(err, "task")
	}

	privileged := caller.Role == store.RoleManager || caller.Role == store.RoleAdmin
	if !privileged && task.CreatedBy != caller.UID &&
		(task.AssignedTo == nil || *task.AssignedTo != caller.UID) {
		return nil, errors.NotFound("task")
	}
	return task, nil
}

// Update applies a partial update. Reassignment notifies the new assignee.
func (s *Service) Update(ctx context.Context, req UpdateTaskRequest) (*store.Task, error) {
	ctx, span := tracer.Start(ctx, "UpdateTask")
	defer span.End()

	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		return nil, errors.Validation("task_id must be a valid UUID")
	}
	current, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, store.FromDatabase(err, "task")
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Priority != nil {
		fields["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		fields["due_date"] = *req.DueDate
	}

	var newAssignee *store.User
	if req.AssignedTo != nil {
		uid, err := uuid.Parse(*req.AssignedTo)
		if err != nil {
			return nil, errors.Validation("assigned_to must be a valid UUID")
		}
		if current.AssignedTo == nil || *current.AssignedTo != uid {
			newAssignee, err = s.users.FindByUID(ctx, uid)
			if err != nil {
				return nil, store.FromDatabase(err, "user")
			}
		}
		fields["assigned_to"] = uid
	}

	if len(fields) == 0 {
		return current, nil
	}
	if err := s.tasks.UpdateFields(ctx, taskID, fields); err != nil {
		return nil, store.FromDatabase(err, "task")
	}

	updated, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, store.FromDatabase(err, "task")
	}

	s.log.Info("Task updated", map[string]interface{}{"uid": taskID.String()})

	if newAssignee != nil {
		s.notifyAssignment(newAssignee, updated)
	}
	return updated, nil
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, taskID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "DeleteTask")
	defer span.End()

	if _, err := s.tasks.FindByID(ctx, taskID); err != nil {
		return store.FromDatabase(err, "task")
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return store.FromDatabase(err, "task")
	}

	s.log.Info("Task deleted", map[string]interface{}{"uid": taskID.String()})
	return nil
}

// notifyAssignment emails the assignee about their new task.
func (s *Service) notifyAssignment(assignee *store.User, task *store.Task) {
	due := "no due date"
	if task.DueDate != nil {
		due = task.DueDate.Format(time.DateOnly)
	}
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>You have been assigned a new task: <b>%s</b> (priority: %s, due: %s).</p>`,
		assignee.Username, task.Title, task.Priority, due)

	mail.SendAsync(s.mailer, s.log, []string{assignee.Email}, "New task assigned to you", body)
}
