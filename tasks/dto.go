package tasks

import "time"

// CreateTaskRequest is the task-creation payload.
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Status      string     `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  *string    `json:"assigned_to" validate:"omitempty,uuid"`
}

// UpdateTaskRequest is a partial update; nil fields are left unchanged.
type UpdateTaskRequest struct {
	TaskID      string     `json:"task_id" validate:"required,uuid"`
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  *string    `json:"assigned_to" validate:"omitempty,uuid"`
}

// ListTasksRequest selects and pages the task listing.
type ListTasksRequest struct {
	Page       int     `json:"page" validate:"omitempty,min=1"`
	Limit      int     `json:"limit" validate:"omitempty,min=1,max=100"`
	Status     string  `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority   string  `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo *string `json:"assigned_to" validate:"omitempty,uuid"`
	ShowAll    bool    `json:"show_all"`
}
