package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the fixed enumeration of account roles.
type Role string

const (
	RoleUser     Role = "user"
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Task status values.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Task priority values.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// BaseModel contains common fields for all database models.
type BaseModel struct {
	UID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"uid"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate generates a UUID if not already set.
func (b *BaseModel) BeforeCreate(_ *gorm.DB) error {
	if b.UID == uuid.Nil {
		b.UID = uuid.New()
	}
	return nil
}

// User is an account record. Authentication reads it; only the signup,
// verification, role-update, and password-reset paths mutate it.
type User struct {
	BaseModel
	Username     string `gorm:"not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"not null;default:user" json:"role"`
	IsVerified   bool   `gorm:"not null;default:false" json:"is_verified"`
}

// TableName overrides the GORM default.
func (User) TableName() string { return "users" }

// Task is a unit of work created by a manager or admin and optionally
// assigned to a user.
type Task struct {
	BaseModel
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Status      string     `gorm:"not null;default:pending" json:"status"`
	Priority    string     `gorm:"not null;default:medium" json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null;index" json:"created_by"`
	AssignedTo  *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to,omitempty"`
}

// TableName overrides the GORM default.
func (Task) TableName() string { return "tasks" }
