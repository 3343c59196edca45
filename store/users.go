package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// UserRepository is the query contract for user records.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUID(ctx context.Context, uid uuid.UUID) (*User, error)
	Insert(ctx context.Context, user *User) error
	UpdateFields(ctx context.Context, uid uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, uid uuid.UUID) error
	List(ctx context.Context) ([]User, error)
}

// UserStore implements UserRepository on GORM.
type UserStore struct {
	db *DB
}

// NewUserStore creates a user repository.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// FindByEmail returns the user with the given email, or gorm.ErrRecordNotFound.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByUID returns the user with the given uid, or gorm.ErrRecordNotFound.
func (s *UserStore) FindByUID(ctx context.Context, uid uuid.UUID) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).Where("uid = ?", uid).First(&user).Error; err != nil {
		return nil, fmt.Errorf("find user by uid: %w", err)
	}
	return &user, nil
}

// Insert persists a new user record.
func (s *UserStore) Insert(ctx context.Context, user *User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UpdateFields applies a partial update to the user record.
func (s *UserStore) UpdateFields(ctx context.Context, uid uuid.UUID, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&User{}).Where("uid = ?", uid).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update user: %w", res.Error)
	}
	return nil
}

// Delete removes the user record.
func (s *UserStore) Delete(ctx context.Context, uid uuid.UUID) error {
	if err := s.db.WithContext(ctx).Where("uid = ?", uid).Delete(&User{}).Error; err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// List returns all users, newest first.
func (s *UserStore) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
