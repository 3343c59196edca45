// Package users implements administrative account management: listing,
// lookup, role changes, and deletion. Every endpoint is admin-gated.
package users

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/taskcollab/taskcollab/errors"
	"github.com/taskcollab/taskcollab/logger"
	"github.com/taskcollab/taskcollab/store"
)

var tracer = otel.Tracer("taskcollab/users")

// Service performs account management against the user store.
type Service struct {
	users store.UserRepository
	log   *logger.Logger
}

// NewService creates the account-management service.
func NewService(users store.UserRepository, log *logger.Logger) *Service {
	return &Service{users: users, log: log.WithComponent("users")}
}

// List returns all accounts, newest first.
func (s *Service) List(ctx context.Context) ([]store.User, error) {
	ctx, span := tracer.Start(ctx, "ListUsers")
	defer span.End()

	all, err := s.users.List(ctx)
	if err != nil {
		return nil, store.FromDatabase(err, "user")
	}
	return all, nil
}

// Get returns the account with the given uid.
func (s *Service) Get(ctx context.Context, uid uuid.UUID) (*store.User, error) {
	ctx, span := tracer.Start(ctx, "GetUser")
	defer span.End()

	user, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		return nil, store.FromDatabase(err, "user")
	}
	return user, nil
}

// UpdateRole changes an account's role.
func (s *Service) UpdateRole(ctx context.Context, uid uuid.UUID, role store.Role) (*store.User, error) {
	ctx, span := tracer.Start(ctx, "UpdateUserRole")
	defer span.End()

	if !role.Valid() {
		return nil, errors.Validation("role must be one of: user, employee, manager, admin")
	}

	if _, err := s.users.FindByUID(ctx, uid); err != nil {
		return nil, store.FromDatabase(err, "user")
	}
	if err := s.users.UpdateFields(ctx, uid, map[string]interface{}{"role": role}); err != nil {
		return nil, store.FromDatabase(err, "user")
	}

	s.log.Info("User role updated", map[string]interface{}{
		"uid":  uid.String(),
		"role": string(role),
	})

	user, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		return nil, store.FromDatabase(err, "user")
	}
	return user, nil
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, uid uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "DeleteUser")
	defer span.End()

	if _, err := s.users.FindByUID(ctx, uid); err != nil {
		return store.FromDatabase(err, "user")
	}
	if err := s.users.Delete(ctx, uid); err != nil {
		return store.FromDatabase(err, "user")
	}

	s.log.Info("User deleted", map[string]interface{}{"uid": uid.String()})
	return nil
}
