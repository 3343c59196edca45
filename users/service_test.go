package users

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/taskcollab/taskcollab/errors"
	"github.com/taskcollab/taskcollab/logger"
	"github.com/taskcollab/taskcollab/store"
)

func newTestService(t *testing.T) (*Service, *store.UserStore) {
	t.Helper()
	log := logger.NewDefault("users-test")

	db, err := store.Open(context.Background(), store.Config{DSN: filepath.Join(t.TempDir(), "test.db")}, log)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	users := store.NewUserStore(db)
	return NewService(users, log), users
}

func seed(t *testing.T, users *store.UserStore, email string, role store.Role) *store.User {
	t.Helper()
	u := &store.User{Username: "tester", Email: email, PasswordHash: "x", Role: role}
	if err := users.Insert(context.Background(), u); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return u
}

func TestUpdateRole(t *testing.T) {
	svc, users := newTestService(t)
	ctx := context.Background()
	u := seed(t, users, "a@x.com", store.RoleUser)

	updated, err := svc.UpdateRole(ctx, u.UID, store.RoleEmployee)
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated.Role != store.RoleEmployee {
		t.Errorf("expected role employee, got %s", updated.Role)
	}

	if _, err := svc.UpdateRole(ctx, u.UID, store.Role("superuser")); err == nil {
		t.Error("unknown role must be rejected")
	}

	_, err = svc.UpdateRole(ctx, uuid.New(), store.RoleAdmin)
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeNotFound {
		t.Errorf("expected not-found for unknown uid, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	svc, users := newTestService(t)
	ctx := context.Background()
	u := seed(t, users, "gone@x.com", store.RoleUser)

	if err := svc.Delete(ctx, u.UID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	err := svc.Delete(ctx, u.UID)
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeNotFound {
		t.Errorf("expected not-found on second delete, got %v", err)
	}
}

func TestListAndGet(t *testing.T) {
	svc, users := newTestService(t)
	ctx := context.Background()
	a := seed(t, users, "a@x.com", store.RoleUser)
	seed(t, users, "b@x.com", store.RoleAdmin)

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 users, got %d", len(all))
	}

	got, err := svc.Get(ctx, a.UID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != "a@x.com" {
		t.Errorf("expected a@x.com, got %s", got.Email)
	}
}
