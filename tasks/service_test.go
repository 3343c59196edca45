package tasks

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taskcollab/taskcollab/errors"
	"github.com/taskcollab/taskcollab/logger"
	"github.com/taskcollab/taskcollab/store"
)

// recordingSender captures sent mail for assertions.
type recordingSender struct {
	mu   sync.Mutex
	sent [][]string
	ch   chan []string
}

func newRecordingSender() *recordingSender {
	return &recordingSender{ch: make(chan []string, 8)}
}

func (r *recordingSender) Send(_ context.Context, recipients []string, _, _ string) error {
	r.mu.Lock()
	r.sent = append(r.sent, recipients)
	r.mu.Unlock()
	r.ch <- recipients
	return nil
}

// waitForMail blocks until a message is sent or the deadline passes.
func (r *recordingSender) waitForMail(t *testing.T) []string {
	t.Helper()
	select {
	case recipients := <-r.ch:
		return recipients
	case <-time.After(2 * time.Second):
		t.Fatal("expected an email to be sent")
		return nil
	}
}

type testEnv struct {
	svc    *Service
	users  *store.UserStore
	tasks  *store.TaskStore
	mailer *recordingSender
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.NewDefault("tasks-test")

	db, err := store.Open(context.Background(), store.Config{DSN: filepath.Join(t.TempDir(), "test.db")}, log)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	users := store.NewUserStore(db)
	taskStore := store.NewTaskStore(db)
	mailer := newRecordingSender()
	return &testEnv{
		svc:    NewService(taskStore, users, mailer, log),
		users:  users,
		tasks:  taskStore,
		mailer: mailer,
	}
}

func (e *testEnv) seedUser(t *testing.T, email string, role store.Role) *store.User {
	t.Helper()
	u := &store.User{Username: "tester", Email: email, PasswordHash: "x", Role: role, IsVerified: true}
	if err := e.users.Insert(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func strPtr(s string) *string { return &s }

func TestCreate_NotifiesAssignee(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	mgr := env.seedUser(t, "mgr@x.com", store.RoleManager)
	worker := env.seedUser(t, "worker@x.com", store.RoleUser)

	task, err := env.svc.Create(ctx, mgr, CreateTaskRequest{
		Title:      "ship release",
		Priority:   store.PriorityHigh,
		AssignedTo: strPtr(worker.UID.String()),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Status != store.StatusPending {
		t.Errorf("expected default status pending, got %q", task.Status)
	}
	if task.AssignedTo == nil || *task.AssignedTo != worker.UID {
		t.Error("task must record the assignee")
	}

	recipients := env.mailer.waitForMail(t)
	if len(recipients) != 1 || recipients[0] != "worker@x.com" {
		t.Errorf("expected notification to worker@x.com, got %v", recipients)
	}
}

func TestCreate_UnknownAssignee(t *testing.T) {
	env := newTestEnv(t)
	mgr := env.seedUser(t, "mgr@x.com", store.RoleManager)

	_, err := env.svc.Create(context.Background(), mgr, CreateTaskRequest{
		Title:      "orphan",
		AssignedTo: strPtr(uuid.NewString()),
	})
	if err == nil {
		t.Fatal("unknown assignee must fail")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeNotFound {
		t.Errorf("expected %s, got %v", errors.ErrCodeNotFound, err)
	}
}

func TestList_VisibilityScoping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	mgr := env.seedUser(t, "mgr@x.com", store.RoleManager)
	worker := env.seedUser(t, "worker@x.com", store.RoleUser)

	mk := func(title string, assignee *uuid.UUID) {
		t.Helper()
		task := &store.Task{Title: title, Status: store.StatusPending, Priority: store.PriorityMedium, CreatedBy: mgr.UID, AssignedTo: assignee}
		if err := env.tasks.Insert(ctx, task); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	mk("mine", &worker.UID)
	mk("not-mine", nil)
	mk("also-not-mine", nil)

	// A regular user only sees their own tasks, even with show_all.
	list, total, err := env.svc.List(ctx, worker, ListTasksRequest{Page: 1, Limit: 10, ShowAll: true})
	if err != nil {
		t.Fatalf("list as worker: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].Title != "mine" {
		t.Errorf("worker must see only assigned tasks, got total=%d", total)
	}

	// A manager without show_all sees own created/assigned tasks.
	_, total, err = env.svc.List(ctx, mgr, ListTasksRequest{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list as manager: %v", err)
	}
	if total != 3 {
		t.Errorf("manager created all three tasks, got total=%d", total)
	}

	// show_all is honored for managers.
	_, total, err = env.svc.List(ctx, mgr, ListTasksRequest{Page: 1, Limit: 10, ShowAll: true})
	if err != nil {
		t.Fatalf("list as manager show_all: %v", err)
	}
	if total != 3 {
		t.Errorf("manager with show_all must see all tasks, got total=%d", total)
	}
}

func TestGet_HiddenFromUnrelatedUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	mgr := env.seedUser(t, "mgr@x.com", store.RoleManager)
	stranger := env.seedUser(t, "stranger@x.com", store.RoleUser)

	task := &store.Task{Title: "secret", Status: store.StatusPending, Priority: store.PriorityLow, CreatedBy: mgr.UID}
	if err := env.tasks.Insert(ctx, task); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if _, err := env.svc.Get(ctx, mgr, task.UID); err != nil {
		t.Errorf("creator must see the task: %v", err)
	}

	_, err := env.svc.Get(ctx, stranger, task.UID)
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeNotFound {
		t.Errorf("unrelated user must get not-found, got %v", err)
	}
}

func TestUpdate_ReassignNotifies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	mgr := env.seedUser(t, "mgr@x.com", store.RoleManager)
	first := env.seedUser(t, "first@x.com", store.RoleUser)
	second := env.seedUser(t, "second@x.com", store.RoleUser)

	task, err := env.svc.Create(ctx, mgr, CreateTaskRequest{Title: "handover", AssignedTo: strPtr(first.UID.String())})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	env.mailer.waitForMail(t)

	updated, err := env.svc.Update(ctx, UpdateTaskRequest{
		TaskID:     task.UID.String(),
		Status:     strPtr(store.StatusInProgress),
		AssignedTo: strPtr(second.UID.String()),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != store.StatusInProgress {
		t.Errorf("expected status in_progress, got %q", updated.Status)
	}
	if updated.AssignedTo == nil || *updated.AssignedTo != second.UID {
		t.Error("task must record the new assignee")
	}

	recipients := env.mailer.waitForMail(t)
	if len(recipients) != 1 || recipients[0] != "second@x.com" {
		t.Errorf("expected notification to second@x.com, got %v", recipients)
	}
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	mgr := env.seedUser(t, "mgr@x.com", store.RoleManager)

	task := &store.Task{Title: "done", Status: store.StatusCompleted, Priority: store.PriorityLow, CreatedBy: mgr.UID}
	if err := env.tasks.Insert(ctx, task); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := env.svc.Delete(ctx, task.UID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	err := env.svc.Delete(ctx, task.UID)
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeNotFound {
		t.Errorf("deleting a missing task must be not-found, got %v", err)
	}
}
