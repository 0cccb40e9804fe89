package notify

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestService(t *testing.T) (Service, Repository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&ScheduledNotification{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	repo := NewRepository(db)
	return NewService(repo), repo
}

func testPayload(taskID string) Payload {
	return Payload{
		TaskID:      taskID,
		Category:    CategoryDue,
		RecipientID: "minor-1",
		Title:       "⏰ Water the plants",
		Body:        "This task is due now",
	}
}

func TestScheduleAt_Roundtrip(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	fireAt := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	handle, err := svc.ScheduleAt(ctx, fireAt, testPayload("task-1"))
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	if handle == "" {
		t.Fatal("expected a non-empty handle")
	}

	rows, err := svc.ListByTask(ctx, "task-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 pending row, got %d", len(rows))
	}

	got := rows[0]
	if got.Handle != handle {
		t.Errorf("expected handle %s, got %s", handle, got.Handle)
	}
	if !got.FireAt.UTC().Truncate(time.Second).Equal(fireAt) {
		t.Errorf("expected fire at %s, got %s", fireAt, got.FireAt)
	}
	if got.Payload.Title != "⏰ Water the plants" {
		t.Errorf("payload did not survive the roundtrip: %+v", got.Payload)
	}
	if got.Payload.Category != CategoryDue {
		t.Errorf("expected category due, got %s", got.Payload.Category)
	}
}

func TestCancel_Idempotent(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	handle, err := svc.ScheduleAt(ctx, time.Now().Add(time.Hour), testPayload("task-1"))
	if err != nil {
		t.Fatalf("schedule failed: %v", err)
	}

	if err := svc.Cancel(ctx, handle); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}
	if err := svc.Cancel(ctx, handle); err != nil {
		t.Errorf("cancelling a cancelled handle must not error: %v", err)
	}
	if err := svc.Cancel(ctx, "never-existed"); err != nil {
		t.Errorf("cancelling an unknown handle must not error: %v", err)
	}

	rows, _ := svc.ListByTask(ctx, "task-1")
	if len(rows) != 0 {
		t.Errorf("expected no pending rows, got %d", len(rows))
	}
}

func TestListByTask_ScopedToTask(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	svc.ScheduleAt(ctx, time.Now().Add(time.Hour), testPayload("task-1"))
	svc.ScheduleAt(ctx, time.Now().Add(time.Hour), testPayload("task-2"))
	svc.ScheduleAt(ctx, time.Now().Add(2*time.Hour), testPayload("task-2"))

	rows, err := svc.ListByTask(ctx, "task-2")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 rows for task-2, got %d", len(rows))
	}

	all, _ := svc.ListScheduled(ctx)
	if len(all) != 3 {
		t.Errorf("expected 3 pending rows overall, got %d", len(all))
	}
}

func TestMarkSent_ExcludesFromPending(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()

	handle, _ := svc.ScheduleAt(ctx, time.Now().Add(-time.Minute), testPayload("task-1"))

	due, err := repo.FindDue(time.Now())
	if err != nil {
		t.Fatalf("find due failed: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected 1 due row, got %d", len(due))
	}

	if err := repo.MarkSent(handle); err != nil {
		t.Fatalf("mark sent failed: %v", err)
	}

	due, _ = repo.FindDue(time.Now())
	if len(due) != 0 {
		t.Errorf("sent rows must not come back as due, got %d", len(due))
	}
	pending, _ := svc.ListByTask(ctx, "task-1")
	if len(pending) != 0 {
		t.Errorf("sent rows must not be pending, got %d", len(pending))
	}
}

func TestFindDue_OnlyPastRows(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()

	svc.ScheduleAt(ctx, time.Now().Add(-time.Minute), testPayload("task-past"))
	svc.ScheduleAt(ctx, time.Now().Add(time.Hour), testPayload("task-future"))

	due, err := repo.FindDue(time.Now())
	if err != nil {
		t.Fatalf("find due failed: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected 1 due row, got %d", len(due))
	}
	if due[0].TaskID != "task-past" {
		t.Errorf("expected task-past due, got %s", due[0].TaskID)
	}
}
