package location

import (
	"context"
	"testing"
	"time"

	"famtask-backend/internal/notify"
	taskdomain "famtask-backend/internal/task/domain"
)

// ~1 degree of latitude in meters on the sphere used by DistanceMeters
const metersPerLatDegree = 111194.9

func trackedTask() *taskdomain.Task {
	return &taskdomain.Task{
		ID:         "task-1",
		FamilyID:   "fam-1",
		Title:      "Homework at the desk",
		Status:     taskdomain.TaskStatusPending,
		AssignedTo: "minor-1",
		CreatedBy:  "guardian-1",
		ReminderLocation: &taskdomain.Location{
			Latitude:  40.0,
			Longitude: -74.0,
		},
	}
}

// fixAt returns a fix offset north of the anchor by the given meters
func fixAt(task *taskdomain.Task, meters float64, at time.Time) Position {
	return Position{
		Latitude:  task.ReminderLocation.Latitude + meters/metersPerLatDegree,
		Longitude: task.ReminderLocation.Longitude,
		At:        at,
	}
}

func TestCoordinator_WithinThresholdNoAlert(t *testing.T) {
	feed := NewDeviceFeed()
	svc := &stubNotifyService{}
	coordinator := NewCoordinator(feed, svc)

	task := trackedTask()
	coordinator.StartTracking(context.Background(), task)

	feed.Deliver(task.ID, fixAt(task, 10, time.Now()))

	if svc.count() != 0 {
		t.Errorf("expected no alert for 10 m of movement, got %d", svc.count())
	}
	if got := coordinator.ActiveSessions(); len(got) != 1 {
		t.Errorf("session must stay active, got %v", got)
	}
}

func TestCoordinator_BeyondThresholdAlertsExactlyOnce(t *testing.T) {
	feed := NewDeviceFeed()
	svc := &stubNotifyService{}
	coordinator := NewCoordinator(feed, svc)

	task := trackedTask()
	coordinator.StartTracking(context.Background(), task)

	base := time.Now()
	feed.Deliver(task.ID, fixAt(task, 30, base))

	if svc.count() != 1 {
		t.Fatalf("expected exactly one alert, got %d", svc.count())
	}
	alert := svc.Scheduled[0]
	if alert.Payload.Category != notify.CategoryMovement {
		t.Errorf("expected category movement_alert, got %s", alert.Payload.Category)
	}
	if alert.Payload.RecipientID != "minor-1" {
		t.Errorf("expected recipient minor-1, got %s", alert.Payload.RecipientID)
	}
	if len(coordinator.ActiveSessions()) != 0 {
		t.Error("session must end after the alert")
	}

	// A later, even larger excursion raises nothing: the session is gone
	feed.Deliver(task.ID, fixAt(task, 100, base.Add(time.Minute)))
	if svc.count() != 1 {
		t.Errorf("movement alert must be one-shot, got %d", svc.count())
	}
}

func TestCoordinator_StopTrackingIdempotent(t *testing.T) {
	feed := NewDeviceFeed()
	svc := &stubNotifyService{}
	coordinator := NewCoordinator(feed, svc)

	task := trackedTask()
	coordinator.StartTracking(context.Background(), task)

	coordinator.StopTracking(task.ID)
	coordinator.StopTracking(task.ID)
	coordinator.StopTracking("never-tracked")

	if len(coordinator.ActiveSessions()) != 0 {
		t.Error("expected no active sessions")
	}

	// Fixes after the stop go nowhere
	feed.Deliver(task.ID, fixAt(task, 100, time.Now()))
	if svc.count() != 0 {
		t.Errorf("expected no alert after stop, got %d", svc.count())
	}
}

func TestCoordinator_PermissionDeniedSkipsTracking(t *testing.T) {
	feed := NewDeviceFeed()
	feed.SetPermission(false)
	svc := &stubNotifyService{}
	coordinator := NewCoordinator(feed, svc)

	coordinator.StartTracking(context.Background(), trackedTask())

	if len(coordinator.ActiveSessions()) != 0 {
		t.Error("tracking must not start without permission")
	}
}

func TestCoordinator_NoAnchorNoSession(t *testing.T) {
	feed := NewDeviceFeed()
	svc := &stubNotifyService{}
	coordinator := NewCoordinator(feed, svc)

	task := trackedTask()
	task.ReminderLocation = nil
	coordinator.StartTracking(context.Background(), task)

	if len(coordinator.ActiveSessions()) != 0 {
		t.Error("a task without an anchor must not be tracked")
	}
}

func TestCoordinator_DuplicateStartKeepsOneSession(t *testing.T) {
	feed := NewDeviceFeed()
	svc := &stubNotifyService{}
	coordinator := NewCoordinator(feed, svc)

	task := trackedTask()
	coordinator.StartTracking(context.Background(), task)
	coordinator.StartTracking(context.Background(), task)

	if got := len(coordinator.ActiveSessions()); got != 1 {
		t.Errorf("expected one session, got %d", got)
	}

	// One session means one alert even though Start was called twice
	feed.Deliver(task.ID, fixAt(task, 30, time.Now()))
	if svc.count() != 1 {
		t.Errorf("expected exactly one alert, got %d", svc.count())
	}
}

func TestDistanceMeters(t *testing.T) {
	// One degree of latitude along a meridian
	got := DistanceMeters(40.0, -74.0, 41.0, -74.0)
	if got < 111100 || got > 111300 {
		t.Errorf("expected ~111.2 km, got %.1f m", got)
	}

	if d := DistanceMeters(40.0, -74.0, 40.0, -74.0); d != 0 {
		t.Errorf("zero displacement must be 0 m, got %f", d)
	}
}
