package location

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"famtask-backend/internal/notify"
	taskdomain "famtask-backend/internal/task/domain"
)

const (
	// Provider-level subscription filters
	pollInterval      = 10 * time.Second
	minDistanceMeters = 5.0

	// Movement beyond this distance from the anchor raises the alert
	movementThresholdMeters = 20.0

	earthRadiusMeters = 6371e3
)

// TrackingSession is the in-memory state held while a task's movement
// is being watched
type TrackingSession struct {
	TaskID      string
	Anchor      taskdomain.Location
	RecipientID string
	StartedAt   time.Time
	watchHandle int64
}

// Coordinator owns the active tracking sessions, keyed by task id. A
// session starts when a due notification for a location-enabled task
// is delivered and ends on movement detection, task completion, or an
// explicit stop.
type Coordinator struct {
	provider  Provider
	notifySvc notify.Service

	mu       sync.Mutex
	sessions map[string]*TrackingSession
}

// NewCoordinator creates a coordinator with no active sessions
func NewCoordinator(provider Provider, notifySvc notify.Service) *Coordinator {
	return &Coordinator{
		provider:  provider,
		notifySvc: notifySvc,
		sessions:  make(map[string]*TrackingSession),
	}
}

// StartTracking opens a tracking session for a location-enabled task.
// Missing permission or a provider failure makes this a logged no-op:
// location features are additive and never block the reminder flow.
func (c *Coordinator) StartTracking(ctx context.Context, task *taskdomain.Task) {
	if task.ReminderLocation == nil {
		return
	}

	granted, err := c.provider.RequestPermission(ctx)
	if err != nil || !granted {
		log.Printf("[Tracking] Location permission unavailable for task %s, tracking skipped", task.ID)
		return
	}

	c.mu.Lock()
	if _, active := c.sessions[task.ID]; active {
		c.mu.Unlock()
		return
	}
	session := &TrackingSession{
		TaskID:      task.ID,
		Anchor:      *task.ReminderLocation,
		RecipientID: task.AssignedTo,
		StartedAt:   time.Now(),
	}
	c.sessions[task.ID] = session
	c.mu.Unlock()

	taskID := task.ID
	handle, err := c.provider.Watch(taskID, pollInterval, minDistanceMeters, func(pos Position) {
		c.onPositionUpdate(taskID, pos)
	})
	if err != nil {
		log.Printf("[Tracking] Failed to watch position for task %s: %v", taskID, err)
		c.mu.Lock()
		delete(c.sessions, taskID)
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	session.watchHandle = handle
	c.mu.Unlock()

	log.Printf("[Tracking] Started tracking task %s", taskID)
}

// StopTracking tears down the session for a task. Safe to call more
// than once or on an untracked id.
func (c *Coordinator) StopTracking(taskID string) {
	c.mu.Lock()
	session, ok := c.sessions[taskID]
	if ok {
		delete(c.sessions, taskID)
	}
	c.mu.Unlock()

	if !ok {
		return
	}

	c.provider.Unwatch(session.watchHandle)
	log.Printf("[Tracking] Stopped tracking task %s", taskID)
}

// ActiveSessions reports the ids of tasks currently tracked
func (c *Coordinator) ActiveSessions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, 0, len(c.sessions))
	for id := range c.sessions {
		ids = append(ids, id)
	}
	return ids
}

// onPositionUpdate compares a fix against the session anchor and raises
// the movement alert once the threshold is crossed. Movement fires at
// most once per session: the session is removed before the alert is
// scheduled, so a racing update finds no session.
func (c *Coordinator) onPositionUpdate(taskID string, pos Position) {
	c.mu.Lock()
	session, ok := c.sessions[taskID]
	if !ok {
		c.mu.Unlock()
		return
	}
	anchor := session.Anchor
	c.mu.Unlock()

	distance := DistanceMeters(anchor.Latitude, anchor.Longitude, pos.Latitude, pos.Longitude)
	if distance <= movementThresholdMeters {
		return
	}

	c.mu.Lock()
	session, ok = c.sessions[taskID]
	if ok {
		delete(c.sessions, taskID)
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	c.provider.Unwatch(session.watchHandle)

	payload := notify.Payload{
		TaskID:      taskID,
		Category:    notify.CategoryMovement,
		RecipientID: session.RecipientID,
		Title:       "📍 Left the reminder area",
		Body:        fmt.Sprintf("You moved %.0f m away from where this task was set", distance),
	}

	// Fire-now semantics: no settling delay for movement alerts
	if _, err := c.notifySvc.ScheduleAt(context.Background(), time.Now(), payload); err != nil {
		log.Printf("[Tracking] Failed to schedule movement alert for task %s: %v", taskID, err)
	} else {
		log.Printf("[Tracking] Movement alert raised for task %s (%.1f m)", taskID, distance)
	}
}

// DistanceMeters computes the great-circle distance between two points
// using the haversine formula
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
