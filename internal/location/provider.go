// Package location implements movement detection for location-enabled
// reminders: a device position feed and the coordinator that raises a
// one-shot movement alert when the device leaves the task's anchor.
package location

import (
	"context"
	"time"
)

// Position is one device fix
type Position struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	At        time.Time `json:"at"`
}

// Provider abstracts the device position feed. Watch applies the
// interval and minimum-distance filters at the subscription level, so
// callbacks only fire for fixes that pass both.
type Provider interface {
	RequestPermission(ctx context.Context) (bool, error)
	Watch(taskID string, interval time.Duration, minDistanceMeters float64, fn func(Position)) (int64, error)
	Unwatch(handle int64)
}
