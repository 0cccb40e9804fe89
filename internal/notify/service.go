package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// storeService implements Service on top of the GORM repository
type storeService struct {
	repo Repository
}

// NewService creates the store-backed notification service
func NewService(repo Repository) Service {
	return &storeService{repo: repo}
}

func (s *storeService) ScheduleAt(ctx context.Context, fireAt time.Time, payload Payload) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	row := &ScheduledNotification{
		TaskID:   payload.TaskID,
		Category: string(payload.Category),
		FireAt:   fireAt,
		Payload:  string(encoded),
	}
	if err := s.repo.Create(row); err != nil {
		return "", err
	}
	return row.ID, nil
}

func (s *storeService) Cancel(ctx context.Context, handle string) error {
	// Deleting a missing row is a no-op in GORM, which gives us
	// idempotent cancellation for free
	return s.repo.Delete(handle)
}

func (s *storeService) ListByTask(ctx context.Context, taskID string) ([]Scheduled, error) {
	rows, err := s.repo.FindPendingByTask(taskID)
	if err != nil {
		return nil, err
	}
	return toScheduled(rows), nil
}

func (s *storeService) ListScheduled(ctx context.Context) ([]Scheduled, error) {
	rows, err := s.repo.FindPending()
	if err != nil {
		return nil, err
	}
	return toScheduled(rows), nil
}

func toScheduled(rows []*ScheduledNotification) []Scheduled {
	var out []Scheduled
	for _, row := range rows {
		payload, err := decodePayload(row)
		if err != nil {
			log.Printf("[Notify] Skipping row %s: %v", row.ID, err)
			continue
		}
		out = append(out, Scheduled{
			Handle:  row.ID,
			FireAt:  row.FireAt,
			Payload: payload,
		})
	}
	return out
}
