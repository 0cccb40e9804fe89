package location

import (
	"context"
	"fmt"
	"sync"
	"time"

	"famtask-backend/internal/notify"
)

// stubNotifyService records bookings made by the coordinator
type stubNotifyService struct {
	mu         sync.Mutex
	nextHandle int
	Scheduled  []notify.Scheduled
}

func (s *stubNotifyService) ScheduleAt(ctx context.Context, fireAt time.Time, payload notify.Payload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextHandle++
	handle := fmt.Sprintf("handle-%d", s.nextHandle)
	s.Scheduled = append(s.Scheduled, notify.Scheduled{Handle: handle, FireAt: fireAt, Payload: payload})
	return handle, nil
}

func (s *stubNotifyService) Cancel(ctx context.Context, handle string) error { return nil }

func (s *stubNotifyService) ListByTask(ctx context.Context, taskID string) ([]notify.Scheduled, error) {
	return nil, nil
}

func (s *stubNotifyService) ListScheduled(ctx context.Context) ([]notify.Scheduled, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Scheduled(nil), s.Scheduled...), nil
}

func (s *stubNotifyService) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Scheduled)
}
