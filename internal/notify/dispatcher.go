package notify

import (
	"context"
	"log"
	"time"

	famrepo "famtask-backend/internal/family/repository"
	"famtask-backend/pkg/fcm"
)

// TaskGenerations exposes the current scheduling generation of a task
// so the dispatcher can drop rows that a reschedule left behind.
type TaskGenerations interface {
	SchedulingGeneration(taskID string) (int64, error)
}

// Dispatcher delivers due scheduled notifications over FCM
type Dispatcher struct {
	repo        Repository
	tokenRepo   famrepo.DeviceTokenRepository
	fcmClient   *fcm.Client
	generations TaskGenerations
	interval    time.Duration
	stopChan    chan struct{}
}

// NewDispatcher creates a new dispatch loop
func NewDispatcher(repo Repository, tokenRepo famrepo.DeviceTokenRepository, fcmClient *fcm.Client, generations TaskGenerations, interval time.Duration) *Dispatcher {
	return &Dispatcher{
		repo:        repo,
		tokenRepo:   tokenRepo,
		fcmClient:   fcmClient,
		generations: generations,
		interval:    interval,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the dispatch loop
func (d *Dispatcher) Start() {
	if d.fcmClient == nil {
		log.Println("[Dispatch] FCM client not available, dispatcher disabled")
		return
	}

	log.Printf("[Dispatch] Starting notification dispatcher (interval: %s)", d.interval)

	go func() {
		// Run immediately on start
		d.deliverDue()

		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				d.deliverDue()
			case <-d.stopChan:
				log.Println("[Dispatch] Dispatcher stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the dispatcher
func (d *Dispatcher) Stop() {
	close(d.stopChan)
}

// deliverDue finds due rows and pushes them to the recipient's devices
func (d *Dispatcher) deliverDue() {
	now := time.Now()

	rows, err := d.repo.FindDue(now)
	if err != nil {
		log.Printf("[Dispatch] Error finding due notifications: %v", err)
		return
	}

	if len(rows) == 0 {
		return
	}

	log.Printf("[Dispatch] Found %d due notifications", len(rows))

	for _, row := range rows {
		payload, err := decodePayload(row)
		if err != nil {
			log.Printf("[Dispatch] Dropping row %s: %v", row.ID, err)
			d.repo.Delete(row.ID)
			continue
		}

		// A reschedule bumps the task's generation; rows stamped with
		// an older generation are stale and must not fire
		if payload.Generation > 0 {
			current, err := d.generations.SchedulingGeneration(payload.TaskID)
			if err != nil {
				log.Printf("[Dispatch] Task %s unresolvable, dropping row %s: %v", payload.TaskID, row.ID, err)
				d.repo.Delete(row.ID)
				continue
			}
			if current != payload.Generation {
				log.Printf("[Dispatch] Row %s stale (generation %d, current %d), dropping", row.ID, payload.Generation, current)
				d.repo.Delete(row.ID)
				continue
			}
		}

		tokens, err := d.tokenRepo.GetTokensByMemberID(payload.RecipientID)
		if err != nil {
			log.Printf("[Dispatch] Error getting device tokens for member %s: %v", payload.RecipientID, err)
			continue
		}

		if len(tokens) == 0 {
			log.Printf("[Dispatch] No device tokens for member %s, marking sent", payload.RecipientID)
			d.repo.MarkSent(row.ID)
			continue
		}

		var tokenStrings []string
		for _, t := range tokens {
			tokenStrings = append(tokenStrings, t.Token)
		}

		notification := fcm.NotificationData{
			Title: payload.Title,
			Body:  payload.Body,
			Data: map[string]string{
				"handle":       row.ID,
				"type":         string(payload.Category),
				"task_id":      payload.TaskID,
				"click_action": clickAction(payload),
			},
		}

		failedTokens, err := d.fcmClient.SendToDevices(context.Background(), tokenStrings, notification)
		if err != nil {
			log.Printf("[Dispatch] Error sending notification %s: %v", row.ID, err)
		} else {
			log.Printf("[Dispatch] Sent %s notification for task %s to %d devices", payload.Category, payload.TaskID, len(tokenStrings)-len(failedTokens))
		}

		// Cleanup failed tokens
		for _, token := range failedTokens {
			d.tokenRepo.DeleteToken(token)
		}

		// Mark sent regardless of success to avoid spamming
		if err := d.repo.MarkSent(row.ID); err != nil {
			log.Printf("[Dispatch] Error marking notification %s as sent: %v", row.ID, err)
		}
	}
}

func clickAction(payload Payload) string {
	switch payload.Category {
	case CategoryCompletion:
		return "/tasks/" + payload.TaskID + "/history"
	default:
		return "/tasks/" + payload.TaskID
	}
}
