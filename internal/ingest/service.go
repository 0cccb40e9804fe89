// Package ingest receives device events over Pub/Sub: delivery
// receipts and user responses for notifications, and position fixes
// for active tracking sessions.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	famrepo "famtask-backend/internal/family/repository"
	"famtask-backend/internal/location"
	"famtask-backend/internal/notify"
	"famtask-backend/internal/reminder"
	taskdomain "famtask-backend/internal/task/domain"
	taskrepo "famtask-backend/internal/task/repository"
	taskusecase "famtask-backend/internal/task/usecase"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// DeviceEvent is one message published by the mobile app
type DeviceEvent struct {
	Kind     string `json:"kind"` // delivered | response | position | permission
	Handle   string `json:"handle,omitempty"`
	MemberID string `json:"member_id,omitempty"`
	TaskID   string `json:"task_id,omitempty"`
	Category string `json:"category,omitempty"`
	Action   string `json:"action,omitempty"` // acknowledge | snooze

	Granted   *bool   `json:"granted,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Accuracy  float64 `json:"accuracy,omitempty"`
}

// Service consumes the device event subscription
type Service struct {
	pubsubClient *pubsub.Client
	topicName    string
	subName      string

	guard       *reminder.DeliveryGuard
	memberRepo  famrepo.MemberRepository
	taskRepo    taskrepo.TaskRepository
	taskUsecase taskusecase.TaskUsecase
	coordinator *location.Coordinator
	feed        *location.DeviceFeed
}

// NewService creates the Pub/Sub consumer
func NewService(projectID, topicName, credentialsFile string, guard *reminder.DeliveryGuard, memberRepo famrepo.MemberRepository, taskRepo taskrepo.TaskRepository, taskUsecase taskusecase.TaskUsecase, coordinator *location.Coordinator, feed *location.DeviceFeed) (*Service, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	return &Service{
		pubsubClient: client,
		topicName:    topicName,
		subName:      topicName + "-sub", // Convention: topic-sub
		guard:        guard,
		memberRepo:   memberRepo,
		taskRepo:     taskRepo,
		taskUsecase:  taskUsecase,
		coordinator:  coordinator,
		feed:         feed,
	}, nil
}

// Start subscribes and blocks receiving messages until ctx is done
func (s *Service) Start(ctx context.Context) {
	log.Printf("[PubSub] Starting device event intake on topic %s, subscription %s", s.topicName, s.subName)

	sub := s.pubsubClient.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		log.Printf("[PubSub] Error checking subscription existence: %v", err)
		return
	}

	if !exists {
		topic := s.pubsubClient.Topic(s.topicName)
		topicExists, err := topic.Exists(ctx)
		if err != nil {
			log.Printf("[PubSub] Error checking topic existence: %v", err)
			return
		}
		if !topicExists {
			log.Printf("[PubSub] Topic %s does not exist, cannot create subscription", s.topicName)
			return
		}

		sub, err = s.pubsubClient.CreateSubscription(ctx, s.subName, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 10 * time.Second,
		})
		if err != nil {
			log.Printf("[PubSub] Failed to create subscription: %v", err)
			return
		}
		log.Printf("[PubSub] Created subscription: %s", s.subName)
	}

	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		s.handleMessage(ctx, msg)
		msg.Ack()
	})
	if err != nil {
		log.Printf("[PubSub] Error receiving messages: %v", err)
	}
}

func (s *Service) handleMessage(ctx context.Context, msg *pubsub.Message) {
	var event DeviceEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("[PubSub] Failed to unmarshal device event: %v", err)
		return
	}

	switch event.Kind {
	case "delivered":
		s.handleDelivered(ctx, event)
	case "response":
		s.handleResponse(event)
	case "position":
		s.feed.Deliver(event.TaskID, location.Position{
			Latitude:  event.Latitude,
			Longitude: event.Longitude,
			Accuracy:  event.Accuracy,
			At:        time.Now(),
		})
	case "permission":
		if event.Granted != nil {
			s.feed.SetPermission(*event.Granted)
		}
	default:
		log.Printf("[PubSub] Unknown device event kind: %s", event.Kind)
	}
}

// handleDelivered processes a delivery receipt: drop replays, apply
// the role gate for the viewing member, and begin tracking when a due
// notification for a located task landed
func (s *Service) handleDelivered(ctx context.Context, event DeviceEvent) {
	if !s.guard.ShouldProcess(event.Handle) {
		log.Printf("[PubSub] Duplicate delivery receipt for %s, ignoring", event.Handle)
		return
	}

	member, err := s.memberRepo.FindByID(event.MemberID)
	if err != nil || member == nil {
		log.Printf("[PubSub] Member %s unresolvable for receipt %s", event.MemberID, event.Handle)
		return
	}

	category := notify.Category(event.Category)
	if !reminder.ShouldDeliver(member.Role, category) {
		log.Printf("[PubSub] Notification %s suppressed for role %s", event.Handle, member.Role)
		return
	}

	if category != notify.CategoryDue {
		return
	}

	task, err := s.taskRepo.FindByID(event.TaskID)
	if err != nil || task == nil {
		return
	}
	if task.Status == taskdomain.TaskStatusPending && task.ReminderLocation != nil {
		s.coordinator.StartTracking(ctx, task)
	}
}

// handleResponse processes a user action on a delivered notification
func (s *Service) handleResponse(event DeviceEvent) {
	member, err := s.memberRepo.FindByID(event.MemberID)
	if err != nil || member == nil {
		log.Printf("[PubSub] Member %s unresolvable for response on %s", event.MemberID, event.Handle)
		return
	}

	switch event.Action {
	case "snooze":
		if _, err := s.taskUsecase.SnoozeTask(member, event.TaskID); err != nil {
			log.Printf("[PubSub] Snooze failed for task %s: %v", event.TaskID, err)
		}
	case "acknowledge":
		log.Printf("[PubSub] Task %s acknowledged by %s", event.TaskID, member.ID)
	default:
		log.Printf("[PubSub] Unknown response action: %s", event.Action)
	}
}
