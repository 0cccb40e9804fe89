package reminder

import (
	"context"
	"log"
	"time"

	famrepo "famtask-backend/internal/family/repository"
	"famtask-backend/internal/notify"
	taskdomain "famtask-backend/internal/task/domain"
)

// CompletionDispatcher resolves the guardian recipients of a completed
// task and books one completion notification per recipient after a
// settling delay. Failures here never roll back the completion itself.
type CompletionDispatcher struct {
	notifySvc     notify.Service
	memberRepo    famrepo.MemberRepository
	settlingDelay time.Duration
}

// NewCompletionDispatcher creates a new CompletionDispatcher
func NewCompletionDispatcher(notifySvc notify.Service, memberRepo famrepo.MemberRepository, settlingDelay time.Duration) *CompletionDispatcher {
	return &CompletionDispatcher{
		notifySvc:     notifySvc,
		memberRepo:    memberRepo,
		settlingDelay: settlingDelay,
	}
}

// DispatchCompletion schedules delayed completion notifications to the
// family's guardians and returns the handles that succeeded. Tasks a
// minor created for themself notify nobody.
func (d *CompletionDispatcher) DispatchCompletion(ctx context.Context, task *taskdomain.Task, completedByID string) []string {
	creator, err := d.memberRepo.FindByID(task.CreatedBy)
	if err != nil || creator == nil {
		log.Printf("[Completion] Creator %s unresolvable for task %s, skipping dispatch", task.CreatedBy, task.ID)
		return nil
	}
	if !creator.IsGuardian() {
		// Only guardian-assigned tasks trigger oversight alerts
		return nil
	}

	completer, err := d.memberRepo.FindByID(completedByID)
	if err != nil || completer == nil {
		log.Printf("[Completion] Completer %s unresolvable for task %s, skipping dispatch", completedByID, task.ID)
		return nil
	}

	guardians, err := d.memberRepo.FindGuardiansByFamilyID(task.FamilyID)
	if err != nil {
		log.Printf("[Completion] Failed to resolve guardians for family %s: %v", task.FamilyID, err)
		return nil
	}

	fireAt := time.Now().Add(d.settlingDelay)
	var handles []string

	for _, guardian := range guardians {
		// Membership is re-validated per recipient so a guardian who
		// left the family after task creation is excluded
		current, err := d.memberRepo.FindByID(guardian.ID)
		if err != nil || current == nil || current.FamilyID != task.FamilyID {
			log.Printf("[Completion] Recipient %s no longer in family %s, skipping", guardian.ID, task.FamilyID)
			continue
		}

		if !ShouldDeliver(current.Role, notify.CategoryCompletion) {
			continue
		}

		payload := notify.Payload{
			TaskID:      task.ID,
			Category:    notify.CategoryCompletion,
			RecipientID: current.ID,
			CompletedBy: completer.ID,
			Title:       "✅ " + task.Title,
			Body:        completer.Name + " completed this task",
		}

		handle, err := d.notifySvc.ScheduleAt(ctx, fireAt, payload)
		if err != nil {
			// Each recipient is independent; keep going
			log.Printf("[Completion] Failed to schedule for recipient %s: %v", current.ID, err)
			continue
		}
		handles = append(handles, handle)
	}

	return handles
}
