package reminder

import (
	"context"
	"fmt"
	"log"
	"time"

	"famtask-backend/internal/notify"
	taskdomain "famtask-backend/internal/task/domain"
	taskrepo "famtask-backend/internal/task/repository"
)

// Scheduler books, re-books and cancels due-date notifications against
// the notification service. Failures degrade to "no reminder will
// fire": an empty handle, never an error that blocks the task mutation
// that triggered the call.
type Scheduler struct {
	notifySvc notify.Service
	taskRepo  taskrepo.TaskRepository
}

// NewScheduler creates a new Scheduler
func NewScheduler(notifySvc notify.Service, taskRepo taskrepo.TaskRepository) *Scheduler {
	return &Scheduler{
		notifySvc: notifySvc,
		taskRepo:  taskRepo,
	}
}

// Schedule books the due notification for a task. Returns the service
// handle, or "" when the computed fire time is not strictly in the
// future (past-dated tasks simply don't notify) or the service call
// fails.
func (s *Scheduler) Schedule(ctx context.Context, task *taskdomain.Task) string {
	now := time.Now()
	fireAt := s.fireTime(task, now)
	if !fireAt.After(now) {
		log.Printf("[Scheduler] Task %s fire time %s not in the future, skipping", task.ID, fireAt.Format(time.RFC3339))
		return ""
	}

	handle, err := s.notifySvc.ScheduleAt(ctx, fireAt, s.duePayload(task))
	if err != nil {
		log.Printf("[Scheduler] Failed to schedule due notification for task %s: %v", task.ID, err)
		return ""
	}
	return handle
}

// Reschedule cancels any live notification for the task and books a new
// one from its current fields. The cancel completes before the new
// schedule begins — a brief gap is preferred over two live
// notifications. The generation bump makes any in-flight row for the
// old schedule stale at dispatch time.
func (s *Scheduler) Reschedule(ctx context.Context, task *taskdomain.Task) string {
	if generation, err := s.taskRepo.IncrementGeneration(task.ID); err != nil {
		log.Printf("[Scheduler] Failed to bump generation for task %s: %v", task.ID, err)
	} else {
		task.SchedulingGeneration = generation
	}

	s.Cancel(ctx, task.ID)
	return s.Schedule(ctx, task)
}

// ScheduleSnoozed re-books the due notification at an explicit fire
// time after a snooze, overriding the task's own due time.
func (s *Scheduler) ScheduleSnoozed(ctx context.Context, task *taskdomain.Task, fireAt time.Time) string {
	if generation, err := s.taskRepo.IncrementGeneration(task.ID); err != nil {
		log.Printf("[Scheduler] Failed to bump generation for task %s: %v", task.ID, err)
	} else {
		task.SchedulingGeneration = generation
	}

	s.Cancel(ctx, task.ID)

	handle, err := s.notifySvc.ScheduleAt(ctx, fireAt, s.duePayload(task))
	if err != nil {
		log.Printf("[Scheduler] Failed to schedule snoozed notification for task %s: %v", task.ID, err)
		return ""
	}
	return handle
}

// Cancel removes every pending notification for the task. Idempotent:
// cancelling a task with no live notifications is not an error.
func (s *Scheduler) Cancel(ctx context.Context, taskID string) {
	scheduled, err := s.notifySvc.ListByTask(ctx, taskID)
	if err != nil {
		log.Printf("[Scheduler] Failed to enumerate notifications for task %s: %v", taskID, err)
		return
	}

	for _, sn := range scheduled {
		if err := s.notifySvc.Cancel(ctx, sn.Handle); err != nil {
			log.Printf("[Scheduler] Failed to cancel notification %s: %v", sn.Handle, err)
		}
	}
}

// fireTime resolves the next fire instant: the plain due date, or the
// recurrence policy's next occurrence for recurring tasks
func (s *Scheduler) fireTime(task *taskdomain.Task, now time.Time) time.Time {
	if task.IsRecurring && task.Recurrence != nil {
		return NextOccurrence(now, task.Recurrence.StartDate, task.Recurrence.SelectedWeekdays, task.Recurrence.WeekFrequency)
	}
	return task.DueDate
}

func (s *Scheduler) duePayload(task *taskdomain.Task) notify.Payload {
	body := "Your task is due"
	if task.Description != "" {
		body = task.Description
	}
	if task.IsRecurring {
		body = fmt.Sprintf("%s (repeats every %d week(s))", body, task.Recurrence.WeekFrequency)
	}

	return notify.Payload{
		TaskID:      task.ID,
		Category:    notify.CategoryDue,
		RecipientID: task.AssignedTo,
		Generation:  task.SchedulingGeneration,
		Recurring:   task.IsRecurring,
		Title:       "⏰ " + task.Title,
		Body:        body,
	}
}
