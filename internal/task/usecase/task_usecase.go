package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	famdomain "famtask-backend/internal/family/domain"
	famrepo "famtask-backend/internal/family/repository"
	"famtask-backend/internal/location"
	"famtask-backend/internal/reminder"
	"famtask-backend/internal/task/domain"
	"famtask-backend/internal/task/repository"
)

// taskUsecase implements TaskUsecase
type taskUsecase struct {
	taskRepo       repository.TaskRepository
	memberRepo     famrepo.MemberRepository
	scheduler      *reminder.Scheduler
	completion     *reminder.CompletionDispatcher
	coordinator    *location.Coordinator
	snoozeInterval time.Duration
}

// NewTaskUsecase creates a new instance of taskUsecase
func NewTaskUsecase(taskRepo repository.TaskRepository, memberRepo famrepo.MemberRepository, scheduler *reminder.Scheduler, completion *reminder.CompletionDispatcher, coordinator *location.Coordinator, snoozeInterval time.Duration) TaskUsecase {
	return &taskUsecase{
		taskRepo:       taskRepo,
		memberRepo:     memberRepo,
		scheduler:      scheduler,
		completion:     completion,
		coordinator:    coordinator,
		snoozeInterval: snoozeInterval,
	}
}

func (u *taskUsecase) CreateTask(member *famdomain.Member, req CreateTaskRequest) (*domain.Task, error) {
	assignedTo := req.AssignedTo
	if assignedTo == "" {
		assignedTo = member.ID
	}

	// Minors may only create tasks for themselves
	if !member.IsGuardian() && assignedTo != member.ID {
		return nil, errors.New("unauthorized")
	}

	assignee, err := u.memberRepo.FindByID(assignedTo)
	if err != nil {
		return nil, err
	}
	if assignee == nil || assignee.FamilyID != member.FamilyID {
		return nil, errors.New("assignee not in family")
	}

	task := &domain.Task{
		FamilyID:    member.FamilyID,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatusPending,
		AssignedTo:  assignedTo,
		CreatedBy:   member.ID,
	}

	if req.Recurrence != nil {
		recurrence, err := parseRecurrence(req.Recurrence)
		if err != nil {
			return nil, err
		}
		task.IsRecurring = true
		task.Recurrence = recurrence
		task.DueDate = recurrence.StartDate
	} else {
		if req.DueDate == "" {
			return nil, errors.New("due date required")
		}
		dueDate, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			return nil, errors.New("invalid due date")
		}
		task.DueDate = dueDate
	}

	if req.Location != nil {
		task.ReminderLocation = &domain.Location{
			Latitude:   req.Location.Latitude,
			Longitude:  req.Location.Longitude,
			CapturedAt: time.Now(),
		}
	}

	if err := u.taskRepo.Create(task); err != nil {
		return nil, err
	}

	// A failed schedule degrades to "no reminder will fire"; the task
	// creation itself has already succeeded
	if handle := u.scheduler.Schedule(context.Background(), task); handle == "" {
		log.Printf("[Task] No due notification booked for task %s", task.ID)
	}

	return task, nil
}

func (u *taskUsecase) GetTaskByID(member *famdomain.Member, taskID string) (*domain.Task, error) {
	task, err := u.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errors.New("task not found")
	}
	if task.FamilyID != member.FamilyID {
		return nil, errors.New("unauthorized")
	}
	return task, nil
}

func (u *taskUsecase) GetFamilyTasks(member *famdomain.Member, status *string, limit, offset int) ([]*domain.Task, int64, error) {
	var statusFilter *domain.TaskStatus
	if status != nil && *status != "" {
		s := domain.TaskStatus(*status)
		statusFilter = &s
	}
	return u.taskRepo.FindByFamilyID(member.FamilyID, statusFilter, limit, offset)
}

func (u *taskUsecase) UpdateTask(member *famdomain.Member, taskID string, updates UpdateTaskRequest) (*domain.Task, error) {
	task, err := u.GetTaskByID(member, taskID)
	if err != nil {
		return nil, err
	}
	if task.IsCompleted() {
		return nil, errors.New("task is completed")
	}
	if !member.IsGuardian() && task.AssignedTo != member.ID {
		return nil, errors.New("unauthorized")
	}

	if updates.Title != nil {
		if *updates.Title == "" {
			return nil, errors.New("title must not be empty")
		}
		task.Title = *updates.Title
	}
	if updates.Description != nil {
		task.Description = *updates.Description
	}
	if updates.AssignedTo != nil {
		assignee, err := u.memberRepo.FindByID(*updates.AssignedTo)
		if err != nil {
			return nil, err
		}
		if assignee == nil || assignee.FamilyID != member.FamilyID {
			return nil, errors.New("assignee not in family")
		}
		task.AssignedTo = assignee.ID
	}
	if updates.Recurrence != nil {
		recurrence, err := parseRecurrence(updates.Recurrence)
		if err != nil {
			return nil, err
		}
		task.IsRecurring = true
		task.Recurrence = recurrence
		task.DueDate = recurrence.StartDate
	}
	if updates.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *updates.DueDate)
		if err != nil {
			return nil, errors.New("invalid due date")
		}
		task.DueDate = dueDate
		if updates.Recurrence == nil {
			task.IsRecurring = false
			task.Recurrence = nil
		}
	}
	if updates.Location != nil {
		task.ReminderLocation = &domain.Location{
			Latitude:   updates.Location.Latitude,
			Longitude:  updates.Location.Longitude,
			CapturedAt: time.Now(),
		}
	}

	if err := u.taskRepo.Update(task); err != nil {
		return nil, err
	}

	if handle := u.scheduler.Reschedule(context.Background(), task); handle == "" {
		log.Printf("[Task] No due notification booked for task %s after edit", task.ID)
	}

	return task, nil
}

func (u *taskUsecase) DeleteTask(member *famdomain.Member, taskID string) error {
	task, err := u.GetTaskByID(member, taskID)
	if err != nil {
		return err
	}
	if !member.IsGuardian() && task.CreatedBy != member.ID {
		return errors.New("unauthorized")
	}

	if err := u.taskRepo.Delete(task.ID); err != nil {
		return err
	}

	u.scheduler.Cancel(context.Background(), task.ID)
	u.coordinator.StopTracking(task.ID)
	return nil
}

func (u *taskUsecase) CompleteTask(member *famdomain.Member, taskID string) (*domain.Task, error) {
	task, err := u.GetTaskByID(member, taskID)
	if err != nil {
		return nil, err
	}
	if task.IsCompleted() {
		return nil, errors.New("task already completed")
	}
	if !member.IsGuardian() && task.AssignedTo != member.ID {
		return nil, errors.New("unauthorized")
	}

	now := time.Now()
	task.Status = domain.TaskStatusCompleted
	task.CompletedAt = &now
	task.CompletedBy = member.ID
	if err := u.taskRepo.Update(task); err != nil {
		return nil, err
	}

	// Everything past this point must not undo the completion
	u.scheduler.Cancel(context.Background(), task.ID)
	u.coordinator.StopTracking(task.ID)

	handles := u.completion.DispatchCompletion(context.Background(), task, member.ID)
	log.Printf("[Task] Task %s completed by %s, %d completion notifications booked", task.ID, member.ID, len(handles))

	return task, nil
}

func (u *taskUsecase) SnoozeTask(member *famdomain.Member, taskID string) (*domain.Task, error) {
	task, err := u.GetTaskByID(member, taskID)
	if err != nil {
		return nil, err
	}
	if task.IsCompleted() {
		return nil, errors.New("task already completed")
	}

	if err := u.taskRepo.RecordSnooze(task.ID); err != nil {
		return nil, err
	}

	task, err = u.taskRepo.FindByID(task.ID)
	if err != nil || task == nil {
		return nil, errors.New("task not found")
	}

	fireAt := time.Now().Add(u.snoozeInterval)
	if handle := u.scheduler.ScheduleSnoozed(context.Background(), task, fireAt); handle == "" {
		log.Printf("[Task] No snoozed notification booked for task %s", task.ID)
	}

	return task, nil
}

// parseRecurrence validates and converts a recurrence request. The
// bounds here keep malformed configs away from the recurrence scan's
// degraded fallback.
func parseRecurrence(req *RecurrenceRequest) (*domain.RecurrenceConfig, error) {
	if len(req.SelectedWeekdays) == 0 {
		return nil, errors.New("recurrence weekdays must not be empty")
	}
	if req.WeekFrequency < 1 || req.WeekFrequency > 52 {
		return nil, errors.New("week frequency must be between 1 and 52")
	}

	weekdays := make([]time.Weekday, 0, len(req.SelectedWeekdays))
	seen := make(map[int]bool)
	for _, d := range req.SelectedWeekdays {
		if d < 0 || d > 6 {
			return nil, errors.New("weekday must be between 0 and 6")
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		weekdays = append(weekdays, time.Weekday(d))
	}

	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return nil, errors.New("invalid recurrence start date")
	}

	return &domain.RecurrenceConfig{
		SelectedWeekdays: weekdays,
		WeekFrequency:    req.WeekFrequency,
		StartDate:        startDate,
	}, nil
}
