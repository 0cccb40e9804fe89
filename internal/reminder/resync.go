package reminder

import (
	"context"
	"log"
	"time"

	taskrepo "famtask-backend/internal/task/repository"

	"github.com/robfig/cron/v3"
)

// ResyncJob re-books every pending recurring task on a cron schedule so
// stored fire times keep following the cadence across restarts and
// across occurrences that already fired.
type ResyncJob struct {
	cron      *cron.Cron
	taskRepo  taskrepo.TaskRepository
	scheduler *Scheduler
}

// NewResyncJob registers the resync run under the given cron spec
// (six-field, with seconds)
func NewResyncJob(spec string, taskRepo taskrepo.TaskRepository, scheduler *Scheduler) (*ResyncJob, error) {
	job := &ResyncJob{
		cron:      cron.New(cron.WithSeconds()),
		taskRepo:  taskRepo,
		scheduler: scheduler,
	}
	if _, err := job.cron.AddFunc(spec, job.run); err != nil {
		return nil, err
	}
	return job, nil
}

// Start begins the cron loop
func (j *ResyncJob) Start() {
	j.cron.Start()
}

// Stop waits for a running resync to finish before returning
func (j *ResyncJob) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

func (j *ResyncJob) run() {
	tasks, err := j.taskRepo.FindPendingRecurring()
	if err != nil {
		log.Printf("[Resync] Failed to list recurring tasks: %v", err)
		return
	}

	if len(tasks) == 0 {
		return
	}

	log.Printf("[Resync] Rebooking %d recurring tasks", len(tasks))

	ctx := context.Background()
	for _, task := range tasks {
		if handle := j.scheduler.Reschedule(ctx, task); handle != "" {
			if task.Recurrence != nil {
				task.Recurrence.LastGeneratedAt = time.Now()
				if err := j.taskRepo.Update(task); err != nil {
					log.Printf("[Resync] Failed to stamp task %s: %v", task.ID, err)
				}
			}
		}
	}
}
