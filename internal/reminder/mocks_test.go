package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	famdomain "famtask-backend/internal/family/domain"
	"famtask-backend/internal/notify"
	taskdomain "famtask-backend/internal/task/domain"
)

// Common test errors
var (
	ErrMockNotify = errors.New("mock notify error")
	ErrMockRepo   = errors.New("mock repo error")
)

// MockNotifyService implements notify.Service for testing
type MockNotifyService struct {
	mu           sync.Mutex
	nextHandle   int
	Scheduled    map[string]notify.Scheduled
	Ops          []string // operation order: "schedule" / "cancel"
	ScheduleErr  error
	FailOnCall   int // fail the Nth ScheduleAt call (0 = never)
	scheduleCall int
}

func NewMockNotifyService() *MockNotifyService {
	return &MockNotifyService{Scheduled: make(map[string]notify.Scheduled)}
}

func (m *MockNotifyService) ScheduleAt(ctx context.Context, fireAt time.Time, payload notify.Payload) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.scheduleCall++
	m.Ops = append(m.Ops, "schedule")

	if m.ScheduleErr != nil {
		return "", m.ScheduleErr
	}
	if m.FailOnCall > 0 && m.scheduleCall == m.FailOnCall {
		return "", ErrMockNotify
	}

	m.nextHandle++
	handle := fmt.Sprintf("handle-%d", m.nextHandle)
	m.Scheduled[handle] = notify.Scheduled{Handle: handle, FireAt: fireAt, Payload: payload}
	return handle, nil
}

func (m *MockNotifyService) Cancel(ctx context.Context, handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Ops = append(m.Ops, "cancel")
	delete(m.Scheduled, handle)
	return nil
}

func (m *MockNotifyService) ListByTask(ctx context.Context, taskID string) ([]notify.Scheduled, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []notify.Scheduled
	for _, s := range m.Scheduled {
		if s.Payload.TaskID == taskID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockNotifyService) ListScheduled(ctx context.Context) ([]notify.Scheduled, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []notify.Scheduled
	for _, s := range m.Scheduled {
		out = append(out, s)
	}
	return out, nil
}

// MockTaskRepository implements the task repository for testing
type MockTaskRepository struct {
	mu    sync.Mutex
	Tasks map[string]*taskdomain.Task
}

func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{Tasks: make(map[string]*taskdomain.Task)}
}

func (m *MockTaskRepository) Create(task *taskdomain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks[task.ID] = task
	return nil
}

func (m *MockTaskRepository) FindByID(id string) (*taskdomain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Tasks[id], nil
}

func (m *MockTaskRepository) FindByFamilyID(familyID string, status *taskdomain.TaskStatus, limit, offset int) ([]*taskdomain.Task, int64, error) {
	return nil, 0, nil
}

func (m *MockTaskRepository) FindPendingRecurring() ([]*taskdomain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*taskdomain.Task
	for _, t := range m.Tasks {
		if t.IsRecurring && t.Status == taskdomain.TaskStatusPending {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MockTaskRepository) Update(task *taskdomain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks[task.ID] = task
	return nil
}

func (m *MockTaskRepository) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Tasks, id)
	return nil
}

func (m *MockTaskRepository) IncrementGeneration(id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.Tasks[id]
	if !ok {
		return 0, ErrMockRepo
	}
	task.SchedulingGeneration++
	return task.SchedulingGeneration, nil
}

func (m *MockTaskRepository) RecordSnooze(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.Tasks[id]
	if !ok {
		return ErrMockRepo
	}
	now := time.Now()
	task.SnoozeCount++
	task.LastSnoozedAt = &now
	return nil
}

// MockMemberRepository implements the member repository for testing
type MockMemberRepository struct {
	mu      sync.Mutex
	Members map[string]*famdomain.Member
}

func NewMockMemberRepository(members ...*famdomain.Member) *MockMemberRepository {
	repo := &MockMemberRepository{Members: make(map[string]*famdomain.Member)}
	for _, m := range members {
		repo.Members[m.ID] = m
	}
	return repo
}

func (m *MockMemberRepository) Create(member *famdomain.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Members[member.ID] = member
	return nil
}

func (m *MockMemberRepository) FindByID(id string) (*famdomain.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Members[id], nil
}

func (m *MockMemberRepository) FindByEmail(email string) (*famdomain.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, member := range m.Members {
		if member.Email == email {
			return member, nil
		}
	}
	return nil, nil
}

func (m *MockMemberRepository) FindByFamilyID(familyID string) ([]*famdomain.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*famdomain.Member
	for _, member := range m.Members {
		if member.FamilyID == familyID {
			out = append(out, member)
		}
	}
	return out, nil
}

func (m *MockMemberRepository) FindGuardiansByFamilyID(familyID string) ([]*famdomain.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*famdomain.Member
	for _, member := range m.Members {
		if member.FamilyID == familyID && member.Role == famdomain.RoleGuardian {
			out = append(out, member)
		}
	}
	return out, nil
}

func (m *MockMemberRepository) Update(member *famdomain.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Members[member.ID] = member
	return nil
}

func (m *MockMemberRepository) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Members, id)
	return nil
}
