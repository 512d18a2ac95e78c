package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"legalassist/assistant"
)

// ErrTaskNotFound is returned when a task ID is unknown or already expired.
var ErrTaskNotFound = errors.New("task not found")

// TaskStatus is the lifecycle state of one dispatched query run.
type TaskStatus string

const (
	TaskProcessing TaskStatus = "processing"
	TaskCompleted  TaskStatus = "completed"
	TaskError      TaskStatus = "error"
)

// Task tracks one asynchronous query run.
type Task struct {
	ID        string            `json:"task_id"`
	Status    TaskStatus        `json:"status"`
	Result    *assistant.Result `json:"response,omitempty"`
	Error     string            `json:"error,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// TaskStore persists task state between dispatch and polling. Implementations
// must expire tasks after the configured retention period.
type TaskStore interface {
	Put(ctx context.Context, task *Task) error
	Get(ctx context.Context, id string) (*Task, error)
}

// MemoryTaskStore keeps tasks in a map and sweeps out expired entries
// periodically. Safe for concurrent use.
type MemoryTaskStore struct {
	retention time.Duration
	mu        sync.RWMutex
	tasks     map[string]*Task
}

// NewMemoryTaskStore creates an in-memory task store with the given retention.
func NewMemoryTaskStore(retention time.Duration) *MemoryTaskStore {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &MemoryTaskStore{
		retention: retention,
		tasks:     make(map[string]*Task),
	}
}

// Put stores or replaces a task.
func (s *MemoryTaskStore) Put(ctx context.Context, task *Task) error {
	if task == nil || task.ID == "" {
		return fmt.Errorf("task must have an ID")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
	return nil
}

// Get retrieves a task by ID. Expired tasks read as missing even before the
// sweeper has removed them.
func (s *MemoryTaskStore) Get(ctx context.Context, id string) (*Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok || time.Since(task.CreatedAt) > s.retention {
		return nil, fmt.Errorf("task %s: %w", id, ErrTaskNotFound)
	}
	return task, nil
}

// Sweep removes tasks created before the cutoff and returns how many it
// removed.
func (s *MemoryTaskStore) Sweep(now time.Time) int {
	cutoff := now.Add(-s.retention)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, task := range s.tasks {
		if task.CreatedAt.Before(cutoff) {
			delete(s.tasks, id)
			removed++
		}
	}
	return removed
}

// StartSweeper sweeps at the given interval until ctx is cancelled.
func (s *MemoryTaskStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.Sweep(now)
			}
		}
	}()
}

// Count returns the number of stored tasks.
func (s *MemoryTaskStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}
