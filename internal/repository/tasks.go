package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docufield/docufield/constants"
	"github.com/docufield/docufield/internal/entity"
)

const tasksKey = "docufield-tasks"

// ErrInvalidTransition is returned when an update would move a task backwards
// or skip a lifecycle stage.
var ErrInvalidTransition = errors.New("invalid status transition")

// TaskRepository persists the task collection as a single JSON document under
// one key. Every mutation re-reads the collection under the write lock, so
// concurrent writers never clobber each other's updates. A per-task mutex
// additionally serializes status updates for the same task.
type TaskRepository struct {
	store Store

	mu      sync.Mutex
	taskMu  map[uuid.UUID]*sync.Mutex
	taskMuG sync.Mutex
}

func NewTaskRepository(store Store) *TaskRepository {
	return &TaskRepository{
		store:  store,
		taskMu: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (r *TaskRepository) lockTask(id uuid.UUID) *sync.Mutex {
	r.taskMuG.Lock()
	m, ok := r.taskMu[id]
	if !ok {
		m = &sync.Mutex{}
		r.taskMu[id] = m
	}
	r.taskMuG.Unlock()
	return m
}

func (r *TaskRepository) load(ctx context.Context) ([]entity.Task, error) {
	raw, err := r.store.Get(ctx, tasksKey)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []entity.Task{}, nil
	}
	var tasks []entity.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, fmt.Errorf("decode task collection: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) save(ctx context.Context, tasks []entity.Task) error {
	raw, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode task collection: %w", err)
	}
	return r.store.Put(ctx, tasksKey, raw)
}

// Create stores a new pending task and returns it with identity and timestamp
// assigned.
func (r *TaskRepository) Create(ctx context.Context, fileName, fileData string, fields []entity.ExtractionField) (*entity.Task, error) {
	task := entity.Task{
		ID:        uuid.New(),
		FileName:  fileName,
		FileData:  fileData,
		Fields:    fields,
		Status:    constants.TaskStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	tasks, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	tasks = append(tasks, task)
	if err := r.save(ctx, tasks); err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns every stored task, newest first.
func (r *TaskRepository) List(ctx context.Context) ([]entity.Task, error) {
	tasks, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	// Stored in insertion order; reverse for newest first.
	for i, j := 0, len(tasks)-1; i < j; i, j = i+1, j-1 {
		tasks[i], tasks[j] = tasks[j], tasks[i]
	}
	return tasks, nil
}

// Get returns the task with the given id, or ErrNotFound.
func (r *TaskRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	tasks, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			t := tasks[i]
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

// Delete removes a task. Deleting an unknown id returns ErrNotFound.
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			tasks = append(tasks[:i], tasks[i+1:]...)
			return r.save(ctx, tasks)
		}
	}
	return ErrNotFound
}

// UpdateStatus advances a task's status and optionally attaches results. A nil
// results slice preserves any results already stored; passing results while
// moving to a terminal status stores them. The collection is re-read under the
// lock before mutating so a stale caller can never roll back a newer write.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status constants.TaskStatus, results []entity.ExtractionResult) (*entity.Task, error) {
	tm := r.lockTask(id)
	tm.Lock()
	defer tm.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	tasks, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		if !tasks[i].Status.CanTransition(status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, tasks[i].Status, status)
		}
		tasks[i].Status = status
		if results != nil {
			tasks[i].Results = results
		}
		if err := r.save(ctx, tasks); err != nil {
			return nil, err
		}
		t := tasks[i]
		return &t, nil
	}
	return nil, ErrNotFound
}
