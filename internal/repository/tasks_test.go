package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docufield/docufield/constants"
	"github.com/docufield/docufield/internal/entity"
)

var taskFields = []entity.ExtractionField{
	{ID: "f1", Name: "Invoice Number"},
}

func newTaskRepo() *TaskRepository {
	return NewTaskRepository(NewMemoryStore())
}

func TestCreateAndGetTask(t *testing.T) {
	repo := newTaskRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, "invoice.pdf", "ZmFrZQ==", taskFields)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, constants.TaskStatusPending, created.Status)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "invoice.pdf", got.FileName)
	assert.Equal(t, taskFields, got.Fields)
	assert.Empty(t, got.Results)
}

func TestGetUnknownTask(t *testing.T) {
	repo := newTaskRepo()
	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	repo := newTaskRepo()
	ctx := context.Background()

	first, err := repo.Create(ctx, "a.pdf", "ZmFrZQ==", taskFields)
	require.NoError(t, err)
	second, err := repo.Create(ctx, "b.pdf", "ZmFrZQ==", taskFields)
	require.NoError(t, err)

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, second.ID, tasks[0].ID)
	assert.Equal(t, first.ID, tasks[1].ID)
}

func TestDeleteTask(t *testing.T) {
	repo := newTaskRepo()
	ctx := context.Background()

	task, err := repo.Create(ctx, "a.pdf", "ZmFrZQ==", taskFields)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, task.ID))
	_, err = repo.Get(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, task.ID), ErrNotFound)
}

func TestUpdateStatusLifecycle(t *testing.T) {
	repo := newTaskRepo()
	ctx := context.Background()

	task, err := repo.Create(ctx, "a.pdf", "ZmFrZQ==", taskFields)
	require.NoError(t, err)

	_, err = repo.UpdateStatus(ctx, task.ID, constants.TaskStatusProcessing, nil)
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, task.ID, constants.TaskStatusExtraction, nil)
	require.NoError(t, err)

	results := []entity.ExtractionResult{{FieldID: "f1", Value: "INV-2024-001"}}
	updated, err := repo.UpdateStatus(ctx, task.ID, constants.TaskStatusCompleted, results)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusCompleted, updated.Status)
	assert.Equal(t, results, updated.Results)

	got, err := repo.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, results, got.Results)
}

func TestUpdateStatusRejectsSkips(t *testing.T) {
	repo := newTaskRepo()
	ctx := context.Background()

	task, err := repo.Create(ctx, "a.pdf", "ZmFrZQ==", taskFields)
	require.NoError(t, err)

	// pending cannot jump straight to completed
	_, err = repo.UpdateStatus(ctx, task.ID, constants.TaskStatusCompleted, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// terminal states are final
	_, err = repo.UpdateStatus(ctx, task.ID, constants.TaskStatusProcessing, nil)
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, task.ID, constants.TaskStatusFailed, nil)
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, task.ID, constants.TaskStatusProcessing, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusNilResultsPreservesExisting(t *testing.T) {
	repo := newTaskRepo()
	ctx := context.Background()

	task, err := repo.Create(ctx, "a.pdf", "ZmFrZQ==", taskFields)
	require.NoError(t, err)

	_, err = repo.UpdateStatus(ctx, task.ID, constants.TaskStatusProcessing, nil)
	require.NoError(t, err)
	results := []entity.ExtractionResult{{FieldID: "f1", Value: "v"}}
	_, err = repo.UpdateStatus(ctx, task.ID, constants.TaskStatusExtraction, results)
	require.NoError(t, err)

	updated, err := repo.UpdateStatus(ctx, task.ID, constants.TaskStatusCompleted, nil)
	require.NoError(t, err)
	assert.Equal(t, results, updated.Results)
}

func TestUpdateStatusUnknownTask(t *testing.T) {
	repo := newTaskRepo()
	_, err := repo.UpdateStatus(context.Background(), uuid.New(), constants.TaskStatusProcessing, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
