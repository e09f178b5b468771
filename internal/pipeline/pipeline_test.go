package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docufield/docufield/constants"
	"github.com/docufield/docufield/internal/entity"
	"github.com/docufield/docufield/internal/repository"
)

type fakeTextExtractor struct {
	text string
	err  error
}

func (f *fakeTextExtractor) Extract(_ context.Context, _ string) (string, error) {
	return f.text, f.err
}

type fakeFieldExtractor struct {
	results []entity.ExtractionResult
	err     error
}

func (f *fakeFieldExtractor) ExtractFields(_ context.Context, _ string, _ []entity.ExtractionField) ([]entity.ExtractionResult, error) {
	return f.results, f.err
}

// recordingStore wraps the memory store and records the status of the tracked
// task after every write, so tests can assert the full lifecycle sequence.
type recordingStore struct {
	*repository.MemoryStore
	statuses []constants.TaskStatus
}

func (r *recordingStore) Put(ctx context.Context, key string, value []byte) error {
	if err := r.MemoryStore.Put(ctx, key, value); err != nil {
		return err
	}
	var tasks []entity.Task
	if json.Unmarshal(value, &tasks) == nil && len(tasks) > 0 {
		r.statuses = append(r.statuses, tasks[0].Status)
	}
	return nil
}

var pipelineFields = []entity.ExtractionField{
	{ID: "f1", Name: "Invoice Number"},
	{ID: "f2", Name: "Total Amount"},
}

func newPipeline(store repository.Store, text *fakeTextExtractor, fields *fakeFieldExtractor) (*TaskPipeline, *repository.TaskRepository) {
	tasks := repository.NewTaskRepository(store)
	return New(tasks, text, fields, nil, nil), tasks
}

func TestRunCompletesThroughAllStages(t *testing.T) {
	store := &recordingStore{MemoryStore: repository.NewMemoryStore()}
	results := []entity.ExtractionResult{
		{FieldID: "f1", Value: "INV-2024-001"},
		{FieldID: "f2", Value: "1,234.56"},
	}
	pipe, tasks := newPipeline(store,
		&fakeTextExtractor{text: "Invoice Number: INV-2024-001"},
		&fakeFieldExtractor{results: results},
	)

	task, err := tasks.Create(context.Background(), "invoice.pdf", "ZmFrZQ==", pipelineFields)
	require.NoError(t, err)

	require.NoError(t, pipe.Run(context.Background(), task.ID))

	got, err := tasks.Get(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusCompleted, got.Status)
	require.Len(t, got.Results, len(pipelineFields))
	assert.Equal(t, "INV-2024-001", got.Results[0].Value)

	// extraction is never skipped
	assert.Equal(t, []constants.TaskStatus{
		constants.TaskStatusPending,
		constants.TaskStatusProcessing,
		constants.TaskStatusExtraction,
		constants.TaskStatusCompleted,
	}, store.statuses)
}

func TestRunNormalizesResults(t *testing.T) {
	store := repository.NewMemoryStore()
	pipe, tasks := newPipeline(store,
		&fakeTextExtractor{text: "body"},
		&fakeFieldExtractor{results: []entity.ExtractionResult{
			{FieldID: "f1", Value: "I N V - 2 0 2 4"},
			{FieldID: "f2", Value: "normal value"},
		}},
	)

	task, err := tasks.Create(context.Background(), "a.pdf", "ZmFrZQ==", pipelineFields)
	require.NoError(t, err)
	require.NoError(t, pipe.Run(context.Background(), task.ID))

	got, err := tasks.Get(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2024", got.Results[0].Value)
	assert.Equal(t, "normal value", got.Results[1].Value)
}

func TestRunFailsOnTextError(t *testing.T) {
	store := repository.NewMemoryStore()
	pipe, tasks := newPipeline(store,
		&fakeTextExtractor{err: errors.New("corrupt pdf")},
		&fakeFieldExtractor{},
	)

	task, err := tasks.Create(context.Background(), "a.pdf", "ZmFrZQ==", pipelineFields)
	require.NoError(t, err)

	err = pipe.Run(context.Background(), task.ID)
	require.Error(t, err)

	got, gerr := tasks.Get(context.Background(), task.ID)
	require.NoError(t, gerr)
	assert.Equal(t, constants.TaskStatusFailed, got.Status)
	assert.Empty(t, got.Results)
}

func TestRunFailsWhenNoTextExtracted(t *testing.T) {
	// both the explicit placeholder and a bare empty string mean no text
	for _, text := range []string{constants.NoTextPlaceholder, ""} {
		store := repository.NewMemoryStore()
		pipe, tasks := newPipeline(store,
			&fakeTextExtractor{text: text},
			&fakeFieldExtractor{},
		)

		task, err := tasks.Create(context.Background(), "a.pdf", "ZmFrZQ==", pipelineFields)
		require.NoError(t, err)

		err = pipe.Run(context.Background(), task.ID)
		assert.ErrorIs(t, err, ErrNoText, "text %q", text)

		got, gerr := tasks.Get(context.Background(), task.ID)
		require.NoError(t, gerr)
		assert.Equal(t, constants.TaskStatusFailed, got.Status, "text %q", text)
	}
}

func TestRunFailsOnExtractionError(t *testing.T) {
	store := repository.NewMemoryStore()
	pipe, tasks := newPipeline(store,
		&fakeTextExtractor{text: "body"},
		&fakeFieldExtractor{err: errors.New("both paths down")},
	)

	task, err := tasks.Create(context.Background(), "a.pdf", "ZmFrZQ==", pipelineFields)
	require.NoError(t, err)

	require.Error(t, pipe.Run(context.Background(), task.ID))

	got, gerr := tasks.Get(context.Background(), task.ID)
	require.NoError(t, gerr)
	assert.Equal(t, constants.TaskStatusFailed, got.Status)
}

func TestRunFailsOnEmptyResultSet(t *testing.T) {
	store := repository.NewMemoryStore()
	pipe, tasks := newPipeline(store,
		&fakeTextExtractor{text: "body"},
		&fakeFieldExtractor{results: []entity.ExtractionResult{}},
	)

	task, err := tasks.Create(context.Background(), "a.pdf", "ZmFrZQ==", pipelineFields)
	require.NoError(t, err)

	err = pipe.Run(context.Background(), task.ID)
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestRunSecondClaimLoses(t *testing.T) {
	store := repository.NewMemoryStore()
	pipe, tasks := newPipeline(store,
		&fakeTextExtractor{text: "body"},
		&fakeFieldExtractor{results: []entity.ExtractionResult{{FieldID: "f1", Value: "v"}}},
	)

	task, err := tasks.Create(context.Background(), "a.pdf", "ZmFrZQ==", pipelineFields)
	require.NoError(t, err)
	require.NoError(t, pipe.Run(context.Background(), task.ID))

	// the task is terminal; a duplicate run cannot re-claim it
	err = pipe.Run(context.Background(), task.ID)
	require.Error(t, err)

	got, gerr := tasks.Get(context.Background(), task.ID)
	require.NoError(t, gerr)
	assert.Equal(t, constants.TaskStatusCompleted, got.Status)
}
