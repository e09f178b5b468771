// Package pipeline drives a task through its lifecycle: text acquisition,
// field extraction, normalization, and the final terminal status write.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/docufield/docufield/constants"
	"github.com/docufield/docufield/internal/entity"
	"github.com/docufield/docufield/internal/extract"
	"github.com/docufield/docufield/internal/normalize"
	"github.com/docufield/docufield/internal/observability/metrics"
	"github.com/docufield/docufield/internal/repository"
)

// ErrNoText marks a run that parsed the PDF but found nothing to extract from.
var ErrNoText = errors.New("no text could be extracted from the document")

// ErrNoResults marks an extraction stage that produced no results at all.
var ErrNoResults = errors.New("extraction produced no results")

// TaskPipeline runs tasks. A run always ends with the task in a terminal
// status; duplicate runs of the same task are serialized by the repository's
// per-task lock, and the loser of the race fails its transition instead of
// overwriting the winner's result.
type TaskPipeline struct {
	tasks     *repository.TaskRepository
	text      extract.TextExtractor
	fields    extract.FieldExtractor
	logger    *slog.Logger
	metrics   *metrics.PipelineMetrics
	runBudget time.Duration
}

func New(tasks *repository.TaskRepository, text extract.TextExtractor, fields extract.FieldExtractor, logger *slog.Logger, m *metrics.PipelineMetrics) *TaskPipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskPipeline{
		tasks:     tasks,
		text:      text,
		fields:    fields,
		logger:    logger,
		metrics:   m,
		runBudget: 5 * time.Minute,
	}
}

// StartAsync launches Run in a goroutine, detached from the caller's context
// so an HTTP disconnect cannot abandon a half-finished task.
func (p *TaskPipeline) StartAsync(id uuid.UUID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.runBudget)
		defer cancel()
		if err := p.Run(ctx, id); err != nil {
			p.logger.Error("pipeline.run_failed", "task_id", id, "error", err)
		}
	}()
}

// Run executes the full lifecycle for one task. Every exit path leaves the
// task in a terminal status unless a concurrent run already claimed it.
func (p *TaskPipeline) Run(ctx context.Context, id uuid.UUID) (err error) {
	start := time.Now()
	p.metrics.StartTask()

	task, terr := p.tasks.UpdateStatus(ctx, id, constants.TaskStatusProcessing, nil)
	if terr != nil {
		p.metrics.FinishTask(string(constants.TaskStatusFailed))
		return fmt.Errorf("claim task: %w", terr)
	}

	log := p.logger.With("task_id", id, "file", task.FileName)
	log.Info("pipeline.start", "fields", len(task.Fields))

	defer func() {
		status := constants.TaskStatusCompleted
		if err != nil {
			status = constants.TaskStatusFailed
			p.fail(id, log)
		}
		p.metrics.FinishTask(string(status))
		log.Info("pipeline.done",
			"status", string(status),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}()

	text, err := p.extractText(ctx, log, task.FileData)
	if err != nil {
		return err
	}

	if _, terr := p.tasks.UpdateStatus(ctx, id, constants.TaskStatusExtraction, nil); terr != nil {
		err = fmt.Errorf("advance to extraction: %w", terr)
		return err
	}

	results, err := p.extractFields(ctx, log, text, task.Fields)
	if err != nil {
		return err
	}

	results = normalize.Results(results)

	if _, terr := p.tasks.UpdateStatus(ctx, id, constants.TaskStatusCompleted, results); terr != nil {
		err = fmt.Errorf("complete task: %w", terr)
		return err
	}
	return nil
}

func (p *TaskPipeline) extractText(ctx context.Context, log *slog.Logger, fileData string) (string, error) {
	stageStart := time.Now()
	text, err := p.text.Extract(ctx, fileData)
	p.metrics.ObserveStage("text", time.Since(stageStart))
	if err != nil {
		return "", fmt.Errorf("text extraction: %w", err)
	}
	if text == "" || text == constants.NoTextPlaceholder {
		return "", ErrNoText
	}
	log.Info("pipeline.text_ready", "text_len", len(text))
	return text, nil
}

func (p *TaskPipeline) extractFields(ctx context.Context, log *slog.Logger, text string, fields []entity.ExtractionField) ([]entity.ExtractionResult, error) {
	stageStart := time.Now()
	results, err := p.fields.ExtractFields(ctx, text, fields)
	p.metrics.ObserveStage("extract", time.Since(stageStart))
	if err != nil {
		return nil, fmt.Errorf("field extraction: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	log.Info("pipeline.fields_ready", "results", len(results))
	return results, nil
}

// fail moves the task to failed on a best-effort basis. The write can lose to
// a concurrent run that already reached a terminal status; that is logged and
// swallowed because the run's own error is the one worth surfacing.
func (p *TaskPipeline) fail(id uuid.UUID, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := p.tasks.UpdateStatus(ctx, id, constants.TaskStatusFailed, nil); err != nil {
		log.Warn("pipeline.fail_write_lost", "error", err)
	}
}
