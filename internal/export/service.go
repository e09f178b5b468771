// Package export renders a completed task's results as CSV or XLSX bytes.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/docufield/docufield/constants"
	"github.com/docufield/docufield/internal/entity"
	"github.com/docufield/docufield/internal/repository"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a query-string value to a Format; empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type to serve the format with.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// ErrNotExportable is returned for tasks without a completed result set.
var ErrNotExportable = fmt.Errorf("task has no results to export")

// Service produces export bytes for completed tasks.
type Service struct {
	tasks  *repository.TaskRepository
	logger *slog.Logger
}

func NewService(tasks *repository.TaskRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{tasks: tasks, logger: logger}
}

// ExportTask renders the task's results in the given format and returns the
// bytes plus a suggested file name.
func (s *Service) ExportTask(ctx context.Context, id uuid.UUID, format Format) ([]byte, string, error) {
	start := time.Now()

	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if task.Status != constants.TaskStatusCompleted || len(task.Results) == 0 {
		return nil, "", ErrNotExportable
	}

	var out []byte
	switch format {
	case FormatXLSX:
		out, err = renderXLSX(task)
	default:
		out = renderCSV(task)
	}
	if err != nil {
		return nil, "", err
	}

	name := exportFileName(task.FileName, format)
	s.logger.Info("export.ok",
		"task_id", id.String(),
		"format", string(format),
		"rows", len(task.Results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, name, nil
}

// renderCSV writes a two-column table. Cells are quoted only when they contain
// a comma, quote, or newline; embedded quotes are doubled.
func renderCSV(task *entity.Task) []byte {
	var b strings.Builder
	b.WriteString("Field,Value\r\n")
	for _, res := range task.Results {
		name := res.FieldID
		if f := task.FieldByID(res.FieldID); f != nil {
			name = f.Name
		}
		b.WriteString(csvCell(name))
		b.WriteString(",")
		b.WriteString(csvCell(res.Value))
		b.WriteString("\r\n")
	}
	return []byte(b.String())
}

func csvCell(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func renderXLSX(task *entity.Task) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Results"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Field", "Value"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, res := range task.Results {
		name := res.FieldID
		if fld := task.FieldByID(res.FieldID); fld != nil {
			name = fld.Name
		}
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, name)
		write(2, res.Value)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 28)
	_ = f.SetColWidth(sheet, "B", "B", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func exportFileName(source string, format Format) string {
	base := strings.TrimSuffix(source, ".pdf")
	if base == "" {
		base = "results"
	}
	return fmt.Sprintf("%s-results.%s", base, string(format))
}
