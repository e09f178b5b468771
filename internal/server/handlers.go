package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/docufield/docufield/internal/entity"
	"github.com/docufield/docufield/internal/export"
	"github.com/docufield/docufield/internal/repository"
)

const maxBodyBytes = 32 << 20 // base64 PDFs are large

type handlers struct {
	deps   Deps
	logger *slog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("http.write_failed", "error", err)
	}
}

func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.logger.Warn("http.request_failed",
		"req_id", middleware.GetReqID(r.Context()),
		"path", r.URL.Path,
		"status", status,
		"error", msg,
	)
	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	if h.deps.Health != nil {
		if err := h.deps.Health(r.Context()); err != nil {
			h.writeError(w, r, http.StatusServiceUnavailable, "store unavailable")
			return
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parsePDF is the synchronous text-extraction endpoint.
func (h *handlers) parsePDF(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PDFData string `json:"pdfData"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.PDFData) == "" {
		h.writeError(w, r, http.StatusBadRequest, "pdfData is required")
		return
	}
	text, err := h.deps.Text.Extract(r.Context(), req.PDFData)
	if err != nil {
		h.writeError(w, r, http.StatusUnprocessableEntity, fmt.Sprintf("failed to parse PDF: %v", err))
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// extractData runs field extraction over already-parsed text.
func (h *handlers) extractData(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PDFText string                   `json:"pdfText"`
		Fields  []entity.ExtractionField `json:"fields"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if req.PDFText == "" {
		h.writeError(w, r, http.StatusBadRequest, "pdfText is required")
		return
	}
	if err := validateFields(req.Fields); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	results, err := h.deps.Fields.ExtractFields(r.Context(), req.PDFText, req.Fields)
	if err != nil {
		h.writeError(w, r, http.StatusBadGateway, fmt.Sprintf("extraction failed: %v", err))
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (h *handlers) createTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileName string                   `json:"fileName"`
		FileData string                   `json:"fileData"`
		Fields   []entity.ExtractionField `json:"fields"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.FileData) == "" {
		h.writeError(w, r, http.StatusBadRequest, "fileData is required")
		return
	}
	if err := validateFields(req.Fields); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.FileName == "" {
		req.FileName = "document.pdf"
	}

	task, err := h.deps.Tasks.Create(r.Context(), req.FileName, req.FileData, req.Fields)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "failed to create task")
		return
	}

	h.deps.Pipeline.StartAsync(task.ID)
	h.writeJSON(w, http.StatusCreated, task)
}

func (h *handlers) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.deps.Tasks.List(r.Context())
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	h.writeJSON(w, http.StatusOK, tasks)
}

func (h *handlers) taskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid task id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *handlers) getTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}
	task, err := h.deps.Tasks.Get(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.writeError(w, r, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "failed to load task")
		return
	}
	h.writeJSON(w, http.StatusOK, task)
}

func (h *handlers) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}
	err := h.deps.Tasks.Delete(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.writeError(w, r, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "failed to delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) exportTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	data, name, err := h.deps.Export.ExportTask(r.Context(), id, format)
	if errors.Is(err, repository.ErrNotFound) {
		h.writeError(w, r, http.StatusNotFound, "task not found")
		return
	}
	if errors.Is(err, export.ErrNotExportable) {
		h.writeError(w, r, http.StatusConflict, "task has no results to export")
		return
	}
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("http.write_failed", "error", err)
	}
}

func (h *handlers) listTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.deps.Templates.List(r.Context())
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "failed to list templates")
		return
	}
	h.writeJSON(w, http.StatusOK, templates)
}

func (h *handlers) saveTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl entity.Template
	if !h.decode(w, r, &tpl) {
		return
	}
	if strings.TrimSpace(tpl.Name) == "" {
		h.writeError(w, r, http.StatusBadRequest, "template name is required")
		return
	}
	if err := validateFields(tpl.Fields); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.deps.Templates.Save(r.Context(), tpl); err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "failed to save template")
		return
	}
	h.writeJSON(w, http.StatusOK, tpl)
}

func (h *handlers) getTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	tpl, err := h.deps.Templates.Get(r.Context(), name)
	if errors.Is(err, repository.ErrNotFound) {
		h.writeError(w, r, http.StatusNotFound, "template not found")
		return
	}
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "failed to load template")
		return
	}
	h.writeJSON(w, http.StatusOK, tpl)
}

func (h *handlers) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	err := h.deps.Templates.Delete(r.Context(), name)
	if errors.Is(err, repository.ErrNotFound) {
		h.writeError(w, r, http.StatusNotFound, "template not found")
		return
	}
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "failed to delete template")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateFields(fields []entity.ExtractionField) error {
	if len(fields) == 0 {
		return errors.New("at least one field is required")
	}
	seen := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		if strings.TrimSpace(f.ID) == "" {
			return fmt.Errorf("field %d: id is required", i)
		}
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("field %q: name is required", f.ID)
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("duplicate field id %q", f.ID)
		}
		seen[f.ID] = struct{}{}
	}
	return nil
}
