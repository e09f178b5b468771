package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/docufield/docufield/constants"
)

// ExtractionField is a named, described unit of data the user wants extracted.
// Immutable once created; identity is the opaque ID.
type ExtractionField struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ExtractionResult carries the extracted value for one field. Value is either
// extracted text or one of the constants sentinels.
type ExtractionResult struct {
	FieldID string `json:"fieldId"`
	Value   string `json:"value"`
}

// Task is one user-initiated PDF-to-fields extraction job.
// FileData is the base64-encoded PDF blob and is immutable after creation.
// Results, when present, has exactly one entry per field, matched by FieldID.
type Task struct {
	ID        uuid.UUID            `json:"id"`
	FileName  string               `json:"fileName"`
	FileData  string               `json:"fileData"`
	Fields    []ExtractionField    `json:"fields"`
	Status    constants.TaskStatus `json:"status"`
	Results   []ExtractionResult   `json:"results,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
}

// FieldByID returns the field with the given id, or nil.
func (t *Task) FieldByID(id string) *ExtractionField {
	for i := range t.Fields {
		if t.Fields[i].ID == id {
			return &t.Fields[i]
		}
	}
	return nil
}
