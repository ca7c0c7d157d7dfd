package dto

import (
	"github.com/google/uuid"
)

const (
	ExportActionWrite  = "write"
	ExportActionRemove = "remove"
)

// ExportJobMessage is the payload carried on the export topic. Remove jobs
// name the handle because the document may already be gone.
type ExportJobMessage struct {
	Action     string    `json:"action"`
	DocumentId uuid.UUID `json:"document_id"`
	Handle     string    `json:"handle,omitempty"`
}

type ExportFailure struct {
	DocumentId uuid.UUID `json:"document_id"`
	Handle     string    `json:"handle"`
	Error      string    `json:"error"`
}

// ExportReport summarises one export run.
type ExportReport struct {
	Root      string          `json:"root"`
	IndexPath string          `json:"index_path"`
	Written   []string        `json:"written"`
	Failed    []ExportFailure `json:"failed"`
	ElapsedMs int64           `json:"elapsed_ms"`
}

func (r *ExportReport) OK() bool {
	return len(r.Failed) == 0
}
