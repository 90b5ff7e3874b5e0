package models

import (
	"time"

	"github.com/google/uuid"
)

type EvaluationStatus string

const (
	StatusQueued     EvaluationStatus = "queued"
	StatusProcessing EvaluationStatus = "processing"
	StatusCompleted  EvaluationStatus = "completed"
	StatusFailed     EvaluationStatus = "failed"
)

type Evaluation struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobDescription string           `gorm:"type:text;not null" json:"job_description"`
	CandidateID    string           `gorm:"type:text;not null" json:"candidate_id"`
	CallID         *string          `gorm:"type:text" json:"call_id,omitempty"`
	Status         EvaluationStatus `gorm:"not null;default:'queued'" json:"status"`
	Summary        *string          `gorm:"type:text" json:"summary,omitempty"`
	Score          *float64         `gorm:"type:decimal(4,2)" json:"score,omitempty"`
	Decision       *string          `gorm:"type:text" json:"decision,omitempty"`
	Reasons        *string          `gorm:"type:text" json:"reasons,omitempty"`
	Comment        *string          `gorm:"type:text" json:"comment,omitempty"`
	// CallSummaries holds the per-call conversation summaries as serialized
	// JSON, kept for audit and memory backfills.
	CallSummaries *string   `gorm:"type:text" json:"call_summaries,omitempty"`
	ErrorStage    *string   `gorm:"type:text" json:"error_stage,omitempty"`
	ErrorMessage  *string   `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}
