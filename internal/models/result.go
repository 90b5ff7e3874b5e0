package models

type AnalyzeRequest struct {
	JobDescription string `json:"job_description" validate:"required"`
	CandidateID    string `json:"candidate_id" validate:"required"`
	CallID         string `json:"call_id,omitempty"`
}

type EvaluateRequest struct {
	JobDescription string `json:"job_description" validate:"required"`
	CandidateID    string `json:"candidate_id" validate:"required"`
	CallID         string `json:"call_id,omitempty"`
}

type EvaluateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID            string            `json:"id"`
	Status        string            `json:"status"`
	Verdict       *Verdict          `json:"verdict,omitempty"`
	CallSummaries map[string]string `json:"call_summaries,omitempty"`
	ErrorStage    *string           `json:"error_stage,omitempty"`
	ErrorMessage  *string           `json:"error_message,omitempty"`
}

type SearchMatch struct {
	EvaluationID string  `json:"evaluation_id"`
	Score        float32 `json:"score"`
	Text         string  `json:"text"`
}

type SearchResponse struct {
	Query   string        `json:"query"`
	Matches []SearchMatch `json:"matches"`
}
