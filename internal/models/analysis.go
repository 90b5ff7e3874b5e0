package models

// Stage identifies one step of the candidate-analysis pipeline. Every
// failure is tagged with the stage that produced it.
type Stage string

const (
	StageResume        Stage = "resume"
	StageNotes         Stage = "notes"
	StageTranscript    Stage = "transcript"
	StageSummarization Stage = "summarization"
	StageCompletion    Stage = "completion"
	StageParsing       Stage = "parsing"
)

// StageFailure is the uniform failure payload passed between pipeline
// stages. Stages return either a success value or a StageFailure; nothing
// panics across a stage boundary.
type StageFailure struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

func NewStageFailure(stage Stage, message string) *StageFailure {
	return &StageFailure{Stage: stage, Message: message}
}

// Decision values the evaluator rubric asks the model to choose from.
type Decision string

const (
	DecisionSuitable        Decision = "Suitable"
	DecisionNotSuitable     Decision = "Not Suitable"
	DecisionNeedsEvaluation Decision = "Requires Further Evaluation"
)

// KnownDecision reports whether d is one of the three rubric literals.
func KnownDecision(d Decision) bool {
	switch d {
	case DecisionSuitable, DecisionNotSuitable, DecisionNeedsEvaluation:
		return true
	}
	return false
}

// Verdict is the structured hiring recommendation parsed from model output.
type Verdict struct {
	Summary  string   `json:"summary"`
	Score    float64  `json:"score"`
	Decision Decision `json:"decision"`
	Reasons  string   `json:"reasons"`
	Comment  string   `json:"comment,omitempty"`
}

// ParseFailure carries the raw model output alongside the parse error so
// callers can log or persist it for debugging.
type ParseFailure struct {
	Raw     string `json:"raw"`
	Message string `json:"message"`
}

type FinishReason string

const (
	FinishStop   FinishReason = "stop"
	FinishLength FinishReason = "length"
	FinishOther  FinishReason = "other"
)

// CompletionResult is the success payload of one text-generation request.
type CompletionResult struct {
	Text             string       `json:"text"`
	FinishReason     FinishReason `json:"finish_reason"`
	PromptTokens     int          `json:"prompt_tokens"`
	CompletionTokens int          `json:"completion_tokens"`
}

// CompletionFailure is the error-as-data payload for a failed generation
// request. It is ordinary data, not an error to be re-raised.
type CompletionFailure struct {
	Message string `json:"message"`
}

// EvidenceBundle holds the normalized evidence for one analysis run. Built
// incrementally by the orchestrator, read-only once handed to the prompt
// builder. Owned by a single run, never shared.
type EvidenceBundle struct {
	JobDescription        string
	ResumeText            string
	NotesText             string
	TranscriptText        string
	ConversationSummaries map[string]string
}

// Prompt is one composed evaluation request.
type Prompt struct {
	SystemInstructions string
	UserContent        string
}

// AnalysisOutcome is the terminal result of one orchestrator run: either a
// Verdict with echoed identifiers, or the first StageFailure encountered.
type AnalysisOutcome struct {
	Verdict               *Verdict          `json:"verdict,omitempty"`
	CallID                string            `json:"call_id,omitempty"`
	CandidateID           string            `json:"candidate_id"`
	JobDescription        string            `json:"job_description"`
	ConversationSummaries map[string]string `json:"conversation_summaries,omitempty"`
	Failure               *StageFailure     `json:"failure,omitempty"`
}

// Succeeded reports whether the run produced a verdict.
func (o AnalysisOutcome) Succeeded() bool {
	return o.Failure == nil && o.Verdict != nil
}
