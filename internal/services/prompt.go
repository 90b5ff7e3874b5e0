package services

import (
	"fmt"
	"strings"

	"hirelens/candidate-analyzer/internal/config"
	"hirelens/candidate-analyzer/internal/models"
)

// evaluatorRubric is the fixed system instruction sent with every final
// evaluation request. Constant across calls.
const evaluatorRubric = `You are an expert job evaluator specializing in summarizing and analyzing evidence about job candidates: call transcripts, resumes, and recruiter notes. Your goal is to:
1. Generate a concise summary of the candidate's skills, experiences, and communication abilities based on the evidence provided.
2. Assess whether the candidate is a good fit for the given role description.
3. Provide a clear decision (Suitable, Not Suitable, or Requires Further Evaluation) and explain the reasons for your decision.
Focus on evaluating the candidate's alignment with the job description and their overall suitability for the role.
Your response should be professional, detailed, and well-structured to help the hiring manager make an informed decision.
Respond with a single JSON object containing exactly the following keys:
- summary: The summary and evaluation of the candidate.
- score: The score assigned to the candidate, a number from 0 to 10.
- decision: The final decision (Suitable, Not Suitable, Requires Further Evaluation).
- reasons: The detailed reasons supporting your decision.
- comment: Optional additional remarks for the hiring manager.
Return only the JSON object, with no surrounding prose.`

// summarizerPersona is the fixed system instruction for per-call transcript
// summarization.
const summarizerPersona = `You are a critical conversation analyst reviewing a call between a job candidate and a hiring manager. Produce a concise critical summary of the conversation. Pay particular attention to:
- whether the candidate references concrete metrics and outcomes,
- how concise and structured their answers are,
- filler-word usage and verbal tics,
- overall executive tone and presence.
Return only the summary text.`

// PromptBuilder assembles the bounded evaluation prompt. Section order is a
// contract: job description, then resume, then transcript, then notes.
// Absent sections are omitted entirely, never emitted as empty placeholders.
type PromptBuilder struct {
	maxResumeChars     int
	maxTranscriptChars int
	maxNotesChars      int
}

func NewPromptBuilder(cfg config.AnalysisConfig) *PromptBuilder {
	return &PromptBuilder{
		maxResumeChars:     cfg.MaxResumeChars,
		maxTranscriptChars: cfg.MaxTranscriptChars,
		maxNotesChars:      cfg.MaxNotesChars,
	}
}

// BuildEvaluationPrompt composes the final evaluation prompt from the
// evidence bundle. Only the job description is unconditional.
func (pb *PromptBuilder) BuildEvaluationPrompt(bundle models.EvidenceBundle) models.Prompt {
	var b strings.Builder

	b.WriteString("Here is the available evidence about a job candidate, along with the job description. Summarize the evidence and assess if the candidate is suitable for the role. Provide your decision and the reasons.\n")

	b.WriteString("\nJob Description:\n")
	b.WriteString(bundle.JobDescription)
	b.WriteString("\n")

	if bundle.ResumeText != "" {
		b.WriteString("\nCandidate Resume:\n")
		b.WriteString(truncateHead(bundle.ResumeText, pb.maxResumeChars))
		b.WriteString("\n")
	}

	if bundle.TranscriptText != "" {
		b.WriteString("\nConversation Transcript:\n")
		b.WriteString(truncateTail(bundle.TranscriptText, pb.maxTranscriptChars))
		b.WriteString("\n")
	}

	if bundle.NotesText != "" {
		b.WriteString("\nRecruiter Notes:\n")
		b.WriteString(truncateHead(bundle.NotesText, pb.maxNotesChars))
		b.WriteString("\n")
	}

	return models.Prompt{
		SystemInstructions: evaluatorRubric,
		UserContent:        b.String(),
	}
}

// BuildSummaryPrompt composes the per-call summarization prompt for one
// flattened transcript entry.
func (pb *PromptBuilder) BuildSummaryPrompt(transcriptText string) models.Prompt {
	return models.Prompt{
		SystemInstructions: summarizerPersona,
		UserContent: fmt.Sprintf(
			"Conversation Transcript:\n%s",
			truncateTail(transcriptText, pb.maxTranscriptChars),
		),
	}
}

// truncateHead keeps the beginning of text, dropping the tail beyond max.
// Resumes front-load the important material, so the head survives.
func truncateHead(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "\n[... truncated ...]"
}

// truncateTail keeps the end of text, dropping the head beyond max. For
// transcripts the later part of the conversation carries the substance.
func truncateTail(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return "[... truncated ...]\n" + string(runes[len(runes)-max:])
}
