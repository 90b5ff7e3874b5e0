package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hirelens/candidate-analyzer/internal/config"
	"hirelens/candidate-analyzer/internal/models"
)

func testPromptBuilder() *PromptBuilder {
	return NewPromptBuilder(config.AnalysisConfig{
		MaxResumeChars:     20000,
		MaxTranscriptChars: 30000,
		MaxNotesChars:      8000,
	})
}

func sectionOrder(t *testing.T, content string, sections ...string) {
	t.Helper()
	last := -1
	for _, section := range sections {
		idx := strings.Index(content, section)
		require.NotEqual(t, -1, idx, "section %q missing from prompt", section)
		require.Greater(t, idx, last, "section %q out of order", section)
		last = idx
	}
}

func TestBuildEvaluationPromptSectionOrder(t *testing.T) {
	pb := testPromptBuilder()

	t.Run("all sections present", func(t *testing.T) {
		prompt := pb.BuildEvaluationPrompt(models.EvidenceBundle{
			JobDescription: "Backend engineer",
			ResumeText:     "resume body",
			TranscriptText: "transcript body",
			NotesText:      "notes body",
		})

		sectionOrder(t, prompt.UserContent,
			"Job Description:",
			"Candidate Resume:",
			"Conversation Transcript:",
			"Recruiter Notes:",
		)
	})

	t.Run("absent sections are omitted entirely", func(t *testing.T) {
		prompt := pb.BuildEvaluationPrompt(models.EvidenceBundle{
			JobDescription: "Backend engineer",
			ResumeText:     "resume body",
		})

		assert.Contains(t, prompt.UserContent, "Job Description:")
		assert.Contains(t, prompt.UserContent, "Candidate Resume:")
		assert.NotContains(t, prompt.UserContent, "Conversation Transcript:")
		assert.NotContains(t, prompt.UserContent, "Recruiter Notes:")
	})

	t.Run("transcript and notes without resume keep relative order", func(t *testing.T) {
		prompt := pb.BuildEvaluationPrompt(models.EvidenceBundle{
			JobDescription: "Backend engineer",
			TranscriptText: "transcript body",
			NotesText:      "notes body",
		})

		sectionOrder(t, prompt.UserContent,
			"Job Description:",
			"Conversation Transcript:",
			"Recruiter Notes:",
		)
		assert.NotContains(t, prompt.UserContent, "Candidate Resume:")
	})

	t.Run("job description is always present", func(t *testing.T) {
		prompt := pb.BuildEvaluationPrompt(models.EvidenceBundle{
			JobDescription: "Backend engineer",
		})

		assert.Contains(t, prompt.UserContent, "Job Description:\nBackend engineer")
	})

	t.Run("system instructions carry the evaluator rubric", func(t *testing.T) {
		prompt := pb.BuildEvaluationPrompt(models.EvidenceBundle{JobDescription: "x"})
		assert.Contains(t, prompt.SystemInstructions, "single JSON object")
		assert.Contains(t, prompt.SystemInstructions, "decision")
	})
}

func TestBuildEvaluationPromptDeterministic(t *testing.T) {
	pb := testPromptBuilder()
	bundle := models.EvidenceBundle{
		JobDescription: "Backend engineer",
		ResumeText:     "resume body",
		TranscriptText: "transcript body",
		NotesText:      "notes body",
	}

	first := pb.BuildEvaluationPrompt(bundle)
	second := pb.BuildEvaluationPrompt(bundle)
	assert.Equal(t, first, second)
}

func TestPromptTruncation(t *testing.T) {
	pb := NewPromptBuilder(config.AnalysisConfig{
		MaxResumeChars:     10,
		MaxTranscriptChars: 10,
		MaxNotesChars:      10,
	})

	t.Run("resume keeps the head", func(t *testing.T) {
		prompt := pb.BuildEvaluationPrompt(models.EvidenceBundle{
			JobDescription: "jd",
			ResumeText:     "AAAAAAAAAABBBBB",
		})

		assert.Contains(t, prompt.UserContent, "AAAAAAAAAA\n[... truncated ...]")
		assert.NotContains(t, prompt.UserContent, "BBBBB")
	})

	t.Run("transcript keeps the tail", func(t *testing.T) {
		prompt := pb.BuildEvaluationPrompt(models.EvidenceBundle{
			JobDescription: "jd",
			TranscriptText: "AAAAABBBBBBBBBB",
		})

		assert.Contains(t, prompt.UserContent, "[... truncated ...]\nBBBBBBBBBB")
		assert.NotContains(t, prompt.UserContent, "AAAAA\n")
	})

	t.Run("text within budget is untouched", func(t *testing.T) {
		prompt := pb.BuildEvaluationPrompt(models.EvidenceBundle{
			JobDescription: "jd",
			ResumeText:     "short",
		})

		assert.Contains(t, prompt.UserContent, "Candidate Resume:\nshort")
		assert.NotContains(t, prompt.UserContent, "truncated")
	})

	t.Run("zero budget disables truncation", func(t *testing.T) {
		unbounded := NewPromptBuilder(config.AnalysisConfig{})
		long := strings.Repeat("x", 100)
		prompt := unbounded.BuildEvaluationPrompt(models.EvidenceBundle{
			JobDescription: "jd",
			ResumeText:     long,
		})

		assert.Contains(t, prompt.UserContent, long)
		assert.NotContains(t, prompt.UserContent, "truncated")
	})
}

func TestBuildSummaryPrompt(t *testing.T) {
	pb := testPromptBuilder()

	prompt := pb.BuildSummaryPrompt("spk-1: Hello.")
	assert.Contains(t, prompt.SystemInstructions, "critical")
	assert.Equal(t, "Conversation Transcript:\nspk-1: Hello.", prompt.UserContent)
}
