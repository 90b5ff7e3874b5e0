package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hirelens/candidate-analyzer/internal/models"
)

const verdictJSON = `{"summary": "Experienced backend engineer with strong delivery record.", "score": 9, "decision": "Suitable", "reasons": "Deep experience matching the role requirements."}`

func newTestAnalyzer(
	crm CRMService,
	callRecording CallRecordingService,
	completion CompletionService,
	notesRequired bool,
) AnalyzerService {
	normalizer := NewEvidenceNormalizer()
	prompts := testPromptBuilder()
	summarizer := NewConversationSummarizer(completion, normalizer, prompts, 2)
	return NewAnalyzerService(
		nil,
		crm,
		callRecording,
		&fakePDFParser{},
		normalizer,
		summarizer,
		prompts,
		completion,
		NewVerdictParser(),
		nil,
		notesRequired,
	)
}

func TestAnalyzeCandidateResumeOnly(t *testing.T) {
	crm := &fakeCRM{documentContent: []byte("Jane Doe. Ten years of Go.")}
	completion := &fakeCompletion{
		respond: func(systemPrompt, userPrompt string) (*models.CompletionResult, *models.CompletionFailure) {
			return completionText(verdictJSON), nil
		},
	}
	analyzer := newTestAnalyzer(crm, &fakeCallRecording{}, completion, false)

	outcome := analyzer.AnalyzeCandidate(context.Background(), "Backend engineer role", "", "cand-1")

	require.True(t, outcome.Succeeded())
	require.NotNil(t, outcome.Verdict)
	assert.Equal(t, 9.0, outcome.Verdict.Score)
	assert.Equal(t, models.DecisionSuitable, outcome.Verdict.Decision)
	assert.Empty(t, outcome.ConversationSummaries)
	// No call id, so the only completion is the final evaluation.
	assert.Equal(t, 1, completion.callCount())
}

func TestAnalyzeCandidateMissingResume(t *testing.T) {
	crm := &fakeCRM{documentErr: ErrNoDocuments}
	completion := &fakeCompletion{
		respond: func(systemPrompt, userPrompt string) (*models.CompletionResult, *models.CompletionFailure) {
			return completionText(verdictJSON), nil
		},
	}
	analyzer := newTestAnalyzer(crm, &fakeCallRecording{}, completion, false)

	outcome := analyzer.AnalyzeCandidate(context.Background(), "Backend engineer role", "call-1", "cand-1")

	require.False(t, outcome.Succeeded())
	require.NotNil(t, outcome.Failure)
	assert.Equal(t, models.StageResume, outcome.Failure.Stage)
	assert.Contains(t, outcome.Failure.Message, "cand-1")
	assert.Nil(t, outcome.Verdict)
	// Short-circuit before any model traffic.
	assert.Equal(t, 0, completion.callCount())
}

func TestAnalyzeCandidateNotesPolicy(t *testing.T) {
	t.Run("optional notes missing is not fatal", func(t *testing.T) {
		crm := &fakeCRM{documentContent: []byte("resume text")}
		completion := &fakeCompletion{
			respond: func(systemPrompt, userPrompt string) (*models.CompletionResult, *models.CompletionFailure) {
				assert.NotContains(t, userPrompt, "Recruiter Notes:")
				return completionText(verdictJSON), nil
			},
		}
		analyzer := newTestAnalyzer(crm, &fakeCallRecording{}, completion, false)

		outcome := analyzer.AnalyzeCandidate(context.Background(), "jd", "", "cand-1")
		require.True(t, outcome.Succeeded())
	})

	t.Run("required notes missing is fatal", func(t *testing.T) {
		crm := &fakeCRM{documentContent: []byte("resume text")}
		completion := &fakeCompletion{
			respond: func(systemPrompt, userPrompt string) (*models.CompletionResult, *models.CompletionFailure) {
				return completionText(verdictJSON), nil
			},
		}
		analyzer := newTestAnalyzer(crm, &fakeCallRecording{}, completion, true)

		outcome := analyzer.AnalyzeCandidate(context.Background(), "jd", "", "cand-1")
		require.False(t, outcome.Succeeded())
		assert.Equal(t, models.StageNotes, outcome.Failure.Stage)
		assert.Equal(t, 0, completion.callCount())
	})

	t.Run("notes fetch error with optional policy continues", func(t *testing.T) {
		crm := &fakeCRM{
			documentContent: []byte("resume text"),
			notesErr:        errors.New("crm unavailable"),
		}
		completion := &fakeCompletion{
			respond: func(systemPrompt, userPrompt string) (*models.CompletionResult, *models.CompletionFailure) {
				return completionText(verdictJSON), nil
			},
		}
		analyzer := newTestAnalyzer(crm, &fakeCallRecording{}, completion, false)

		outcome := analyzer.AnalyzeCandidate(context.Background(), "jd", "", "cand-1")
		require.True(t, outcome.Succeeded())
	})

	t.Run("notes appear in the prompt when present", func(t *testing.T) {
		crm := &fakeCRM{
			documentContent: []byte("resume text"),
			notes: []models.NoteRecord{
				{Title: "Screen", Body: "Great energy"},
			},
		}
		completion := &fakeCompletion{
			respond: func(systemPrompt, userPrompt string) (*models.CompletionResult, *models.CompletionFailure) {
				assert.Contains(t, userPrompt, "Recruiter Notes:")
				assert.Contains(t, userPrompt, "Great energy")
				return completionText(verdictJSON), nil
			},
		}
		analyzer := newTestAnalyzer(crm, &fakeCallRecording{}, completion, false)

		outcome := analyzer.AnalyzeCandidate(context.Background(), "jd", "", "cand-1")
		require.True(t, outcome.Succeeded())
	})
}

func TestAnalyzeCandidateTranscript(t *testing.T) {
	t.Run("transcript fetch error is fatal", func(t *testing.T) {
		crm := &fakeCRM{documentContent: []byte("resume text")}
		recording := &fakeCallRecording{err: errors.New("gong unavailable")}
		completion := &fakeCompletion{
			respond: func(systemPrompt, userPrompt string) (*models.CompletionResult, *models.CompletionFailure) {
				return completionText(verdictJSON), nil
			},
		}
		analyzer := newTestAnalyzer(crm, recording, completion, false)

		outcome := analyzer.AnalyzeCandidate(context.Background(), "jd", "call-1", "cand-1")
		require.False(t, outcome.Succeeded())
		assert.Equal(t, models.StageTranscript, outcome.Failure.Stage)
		assert.Equal(t, 0, completion.callCount())
	})

	t.Run("malformed entry skipped, good entry summarized", func(t *testing.T) {
		crm := &fakeCRM{documentContent: []byte("resume text")}
		recording := &fakeCallRecording{
			transcripts: []models.CallTranscript{
				{CallID: "call-1"}, // no segments
				transcriptEntry("spk-1", "We shipped the migration in six weeks."),
			},
		}
		completion := &fakeCompletion{
			respond: func(systemPrompt, userPrompt string) (*models.CompletionResult, *models.CompletionFailure) {
				if strings.Contains(systemPrompt, "critical") {
					return completionText("Candidate cites concrete outcomes."), nil
				}
				assert.Contains(t, userPrompt, "Candidate cites concrete outcomes.")
				return completionText(verdictJSON), nil
			},
		}
		analyzer := newTestAnalyzer(crm, recording, completion, false)

		outcome := analyzer.AnalyzeCandidate(context.Background(), "jd", "call-1", "cand-1")
		require.True(t, outcome.Succeeded())
		assert.Equal(t, map[string]string{"call-1": "Candidate cites concrete outcomes."}, outcome.ConversationSummaries)
		// One summary call plus the final evaluation.
		assert.Equal(t, 2, completion.callCount())
	})

	t.Run("all entries failing proceeds without transcript evidence", func(t *testing.T) {
		crm := &fakeCRM{documentContent: []byte("resume text")}
		recording := &fakeCallRecording{
			transcripts: []models.CallTranscript{
				transcriptEntry("spk-1", "hello"),
			},
		}
		completion := &fakeCompletion{
			respond: func(systemPrompt, userPrompt string) (*models.CompletionResult, *models.CompletionFailure) {
				if strings.Contains(systemPrompt, "critical") {
					return nil, &models.CompletionFailure{Message: "backend unavailable"}
				}
				assert.NotContains(t, userPrompt, "Conversation Transcript:")
				return completionText(verdictJSON), nil
			},
		}
		analyzer := newTestAnalyzer(crm, recording, completion, false)

		outcome := analyzer.AnalyzeCandidate(context.Background(), "jd", "call-1", "cand-1")
		require.True(t, outcome.Succeeded())
		assert.Empty(t, outcome.ConversationSummaries)
	})
}

func TestAnalyzeCandidateCompletionAndParsing(t *testing.T) {
	t.Run("completion failure tags the completion stage", func(t *testing.T) {
		crm := &fakeCRM{documentContent: []byte("resume text")}
		completion := &fakeCompletion{
			respond: func(systemPrompt, userPrompt string) (*models.CompletionResult, *models.CompletionFailure) {
				return nil, &models.CompletionFailure{Message: "rate limited"}
			},
		}
		analyzer := newTestAnalyzer(crm, &fakeCallRecording{}, completion, false)

		outcome := analyzer.AnalyzeCandidate(context.Background(), "jd", "", "cand-1")
		require.False(t, outcome.Succeeded())
		assert.Equal(t, models.StageCompletion, outcome.Failure.Stage)
		assert.Equal(t, "rate limited", outcome.Failure.Message)
	})

	t.Run("unparseable output tags the parsing stage", func(t *testing.T) {
		crm := &fakeCRM{documentContent: []byte("resume text")}
		completion := &fakeCompletion{
			respond: func(systemPrompt, userPrompt string) (*models.CompletionResult, *models.CompletionFailure) {
				return completionText("I cannot answer in JSON today."), nil
			},
		}
		analyzer := newTestAnalyzer(crm, &fakeCallRecording{}, completion, false)

		outcome := analyzer.AnalyzeCandidate(context.Background(), "jd", "", "cand-1")
		require.False(t, outcome.Succeeded())
		assert.Equal(t, models.StageParsing, outcome.Failure.Stage)
	})
}

func TestAnalyzeCandidateIdempotent(t *testing.T) {
	crm := &fakeCRM{
		documentContent: []byte("resume text"),
		notes:           []models.NoteRecord{{Title: "t", Body: "b"}},
	}
	recording := &fakeCallRecording{
		transcripts: []models.CallTranscript{
			transcriptEntry("spk-1", "We grew revenue 40%."),
		},
	}
	completion := &fakeCompletion{
		respond: func(systemPrompt, userPrompt string) (*models.CompletionResult, *models.CompletionFailure) {
			if strings.Contains(systemPrompt, "critical") {
				return completionText("metric-heavy answer"), nil
			}
			return completionText(verdictJSON), nil
		},
	}
	analyzer := newTestAnalyzer(crm, recording, completion, false)

	first := analyzer.AnalyzeCandidate(context.Background(), "jd", "call-1", "cand-1")
	second := analyzer.AnalyzeCandidate(context.Background(), "jd", "call-1", "cand-1")

	require.True(t, first.Succeeded())
	assert.Equal(t, first, second)
}
