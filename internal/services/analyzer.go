package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"hirelens/candidate-analyzer/internal/models"
	"hirelens/candidate-analyzer/internal/repositories"
)

// AnalyzerService drives the candidate-analysis pipeline: gather evidence,
// summarize transcripts, compose one prompt, request one completion, parse
// one verdict. Every stage returns a tagged success/failure value and the
// first failure short-circuits the run.
type AnalyzerService interface {
	AnalyzeCandidate(ctx context.Context, jobDescription, callID, candidateID string) models.AnalysisOutcome
	ProcessEvaluation(ctx context.Context, evalID uuid.UUID) error
}

type analyzerService struct {
	evalRepo      repositories.EvaluationRepository
	crm           CRMService
	callRecording CallRecordingService
	pdfParser     PDFParserService
	normalizer    *EvidenceNormalizer
	summarizer    *ConversationSummarizer
	prompts       *PromptBuilder
	completion    CompletionService
	parser        *VerdictParser
	memory        MemoryService
	notesRequired bool
}

func NewAnalyzerService(
	evalRepo repositories.EvaluationRepository,
	crm CRMService,
	callRecording CallRecordingService,
	pdfParser PDFParserService,
	normalizer *EvidenceNormalizer,
	summarizer *ConversationSummarizer,
	prompts *PromptBuilder,
	completion CompletionService,
	parser *VerdictParser,
	memory MemoryService,
	notesRequired bool,
) AnalyzerService {
	return &analyzerService{
		evalRepo:      evalRepo,
		crm:           crm,
		callRecording: callRecording,
		pdfParser:     pdfParser,
		normalizer:    normalizer,
		summarizer:    summarizer,
		prompts:       prompts,
		completion:    completion,
		parser:        parser,
		memory:        memory,
		notesRequired: notesRequired,
	}
}

// AnalyzeCandidate implements AnalyzerService. callID may be empty; the
// transcript is optional evidence. Exactly one final completion request is
// made per run, and only after every evidence stage has settled.
func (a *analyzerService) AnalyzeCandidate(ctx context.Context, jobDescription, callID, candidateID string) models.AnalysisOutcome {
	outcome := models.AnalysisOutcome{
		CallID:         callID,
		CandidateID:    candidateID,
		JobDescription: jobDescription,
	}

	// Stage 1: resume
	resumeText, failure := a.fetchResume(ctx, candidateID)
	if failure != nil {
		outcome.Failure = failure
		return outcome
	}

	// Stage 2: notes
	notesText, failure := a.fetchNotes(ctx, candidateID)
	if failure != nil {
		outcome.Failure = failure
		return outcome
	}

	// Stage 3: transcript + per-entry summaries (optional evidence)
	transcriptText := ""
	summaries := map[string]string{}
	if callID != "" {
		transcriptText, failure = a.fetchTranscriptSummary(ctx, callID)
		if failure != nil {
			outcome.Failure = failure
			return outcome
		}
		if transcriptText != "" {
			summaries[callID] = transcriptText
		}
	}

	bundle := models.EvidenceBundle{
		JobDescription:        jobDescription,
		ResumeText:            resumeText,
		NotesText:             notesText,
		TranscriptText:        transcriptText,
		ConversationSummaries: summaries,
	}

	// Stage 4: compose, Stage 5: complete
	prompt := a.prompts.BuildEvaluationPrompt(bundle)
	result, completionFailure := a.completion.Complete(ctx, prompt.SystemInstructions, prompt.UserContent)
	if completionFailure != nil {
		outcome.Failure = models.NewStageFailure(models.StageCompletion, completionFailure.Message)
		return outcome
	}
	log.Printf("🤖 Completion finished (%s): %d prompt tokens, %d completion tokens\n",
		result.FinishReason, result.PromptTokens, result.CompletionTokens)

	// Stage 6: parse
	verdict, parseFailure := a.parser.Parse(result.Text)
	if parseFailure != nil {
		log.Printf("❌ Verdict parse failed, raw output: %s\n", parseFailure.Raw)
		outcome.Failure = models.NewStageFailure(models.StageParsing, parseFailure.Message)
		return outcome
	}

	outcome.Verdict = verdict
	outcome.ConversationSummaries = summaries
	return outcome
}

func (a *analyzerService) fetchResume(ctx context.Context, candidateID string) (string, *models.StageFailure) {
	content, err := a.crm.GetFirstDocumentContent(ctx, candidateID)
	if err != nil {
		if errors.Is(err, ErrNoDocuments) {
			return "", models.NewStageFailure(models.StageResume,
				fmt.Sprintf("no resume document found for candidate %s", candidateID))
		}
		return "", models.NewStageFailure(models.StageResume, err.Error())
	}

	text, err := a.pdfParser.ExtractTextFromBytes(content)
	if err != nil {
		return "", models.NewStageFailure(models.StageResume,
			fmt.Sprintf("failed to extract resume text: %v", err))
	}
	return CleanText(text), nil
}

// fetchNotes applies the configured notes policy: with notesRequired a
// fetch error or empty note list aborts the run, otherwise the run
// continues with empty notes.
func (a *analyzerService) fetchNotes(ctx context.Context, candidateID string) (string, *models.StageFailure) {
	notes, err := a.crm.GetNotes(ctx, candidateID)
	if err != nil {
		if a.notesRequired {
			return "", models.NewStageFailure(models.StageNotes, err.Error())
		}
		log.Printf("⚠️  Failed to fetch notes for candidate %s, continuing without: %v\n", candidateID, err)
		return "", nil
	}

	text, ok := a.normalizer.FlattenNotes(notes)
	if !ok {
		if a.notesRequired {
			return "", models.NewStageFailure(models.StageNotes,
				fmt.Sprintf("no notes found for candidate %s", candidateID))
		}
		return "", nil
	}
	return text, nil
}

// fetchTranscriptSummary fetches all transcript entries for the call and
// summarizes them. A fetch error is fatal to the run; per-entry
// summarization failures are not, and when every entry fails the run
// proceeds with no transcript evidence.
func (a *analyzerService) fetchTranscriptSummary(ctx context.Context, callID string) (string, *models.StageFailure) {
	entries, err := a.callRecording.GetCallTranscripts(ctx, callID)
	if err != nil {
		return "", models.NewStageFailure(models.StageTranscript, err.Error())
	}

	summary := a.summarizer.SummarizeCall(ctx, callID, entries)
	if summary == "" && len(entries) > 0 {
		log.Printf("⚠️  All transcript entries for call %s failed to summarize, proceeding without transcript\n", callID)
	}
	return summary, nil
}

// ProcessEvaluation implements AnalyzerService. It is the async worker
// path: load a queued record, run the pipeline, persist the outcome, then
// index it into the analysis memory (best effort).
func (a *analyzerService) ProcessEvaluation(ctx context.Context, evalID uuid.UUID) error {
	if err := a.evalRepo.UpdateStatus(evalID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	log.Printf("🔄 Starting evaluation for job ID: %s\n", evalID)

	evaluation, err := a.evalRepo.FindByID(evalID)
	if err != nil {
		a.evalRepo.UpdateFailure(evalID, "", err.Error())
		return fmt.Errorf("failed to get evaluation: %w", err)
	}

	callID := ""
	if evaluation.CallID != nil {
		callID = *evaluation.CallID
	}

	outcome := a.AnalyzeCandidate(ctx, evaluation.JobDescription, callID, evaluation.CandidateID)
	if outcome.Failure != nil {
		a.evalRepo.UpdateFailure(evalID, string(outcome.Failure.Stage), outcome.Failure.Message)
		return fmt.Errorf("evaluation failed at stage %s: %s", outcome.Failure.Stage, outcome.Failure.Message)
	}

	var callSummaries *string
	if len(outcome.ConversationSummaries) > 0 {
		if encoded, err := json.Marshal(outcome.ConversationSummaries); err == nil {
			s := string(encoded)
			callSummaries = &s
		}
	}

	update := &repositories.EvaluationUpdateData{
		Summary:       &outcome.Verdict.Summary,
		Score:         &outcome.Verdict.Score,
		Decision:      ptrString(string(outcome.Verdict.Decision)),
		Reasons:       &outcome.Verdict.Reasons,
		CallSummaries: callSummaries,
	}
	if outcome.Verdict.Comment != "" {
		update.Comment = &outcome.Verdict.Comment
	}

	if err := a.evalRepo.UpdateResult(evalID, update); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	if a.memory != nil {
		if err := a.memory.IndexEvaluation(ctx, evalID.String(), *outcome.Verdict, outcome.ConversationSummaries); err != nil {
			log.Printf("⚠️  Failed to index evaluation %s into memory: %v\n", evalID, err)
		}
	}

	log.Printf("✅ Evaluation completed successfully for job ID: %s\n", evalID)
	return nil
}

func ptrString(s string) *string {
	return &s
}
