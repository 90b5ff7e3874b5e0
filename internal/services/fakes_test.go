package services

import (
	"context"
	"sync"
	"time"

	"hirelens/candidate-analyzer/internal/models"
)

// fakeCompletion returns canned responses keyed by a matcher over the user
// prompt, counting every call. Safe for concurrent use.
type fakeCompletion struct {
	mu      sync.Mutex
	calls   int
	respond func(systemPrompt, userPrompt string) (*models.CompletionResult, *models.CompletionFailure)
}

func (f *fakeCompletion) Complete(ctx context.Context, systemPrompt, userPrompt string) (*models.CompletionResult, *models.CompletionFailure) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.respond(systemPrompt, userPrompt)
}

func (f *fakeCompletion) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func completionText(text string) *models.CompletionResult {
	return &models.CompletionResult{
		Text:         text,
		FinishReason: models.FinishStop,
	}
}

type fakeCRM struct {
	documentContent []byte
	documentErr     error
	notes           []models.NoteRecord
	notesErr        error
}

func (f *fakeCRM) Query(ctx context.Context, soql string) ([]map[string]any, error) {
	return nil, nil
}

func (f *fakeCRM) GetNotes(ctx context.Context, candidateID string) ([]models.NoteRecord, error) {
	return f.notes, f.notesErr
}

func (f *fakeCRM) GetFirstDocumentContent(ctx context.Context, candidateID string) ([]byte, error) {
	if f.documentErr != nil {
		return nil, f.documentErr
	}
	return f.documentContent, nil
}

type fakeCallRecording struct {
	transcripts []models.CallTranscript
	err         error
}

func (f *fakeCallRecording) GetUsers(ctx context.Context) ([]models.GongUser, error) {
	return nil, nil
}

func (f *fakeCallRecording) GetCallsByDateRange(ctx context.Context, from, to time.Time) ([]models.GongCall, error) {
	return nil, nil
}

func (f *fakeCallRecording) GetCallTranscripts(ctx context.Context, callID string) ([]models.CallTranscript, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.transcripts, nil
}

// fakePDFParser passes the bytes through as text.
type fakePDFParser struct{}

func (f *fakePDFParser) ExtractTextFromBytes(content []byte) (string, error) {
	return string(content), nil
}
