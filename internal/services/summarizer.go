package services

import (
	"context"
	"log"
	"strings"
	"sync"

	"hirelens/candidate-analyzer/internal/models"
)

// ConversationSummarizer compresses call transcripts into critical
// summaries before they enter the final evaluation prompt. Each transcript
// entry is summarized independently; entries that are malformed or whose
// summarization fails are skipped, never fatal. When every entry fails the
// caller gets an empty summary and proceeds without transcript evidence.
type ConversationSummarizer struct {
	completion  CompletionService
	normalizer  *EvidenceNormalizer
	prompts     *PromptBuilder
	concurrency int
}

func NewConversationSummarizer(
	completion CompletionService,
	normalizer *EvidenceNormalizer,
	prompts *PromptBuilder,
	concurrency int,
) *ConversationSummarizer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ConversationSummarizer{
		completion:  completion,
		normalizer:  normalizer,
		prompts:     prompts,
		concurrency: concurrency,
	}
}

// SummarizeCall summarizes every transcript entry of one call and joins the
// successful summaries in original entry order. Entries have no ordering
// dependency between each other, so they fan out across a bounded number of
// goroutines; the result slice is indexed by entry position to keep the
// aggregate deterministic.
func (s *ConversationSummarizer) SummarizeCall(ctx context.Context, callID string, entries []models.CallTranscript) string {
	if len(entries) == 0 {
		return ""
	}

	summaries := make([]string, len(entries))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, entry := range entries {
		wg.Add(1)
		go func(idx int, entry models.CallTranscript) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			summaries[idx] = s.summarizeEntry(ctx, callID, idx, entry)
		}(i, entry)
	}
	wg.Wait()

	var kept []string
	for _, summary := range summaries {
		if summary != "" {
			kept = append(kept, summary)
		}
	}
	return strings.Join(kept, "\n\n")
}

func (s *ConversationSummarizer) summarizeEntry(ctx context.Context, callID string, idx int, entry models.CallTranscript) string {
	flattened := s.normalizer.FlattenEntry(entry)
	if flattened == "" {
		log.Printf("⚠️  Call %s transcript entry %d has no sentences, skipping\n", callID, idx)
		return ""
	}

	prompt := s.prompts.BuildSummaryPrompt(flattened)
	result, failure := s.completion.Complete(ctx, prompt.SystemInstructions, prompt.UserContent)
	if failure != nil {
		log.Printf("⚠️  Failed to summarize call %s transcript entry %d: %s\n", callID, idx, failure.Message)
		return ""
	}

	return strings.TrimSpace(result.Text)
}
