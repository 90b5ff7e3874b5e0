package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"hirelens/candidate-analyzer/internal/models"
)

// VerdictParser extracts a structured Verdict from raw model output. The
// model is instructed to return strict JSON but frequently wraps it in
// markdown fences or prose; the parser tolerates that formatting noise.
// A malformed or incomplete payload yields a ParseFailure carrying the raw
// text. The parser never panics and never returns a partial Verdict.
type VerdictParser struct{}

func NewVerdictParser() *VerdictParser {
	return &VerdictParser{}
}

// rawVerdict accepts both the documented "summary" key and the legacy
// "response" key some model revisions emit.
type rawVerdict struct {
	Response *string  `json:"response"`
	Summary  *string  `json:"summary"`
	Score    *float64 `json:"score"`
	Decision *string  `json:"decision"`
	Reasons  *string  `json:"reasons"`
	Comment  string   `json:"comment"`
}

// Parse strips fence markers, decodes the JSON object, and validates the
// required keys. Unrecognized decision values are normalized to
// "Requires Further Evaluation" with a logged warning.
func (p *VerdictParser) Parse(raw string) (*models.Verdict, *models.ParseFailure) {
	jsonStr := extractJSON(raw)

	var rv rawVerdict
	if err := json.Unmarshal([]byte(jsonStr), &rv); err != nil {
		return nil, &models.ParseFailure{
			Raw:     raw,
			Message: fmt.Sprintf("failed to unmarshal verdict JSON: %v", err),
		}
	}

	summary := rv.Summary
	if summary == nil {
		summary = rv.Response
	}

	var missing []string
	if summary == nil {
		missing = append(missing, "summary")
	}
	if rv.Score == nil {
		missing = append(missing, "score")
	}
	if rv.Decision == nil {
		missing = append(missing, "decision")
	}
	if rv.Reasons == nil {
		missing = append(missing, "reasons")
	}
	if len(missing) > 0 {
		return nil, &models.ParseFailure{
			Raw:     raw,
			Message: fmt.Sprintf("verdict missing required keys: %s", strings.Join(missing, ", ")),
		}
	}

	return &models.Verdict{
		Summary:  *summary,
		Score:    *rv.Score,
		Decision: normalizeDecision(*rv.Decision),
		Reasons:  *rv.Reasons,
		Comment:  rv.Comment,
	}, nil
}

func normalizeDecision(value string) models.Decision {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "suitable":
		return models.DecisionSuitable
	case "not suitable", "notsuitable":
		return models.DecisionNotSuitable
	case "requires further evaluation", "requiresfurtherevaluation":
		return models.DecisionNeedsEvaluation
	}
	log.Printf("⚠️  Unrecognized decision value %q, defaulting to %q\n", trimmed, models.DecisionNeedsEvaluation)
	return models.DecisionNeedsEvaluation
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	// Remove markdown code blocks
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	// Find JSON object boundaries
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
