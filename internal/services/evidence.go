package services

import (
	"fmt"
	"strings"

	"hirelens/candidate-analyzer/internal/models"
)

// EvidenceNormalizer converts raw platform records into flat evaluation
// text. Malformed records degrade to empty output instead of failing:
// transcript entries with no segments or no sentences contribute nothing.
type EvidenceNormalizer struct{}

func NewEvidenceNormalizer() *EvidenceNormalizer {
	return &EvidenceNormalizer{}
}

// FlattenTranscript concatenates every sentence of every entry as
// "{speakerId}: {text}" lines, in original order, trimming trailing
// whitespace. Nil or empty slices at any level yield an empty string.
func (n *EvidenceNormalizer) FlattenTranscript(entries []models.CallTranscript) string {
	var b strings.Builder
	for _, entry := range entries {
		for _, segment := range entry.Transcript {
			speaker := segment.SpeakerID
			if speaker == "" {
				speaker = "Unknown Speaker"
			}
			for _, sentence := range segment.Sentences {
				b.WriteString(fmt.Sprintf("%s: %s\n", speaker, sentence.Text))
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// FlattenEntry flattens a single transcript entry, used when entries are
// summarized one by one.
func (n *EvidenceNormalizer) FlattenEntry(entry models.CallTranscript) string {
	return n.FlattenTranscript([]models.CallTranscript{entry})
}

// FlattenNotes formats the first note record for the prompt. Only the first
// note is used; the rest are ignored. ok is false when the list is empty.
func (n *EvidenceNormalizer) FlattenNotes(notes []models.NoteRecord) (text string, ok bool) {
	if len(notes) == 0 {
		return "", false
	}
	first := notes[0]
	return fmt.Sprintf("Note Title: %s\nNote Body: %s", first.Title, first.Body), true
}
