package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hirelens/candidate-analyzer/internal/models"
)

func TestFlattenTranscript(t *testing.T) {
	normalizer := NewEvidenceNormalizer()

	t.Run("joins sentences as speaker lines in order", func(t *testing.T) {
		entries := []models.CallTranscript{
			{
				CallID: "call-1",
				Transcript: []models.TranscriptSegment{
					{
						SpeakerID: "spk-1",
						Sentences: []models.Sentence{
							{Text: "Hello there."},
							{Text: "Thanks for joining."},
						},
					},
					{
						SpeakerID: "spk-2",
						Sentences: []models.Sentence{
							{Text: "Happy to be here."},
						},
					},
				},
			},
		}

		got := normalizer.FlattenTranscript(entries)
		want := "spk-1: Hello there.\nspk-1: Thanks for joining.\nspk-2: Happy to be here."
		assert.Equal(t, want, got)
	})

	t.Run("empty speaker id becomes Unknown Speaker", func(t *testing.T) {
		entries := []models.CallTranscript{
			{
				Transcript: []models.TranscriptSegment{
					{Sentences: []models.Sentence{{Text: "Who am I?"}}},
				},
			},
		}

		got := normalizer.FlattenTranscript(entries)
		assert.Equal(t, "Unknown Speaker: Who am I?", got)
	})

	t.Run("nil entries yield empty string", func(t *testing.T) {
		assert.Equal(t, "", normalizer.FlattenTranscript(nil))
	})

	t.Run("entry without segments yields empty string", func(t *testing.T) {
		entries := []models.CallTranscript{{CallID: "call-1"}}
		assert.Equal(t, "", normalizer.FlattenTranscript(entries))
	})

	t.Run("segment without sentences yields empty string", func(t *testing.T) {
		entries := []models.CallTranscript{
			{Transcript: []models.TranscriptSegment{{SpeakerID: "spk-1"}}},
		}
		assert.Equal(t, "", normalizer.FlattenTranscript(entries))
	})
}

func TestFlattenNotes(t *testing.T) {
	normalizer := NewEvidenceNormalizer()

	t.Run("uses only the first note", func(t *testing.T) {
		notes := []models.NoteRecord{
			{ID: "n1", Title: "Screening call", Body: "Strong communicator."},
			{ID: "n2", Title: "Second note", Body: "Should never appear."},
		}

		text, ok := normalizer.FlattenNotes(notes)
		require.True(t, ok)
		assert.Equal(t, "Note Title: Screening call\nNote Body: Strong communicator.", text)
		assert.NotContains(t, text, "Second note")
	})

	t.Run("empty list reports not ok", func(t *testing.T) {
		text, ok := normalizer.FlattenNotes(nil)
		assert.False(t, ok)
		assert.Equal(t, "", text)
	})
}
