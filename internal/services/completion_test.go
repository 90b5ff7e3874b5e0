package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"

	"hirelens/candidate-analyzer/internal/models"
)

func TestMapFinishReason(t *testing.T) {
	assert.Equal(t, models.FinishStop, mapFinishReason(genai.FinishReasonStop))
	assert.Equal(t, models.FinishLength, mapFinishReason(genai.FinishReasonMaxTokens))
	assert.Equal(t, models.FinishOther, mapFinishReason(genai.FinishReasonSafety))
	assert.Equal(t, models.FinishOther, mapFinishReason(genai.FinishReasonUnspecified))
}
