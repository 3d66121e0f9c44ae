package service

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiServiceRequiresKeys(t *testing.T) {
	_, err := NewGeminiService(nil, "gemini-2.0-flash")
	assert.Error(t, err)
}

func TestGeminiChatModelCarriesSystemInstruction(t *testing.T) {
	svc, err := NewGeminiService([]string{"key-one", "key-two"}, "gemini-2.0-flash")
	require.NoError(t, err)

	model := svc.chatModel("answer from the provided context only")
	require.NotNil(t, model.SystemInstruction)
	require.Len(t, model.SystemInstruction.Parts, 1)
	assert.Equal(t, genai.Text("answer from the provided context only"), model.SystemInstruction.Parts[0])

	// A model rebuilt after key rotation keeps the instruction too.
	require.NoError(t, svc.rotateAPIKey())
	assert.Equal(t, 1, svc.currentKey)

	model = svc.chatModel("answer from the provided context only")
	require.NotNil(t, model.SystemInstruction)
	require.Len(t, model.SystemInstruction.Parts, 1)
	assert.Equal(t, genai.Text("answer from the provided context only"), model.SystemInstruction.Parts[0])
}

func TestGeminiChatModelWithoutSystemInstruction(t *testing.T) {
	svc, err := NewGeminiService([]string{"key-one"}, "gemini-2.0-flash")
	require.NoError(t, err)

	model := svc.chatModel("")
	assert.Nil(t, model.SystemInstruction)
}
