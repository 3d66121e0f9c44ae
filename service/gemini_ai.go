package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/blockvoltcr7/vector-store-be/types"
)

// GeminiService is an alternative AIService backed by Google Gemini. It
// rotates across API keys on failure. Embeddings stay on OpenAI regardless
// of the chat provider, so this type implements AIService only.
type GeminiService struct {
	apiKeys    []string
	currentKey int
	client     *genai.Client
	modelName  string
	mu         sync.Mutex
}

func NewGeminiService(apiKeys []string, modelName string) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}
	service := &GeminiService{
		apiKeys:    apiKeys,
		currentKey: 0,
		modelName:  modelName,
	}
	if err := service.initClient(); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *GeminiService) initClient() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[s.currentKey]))
	if err != nil {
		return err
	}
	s.client = client
	return nil
}

func (s *GeminiService) rotateAPIKey() error {
	s.mu.Lock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	if err := s.client.Close(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.initClient()
}

// chatModel builds a model from the current client with the system
// instruction applied. Every attempt, including the post-rotation retry,
// goes through here so the instruction is never lost.
func (s *GeminiService) chatModel(system string) *genai.GenerativeModel {
	s.mu.Lock()
	defer s.mu.Unlock()

	model := s.client.GenerativeModel(s.modelName)
	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}
	return model
}

func (s *GeminiService) Chat(ctx context.Context, system string, messages []types.Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("no messages provided")
	}

	// The last message is the new prompt, everything before it is history.
	history := make([]*genai.Content, 0, len(messages)-1)
	for _, msg := range messages[:len(messages)-1] {
		role := "user"
		if msg.Role == "assistant" {
			role = "model"
		}
		history = append(history, &genai.Content{
			Parts: []genai.Part{genai.Text(msg.Content)},
			Role:  role,
		})
	}
	prompt := genai.Text(messages[len(messages)-1].Content)

	chat := s.chatModel(system).StartChat()
	chat.History = history

	resp, err := chat.SendMessage(ctx, prompt)
	if err != nil {
		if err := s.rotateAPIKey(); err != nil {
			return "", err
		}
		chat = s.chatModel(system).StartChat()
		chat.History = history
		resp, err = chat.SendMessage(ctx, prompt)
		if err != nil {
			return "", err
		}
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("no response generated")
	}
	content := ""
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content += string(text)
			}
		}
	}
	return content, nil
}
