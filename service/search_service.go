package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/blockvoltcr7/vector-store-be/database"
	"github.com/blockvoltcr7/vector-store-be/types"
)

const ragSystemPrompt = "You are an assistant answering questions about the user's uploaded documents. " +
	"Answer using only the provided context. If the context does not contain the answer, say so " +
	"instead of guessing. Cite the document titles you drew from when it helps the user."

// SearchService is the query engine: embed the query, run a top-K similarity
// search against one namespace, and optionally forward the matches to the
// chat model as context.
type SearchService struct {
	vectorDB         database.VectorDatabase
	embedder         Embedder
	ai               AIService
	defaultNamespace string
}

func NewSearchService(vectorDB database.VectorDatabase, embedder Embedder, ai AIService, defaultNamespace string) *SearchService {
	return &SearchService{
		vectorDB:         vectorDB,
		embedder:         embedder,
		ai:               ai,
		defaultNamespace: defaultNamespace,
	}
}

func (s *SearchService) namespace(requested string) string {
	if requested == "" {
		return s.defaultNamespace
	}
	return requested
}

// Search returns the top-K matches for a query, ordered by descending score.
func (s *SearchService) Search(ctx context.Context, req types.SearchRequest) (*types.SearchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	topK := req.TopK
	if topK <= 0 {
		topK = 5
	}
	namespace := s.namespace(req.Namespace)

	vector, err := s.embedder.EmbedQuery(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := s.vectorDB.Query(ctx, namespace, vector, topK, req.Filter)
	if err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, types.SearchResult{
			Content:  m.Record.Content,
			Metadata: m.Record.Metadata,
			Score:    m.Score,
		})
	}

	return &types.SearchResponse{
		Query:        req.Query,
		Namespace:    namespace,
		TotalResults: len(results),
		Matches:      results,
	}, nil
}

// Ask retrieves context for the question and forwards both to the chat
// model, returning the generated answer together with its sources. The
// caller owns the conversation history.
func (s *SearchService) Ask(ctx context.Context, req types.AskRequest) (*types.AskResponse, error) {
	searchRes, err := s.Search(ctx, types.SearchRequest{
		Query:     req.Question,
		Namespace: req.Namespace,
		TopK:      req.TopK,
		Filter:    req.Filter,
	})
	if err != nil {
		return nil, err
	}

	messages := make([]types.Message, 0, len(req.History)+1)
	messages = append(messages, req.History...)
	messages = append(messages, types.Message{
		Role:    "user",
		Content: buildPrompt(req.Question, searchRes.Matches),
	})

	answer, err := s.ai.Chat(ctx, ragSystemPrompt, messages)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	return &types.AskResponse{
		Answer:  answer,
		Sources: searchRes.Matches,
	}, nil
}

// buildPrompt concatenates the retrieved segments into a context block ahead
// of the question.
func buildPrompt(question string, matches []types.SearchResult) string {
	if len(matches) == 0 {
		return question
	}
	var b strings.Builder
	b.WriteString("Context:\n")
	for i, m := range matches {
		title := m.Metadata.Title
		if title == "" {
			title = m.Metadata.Source
		}
		fmt.Fprintf(&b, "[%d] %s\n%s\n\n", i+1, title, m.Content)
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}
