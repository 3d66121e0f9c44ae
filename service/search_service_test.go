package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockvoltcr7/vector-store-be/database"
	"github.com/blockvoltcr7/vector-store-be/types"
)

func seedRecords(t *testing.T, db *fakeVectorDB, namespace string, docs map[string]types.Metadata) {
	t.Helper()
	records := make([]database.VectorRecord, 0, len(docs))
	i := 0
	for content, metadata := range docs {
		records = append(records, database.VectorRecord{
			ID:       database.VectorID(metadata.Source, i),
			Values:   embedText(content),
			Content:  content,
			Metadata: metadata,
		})
		i++
	}
	require.NoError(t, db.UpsertRecords(context.Background(), namespace, records))
}

func seedThreeDocs(t *testing.T, db *fakeVectorDB, namespace string) {
	t.Helper()
	seedRecords(t, db, namespace, map[string]types.Metadata{
		"the mitochondria is the powerhouse of the cell": {
			Title: "Biology", Category: "science", Source: "bio.txt", Tags: []string{"cells"},
		},
		"stock markets closed higher on friday": {
			Title: "Markets", Category: "finance", Source: "markets.txt", Tags: []string{"stocks"},
		},
		"the recipe calls for two cups of flour": {
			Title: "Baking", Category: "cooking", Source: "recipes.txt", Tags: []string{"bread"},
		},
	})
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	svc := NewSearchService(newFakeVectorDB(), &fakeEmbedder{}, &fakeAI{}, "default")

	_, err := svc.Search(context.Background(), types.SearchRequest{Query: "   "})
	assert.Error(t, err)
}

func TestSearchUsesDefaultNamespace(t *testing.T) {
	db := newFakeVectorDB()
	svc := NewSearchService(db, &fakeEmbedder{}, &fakeAI{}, "default")

	res, err := svc.Search(context.Background(), types.SearchRequest{Query: "anything"})
	require.NoError(t, err)

	assert.Equal(t, "default", db.lastQueriedNS)
	assert.Equal(t, "default", res.Namespace)
	assert.Equal(t, 0, res.TotalResults)
}

func TestSearchTopMatchIsExactText(t *testing.T) {
	db := newFakeVectorDB()
	seedThreeDocs(t, db, "docs")
	svc := NewSearchService(db, &fakeEmbedder{}, &fakeAI{}, "default")

	res, err := svc.Search(context.Background(), types.SearchRequest{
		Query:     "the mitochondria is the powerhouse of the cell",
		Namespace: "docs",
		TopK:      3,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Matches)

	top := res.Matches[0]
	assert.Equal(t, "the mitochondria is the powerhouse of the cell", top.Content)
	assert.Equal(t, "Biology", top.Metadata.Title)
	assert.InDelta(t, 1.0, float64(top.Score), 1e-4)
}

func TestSearchOrdersByDescendingScore(t *testing.T) {
	db := newFakeVectorDB()
	seedThreeDocs(t, db, "docs")
	svc := NewSearchService(db, &fakeEmbedder{}, &fakeAI{}, "default")

	res, err := svc.Search(context.Background(), types.SearchRequest{
		Query:     "how do markets behave",
		Namespace: "docs",
		TopK:      3,
	})
	require.NoError(t, err)
	require.Len(t, res.Matches, 3)

	for i := 1; i < len(res.Matches); i++ {
		assert.GreaterOrEqual(t, res.Matches[i-1].Score, res.Matches[i].Score)
	}
}

func TestSearchHonorsTopK(t *testing.T) {
	db := newFakeVectorDB()
	seedThreeDocs(t, db, "docs")
	svc := NewSearchService(db, &fakeEmbedder{}, &fakeAI{}, "default")

	res, err := svc.Search(context.Background(), types.SearchRequest{
		Query:     "anything",
		Namespace: "docs",
		TopK:      2,
	})
	require.NoError(t, err)
	assert.Len(t, res.Matches, 2)
	assert.Equal(t, 2, res.TotalResults)
}

func TestSearchAppliesMetadataFilter(t *testing.T) {
	db := newFakeVectorDB()
	seedThreeDocs(t, db, "docs")
	svc := NewSearchService(db, &fakeEmbedder{}, &fakeAI{}, "default")

	res, err := svc.Search(context.Background(), types.SearchRequest{
		Query:     "anything",
		Namespace: "docs",
		TopK:      5,
		Filter:    &types.MetadataFilter{Category: "finance"},
	})
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, "Markets", res.Matches[0].Metadata.Title)

	res, err = svc.Search(context.Background(), types.SearchRequest{
		Query:     "anything",
		Namespace: "docs",
		TopK:      5,
		Filter:    &types.MetadataFilter{Tags: []string{"bread", "cells"}},
	})
	require.NoError(t, err)
	assert.Len(t, res.Matches, 2)
}

func TestSearchAfterNamespaceDelete(t *testing.T) {
	db := newFakeVectorDB()
	seedThreeDocs(t, db, "docs")
	svc := NewSearchService(db, &fakeEmbedder{}, &fakeAI{}, "default")

	require.NoError(t, db.DeleteNamespace(context.Background(), "docs"))

	res, err := svc.Search(context.Background(), types.SearchRequest{
		Query:     "anything",
		Namespace: "docs",
		TopK:      5,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Matches)
	assert.Equal(t, 0, res.TotalResults)
}

func TestAskForwardsContextToChatModel(t *testing.T) {
	db := newFakeVectorDB()
	seedThreeDocs(t, db, "docs")
	ai := &fakeAI{answer: "The mitochondria."}
	svc := NewSearchService(db, &fakeEmbedder{}, ai, "default")

	res, err := svc.Ask(context.Background(), types.AskRequest{
		Question:  "what is the powerhouse of the cell?",
		Namespace: "docs",
		TopK:      2,
	})
	require.NoError(t, err)

	assert.Equal(t, "The mitochondria.", res.Answer)
	assert.Len(t, res.Sources, 2)

	require.NotEmpty(t, ai.messages)
	prompt := ai.messages[len(ai.messages)-1]
	assert.Equal(t, "user", prompt.Role)
	assert.Contains(t, prompt.Content, "Context:")
	assert.Contains(t, prompt.Content, "what is the powerhouse of the cell?")
	assert.NotEmpty(t, ai.system)
}

func TestAskPreservesHistory(t *testing.T) {
	db := newFakeVectorDB()
	seedThreeDocs(t, db, "docs")
	ai := &fakeAI{answer: "Two cups."}
	svc := NewSearchService(db, &fakeEmbedder{}, ai, "default")

	history := []types.Message{
		{Role: "user", Content: "do you know any recipes?"},
		{Role: "assistant", Content: "Yes, I have a bread recipe."},
	}
	_, err := svc.Ask(context.Background(), types.AskRequest{
		Question:  "how much flour does it need?",
		Namespace: "docs",
		History:   history,
	})
	require.NoError(t, err)

	require.Len(t, ai.messages, 3)
	assert.Equal(t, history[0], ai.messages[0])
	assert.Equal(t, history[1], ai.messages[1])
	assert.Equal(t, "user", ai.messages[2].Role)
}
