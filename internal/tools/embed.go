package tools

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/searchai/searchai/internal/models"
	"github.com/searchai/searchai/internal/service"
)

// EmbedTextTool embeds a text and stores it in both the vector index and the
// keyword index so that hybrid_search can find it later.
func EmbedTextTool(embedder *service.Embedder, vectors *service.VectorStore, keywords *service.ElasticsearchService) Tool {
	t := Tool{
		Name:        "embed_text",
		Description: "Compute an embedding for the given text and index it for later hybrid (semantic + keyword) retrieval.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "The text to embed and index",
					"minLength":   1,
				},
			},
			"required": []string{"text"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			text, _ := input["text"].(string)

			embedding, err := embedder.Embed(ctx, text)
			if err != nil {
				return "", fmt.Errorf("embed text: %w", err)
			}

			doc := models.Document{ID: documentID(text), Content: text}

			if vectors != nil {
				if err := vectors.Upsert(ctx, doc, embedding); err != nil {
					return "", fmt.Errorf("store embedding: %w", err)
				}
			}
			if keywords != nil {
				if err := keywords.IndexDocument(ctx, doc); err != nil {
					// The vector copy is already stored; the keyword
					// index will be missing this document until re-embedded.
					log.Warn().Err(err).Str("doc", doc.ID).Msg("keyword indexing failed")
				}
			}

			out := map[string]interface{}{
				"id":         doc.ID,
				"dimensions": len(embedding),
				"indexed":    vectors != nil,
			}
			b, err := json.Marshal(out)
			if err != nil {
				return "", fmt.Errorf("marshal result: %w", err)
			}
			return string(b), nil
		},
	}
	if embedder == nil {
		t.MissingCredential = "OPENAI_API_KEY"
	}
	return t
}

// documentID derives a stable ID from the content so re-embedding the same
// text updates in place instead of duplicating.
func documentID(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:8])
}
