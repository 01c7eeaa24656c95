package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/searchai/searchai/internal/models"
)

// rrfK is the standard reciprocal-rank-fusion constant.
const rrfK = 60

// KeywordSearcher is the keyword leg of hybrid search.
type KeywordSearcher interface {
	KeywordSearch(ctx context.Context, query string, size int) ([]models.SearchHit, error)
}

// VectorSearcher is the semantic leg of hybrid search.
type VectorSearcher interface {
	Search(ctx context.Context, embedding []float32, topK int) ([]models.SearchHit, error)
}

// TextEmbedder produces the query embedding for the vector leg.
type TextEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// HybridSearcher combines keyword (BM25) and vector (cosine) retrieval and
// merges the two result lists with reciprocal rank fusion.
//
// keywordFallback controls degradation: when true and the vector leg is
// unavailable, keyword-only results are returned with Degraded set; when
// false the whole search fails.
type HybridSearcher struct {
	keyword         KeywordSearcher
	vector          VectorSearcher
	embedder        TextEmbedder
	keywordFallback bool
}

// NewHybridSearcher wires the two legs together. Either leg may be nil when
// its backing service is not configured.
func NewHybridSearcher(keyword KeywordSearcher, vector VectorSearcher, embedder TextEmbedder, keywordFallback bool) *HybridSearcher {
	return &HybridSearcher{
		keyword:         keyword,
		vector:          vector,
		embedder:        embedder,
		keywordFallback: keywordFallback,
	}
}

// Search runs both legs concurrently and fuses the results.
func (h *HybridSearcher) Search(ctx context.Context, query string, topK int) (*models.HybridResult, error) {
	if topK <= 0 {
		topK = 10
	}

	var (
		keywordHits []models.SearchHit
		vectorHits  []models.SearchHit
		keywordErr  error
		vectorErr   error
	)

	// The legs are independent: one failing must not cancel the other, so
	// errors are captured per leg rather than returned to the group.
	g, gctx := errgroup.WithContext(ctx)
	if h.keyword != nil {
		g.Go(func() error {
			keywordHits, keywordErr = h.keyword.KeywordSearch(gctx, query, topK)
			return nil
		})
	} else {
		keywordErr = fmt.Errorf("keyword index is not configured")
	}
	if h.vector != nil && h.embedder != nil {
		g.Go(func() error {
			embedding, err := h.embedder.Embed(gctx, query)
			if err != nil {
				vectorErr = fmt.Errorf("embed query: %w", err)
				return nil
			}
			vectorHits, vectorErr = h.vector.Search(gctx, embedding, topK)
			return nil
		})
	} else {
		vectorErr = fmt.Errorf("vector index is not configured")
	}
	_ = g.Wait()

	switch {
	case keywordErr == nil && vectorErr == nil:
		return &models.HybridResult{
			Query: query,
			Hits:  fuseHits(keywordHits, vectorHits, topK),
		}, nil

	case vectorErr != nil && keywordErr == nil:
		if !h.keywordFallback {
			return nil, fmt.Errorf("vector search unavailable: %w", vectorErr)
		}
		log.Warn().Err(vectorErr).Msg("vector leg unavailable, falling back to keyword-only results")
		return &models.HybridResult{
			Query:    query,
			Hits:     limitHits(keywordHits, topK),
			Degraded: true,
		}, nil

	case keywordErr != nil && vectorErr == nil:
		log.Warn().Err(keywordErr).Msg("keyword leg unavailable, returning vector-only results")
		return &models.HybridResult{
			Query:    query,
			Hits:     limitHits(vectorHits, topK),
			Degraded: true,
		}, nil

	default:
		return nil, fmt.Errorf("both search legs failed: keyword: %v; vector: %v", keywordErr, vectorErr)
	}
}

// fuseHits merges two ranked lists with reciprocal rank fusion: each document
// scores sum(1/(k+rank)) over the lists it appears in.
func fuseHits(keyword, vector []models.SearchHit, topK int) []models.SearchHit {
	type fused struct {
		hit   models.SearchHit
		score float64
	}
	byID := make(map[string]*fused)

	accumulate := func(hits []models.SearchHit) {
		for rank, hit := range hits {
			f, ok := byID[hit.ID]
			if !ok {
				f = &fused{hit: hit}
				byID[hit.ID] = f
			}
			f.score += 1.0 / float64(rrfK+rank+1)
		}
	}
	accumulate(keyword)
	accumulate(vector)

	merged := make([]models.SearchHit, 0, len(byID))
	for _, f := range byID {
		merged = append(merged, models.SearchHit{
			ID:      f.hit.ID,
			Content: f.hit.Content,
			Score:   f.score,
		})
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].ID < merged[j].ID
	})
	return limitHits(merged, topK)
}

func limitHits(hits []models.SearchHit, topK int) []models.SearchHit {
	if len(hits) > topK {
		return hits[:topK]
	}
	return hits
}
