package models

// Document is one entry in the search corpus, shared by the keyword and
// vector indexes.
type Document struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// SearchHit is one ranked result from a keyword, vector, or hybrid search.
type SearchHit struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// HybridResult is the structured payload of the hybrid_search tool.
type HybridResult struct {
	Query    string      `json:"query"`
	Hits     []SearchHit `json:"hits"`
	Degraded bool        `json:"degraded,omitempty"` // keyword-only fallback was used
}
