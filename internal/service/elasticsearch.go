package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/searchai/searchai/internal/models"
)

// ElasticsearchService is the keyword leg of hybrid search. It maintains one
// document index and answers full-text match queries against it. The
// underlying client is safe for concurrent use.
type ElasticsearchService struct {
	client *elasticsearch.Client
	index  string
}

// NewElasticsearchService creates an ES client using go-elasticsearch/v8.
func NewElasticsearchService(scheme, host string, port int, user, password string, verifyCerts bool, maxRetries int, index string) (*ElasticsearchService, error) {
	addr := fmt.Sprintf("%s://%s:%d", scheme, host, port)

	cfg := elasticsearch.Config{
		Addresses:  []string{addr},
		MaxRetries: maxRetries,
	}
	if user != "" {
		cfg.Username = user
		cfg.Password = password
	}
	if !verifyCerts {
		cfg.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // #nosec G402 - user explicitly disabled cert verification
			},
		}
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch.NewClient: %w", err)
	}
	return &ElasticsearchService{client: client, index: index}, nil
}

// Index returns the configured document index name.
func (s *ElasticsearchService) Index() string {
	return s.index
}

// TestConnection pings the cluster.
func (s *ElasticsearchService) TestConnection(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("ping error: %s", res.Status())
	}
	return nil
}

// IndexDocument stores a document in the keyword index. Refresh is requested
// so the document is searchable as soon as the invocation returns.
func (s *ElasticsearchService) IndexDocument(ctx context.Context, doc models.Document) error {
	body, err := json.Marshal(map[string]interface{}{"content": doc.Content})
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(doc.ID),
		s.client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("index document: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index document: %s", res.Status())
	}
	return nil
}

// KeywordSearch runs a full-text match query and returns scored hits.
func (s *ElasticsearchService) KeywordSearch(ctx context.Context, query string, size int) ([]models.SearchHit, error) {
	if size <= 0 {
		size = 10
	}

	body := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"content": query,
			},
		},
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	opts := []func(*esapi.SearchRequest){
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(bodyBytes)),
	}

	res, err := s.client.Search(opts...)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := decodeBody(res.Body, res.Status(), res.IsError())
	if err != nil {
		return nil, err
	}
	return parseHits(raw), nil
}

func decodeBody(body io.Reader, status string, isError bool) (map[string]interface{}, error) {
	if isError {
		return nil, fmt.Errorf("elasticsearch error: %s", status)
	}
	var out map[string]interface{}
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func parseHits(raw map[string]interface{}) []models.SearchHit {
	var out []models.SearchHit
	hitsWrap, _ := raw["hits"].(map[string]interface{})
	hits, _ := hitsWrap["hits"].([]interface{})
	for _, h := range hits {
		hit, ok := h.(map[string]interface{})
		if !ok {
			continue
		}
		id, _ := hit["_id"].(string)
		score, _ := hit["_score"].(float64)
		source, _ := hit["_source"].(map[string]interface{})
		content, _ := source["content"].(string)
		out = append(out, models.SearchHit{ID: id, Content: content, Score: score})
	}
	return out
}
