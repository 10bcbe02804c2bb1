package esctrl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"
)

// Service wraps the Elasticsearch operations for keyword (BM25) retrieval
// over indexed node chunks.
type Service struct {
	client *elasticsearch.Client
	index  string
}

func NewService(client *elasticsearch.Client, index string) *Service {
	return &Service{
		client: client,
		index:  index,
	}
}

// Document is one unit to index: an ID plus arbitrary fields.
type Document struct {
	ID     string
	Fields map[string]interface{}
}

// Hit is one search result.
type Hit struct {
	ID     string
	Score  float64
	Fields map[string]interface{}
}

// EnsureIndex creates the index when it does not exist yet.
func (s *Service) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.index},
		s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	createRes, err := s.client.Indices.Create(s.index,
		s.client.Indices.Create.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}

	return nil
}

// DeleteIndex removes the index and everything in it.
func (s *Service) DeleteIndex(ctx context.Context) error {
	res, err := s.client.Indices.Delete([]string{s.index},
		s.client.Indices.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to delete index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("failed to delete index: %s", res.String())
	}

	return nil
}

// IndexDocuments indexes the documents one by one and refreshes the index so
// they are searchable immediately.
func (s *Service) IndexDocuments(ctx context.Context, docs []Document) error {
	for _, doc := range docs {
		body, err := json.Marshal(doc.Fields)
		if err != nil {
			return fmt.Errorf("failed to marshal document %s: %w", doc.ID, err)
		}

		res, err := s.client.Index(s.index, bytes.NewReader(body),
			s.client.Index.WithDocumentID(doc.ID),
			s.client.Index.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("failed to index document %s: %w", doc.ID, err)
		}
		res.Body.Close()

		if res.IsError() {
			return fmt.Errorf("failed to index document %s: %s", doc.ID, res.String())
		}
	}

	refreshRes, err := s.client.Indices.Refresh(
		s.client.Indices.Refresh.WithIndex(s.index),
		s.client.Indices.Refresh.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to refresh index: %w", err)
	}
	refreshRes.Body.Close()

	return nil
}

// Search runs a BM25 match query against the given field and returns the top
// k hits by score.
func (s *Service) Search(ctx context.Context, field, query string, k int) ([]Hit, error) {
	searchBody := map[string]interface{}{
		"size": k,
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				field: query,
			},
		},
	}

	body, err := json.Marshal(searchBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search body: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
		s.client.Search.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search returned error: %s", res.String())
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string                 `json:"_id"`
				Score  float64                `json:"_score"`
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	hits := make([]Hit, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		hits = append(hits, Hit{
			ID:     hit.ID,
			Score:  hit.Score,
			Fields: hit.Source,
		})
	}

	return hits, nil
}
