package rageval

import (
	"context"
	"fmt"

	"ragbench/src/log"
)

// IndexBuilder chunks are embedded one node at a time and written to the
// vector store. A failed embedding aborts the build; the recovery path is a
// full rebuild.
type IndexBuilder struct {
	embedder Embedder
	store    VectorStore
}

func NewIndexBuilder(embedder Embedder, store VectorStore) *IndexBuilder {
	return &IndexBuilder{
		embedder: embedder,
		store:    store,
	}
}

// Build embeds every node and stores the (node, vector) pairs. The returned
// index supports nearest-neighbor retrieval over the same store.
func (b *IndexBuilder) Build(ctx context.Context, nodes []Node) (*Index, error) {
	objects := make([]VectorObject, 0, len(nodes))
	for _, node := range nodes {
		vector, err := b.embedder.GetEmbedding(ctx, node.Content)
		if err != nil {
			return nil, &EmbeddingError{NodeID: node.ID, Err: err}
		}

		objects = append(objects, VectorObject{
			ID:         node.ID,
			Vector:     vector,
			Properties: nodeProperties(node),
		})
	}

	if err := b.store.Add(ctx, objects); err != nil {
		return nil, fmt.Errorf("failed to store vectors: %w", err)
	}

	log.Debug("index built", "nodes", len(nodes))

	return &Index{
		embedder: b.embedder,
		store:    b.store,
		size:     len(nodes),
	}, nil
}

// Index is a built collection of (node, embedding) pairs. It is never mutated
// after construction; queries embed the query string and delegate to the
// store's nearest-neighbor search.
type Index struct {
	embedder Embedder
	store    VectorStore
	size     int
}

// OpenIndex wraps a store that was populated by an earlier Build, for
// example a persistent weaviate class. The size is unknown and reported
// as zero.
func OpenIndex(embedder Embedder, store VectorStore) *Index {
	return &Index{
		embedder: embedder,
		store:    store,
	}
}

// Size returns the number of indexed nodes.
func (idx *Index) Size() int { return idx.size }

// Retrieve returns the min(k, size) nodes nearest to the query by embedding
// distance, in non-decreasing distance order.
func (idx *Index) Retrieve(ctx context.Context, query string, k int) ([]Node, error) {
	vector, err := idx.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, &EmbeddingError{NodeID: "query", Err: err}
	}

	matches, err := idx.store.Query(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector store: %w", err)
	}

	nodes := make([]Node, 0, len(matches))
	for _, match := range matches {
		nodes = append(nodes, nodeFromProperties(match.ID, match.Properties))
	}

	return nodes, nil
}

func nodeProperties(node Node) map[string]interface{} {
	return map[string]interface{}{
		"documentName": node.DocumentName,
		"page":         node.Page,
		"order":        node.Order,
		"content":      node.Content,
	}
}

func nodeFromProperties(id string, props map[string]interface{}) Node {
	node := Node{ID: id}
	if v, ok := props["documentName"].(string); ok {
		node.DocumentName = v
	}
	if v, ok := props["content"].(string); ok {
		node.Content = v
	}
	switch v := props["page"].(type) {
	case int:
		node.Page = v
	case float64:
		node.Page = int(v)
	}
	switch v := props["order"].(type) {
	case int:
		node.Order = v
	case float64:
		node.Order = int(v)
	}
	return node
}
