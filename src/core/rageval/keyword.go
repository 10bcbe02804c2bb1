package rageval

import (
	"context"
	"fmt"

	"ragbench/src/storage/esctrl"
)

// KeywordRetriever retrieves nodes by BM25 keyword match instead of embedding
// similarity. It lets a keyword-only pipeline be scored side by side with the
// embedding pipeline in the same summary table.
type KeywordRetriever struct {
	es *esctrl.Service
}

func NewKeywordRetriever(es *esctrl.Service) *KeywordRetriever {
	return &KeywordRetriever{es: es}
}

// IndexNodes makes the nodes searchable.
func (r *KeywordRetriever) IndexNodes(ctx context.Context, nodes []Node) error {
	if err := r.es.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("failed to ensure keyword index: %w", err)
	}

	docs := make([]esctrl.Document, len(nodes))
	for i, node := range nodes {
		docs[i] = esctrl.Document{
			ID:     node.ID,
			Fields: nodeProperties(node),
		}
	}

	if err := r.es.IndexDocuments(ctx, docs); err != nil {
		return fmt.Errorf("failed to index nodes: %w", err)
	}

	return nil
}

// Retrieve implements Retriever over the keyword index.
func (r *KeywordRetriever) Retrieve(ctx context.Context, query string, k int) ([]Node, error) {
	hits, err := r.es.Search(ctx, "content", query, k)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}

	nodes := make([]Node, 0, len(hits))
	for _, hit := range hits {
		nodes = append(nodes, nodeFromProperties(hit.ID, hit.Fields))
	}

	return nodes, nil
}
