package rageval

import (
	"context"
	"fmt"

	"ragbench/src/storage/memvec"
	"ragbench/src/storage/weaviate"
)

// memoryVectorStore adapts the in-memory store to the VectorStore interface.
type memoryVectorStore struct {
	store *memvec.Store
}

// NewMemoryVectorStore returns the default vector store backend: exact
// in-memory nearest-neighbor search, scoped to a single pipeline run.
func NewMemoryVectorStore() VectorStore {
	return &memoryVectorStore{store: memvec.NewStore()}
}

func (m *memoryVectorStore) Add(ctx context.Context, objects []VectorObject) error {
	converted := make([]memvec.Object, len(objects))
	for i, obj := range objects {
		converted[i] = memvec.Object{
			ID:         obj.ID,
			Vector:     obj.Vector,
			Properties: obj.Properties,
		}
	}
	return m.store.Add(converted)
}

func (m *memoryVectorStore) Query(ctx context.Context, vector []float32, k int) ([]VectorMatch, error) {
	matches, err := m.store.Query(vector, k)
	if err != nil {
		return nil, err
	}

	converted := make([]VectorMatch, len(matches))
	for i, match := range matches {
		converted[i] = VectorMatch{
			ID:         match.ID,
			Distance:   match.Distance,
			Properties: match.Properties,
		}
	}
	return converted, nil
}

// weaviateVectorStore adapts the Weaviate SDK to the VectorStore interface.
// One class holds one run's nodes; the caller owns class lifecycle.
type weaviateVectorStore struct {
	sdk       *weaviate.SDK
	className string
}

// NewWeaviateVectorStore returns a vector store backed by a Weaviate class.
// The class is created when missing.
func NewWeaviateVectorStore(ctx context.Context, sdk *weaviate.SDK, className string) (VectorStore, error) {
	if err := sdk.EnsureClass(ctx, className, weaviate.NodeClassProperties()); err != nil {
		return nil, fmt.Errorf("failed to ensure class %s: %w", className, err)
	}

	return &weaviateVectorStore{
		sdk:       sdk,
		className: className,
	}, nil
}

func (w *weaviateVectorStore) Add(ctx context.Context, objects []VectorObject) error {
	converted := make([]weaviate.VectorObject, len(objects))
	for i, obj := range objects {
		properties := make(map[string]interface{}, len(obj.Properties)+1)
		for k, v := range obj.Properties {
			properties[k] = v
		}
		// Weaviate object IDs must be UUIDs; keep ours as a property.
		properties["nodeId"] = obj.ID

		converted[i] = weaviate.VectorObject{
			Vector:     obj.Vector,
			Properties: properties,
		}
	}
	return w.sdk.BatchAddVectors(ctx, w.className, converted)
}

func (w *weaviateVectorStore) Query(ctx context.Context, vector []float32, k int) ([]VectorMatch, error) {
	results, err := w.sdk.QueryVectors(ctx, w.className, vector, weaviate.QueryConfig{
		Fields: []string{"nodeId", "documentName", "page", "order", "content"},
		Limit:  k,
	})
	if err != nil {
		return nil, err
	}

	matches := make([]VectorMatch, len(results))
	for i, result := range results {
		match := VectorMatch{
			ID:         result.ID,
			Distance:   result.Distance,
			Properties: result.Properties,
		}
		if nodeID, ok := result.Properties["nodeId"].(string); ok {
			match.ID = nodeID
		}
		matches[i] = match
	}
	return matches, nil
}
