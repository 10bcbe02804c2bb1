package rageval

import (
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"
)

// Splitter turns documents into nodes. Splitting is deterministic and
// order-preserving: nodes appear in document order, and a node's Order field
// is its position in the full sequence.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	counter      *TokenCounter
}

func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		counter:      NewTokenCounter(),
	}
}

// Split chunks each document by token length and returns the resulting nodes.
func (s *Splitter) Split(docs []Document) ([]Node, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(s.chunkSize),
		textsplitter.WithChunkOverlap(s.chunkOverlap),
		textsplitter.WithLenFunc(s.counter.Count),
	)

	var nodes []Node
	for _, doc := range docs {
		chunks, err := splitter.SplitText(doc.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to split document %s page %d: %w", doc.Name, doc.Page, err)
		}

		for i, chunk := range chunks {
			order := len(nodes)
			nodes = append(nodes, Node{
				ID:           fmt.Sprintf("%s-p%d-c%d", doc.Name, doc.Page, i),
				DocumentName: doc.Name,
				Page:         doc.Page,
				Order:        order,
				Content:      chunk,
			})
		}
	}

	return nodes, nil
}
