// Package embedding provides vector embedding generation for semantic search
// through the Oppla cloud embedding endpoint.
package embedding

import (
	"context"
)

// Engine generates vector embeddings for text.
type Engine interface {
	// Embed generates an embedding for a single text
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// BatchSize returns the maximum number of texts per EmbedBatch call
	BatchSize() int

	// Name returns the engine name
	Name() string
}
