package contract

import (
	"context"

	"qwery-ai/internal/entity"
	"qwery-ai/internal/repository/specification"
)

type DocumentRepository interface {
	// Create inserts one document and fills in its id and timestamps.
	Create(ctx context.Context, doc *entity.Document) error
	// CreateBulk inserts every document that has an embedding and returns how
	// many were written. Documents without one are skipped silently.
	CreateBulk(ctx context.Context, docs []*entity.Document) (int, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilar returns at most limit documents whose cosine similarity to
	// query is strictly greater than threshold, most similar first.
	SearchSimilar(ctx context.Context, query []float32, threshold float64, limit int) ([]*entity.ScoredDocument, error)
}
