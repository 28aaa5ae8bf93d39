package entity

import "time"

type Document struct {
	Id        int64
	Content   string
	Metadata  map[string]interface{}
	Embedding []float32 // nil until generated; never persisted when nil
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// HasEmbedding reports whether the document may be persisted.
func (d *Document) HasEmbedding() bool {
	return len(d.Embedding) > 0
}

type ScoredDocument struct {
	Document   *Document
	Similarity float64 // 1 - cosine distance
}
