package mapper

import (
	"qwery-ai/internal/entity"
	"qwery-ai/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	return &entity.Document{
		Id:        d.Id,
		Content:   d.Content,
		Metadata:  metadataOrEmpty(d.Metadata),
		Embedding: d.Embedding.Slice(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	return &model.Document{
		Id:        d.Id,
		Content:   d.Content,
		Metadata:  datatypes.JSONMap(metadataOrEmpty(d.Metadata)),
		Embedding: pgvector.NewVector(d.Embedding),
	}
}

func (m *DocumentMapper) ScoredToEntity(s *model.ScoredDocument) *entity.ScoredDocument {
	if s == nil {
		return nil
	}

	return &entity.ScoredDocument{
		Document: &entity.Document{
			Id:       s.Id,
			Content:  s.Content,
			Metadata: metadataOrEmpty(s.Metadata),
		},
		Similarity: s.Similarity,
	}
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

func metadataOrEmpty(md map[string]interface{}) map[string]interface{} {
	if md == nil {
		return map[string]interface{}{}
	}
	return md
}
