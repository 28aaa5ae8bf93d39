package implementation

import (
	"context"
	"fmt"

	"qwery-ai/internal/entity"
	"qwery-ai/internal/mapper"
	"qwery-ai/internal/model"
	"qwery-ai/internal/repository/contract"
	"qwery-ai/internal/repository/specification"
	"qwery-ai/pkg/database"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const bulkInsertBatchSize = 100

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *entity.Document) error {
	if !doc.HasEmbedding() {
		return database.ClassifyError("insert", fmt.Errorf("document has no embedding"))
	}

	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return database.ClassifyError("insert", err)
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) CreateBulk(ctx context.Context, docs []*entity.Document) (int, error) {
	models := make([]*model.Document, 0, len(docs))
	for _, d := range docs {
		if !d.HasEmbedding() {
			continue
		}
		models = append(models, r.mapper.ToModel(d))
	}

	if len(models) == 0 {
		return 0, nil
	}

	if err := r.db.WithContext(ctx).CreateInBatches(models, bulkInsertBatchSize).Error; err != nil {
		return 0, database.ClassifyError("bulk insert", err)
	}
	return len(models), nil
}

func (r *DocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	var models []*model.Document
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	if err := query.Omit("embedding").Find(&models).Error; err != nil {
		return nil, database.ClassifyError("list", err)
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DocumentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	if err := query.Model(&model.Document{}).Count(&count).Error; err != nil {
		return 0, database.ClassifyError("count", err)
	}
	return count, nil
}

// SearchSimilar ranks by pgvector cosine distance (<=>). Similarity is
// 1 - distance. Whether the ivfflat index is used is left to the planner.
func (r *DocumentRepositoryImpl) SearchSimilar(ctx context.Context, query []float32, threshold float64, limit int) ([]*entity.ScoredDocument, error) {
	if limit <= 0 {
		return []*entity.ScoredDocument{}, nil
	}

	queryVector := pgvector.NewVector(query)
	var rows []*model.ScoredDocument

	err := r.db.WithContext(ctx).
		Model(&model.Document{}).
		Select("id, content, metadata, 1 - (embedding <=> ?) AS similarity", queryVector).
		Where("1 - (embedding <=> ?) > ?", queryVector, threshold).
		Clauses(clause.OrderBy{Expression: clause.Expr{SQL: "embedding <=> ?", Vars: []interface{}{queryVector}}}).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, database.ClassifyError("search", err)
	}

	scored := make([]*entity.ScoredDocument, len(rows))
	for i, row := range rows {
		scored[i] = r.mapper.ScoredToEntity(row)
	}
	return scored, nil
}
