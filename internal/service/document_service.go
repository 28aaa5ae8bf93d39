package service

import (
	"context"
	"fmt"
	"time"

	"qwery-ai/internal/dto"
	"qwery-ai/internal/entity"
	"qwery-ai/internal/pkg/logger"
	"qwery-ai/internal/repository/specification"
	"qwery-ai/internal/repository/unitofwork"
	"qwery-ai/pkg/embedding"
)

type IDocumentService interface {
	Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error)
	Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error)
	List(ctx context.Context, req *dto.ListDocumentsRequest) (*dto.ListDocumentsResponse, error)
}

type documentService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventService      IEventService
	logger            logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventService IEventService,
	logger logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventService:      eventService,
		logger:            logger,
	}
}

func (s *documentService) Create(ctx context.Context, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error) {
	s.logger.Info("DOCUMENT", "Adding document", map[string]interface{}{"preview": preview(req.Content, 50)})

	vector, err := s.embeddingProvider.Generate(ctx, req.Content)
	if err != nil {
		s.logger.Error("EMBEDDING", "Error generating embedding", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	metadata := req.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	doc := &entity.Document{
		Content:   req.Content,
		Metadata:  metadata,
		Embedding: vector,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		s.logger.Error("DOCUMENT", "Error adding document", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	s.logger.Info("DOCUMENT", "Document added", map[string]interface{}{"id": doc.Id})
	s.eventService.DocumentCreated(ctx, doc.Id, len(req.Content))

	return &dto.CreateDocumentResponse{
		Id:     doc.Id,
		Status: "success",
	}, nil
}

func (s *documentService) Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	s.logger.Info("SEARCH", "Searching documents", map[string]interface{}{"query": req.Query})

	vector, err := s.embeddingProvider.Generate(ctx, req.Query)
	if err != nil {
		s.logger.Error("EMBEDDING", "Error generating embedding", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentRepository().SearchSimilar(ctx, vector, req.ThresholdOrDefault(), req.LimitOrDefault())
	if err != nil {
		s.logger.Error("SEARCH", "Error searching documents", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	results := make([]*dto.SearchResult, 0, len(scored))
	for _, sd := range scored {
		results = append(results, &dto.SearchResult{
			Id:         sd.Document.Id,
			Content:    sd.Document.Content,
			Metadata:   sd.Document.Metadata,
			Similarity: sd.Similarity,
		})
	}

	s.logger.Info("SEARCH", fmt.Sprintf("Found %d results", len(results)), nil)
	return &dto.SearchResponse{Results: results}, nil
}

func (s *documentService) List(ctx context.Context, req *dto.ListDocumentsRequest) (*dto.ListDocumentsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx, specification.Page(req.Limit, req.Offset)...)
	if err != nil {
		s.logger.Error("DOCUMENT", "Error listing documents", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	items := make([]*dto.DocumentItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, &dto.DocumentItem{
			Id:        d.Id,
			Content:   d.Content,
			Metadata:  d.Metadata,
			CreatedAt: isoTimestamp(d.CreatedAt),
		})
	}

	return &dto.ListDocumentsResponse{Documents: items}, nil
}

func isoTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339Nano)
	return &s
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
