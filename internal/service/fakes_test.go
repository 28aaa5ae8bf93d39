package service

import (
	"context"
	"sync"

	"qwery-ai/internal/entity"
	"qwery-ai/internal/repository/contract"
	"qwery-ai/internal/repository/specification"
	"qwery-ai/internal/repository/unitofwork"

	"github.com/stretchr/testify/mock"
)

type MockEmbeddingProvider struct {
	mock.Mock
}

func (m *MockEmbeddingProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if v := args.Get(0); v != nil {
		return v.([]float32), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *entity.Document) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockDocumentRepository) CreateBulk(ctx context.Context, docs []*entity.Document) (int, error) {
	args := m.Called(ctx, docs)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	args := m.Called(ctx, specs)
	if v := args.Get(0); v != nil {
		return v.([]*entity.Document), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDocumentRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	args := m.Called(ctx, specs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) SearchSimilar(ctx context.Context, query []float32, threshold float64, limit int) ([]*entity.ScoredDocument, error) {
	args := m.Called(ctx, query, threshold, limit)
	if v := args.Get(0); v != nil {
		return v.([]*entity.ScoredDocument), args.Error(1)
	}
	return nil, args.Error(1)
}

type fakeUnitOfWork struct {
	repo contract.DocumentRepository
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error                 { return nil }
func (u *fakeUnitOfWork) Commit() error                                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                                 { return nil }
func (u *fakeUnitOfWork) DocumentRepository() contract.DocumentRepository { return u.repo }

type fakeFactory struct {
	repo contract.DocumentRepository
}

func (f fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{repo: f.repo}
}

type recordedEvent struct {
	kind   string
	fields map[string]interface{}
}

type recordingEventService struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingEventService) DocumentCreated(ctx context.Context, id int64, contentLength int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{"created", map[string]interface{}{"id": id, "content_length": contentLength}})
}

func (r *recordingEventService) BatchLoaded(ctx context.Context, runId string, loaded, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{"batch", map[string]interface{}{"run_id": runId, "loaded": loaded, "failed": failed}})
}
