package etl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"qwery-ai/internal/entity"
	"qwery-ai/internal/pkg/logger"

	"github.com/google/uuid"
)

var ErrNoDocuments = errors.New("no documents found to process")

// Store is the database side of a run.
type Store interface {
	// EnsureSchema returns the dimension of the embedding column.
	EnsureSchema(ctx context.Context) (int, error)
	// LoadDocuments writes every embedded document in one transaction.
	LoadDocuments(ctx context.Context, docs []*entity.Document) (int, error)
	Close() error
}

// Connector opens a Store. It is the first stage of every run.
type Connector func(ctx context.Context) (Store, error)

// Model is an embedding model that must be loaded before use.
type Model interface {
	Load(ctx context.Context) error
	Generate(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// BatchNotifier is told about every successful load.
type BatchNotifier interface {
	BatchLoaded(ctx context.Context, runId string, loaded, failed int)
}

type Report struct {
	RunId     string
	Extracted int
	Embedded  int
	Failed    int
	Loaded    int
	Duration  time.Duration
}

type Options struct {
	SourcePath    string
	ProgressEvery int
}

type Pipeline struct {
	connect  Connector
	model    Model
	notifier BatchNotifier
	opts     Options
	logger   logger.ILogger
}

func NewPipeline(connect Connector, model Model, notifier BatchNotifier, opts Options, log logger.ILogger) *Pipeline {
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = 10
	}
	return &Pipeline{
		connect:  connect,
		model:    model,
		notifier: notifier,
		opts:     opts,
		logger:   log,
	}
}

// run carries state between stages.
type run struct {
	report    *Report
	store     Store
	dimension int
	docs      []*entity.Document
}

type stage struct {
	name string
	fn   func(ctx context.Context, r *run) error
}

func (p *Pipeline) stages() []stage {
	return []stage{
		{"connect", p.connectStage},
		{"schema", p.schemaStage},
		{"model", p.modelStage},
		{"extract", p.extractStage},
		{"embed", p.embedStage},
		{"load", p.loadStage},
	}
}

// Run executes every stage in order and stops at the first failure. The
// store is closed on every path once connected. The returned report is never
// nil and reflects progress up to the failing stage.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	started := time.Now()
	r := &run{report: &Report{RunId: uuid.NewString()}}

	p.logger.Info("ETL", "Starting ETL pipeline", map[string]interface{}{
		"run_id": r.report.RunId,
		"source": p.opts.SourcePath,
	})

	defer func() {
		if r.store == nil {
			return
		}
		if err := r.store.Close(); err != nil {
			p.logger.Warn("ETL", "Failed to close database connection", map[string]interface{}{"error": err.Error()})
			return
		}
		p.logger.Info("ETL", "Database connection closed", nil)
	}()

	for _, st := range p.stages() {
		if err := st.fn(ctx, r); err != nil {
			r.report.Duration = time.Since(started)
			p.logger.Error("ETL", "ETL pipeline failed", map[string]interface{}{
				"stage": st.name,
				"error": err.Error(),
			})
			return r.report, fmt.Errorf("%s: %w", st.name, err)
		}
	}

	r.report.Duration = time.Since(started)
	p.logger.Info("ETL", fmt.Sprintf("ETL pipeline complete, loaded %d documents", r.report.Loaded), map[string]interface{}{
		"run_id":   r.report.RunId,
		"duration": r.report.Duration.String(),
	})

	if p.notifier != nil {
		p.notifier.BatchLoaded(ctx, r.report.RunId, r.report.Loaded, r.report.Failed)
	}
	return r.report, nil
}

func (p *Pipeline) connectStage(ctx context.Context, r *run) error {
	store, err := p.connect(ctx)
	if err != nil {
		return err
	}
	r.store = store
	p.logger.Info("ETL", "Connected to PostgreSQL database", nil)
	return nil
}

func (p *Pipeline) schemaStage(ctx context.Context, r *run) error {
	dim, err := r.store.EnsureSchema(ctx)
	if err != nil {
		return err
	}
	r.dimension = dim
	p.logger.Info("ETL", "pgvector initialized and tables created", map[string]interface{}{"dimension": dim})
	return nil
}

func (p *Pipeline) modelStage(ctx context.Context, r *run) error {
	p.logger.Info("ETL", "Loading embedding model", nil)
	if err := p.model.Load(ctx); err != nil {
		return err
	}

	dim := p.model.Dimension()
	if r.dimension > 0 && dim != r.dimension {
		return fmt.Errorf("model produces %d-dimensional embeddings but the documents table stores %d", dim, r.dimension)
	}
	p.logger.Info("ETL", "Model loaded", map[string]interface{}{"dimension": dim})
	return nil
}

func (p *Pipeline) extractStage(ctx context.Context, r *run) error {
	docs, err := Extract(p.opts.SourcePath, p.logger)
	if err != nil {
		return err
	}
	r.docs = docs
	r.report.Extracted = len(docs)
	if len(docs) == 0 {
		p.logger.Warn("ETL", "No documents found to process", nil)
		return ErrNoDocuments
	}
	return nil
}

func (p *Pipeline) embedStage(ctx context.Context, r *run) error {
	total := len(r.docs)
	p.logger.Info("ETL", fmt.Sprintf("Generating embeddings for %d documents", total), nil)

	for i, doc := range r.docs {
		if err := ctx.Err(); err != nil {
			return err
		}

		vector, err := p.model.Generate(ctx, doc.Content)
		if err != nil {
			p.logger.Error("ETL", fmt.Sprintf("Failed to generate embedding for document %d", i), map[string]interface{}{
				"filename": doc.Metadata["filename"],
				"error":    err.Error(),
			})
			doc.Embedding = nil
			r.report.Failed++
		} else {
			doc.Embedding = vector
			r.report.Embedded++
		}

		if (i+1)%p.opts.ProgressEvery == 0 {
			p.logger.Info("ETL", fmt.Sprintf("Progress: %d/%d documents", i+1, total), nil)
		}
	}

	p.logger.Info("ETL", "Embeddings generated", map[string]interface{}{
		"embedded": r.report.Embedded,
		"failed":   r.report.Failed,
	})
	return nil
}

func (p *Pipeline) loadStage(ctx context.Context, r *run) error {
	loaded, err := r.store.LoadDocuments(ctx, r.docs)
	if err != nil {
		r.report.Loaded = 0
		return err
	}
	r.report.Loaded = loaded
	p.logger.Info("ETL", fmt.Sprintf("Loaded %d documents into pgvector", loaded), nil)
	return nil
}
