// Package pipeline drives one invoice document end to end: text extraction,
// vendor resolution, model field extraction, normalization, persistence.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/customs-invoices/constants"
	"github.com/joseph-ayodele/customs-invoices/internal/entity"
	"github.com/joseph-ayodele/customs-invoices/internal/extract"
	"github.com/joseph-ayodele/customs-invoices/internal/legacy"
	"github.com/joseph-ayodele/customs-invoices/internal/llm"
	"github.com/joseph-ayodele/customs-invoices/internal/normalize"
	"github.com/joseph-ayodele/customs-invoices/internal/repository"
	"github.com/joseph-ayodele/customs-invoices/internal/schema"
)

// TextExtractor yields the text layer of a document on disk.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (extract.Result, error)
}

// StatementSink receives the legacy SQL statements built for one document.
// It is optional; a nil sink disables the legacy path.
type StatementSink interface {
	Execute(ctx context.Context, st legacy.Statements) error
}

// Processor wires the stages together. All collaborators are injected so
// tests can swap in fakes.
type Processor struct {
	extractor TextExtractor
	registry  *schema.Registry
	fields    llm.FieldExtractor
	repo      repository.InvoiceRepository
	sink      StatementSink
	logger    *slog.Logger
}

func NewProcessor(
	extractor TextExtractor,
	registry *schema.Registry,
	fields llm.FieldExtractor,
	repo repository.InvoiceRepository,
	sink StatementSink,
	logger *slog.Logger,
) *Processor {
	if registry == nil {
		registry = schema.DefaultRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		extractor: extractor,
		registry:  registry,
		fields:    fields,
		repo:      repo,
		sink:      sink,
		logger:    logger,
	}
}

// RunResult summarizes one processed document.
type RunResult struct {
	Path     string
	VendorID string
	Tokens   int
	Invoice  *entity.Invoice
	RawJSON  []byte
	Elapsed  time.Duration
}

// ProcessFile runs the full chain for one PDF. Stage failures abort the run;
// nothing is persisted after a decode or schema failure.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*RunResult, error) {
	runID := uuid.NewString()
	start := time.Now()
	logger := p.logger.With("run_id", runID, "path", path)
	logger.Info("pipeline.run.start")

	res, err := p.extractor.ExtractText(ctx, path)
	if err != nil {
		logger.Error("pipeline.extract_failed", "error", err)
		return nil, fmt.Errorf("extract: %w", err)
	}

	tpl, vendorID := p.registry.Resolve(res.Text)
	logger.Info("pipeline.vendor.resolved", "vendor_id", vendorID, "tokens", res.TokenCount)

	raw, err := p.fields.Infer(ctx, llm.InferRequest{
		Text:       res.Text,
		Template:   tpl,
		VendorID:   vendorID,
		TokenCount: res.TokenCount,
	})
	if err != nil {
		logger.Error("pipeline.infer_failed", "error", err)
		return nil, fmt.Errorf("infer fields: %w", err)
	}

	inv, err := normalize.Invoice(raw)
	if err != nil {
		logger.Error("pipeline.normalize_failed", "error", err)
		return nil, fmt.Errorf("normalize: %w", err)
	}
	// The model rarely reads the RFC off the page; the resolver already knows it.
	if inv.RFC == constants.NotAvailable || inv.RFC == "" {
		inv.RFC = vendorID
	}

	if err := p.repo.PersistInvoice(ctx, inv); err != nil {
		logger.Error("pipeline.persist_failed", "error", err)
		return nil, fmt.Errorf("persist: %w", err)
	}

	if p.sink != nil {
		st, err := legacy.BuildStatements(string(raw), logger)
		if err != nil {
			logger.Error("pipeline.legacy.build_failed", "error", err)
			return nil, fmt.Errorf("build legacy statements: %w", err)
		}
		if err := p.sink.Execute(ctx, st); err != nil {
			logger.Error("pipeline.legacy.execute_failed", "error", err)
			return nil, fmt.Errorf("execute legacy statements: %w", err)
		}
	}

	elapsed := time.Since(start)
	logger.Info("pipeline.run.ok",
		"vendor_id", vendorID,
		"invoice_number", inv.InvoiceNumber,
		"items", len(inv.Items),
		"elapsed_ms", elapsed.Milliseconds(),
	)
	return &RunResult{
		Path:     path,
		VendorID: vendorID,
		Tokens:   res.TokenCount,
		Invoice:  inv,
		RawJSON:  raw,
		Elapsed:  elapsed,
	}, nil
}
