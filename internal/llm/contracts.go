package llm

import (
	"context"

	"github.com/joseph-ayodele/customs-invoices/internal/schema"
)

// InferRequest carries one document's extracted text plus the vendor template
// that describes the JSON shape the model must return.
type InferRequest struct {
	Text       string
	Template   schema.Template
	VendorID   string
	TokenCount int
}

// FieldExtractor is the interface the pipeline depends on. Implementations
// return the raw JSON document produced by the model; normalization and
// validation happen downstream.
type FieldExtractor interface {
	Infer(ctx context.Context, req InferRequest) ([]byte, error)
}
