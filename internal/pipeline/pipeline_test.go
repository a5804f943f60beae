package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/customs-invoices/internal/entity"
	"github.com/joseph-ayodele/customs-invoices/internal/extract"
	"github.com/joseph-ayodele/customs-invoices/internal/legacy"
	"github.com/joseph-ayodele/customs-invoices/internal/llm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) ExtractText(_ context.Context, _ string) (extract.Result, error) {
	if f.err != nil {
		return extract.Result{}, f.err
	}
	return extract.Result{Text: f.text, Pages: 1, TokenCount: len(f.text) / 4, Method: "native"}, nil
}

type fakeFields struct {
	json string
	err  error
	got  llm.InferRequest
}

func (f *fakeFields) Infer(_ context.Context, req llm.InferRequest) ([]byte, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.json), nil
}

type fakeRepo struct {
	persisted []*entity.Invoice
	err       error
}

func (f *fakeRepo) PersistInvoice(_ context.Context, inv *entity.Invoice) error {
	if f.err != nil {
		return f.err
	}
	f.persisted = append(f.persisted, inv)
	return nil
}

func (f *fakeRepo) CountInvoices(_ context.Context) (int64, error) {
	return int64(len(f.persisted)), nil
}

type fakeSink struct {
	executed []legacy.Statements
	err      error
}

func (f *fakeSink) Execute(_ context.Context, st legacy.Statements) error {
	if f.err != nil {
		return f.err
	}
	f.executed = append(f.executed, st)
	return nil
}

const modelJSON = `{
	"invoice_number": "INV-77",
	"invoice_date": "2024-07-18",
	"buyer": "ACME GmbH",
	"total": "$910.40",
	"items": [
		{"description": "Bracket", "unit_of_measure": "PCS", "quantity": 2, "unit_cost": "455.20", "total": 910.40}
	]
}`

func TestProcessFilePersistsNormalizedInvoice(t *testing.T) {
	fields := &fakeFields{json: modelJSON}
	repo := &fakeRepo{}
	p := NewProcessor(fakeExtractor{text: "FACTURA RFC EIN0306306H6 TOTAL"}, nil, fields, repo, nil, testLogger())

	res, err := p.ProcessFile(context.Background(), "/in/inv77.pdf")
	require.NoError(t, err)

	assert.Equal(t, "EIN0306306H6", res.VendorID)
	assert.Equal(t, "EIN0306306H6", fields.got.VendorID)
	assert.Equal(t, "EIN0306306H6", fields.got.Template.VendorID)

	require.Len(t, repo.persisted, 1)
	inv := repo.persisted[0]
	assert.Equal(t, "INV-77", inv.InvoiceNumber)
	assert.InDelta(t, 910.40, inv.Total, 1e-9)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Bracket", inv.Items[0].Description)
	// resolver vendor id wins when the model leaves the RFC blank
	assert.Equal(t, "EIN0306306H6", inv.RFC)
}

// generalJSON carries the older item field names (cost/weight) that the
// GENERAL and EAT templates produce.
const generalJSON = `{
	"invoice_number": "INV-80",
	"invoice_date": "2024-07-19",
	"supplier": "ACME GmbH",
	"total": "$620.00",
	"items": [
		{"part_number": "P-3", "description": "Spacer", "quantity": 4, "unit_of_measure": "PCS", "cost": "$155.00", "weight": 2.1}
	]
}`

func TestProcessFileUnknownVendorFallsBack(t *testing.T) {
	fields := &fakeFields{json: generalJSON}
	repo := &fakeRepo{}
	p := NewProcessor(fakeExtractor{text: "no identifiers here"}, nil, fields, repo, nil, testLogger())

	res, err := p.ProcessFile(context.Background(), "/in/unknown.pdf")
	require.NoError(t, err)
	assert.Equal(t, "EIN0306306H6", res.VendorID)
	assert.Equal(t, "GENERAL", fields.got.Template.VendorID)

	require.Len(t, repo.persisted, 1)
	inv := repo.persisted[0]
	assert.Equal(t, "ACME GmbH", inv.Buyer)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, 155.00, inv.Items[0].UnitCost)
	assert.Equal(t, 2.1, inv.Items[0].NetWeight)
}

func TestProcessFileLegacySinkReceivesStatements(t *testing.T) {
	fields := &fakeFields{json: modelJSON}
	repo := &fakeRepo{}
	sink := &fakeSink{}
	p := NewProcessor(fakeExtractor{text: "x"}, nil, fields, repo, sink, testLogger())

	_, err := p.ProcessFile(context.Background(), "/in/inv77.pdf")
	require.NoError(t, err)

	require.Len(t, sink.executed, 1)
	assert.Contains(t, sink.executed[0].Header, "'INV-77'")
	require.Len(t, sink.executed[0].Items, 1)
}

func TestProcessFileAbortsOnSchemaFailure(t *testing.T) {
	fields := &fakeFields{json: `{"invoice_date": "2024-07-18"}`}
	repo := &fakeRepo{}
	sink := &fakeSink{}
	p := NewProcessor(fakeExtractor{text: "x"}, nil, fields, repo, sink, testLogger())

	_, err := p.ProcessFile(context.Background(), "/in/bad.pdf")
	require.Error(t, err)
	assert.Empty(t, repo.persisted)
	assert.Empty(t, sink.executed)
}

func TestProcessFileExtractFailureStopsChain(t *testing.T) {
	fields := &fakeFields{json: modelJSON}
	repo := &fakeRepo{}
	p := NewProcessor(fakeExtractor{err: errors.New("corrupt xref")}, nil, fields, repo, nil, testLogger())

	_, err := p.ProcessFile(context.Background(), "/in/corrupt.pdf")
	require.Error(t, err)
	assert.Empty(t, fields.got.Text)
	assert.Empty(t, repo.persisted)
}

func TestProcessFilePersistFailureSkipsLegacy(t *testing.T) {
	fields := &fakeFields{json: modelJSON}
	repo := &fakeRepo{err: errors.New("connection reset")}
	sink := &fakeSink{}
	p := NewProcessor(fakeExtractor{text: "x"}, nil, fields, repo, sink, testLogger())

	_, err := p.ProcessFile(context.Background(), "/in/inv77.pdf")
	require.Error(t, err)
	assert.Empty(t, sink.executed)
}
