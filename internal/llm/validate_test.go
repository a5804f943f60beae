package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/customs-invoices/internal/schema"
)

func einTemplate(t *testing.T) schema.Template {
	t.Helper()
	return schema.DefaultRegistry().Get("EIN0306306H6")
}

func TestValidateAcceptsConformingDocument(t *testing.T) {
	doc := []byte(`{
		"invoice_number": "INV-1",
		"invoice_date": "2024-03-01",
		"e_docu": null,
		"buyer": "ACME",
		"rfc": "EIN0306306H6",
		"incoterm": "FOB",
		"lumps": 3,
		"total": "$100.50",
		"items": [{"description": "Widget", "quantity": 2, "total": 10.0}]
	}`)
	require.NoError(t, ValidateAgainstTemplate(einTemplate(t), doc))
}

func TestValidateAcceptsWrappedScalars(t *testing.T) {
	doc := []byte(`{
		"invoice_number": ["INV-1"],
		"invoice_date": ["2024-03-01"],
		"e_docu": null,
		"buyer": ["ACME"],
		"rfc": null,
		"incoterm": null,
		"lumps": null,
		"total": [100.5],
		"items": []
	}`)
	require.NoError(t, ValidateAgainstTemplate(einTemplate(t), doc))
}

func TestValidateRejectsMissingRequiredField(t *testing.T) {
	doc := []byte(`{"buyer": "ACME"}`)
	err := ValidateAgainstTemplate(einTemplate(t), doc)
	assert.Error(t, err)
}

func TestValidateRejectsWrongShape(t *testing.T) {
	err := ValidateAgainstTemplate(einTemplate(t), []byte(`["not", "an", "object"]`))
	assert.Error(t, err)
}
