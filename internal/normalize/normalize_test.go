package normalize

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/customs-invoices/internal/common"
)

func TestNumeric(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"nil yields zero", nil, 0.0},
		{"int widened", 3, 3.0},
		{"float passthrough", 12.5, 12.5},
		{"currency marker ignored", "$120.50", 120.50},
		{"embedded number", "total: 98.4 kg", 98.4},
		{"integer string", "42", 42.0},
		{"thousands separator", "1,200.50", 1200.50},
		{"no numeric substring", "pending", 0.0},
		{"empty string", "", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Numeric(tt.in))
		})
	}
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "$120.50", Currency("$$120.50"))
	assert.Equal(t, "120.50", Currency("$120.50"))
	assert.Equal(t, "120.50", Currency("120.50"))
	assert.Equal(t, 120.50, Numeric(Currency("$$120.50")))
	assert.Equal(t, 120.50, Numeric(Currency("120.50")))
}

func TestScalar(t *testing.T) {
	assert.Equal(t, "INV-1", Scalar([]any{"INV-1"}))
	assert.Nil(t, Scalar([]any{}))
	assert.Equal(t, "INV-1", Scalar("INV-1"))
	assert.Equal(t, 7.0, Scalar(7.0))
}

func TestInvoiceOlderItemFieldNames(t *testing.T) {
	doc := []byte(`{
		"invoice_number": "INV-9",
		"invoice_date": "2024-07-18",
		"supplier": "ACME GmbH",
		"total": "$310.00",
		"items": [
			{"part_number": "P-1", "description": "Bracket", "quantity": 2, "unit_of_measure": "PCS", "cost": "$155.00", "weight": "3.4"}
		]
	}`)

	inv, err := Invoice(doc)
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)

	item := inv.Items[0]
	assert.Equal(t, 155.00, item.UnitCost)
	assert.Equal(t, 3.4, item.NetWeight)
	assert.Equal(t, "P-1", item.PartNumber)
}

func TestInvoiceNewerItemFieldNamesWin(t *testing.T) {
	doc := []byte(`{
		"invoice_number": "INV-10",
		"invoice_date": "2024-07-18",
		"buyer": "ACME GmbH",
		"total": 10,
		"items": [
			{"description": "Washer", "unit_of_measure": "PCS", "unit_cost": 0.25, "cost": 99, "net_weight": 1.5, "weight": 99}
		]
	}`)

	inv, err := Invoice(doc)
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, 0.25, inv.Items[0].UnitCost)
	assert.Equal(t, 1.5, inv.Items[0].NetWeight)
}

func TestKeysRecursive(t *testing.T) {
	in := map[string]any{
		"Invoice_Number": "INV-1",
		"Items": []any{
			map[string]any{"Part_Number": "P1", "Quantity": 2.0},
		},
	}
	out := Keys(in).(map[string]any)
	assert.Equal(t, "INV-1", out["invoice_number"])
	item := out["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "P1", item["part_number"])
	assert.Equal(t, 2.0, item["quantity"])
}

func sampleInvoiceJSON() []byte {
	return []byte(`{
		"Invoice_Number": "INV-1",
		"invoice_date": "2024-03-01",
		"Buyer": "ACME",
		"total": "$$100.0",
		"e_docu": null,
		"incoterm": null,
		"lumps": null,
		"rfc": "X",
		"items": [{
			"Description": "Widget",
			"quantity": 2,
			"unit_cost": "$5.0",
			"net_weight": 1.0,
			"gross_weight": 1.2,
			"total": 10.0,
			"raw_material": 0.0,
			"value_added": null,
			"fraction": null,
			"part_number": "P1",
			"unit_of_measure": "EA"
		}]
	}`)
}

func TestInvoiceDefaults(t *testing.T) {
	inv, err := Invoice(sampleInvoiceJSON())
	require.NoError(t, err)

	assert.Equal(t, "INV-1", inv.InvoiceNumber)
	assert.Equal(t, "ACME", inv.Buyer)
	assert.Equal(t, 100.0, inv.Total)
	assert.Equal(t, "N/A", inv.EDocu)
	assert.Equal(t, "N/A", inv.Incoterm)
	assert.Equal(t, "N/A", inv.Lumps)
	assert.Equal(t, "X", inv.RFC)
	assert.Equal(t, 0, inv.Processed)

	require.Len(t, inv.Items, 1)
	item := inv.Items[0]
	assert.Equal(t, "Widget", item.Description)
	assert.Equal(t, "P1", item.PartNumber)
	assert.Equal(t, 2.0, item.Quantity)
	assert.Equal(t, 5.0, item.UnitCost)
	assert.Equal(t, 0.0, item.ValueAdded)
	assert.Equal(t, "N/A", item.Fraction)
}

func TestInvoiceOptionalKeysAbsent(t *testing.T) {
	inv, err := Invoice([]byte(`{
		"invoice_number": "INV-2",
		"invoice_date": "2024-03-02",
		"buyer": "ACME",
		"total": 50.0,
		"items": [{
			"description": "Bolt",
			"unit_of_measure": "PCS",
			"quantity": 10
		}]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "N/A", inv.EDocu)
	assert.Equal(t, "N/A", inv.Incoterm)
	assert.Equal(t, "N/A", inv.Lumps)
	assert.Equal(t, "N/A", inv.RFC)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "N/A", inv.Items[0].PartNumber)
	assert.Equal(t, "N/A", inv.Items[0].Fraction)
	assert.Equal(t, 0.0, inv.Items[0].ValueAdded)
	assert.Equal(t, 0.0, inv.Items[0].UnitCost)
}

func TestInvoiceScalarUnwrap(t *testing.T) {
	inv, err := Invoice([]byte(`{
		"invoice_number": ["INV-3"],
		"invoice_date": ["2024-03-03"],
		"buyer": ["ACME"],
		"total": ["$75.5"],
		"lumps": [4],
		"items": []
	}`))
	require.NoError(t, err)
	assert.Equal(t, "INV-3", inv.InvoiceNumber)
	assert.Equal(t, 75.5, inv.Total)
	assert.Equal(t, "4", inv.Lumps)
	assert.Empty(t, inv.Items)
}

func TestInvoiceMalformedJSON(t *testing.T) {
	_, err := Invoice([]byte(`{"invoice_number": `))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDecode))
}

func TestInvoiceMissingRequiredKey(t *testing.T) {
	_, err := Invoice([]byte(`{"invoice_date": "2024-03-01", "buyer": "ACME", "total": 1}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrSchema))
	assert.Contains(t, err.Error(), "invoice_number")
}

func TestDocumentIdempotent(t *testing.T) {
	var raw any
	require.NoError(t, json.Unmarshal(sampleInvoiceJSON(), &raw))

	once, err := Document(raw)
	require.NoError(t, err)
	twice, err := Document(once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}
