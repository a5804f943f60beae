// Package legacy is the alternate persistence path kept for the single-file
// store: fully rendered SQL statement strings instead of parameterized
// queries. The rendered statement shape is a compatibility contract with
// downstream consumers and is preserved as-is. Because values are substituted
// into SQL text directly, this path remains an injection risk by construction;
// quotes are doubled to keep the statements well-formed, nothing more. New
// code should use the parameterized repository instead.
package legacy

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/customs-invoices/internal/common"
	"github.com/joseph-ayodele/customs-invoices/internal/normalize"
)

// Statements is the rendered insert set for one invoice document.
type Statements struct {
	Header string
	Items  []string
}

// BuildStatements decodes one invoice JSON document and renders the legacy
// Invoice/Item insert statements. Decode failures and a missing invoice
// number yield an empty result plus a typed error; the missing key is logged
// so operators can see which document field broke the batch.
func BuildStatements(jsonText string, logger *slog.Logger) (Statements, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var raw any
	if err := json.Unmarshal([]byte(jsonText), &raw); err != nil {
		logger.Error("legacy.decode_failed", "error", err)
		return Statements{}, common.NewAppError("DECODE_ERROR", "parsing invoice json", common.ErrDecode)
	}
	data, ok := normalize.Keys(raw).(map[string]any)
	if !ok {
		logger.Error("legacy.decode_failed", "error", "not a json object")
		return Statements{}, common.NewAppError("DECODE_ERROR", "invoice is not a json object", common.ErrDecode)
	}

	invoiceNumber := text(data["invoice_number"])
	if invoiceNumber == "" {
		logger.Error("legacy.missing_key", "key", "invoice_number")
		return Statements{}, common.SchemaErrorf("invoice_number")
	}
	invoiceDate := text(data["invoice_date"])
	countryOfOrigin := text(data["country_of_origin"])
	supplier := text(data["supplier"])

	// The original only stripped a dollar marker when it appeared twice;
	// rendering reuses the shared currency rule so "$$n", "$n" and "n" all
	// land as the same numeric text.
	total := normalize.Numeric(normalize.Currency(text(data["total"])))

	header := fmt.Sprintf(
		"INSERT INTO Invoice (InvoiceNumber, InvoiceDate, CountryOfOrigin, Supplier,Total) VALUES ('%s', '%s', '%s', '%s','%s');",
		quote(invoiceNumber), quote(invoiceDate), quote(countryOfOrigin), quote(supplier), formatAmount(total),
	)

	items, _ := data["items"].([]any)
	itemStatements := make([]string, 0, len(items))
	for _, el := range items {
		item, ok := el.(map[string]any)
		if !ok {
			logger.Error("legacy.decode_failed", "error", "line item is not a json object")
			return Statements{}, common.NewAppError("DECODE_ERROR", "line item is not a json object", common.ErrDecode)
		}

		// cost carried a mandatory dollar marker in the source documents and
		// the original crashed when it was absent; hardened to plain numeric
		// coercion, marker or not.
		cost := normalize.Numeric(normalize.Currency(text(item["cost"])))
		weight := normalize.Numeric(item["weight"])
		quantity := normalize.Numeric(item["quantity"])

		itemStatements = append(itemStatements, fmt.Sprintf(
			"INSERT INTO Item (InvoiceNumber, PartNumber, Description, Quantity, UnitOfMeasure, Cost, Weight) VALUES ('%s', '%s', '%s', %s, '%s', %s, %s);",
			quote(invoiceNumber), quote(text(item["part_number"])), quote(text(item["description"])),
			formatAmount(quantity), quote(text(item["unit_of_measure"])), formatAmount(cost), formatAmount(weight),
		))
	}

	return Statements{Header: header, Items: itemStatements}, nil
}

// text renders a decoded value as statement text without quoting.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return formatAmount(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// quote doubles embedded single quotes so rendered values cannot terminate
// the literal early. This keeps statements well-formed; it is not a security
// boundary.
func quote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
