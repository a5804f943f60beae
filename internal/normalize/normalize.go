// Package normalize coerces the heterogeneous, partially-missing JSON coming
// back from field extraction into the canonical relational shape. Every
// transformation here is a fixed point: normalizing already-normalized data
// yields the same result.
package normalize

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/customs-invoices/internal/common"
	"github.com/joseph-ayodele/customs-invoices/internal/entity"
)

// reNumber matches the first decimal-or-integer substring in a textual value.
var reNumber = regexp.MustCompile(`[-+]?\d*\.\d+|\d+`)

// Header fields that must be present after normalization. Everything else has
// a documented default policy.
var requiredHeaderKeys = []string{"invoice_number", "invoice_date", "buyer", "total"}

// Item fields that must be present. part_number is NOT here: the older schema
// variant predates it, so it defaults to the sentinel instead.
var requiredItemKeys = []string{"description", "unit_of_measure"}

// Keys recursively lower-cases all mapping keys. Sequences are walked so that
// sequences-of-mappings normalize too; leaf values pass through untouched.
func Keys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[strings.ToLower(k)] = Keys(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Keys(val)
		}
		return out
	default:
		return v
	}
}

// Scalar unwraps a single-element sequence into its first element. An empty
// sequence yields nil; anything else passes through unchanged.
func Scalar(v any) any {
	if seq, ok := v.([]any); ok {
		if len(seq) == 0 {
			return nil
		}
		return seq[0]
	}
	return v
}

// Numeric coerces a JSON-decoded value to float64. Numbers pass through
// (integers widened), textual values yield the first numeric substring after
// currency markers are ignored, and nil or no-match yields 0.0. Thousands
// separators are stripped before the match, so "1,200.50" reads as 1200.5
// rather than stopping at the comma.
func Numeric(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0.0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0.0
		}
		return f
	case string:
		m := reNumber.FindString(strings.ReplaceAll(t, ",", ""))
		if m == "" {
			return 0.0
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0.0
		}
		return f
	default:
		return 0.0
	}
}

// Currency strips exactly one leading dollar marker from amount strings.
// Duplicated markers ("$$120.50") lose one occurrence from the left; a value
// with no marker passes through unchanged.
func Currency(s string) string {
	if strings.Count(s, "$") >= 1 {
		return strings.Replace(s, "$", "", 1)
	}
	return s
}

// Document canonicalizes one decoded invoice: lower-cases keys, unwraps
// single-element sequences where the schema expects a scalar, coerces numeric
// fields, and fills sentinel defaults. Missing required fields surface as a
// schema error naming the key; persistence must not be attempted after one.
func Document(raw any) (map[string]any, error) {
	m, ok := Keys(raw).(map[string]any)
	if !ok {
		return nil, common.WrapError(common.ErrDecode, "invoice is not a json object")
	}

	// The upstream extraction sometimes wraps scalars in one-element lists.
	for k, v := range m {
		if k == "items" {
			continue
		}
		m[k] = Scalar(v)
	}

	// supplier is the older schema's name for buyer
	if _, ok := m["buyer"]; !ok {
		if s, ok := m["supplier"]; ok {
			m["buyer"] = s
			delete(m, "supplier")
		}
	}

	for _, k := range requiredHeaderKeys {
		if !hasKey(m, k) {
			return nil, common.SchemaErrorf(k)
		}
	}

	m["invoice_number"] = asString(m["invoice_number"])
	m["invoice_date"] = asString(m["invoice_date"])
	m["buyer"] = asString(m["buyer"])
	m["total"] = coerceAmount(m["total"])
	m["e_docu"] = textOrSentinel(m["e_docu"])
	m["incoterm"] = textOrSentinel(m["incoterm"])
	m["lumps"] = intOrSentinel(m["lumps"])
	m["rfc"] = textOrSentinel(m["rfc"])
	m["processed"] = float64(0)

	items, err := normalizeItems(m["items"])
	if err != nil {
		return nil, err
	}
	m["items"] = items

	return m, nil
}

// Invoice decodes raw JSON, normalizes it, and maps it onto the entity shape.
func Invoice(doc []byte) (*entity.Invoice, error) {
	var raw any
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, common.NewAppError("DECODE_ERROR", "parsing invoice json", common.ErrDecode)
	}
	m, err := Document(raw)
	if err != nil {
		return nil, err
	}
	return toInvoice(m), nil
}

func normalizeItems(v any) ([]any, error) {
	seq, ok := v.([]any)
	if !ok || len(seq) == 0 {
		return []any{}, nil
	}
	// tolerate a doubly-nested item array
	if inner, ok := seq[0].([]any); ok {
		seq = inner
	}

	out := make([]any, 0, len(seq))
	for _, el := range seq {
		item, ok := el.(map[string]any)
		if !ok {
			return nil, common.WrapError(common.ErrDecode, "line item is not a json object")
		}
		for k, val := range item {
			item[k] = Scalar(val)
		}

		// cost and weight are the older schema's names for unit_cost and net_weight
		if _, ok := item["unit_cost"]; !ok {
			if v, ok := item["cost"]; ok {
				item["unit_cost"] = v
				delete(item, "cost")
			}
		}
		if _, ok := item["net_weight"]; !ok {
			if v, ok := item["weight"]; ok {
				item["net_weight"] = v
				delete(item, "weight")
			}
		}

		for _, k := range requiredItemKeys {
			if !hasKey(item, k) {
				return nil, common.SchemaErrorf(k)
			}
		}

		item["description"] = asString(item["description"])
		item["unit_of_measure"] = asString(item["unit_of_measure"])
		item["part_number"] = textOrSentinel(item["part_number"])
		item["fraction"] = textOrSentinel(item["fraction"])
		item["quantity"] = Numeric(item["quantity"])
		item["unit_cost"] = coerceAmount(item["unit_cost"])
		item["net_weight"] = Numeric(item["net_weight"])
		item["gross_weight"] = Numeric(item["gross_weight"])
		item["total"] = coerceAmount(item["total"])
		item["raw_material"] = Numeric(item["raw_material"])
		item["value_added"] = Numeric(item["value_added"])
		out = append(out, item)
	}
	return out, nil
}

// coerceAmount handles "total"/"cost" style fields that may carry a leading,
// possibly duplicated, currency symbol.
func coerceAmount(v any) float64 {
	if s, ok := v.(string); ok {
		return Numeric(Currency(s))
	}
	return Numeric(v)
}

// textOrSentinel returns the sentinel for absent/null optional text fields.
func textOrSentinel(v any) string {
	if isAbsent(v) {
		return "N/A"
	}
	return asString(v)
}

// intOrSentinel formats an integer-valued field, falling back to the
// sentinel when absent. Textual values keep the sentinel or re-coerce to an
// integer rendering so the operation stays idempotent.
func intOrSentinel(v any) string {
	switch t := v.(type) {
	case nil:
		return "N/A"
	case string:
		s := strings.TrimSpace(t)
		if s == "" || strings.EqualFold(s, "N/A") {
			return "N/A"
		}
		return strconv.FormatInt(int64(Numeric(s)), 10)
	default:
		return strconv.FormatInt(int64(Numeric(v)), 10)
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func hasKey(m map[string]any, k string) bool {
	_, ok := m[k]
	return ok
}

func toInvoice(m map[string]any) *entity.Invoice {
	inv := &entity.Invoice{
		InvoiceNumber: m["invoice_number"].(string),
		InvoiceDate:   m["invoice_date"].(string),
		Buyer:         m["buyer"].(string),
		Total:         m["total"].(float64),
		EDocu:         m["e_docu"].(string),
		Incoterm:      m["incoterm"].(string),
		Lumps:         m["lumps"].(string),
		RFC:           m["rfc"].(string),
		Processed:     0,
	}
	for _, el := range m["items"].([]any) {
		item := el.(map[string]any)
		inv.Items = append(inv.Items, entity.LineItem{
			Description:   item["description"].(string),
			PartNumber:    item["part_number"].(string),
			Quantity:      item["quantity"].(float64),
			UnitOfMeasure: item["unit_of_measure"].(string),
			UnitCost:      item["unit_cost"].(float64),
			NetWeight:     item["net_weight"].(float64),
			GrossWeight:   item["gross_weight"].(float64),
			Total:         item["total"].(float64),
			RawMaterial:   item["raw_material"].(float64),
			ValueAdded:    item["value_added"].(float64),
			Fraction:      item["fraction"].(string),
		})
	}
	return inv
}
