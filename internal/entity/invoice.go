package entity

// Invoice is the header record for one source document, used for data
// transfer between layers. Optional textual fields carry the "N/A" sentinel
// after normalization, never an empty marker.
type Invoice struct {
	ID            int64      `json:"id,omitempty"`
	InvoiceNumber string     `json:"invoice_number"`
	InvoiceDate   string     `json:"invoice_date"`
	Buyer         string     `json:"buyer"`
	Total         float64    `json:"total"`
	EDocu         string     `json:"e_docu"`
	Incoterm      string     `json:"incoterm"`
	Lumps         string     `json:"lumps"`
	RFC           string     `json:"rfc"`
	Processed     int        `json:"processed"`
	Items         []LineItem `json:"items"`
}

// LineItem is one itemized row within an invoice, owned by exactly one
// header row via InvoiceID.
type LineItem struct {
	ID            int64   `json:"id,omitempty"`
	InvoiceID     int64   `json:"invoice_id,omitempty"`
	Description   string  `json:"description"`
	PartNumber    string  `json:"part_number"`
	Quantity      float64 `json:"quantity"`
	UnitOfMeasure string  `json:"unit_of_measure"`
	UnitCost      float64 `json:"unit_cost"`
	NetWeight     float64 `json:"net_weight"`
	GrossWeight   float64 `json:"gross_weight"`
	Total         float64 `json:"total"`
	RawMaterial   float64 `json:"raw_material"`
	ValueAdded    float64 `json:"value_added"`
	Fraction      string  `json:"fraction"`
}

// IsEmpty reports whether the invoice carries nothing worth persisting.
// Persisting an empty invoice is a defined no-op, not an error.
func (inv *Invoice) IsEmpty() bool {
	if inv == nil {
		return true
	}
	return inv.InvoiceNumber == "" && len(inv.Items) == 0
}
