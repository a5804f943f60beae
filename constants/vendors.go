package constants

// NotAvailable is the sentinel persisted for optional textual fields that are
// missing or null. Normalization substitutes it before any insert; the store
// never sees NULL for these columns.
const NotAvailable = "N/A"

// GeneralVendor is the registry key of the fallback schema template used when
// no known RFC appears in the extracted text.
const GeneralVendor = "GENERAL"

// DefaultVendorID is the vendor id reported alongside the GENERAL template
// when no RFC matches.
const DefaultVendorID = "EIN0306306H6"

// KnownRFCs lists the taxpayer identifiers searched for in extracted text,
// in priority order. The first match wins.
var KnownRFCs = []string{"EIN0306306H6", "EAT930128UR6"}
