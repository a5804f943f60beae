// Package schema maps detected taxpayer identifiers (RFCs) to the JSON-shape
// template used to prompt field extraction for that vendor's documents.
package schema

import (
	"strings"
	"unicode"

	"github.com/joseph-ayodele/customs-invoices/constants"
)

// Template describes the JSON shape expected from field extraction for one
// vendor: the prompt body handed to the model and per-field primitive type
// hints used to derive a validation schema.
type Template struct {
	VendorID string
	Prompt   string
	// HeaderFields and ItemFields map field name -> type hint ("str", "int", "float").
	HeaderFields map[string]string
	ItemFields   map[string]string
}

// Registry is an immutable RFC -> template mapping constructed at startup and
// passed into the pipeline explicitly. Lookup order is fixed: identifiers are
// probed in priority order and the first match wins.
type Registry struct {
	templates map[string]Template
	priority  []string
}

// NewRegistry builds a registry from the given templates. The GENERAL entry
// is the designated fallback and must be present.
func NewRegistry(priority []string, templates ...Template) *Registry {
	m := make(map[string]Template, len(templates))
	for _, t := range templates {
		m[strings.ToUpper(t.VendorID)] = t
	}
	return &Registry{templates: m, priority: priority}
}

// DefaultRegistry returns the built-in vendor registry.
func DefaultRegistry() *Registry {
	return NewRegistry(constants.KnownRFCs, einTemplate, eatTemplate, generalTemplate)
}

// Get returns the template for an RFC, falling back to GENERAL when the RFC
// is unknown.
func (r *Registry) Get(rfc string) Template {
	if t, ok := r.templates[strings.ToUpper(rfc)]; ok {
		return t
	}
	return r.templates[constants.GeneralVendor]
}

// Resolve searches the extracted text for each known RFC in priority order
// and returns the matching template plus the vendor id. No match returns the
// GENERAL template and the default vendor id.
func (r *Registry) Resolve(text string) (Template, string) {
	for _, rfc := range r.priority {
		if containsIdentifier(text, rfc) {
			return r.Get(rfc), rfc
		}
	}
	return r.Get(constants.GeneralVendor), constants.DefaultVendorID
}

// containsIdentifier reports whether the identifier appears in the text.
// The match is case-insensitive and whitespace-agnostic: extraction often
// fuses tokens together, so the text is collapsed to a single run before the
// substring probe rather than matched on strict word boundaries.
func containsIdentifier(text, id string) bool {
	if id == "" {
		return false
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return strings.Contains(b.String(), strings.ToUpper(id))
}
