package schema

// BuildJSONSchema renders a template as a JSON-Schema (draft 2020-12 subset)
// generic map. The schema is deliberately lenient about the quirks the
// normalizer already handles: any field may be null, and scalars may arrive
// wrapped in a one-element array.
func BuildJSONSchema(t Template) map[string]any {
	props := make(map[string]any, len(t.HeaderFields)+1)
	required := make([]string, 0, len(t.HeaderFields))
	for name, hint := range t.HeaderFields {
		props[name] = fieldProp(hint)
		required = append(required, name)
	}

	itemProps := make(map[string]any, len(t.ItemFields))
	for name, hint := range t.ItemFields {
		itemProps[name] = fieldProp(hint)
	}
	props["items"] = map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":       "object",
			"properties": itemProps,
		},
	}

	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// fieldProp maps a primitive type hint onto a schema fragment that also
// accepts null and a one-element array of the hinted type. Numeric hints
// additionally accept strings, since amounts frequently come back with
// currency markers that the normalizer strips later.
func fieldProp(hint string) map[string]any {
	var types []string
	switch hint {
	case "int":
		types = []string{"integer", "string", "null"}
	case "float":
		types = []string{"number", "string", "null"}
	default:
		types = []string{"string", "null"}
	}
	scalar := map[string]any{"type": types}
	return map[string]any{
		"anyOf": []any{
			scalar,
			map[string]any{"type": "array", "items": scalar, "maxItems": 1},
		},
	}
}
