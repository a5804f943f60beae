package schema

import "github.com/joseph-ayodele/customs-invoices/constants"

// Built-in templates. The prompt body is the JSON shape the extraction model
// is asked to fill; the field maps carry the same shape as type hints.

var einTemplate = Template{
	VendorID: "EIN0306306H6",
	Prompt: `{
    "invoice_number": "str",
    "invoice_date": "str",
    "e_docu": "str",
    "buyer": "str",
    "rfc": "str",
    "incoterm": "str",
    "lumps": "int",
    "total": "float",
    "items": [
        {
            "gross_weight": "float",
            "net_weight": "float",
            "description": "str",
            "part_number": "str",
            "quantity": "float",
            "unit_of_measure": "str",
            "fraction": "str",
            "raw_material": "float",
            "value_added": "float",
            "total": "float"
        }
    ]
}`,
	HeaderFields: map[string]string{
		"invoice_number": "str",
		"invoice_date":   "str",
		"e_docu":         "str",
		"buyer":          "str",
		"rfc":            "str",
		"incoterm":       "str",
		"lumps":          "int",
		"total":          "float",
	},
	ItemFields: map[string]string{
		"gross_weight":    "float",
		"net_weight":      "float",
		"description":     "str",
		"part_number":     "str",
		"quantity":        "float",
		"unit_of_measure": "str",
		"fraction":        "str",
		"raw_material":    "float",
		"value_added":     "float",
		"total":           "float",
	},
}

var eatTemplate = Template{
	VendorID: "EAT930128UR6",
	Prompt: `{
    "invoice_number": "str",
    "invoice_date": "str",
    "country_of_origin": "str",
    "supplier": "str",
    "total": "float",
    "items": [
        {
            "part_number": "str",
            "description": "str",
            "quantity": "int",
            "unit_of_measure": "str",
            "cost": "float",
            "weight": "float"
        }
    ]
}`,
	HeaderFields: map[string]string{
		"invoice_number":    "str",
		"invoice_date":      "str",
		"country_of_origin": "str",
		"supplier":          "str",
		"total":             "float",
	},
	ItemFields: map[string]string{
		"part_number":     "str",
		"description":     "str",
		"quantity":        "int",
		"unit_of_measure": "str",
		"cost":            "float",
		"weight":          "float",
	},
}

var generalTemplate = Template{
	VendorID: constants.GeneralVendor,
	Prompt:   eatTemplate.Prompt,
	HeaderFields: map[string]string{
		"invoice_number":    "str",
		"invoice_date":      "str",
		"country_of_origin": "str",
		"supplier":          "str",
		"total":             "float",
	},
	ItemFields: map[string]string{
		"part_number":     "str",
		"description":     "str",
		"quantity":        "int",
		"unit_of_measure": "str",
		"cost":            "float",
		"weight":          "float",
	},
}
