package refdata

// FieldKind is the value-type expectation attached to a canonical field,
// used by the header semantics scorer's type-compatibility gate.
type FieldKind int

const (
	KindText FieldKind = iota
	KindNumeric
	KindDate
	KindBool
)

// HeaderField describes how raw header strings map to one canonical flat
// field. Synonyms match the whole (lowercased, trimmed) header exactly;
// Strong and Weak tokens accumulate partial scores; Negative tokens veto
// the field outright (e.g. "brand" on a header can never mean generic_name).
type HeaderField struct {
	Key      string
	Kind     FieldKind
	Synonyms []string
	Strong   []string
	Weak     []string
	Negative []string
}

// HeaderFields is the canonical-field synonym table driving both generic
// CSV mapping and the concatenation detector's header-trust gate.
var HeaderFields = []HeaderField{
	{
		Key:      "generic_name",
		Kind:     KindText,
		Synonyms: []string{"generic name", "generic", "item name", "product name", "medicine name", "drug name", "name", "item", "description of item", "product"},
		Strong:   []string{"generic", "medicine", "drug"},
		Weak:     []string{"name", "item", "product"},
		Negative: []string{"brand", "trade", "manufacturer", "supplier", "company"},
	},
	{
		Key:      "brand_name",
		Kind:     KindText,
		Synonyms: []string{"brand name", "brand", "trade name", "proprietary name"},
		Strong:   []string{"brand", "trade", "proprietary"},
		Weak:     []string{"name"},
		Negative: []string{"generic"},
	},
	{
		Key:      "manufacturer_name",
		Kind:     KindText,
		Synonyms: []string{"manufacturer", "manufacturer name", "mfg", "maker", "company", "supplier", "vendor"},
		Strong:   []string{"manufacturer", "mfg", "supplier", "vendor"},
		Weak:     []string{"company", "name"},
	},
	{
		Key:      "strength",
		Kind:     KindText,
		Synonyms: []string{"strength", "dose", "dosage", "potency", "concentration"},
		Strong:   []string{"strength", "dose", "dosage", "potency"},
		Weak:     []string{"concentration"},
	},
	{
		Key:      "form",
		Kind:     KindText,
		Synonyms: []string{"form", "dosage form", "formulation", "presentation", "type"},
		Strong:   []string{"form", "formulation", "presentation"},
		Weak:     []string{"type"},
	},
	{
		Key:      "category",
		Kind:     KindText,
		Synonyms: []string{"category", "class", "group", "therapeutic class", "drug class", "category id"},
		Strong:   []string{"category", "class", "therapeutic"},
		Weak:     []string{"group", "id"},
	},
	{
		Key:      "batch_no",
		Kind:     KindText,
		Synonyms: []string{"batch", "batch no", "batch number", "lot", "lot no", "lot number", "bno"},
		Strong:   []string{"batch", "lot", "bno"},
		Weak:     []string{"number", "no"},
	},
	{
		Key:      "expiry_date",
		Kind:     KindDate,
		Synonyms: []string{"expiry", "expiry date", "expiration", "expiration date", "exp date", "exp", "expdate", "best before", "use by"},
		Strong:   []string{"expiry", "expiration", "exp"},
		Weak:     []string{"date"},
		Negative: []string{"manufacture", "mfg", "received", "invoice"},
	},
	{
		Key:      "on_hand",
		Kind:     KindNumeric,
		Synonyms: []string{"quantity", "qty", "on hand", "stock", "stock on hand", "balance", "available", "count", "units in stock"},
		Strong:   []string{"quantity", "qty", "stock", "hand", "balance"},
		Weak:     []string{"count", "available", "units"},
		Negative: []string{"price", "value", "amount", "reorder", "minimum"},
	},
	{
		Key:      "unit_price",
		Kind:     KindNumeric,
		Synonyms: []string{"unit price", "price", "rate", "mrp", "cost", "unit cost", "selling price", "retail price"},
		Strong:   []string{"price", "rate", "mrp", "cost"},
		Weak:     []string{"unit", "selling", "retail"},
		Negative: []string{"total", "amount", "value"},
	},
	{
		Key:      "coo",
		Kind:     KindText,
		Synonyms: []string{"country", "country of origin", "origin", "coo", "made in"},
		Strong:   []string{"country", "origin", "coo"},
		Weak:     []string{"made"},
	},
	{
		Key:      "sku",
		Kind:     KindText,
		Synonyms: []string{"sku", "barcode", "gtin", "ean", "upc", "item code", "product code", "code"},
		Strong:   []string{"sku", "barcode", "gtin", "ean", "upc"},
		Weak:     []string{"code", "item", "product"},
	},
	{
		Key:      "requires_prescription",
		Kind:     KindBool,
		Synonyms: []string{"rx", "prescription", "requires prescription", "rx otc", "prescription required"},
		Strong:   []string{"rx", "prescription", "otc"},
		Weak:     []string{"required"},
	},
	{
		Key:      "is_controlled",
		Kind:     KindBool,
		Synonyms: []string{"controlled", "is controlled", "controlled substance", "narcotic"},
		Strong:   []string{"controlled", "narcotic"},
		Weak:     []string{"substance"},
	},
	{
		Key:      "storage_conditions",
		Kind:     KindText,
		Synonyms: []string{"storage", "storage conditions", "storage condition", "keep"},
		Strong:   []string{"storage"},
		Weak:     []string{"conditions", "keep"},
	},
	{
		Key:      "description",
		Kind:     KindText,
		Synonyms: []string{"description", "notes", "remarks", "comment", "comments"},
		Strong:   []string{"description", "remarks", "notes"},
		Weak:     []string{"comment"},
	},
	{
		Key:      "purchase_unit",
		Kind:     KindText,
		Synonyms: []string{"purchase unit", "pack", "pack size", "packing", "uom", "unit of measure"},
		Strong:   []string{"pack", "packing", "uom"},
		Weak:     []string{"unit", "size", "measure"},
	},
	{
		Key:      "pieces_per_unit",
		Kind:     KindNumeric,
		Synonyms: []string{"pieces per unit", "pieces", "units per pack", "pcs", "pcs per pack"},
		Strong:   []string{"pieces", "pcs"},
		Weak:     []string{"unit", "pack", "per"},
	},
	{
		Key:      "unit",
		Kind:     KindText,
		Synonyms: []string{"unit", "base unit", "issue unit", "dispensing unit"},
		Strong:   []string{"unit"},
		Weak:     []string{"base", "issue", "dispensing"},
		Negative: []string{"price", "cost", "pieces", "per"},
	},
	{
		Key:      "product_type",
		Kind:     KindText,
		Synonyms: []string{"product type", "item type", "medicine or non medicine"},
		Strong:   []string{"type"},
		Weak:     []string{"product", "item"},
	},
}

// HeaderLexicon is the vocabulary used by the header-mode decision: a first
// row dense in these tokens is a header row, not data.
var HeaderLexicon = map[string]bool{
	"name": true, "item": true, "product": true, "generic": true,
	"brand": true, "qty": true, "quantity": true, "price": true,
	"rate": true, "mrp": true, "batch": true, "lot": true,
	"expiry": true, "exp": true, "date": true, "code": true,
	"barcode": true, "sku": true, "category": true, "unit": true,
	"form": true, "strength": true, "manufacturer": true,
	"supplier": true, "origin": true, "country": true,
	"description": true, "stock": true, "balance": true,
	"amount": true, "value": true, "pack": true, "size": true,
	"dose": true, "dosage": true, "type": true, "no": true,
	"number": true, "id": true, "uom": true, "gtin": true,
}

// ConcatItemsHeaders is the exact lowercase header set emitted by the legacy
// point-of-sale export whose item names mash several fields into one string.
var ConcatItemsHeaders = []string{
	"item name", "item code", "category", "quantity", "rate", "value",
}

// ConcatItemsMapping maps the legacy export headers to canonical flat keys.
// "value" is the line total and intentionally has no canonical home.
var ConcatItemsMapping = map[string]string{
	"item name": "generic_name",
	"item code": "sku",
	"category":  "category",
	"quantity":  "on_hand",
	"rate":      "unit_price",
}

// TemplateV3Headers is the official import template's header row, in order.
var TemplateV3Headers = []string{
	"generic_name", "brand_name", "manufacturer", "strength", "form",
	"category", "batch_no", "expiry_date", "quantity", "unit_price",
	"country_of_origin", "cat_code", "frm_code", "pkg_code", "sku",
	"requires_prescription", "is_controlled", "storage_conditions",
	"description", "purchase_unit", "pieces_per_unit", "unit",
	"product_type",
}

// TemplateV3Mapping maps template headers to canonical flat keys.
var TemplateV3Mapping = map[string]string{
	"generic_name":          "generic_name",
	"brand_name":            "brand_name",
	"manufacturer":          "manufacturer_name",
	"strength":              "strength",
	"form":                  "form",
	"category":              "category",
	"batch_no":              "batch_no",
	"expiry_date":           "expiry_date",
	"quantity":              "on_hand",
	"unit_price":            "unit_price",
	"country_of_origin":     "coo",
	"cat_code":              "cat",
	"frm_code":              "frm",
	"pkg_code":              "pkg",
	"sku":                   "sku",
	"requires_prescription": "requires_prescription",
	"is_controlled":         "is_controlled",
	"storage_conditions":    "storage_conditions",
	"description":           "description",
	"purchase_unit":         "purchase_unit",
	"pieces_per_unit":       "pieces_per_unit",
	"unit":                  "unit",
	"product_type":          "product_type",
}

// TemplateVersion is the template generation this engine understands.
const TemplateVersion = "v3"
