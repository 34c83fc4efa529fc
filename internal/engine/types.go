// Package engine implements the schema-detection, concatenated-text
// decomposition, and field-sanitization core for product inventory imports.
// This package has no I/O dependencies: callers hand it already-decoded
// rows and receive canonical records plus row-level issues.
package engine

// SourceSchema classifies the overall file into one of a closed set of
// source shapes. The schema determines both the field-mapping strategy and
// the requiredness policy.
type SourceSchema string

const (
	SchemaTemplateV3  SourceSchema = "template_v3"
	SchemaConcatItems SourceSchema = "concat_items" // alias: legacy_items
	SchemaCSVGeneric  SourceSchema = "csv_generic"
	SchemaUnknown     SourceSchema = "unknown"
)

// Origin records which reader produced the raw rows. A headerless workbook
// falls through to unknown, while a delimiter-sniffed text file without a
// header still deserves fuzzy mapping and lands on csv_generic.
type Origin string

const (
	OriginWorkbook Origin = "workbook"
	OriginText     Origin = "text"
)

// HeaderMode is the result of the headers-vs-headerless decision on row 1.
type HeaderMode string

const (
	HeaderModeHeaders HeaderMode = "headers"
	HeaderModeNone    HeaderMode = "none"
)

// AnalysisMode controls sampling depth for detection only. It never affects
// per-row logic, so fast and deep produce identical canonical rows.
type AnalysisMode string

const (
	ModeFast AnalysisMode = "fast"
	ModeDeep AnalysisMode = "deep"
)

// ValidationMode controls which sanitizer issues survive into the result.
// Normalization always runs in full, so row shape is mode-invariant.
type ValidationMode string

const (
	ValidationFull       ValidationMode = "full"
	ValidationErrorsOnly ValidationMode = "errorsOnly"
	ValidationNone       ValidationMode = "none"
)

// ConcatMode summarizes how much decomposition the file needed.
type ConcatMode string

const (
	ConcatNone     ConcatMode = "none"
	ConcatNameOnly ConcatMode = "name_only"
	ConcatFull     ConcatMode = "full"
)

// TemplateHint carries workbook metadata extracted by the reader. Both
// fields are optional; empty values simply skip the checksum fast paths.
type TemplateHint struct {
	TemplateVersion string
	HeaderChecksum  string
}

// Allowlists holds the explicit allow-lists threaded into sanitizers and
// the decomposer. Passing them as data keeps the engine pure; nothing in
// this package reads process environment.
type Allowlists struct {
	NumericBrands        []string
	NumericManufacturers []string
}

// Options configures one Parse call.
type Options struct {
	Mode           AnalysisMode
	ValidationMode ValidationMode
	Allow          Allowlists
}

// IssueLevel separates fatal field errors from advisory warnings.
type IssueLevel string

const (
	LevelError IssueLevel = "error"
	LevelWarn  IssueLevel = "warn"
)

// Issue is a sanitizer-local problem report. Field is the flat field key;
// translation to the dotted canonical path happens when the issue becomes
// a ParsedRowError.
type Issue struct {
	Field string
	Code  string
	Msg   string
	Level IssueLevel
}

// ParsedRowError is the public form of an Issue, carrying the 1-based data
// row index and the dotted canonical field path.
type ParsedRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ConcatExtraction is one field recovered from a concatenated cell. It is
// ephemeral: produced and consumed within a single cell's decomposition.
type ConcatExtraction struct {
	Field      string
	Value      string
	Confidence float64
	Reason     string
}

// HeaderMappingHint is the scoring result for one header string against the
// canonical-field synonym table.
type HeaderMappingHint struct {
	Header     string
	Key        string
	Confidence float64
}

// Product carries the identity and descriptive attributes of a canonical
// record, including the derived umbrella category.
type Product struct {
	GenericName          string `json:"generic_name"`
	BrandName            string `json:"brand_name"`
	ManufacturerName     string `json:"manufacturer_name"`
	Strength             string `json:"strength"`
	Form                 string `json:"form"`
	Category             string `json:"category"`
	UmbrellaCategory     string `json:"umbrella_category"`
	ProductType          string `json:"product_type"`
	RequiresPrescription *bool  `json:"requires_prescription,omitempty"`
	IsControlled         *bool  `json:"is_controlled,omitempty"`
	StorageConditions    string `json:"storage_conditions"`
	Description          string `json:"description"`
}

// Batch carries the lot-level attributes of a canonical record.
type Batch struct {
	BatchNo    string  `json:"batch_no"`
	ExpiryDate string  `json:"expiry_date"` // ISO YYYY-MM-DD when present
	OnHand     float64 `json:"on_hand"`
	UnitPrice  float64 `json:"unit_price"`
	COO        string  `json:"coo"`
}

// Pkg carries packaging attributes; present only when the source said
// anything about pack contents.
type Pkg struct {
	PurchaseUnit  string  `json:"purchase_unit"`
	PiecesPerUnit float64 `json:"pieces_per_unit"`
	Unit          string  `json:"unit"`
}

// Identity retains the raw coded fields for traceability.
type Identity struct {
	Cat string `json:"cat"`
	Frm string `json:"frm"`
	Pkg string `json:"pkg"`
	SKU string `json:"sku"`
}

// CanonicalProduct is the validated output record.
type CanonicalProduct struct {
	Product  Product   `json:"product"`
	Batch    Batch     `json:"batch"`
	Pkg      *Pkg      `json:"pkg,omitempty"`
	Identity *Identity `json:"identity,omitempty"`
}

// ConcatColumn names a column flagged by the concatenated-column detector.
type ConcatColumn struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// FieldCandidate is one ranked guess from headerless column inference.
type FieldCandidate struct {
	Field      string  `json:"field"`
	Confidence float64 `json:"confidence"`
}

// ColumnGuess surfaces per-column inference results for UI debugging.
type ColumnGuess struct {
	Index      int              `json:"index"`
	Candidates []FieldCandidate `json:"candidates"`
	Samples    []string         `json:"samples"`
}

// Meta describes how the file was interpreted.
type Meta struct {
	SourceSchema        SourceSchema   `json:"sourceSchema"`
	HeaderMode          HeaderMode     `json:"headerMode"`
	RequiredFields      []string       `json:"requiredFields"`
	AnalysisMode        AnalysisMode   `json:"analysisMode"`
	SampleSize          int            `json:"sampleSize"`
	ConcatMode          ConcatMode     `json:"concatMode"`
	ValidationMode      ValidationMode `json:"validationMode"`
	ConcatenatedColumns []ConcatColumn `json:"concatenatedColumns"`
	DirtyColumns        []int          `json:"dirtyColumns"`
	DecomposedColumns   []int          `json:"decomposedColumns"`
	ColumnGuesses       []ColumnGuess  `json:"columnGuesses,omitempty"`
}

// Result is the full outcome of parsing one file.
type Result struct {
	Rows   []CanonicalProduct `json:"rows"`
	Errors []ParsedRowError   `json:"errors"`
	Meta   Meta               `json:"meta"`
}

// canonicalFlat is the intermediate flat bag of optional scalar fields,
// built per row by the schema-specific mapper and mutated in place by the
// concatenation overlay before sanitization. Empty string means absent.
type canonicalFlat struct {
	GenericName          string
	BrandName            string
	ManufacturerName     string
	Strength             string
	Form                 string
	Category             string
	UmbrellaCategory     string // derived, never mapped from a column
	BatchNo              string
	ExpiryDate           string
	OnHand               string
	UnitPrice            string
	COO                  string
	Cat                  string
	Frm                  string
	Pkg                  string
	SKU                  string
	RequiresPrescription string
	IsControlled         string
	StorageConditions    string
	Description          string
	PurchaseUnit         string
	PiecesPerUnit        string
	Unit                 string
	ProductType          string
}

// set assigns a flat field by key. Unknown keys are ignored; mapping tables
// are the single source of valid keys.
func (f *canonicalFlat) set(key, value string) {
	switch key {
	case "generic_name":
		f.GenericName = value
	case "brand_name":
		f.BrandName = value
	case "manufacturer_name":
		f.ManufacturerName = value
	case "strength":
		f.Strength = value
	case "form":
		f.Form = value
	case "category":
		f.Category = value
	case "batch_no":
		f.BatchNo = value
	case "expiry_date":
		f.ExpiryDate = value
	case "on_hand":
		f.OnHand = value
	case "unit_price":
		f.UnitPrice = value
	case "coo":
		f.COO = value
	case "cat":
		f.Cat = value
	case "frm":
		f.Frm = value
	case "pkg":
		f.Pkg = value
	case "sku":
		f.SKU = value
	case "requires_prescription":
		f.RequiresPrescription = value
	case "is_controlled":
		f.IsControlled = value
	case "storage_conditions":
		f.StorageConditions = value
	case "description":
		f.Description = value
	case "purchase_unit":
		f.PurchaseUnit = value
	case "pieces_per_unit":
		f.PiecesPerUnit = value
	case "unit":
		f.Unit = value
	case "product_type":
		f.ProductType = value
	}
}

// get reads a flat field by key.
func (f *canonicalFlat) get(key string) string {
	switch key {
	case "generic_name":
		return f.GenericName
	case "brand_name":
		return f.BrandName
	case "manufacturer_name":
		return f.ManufacturerName
	case "strength":
		return f.Strength
	case "form":
		return f.Form
	case "category":
		return f.Category
	case "batch_no":
		return f.BatchNo
	case "expiry_date":
		return f.ExpiryDate
	case "on_hand":
		return f.OnHand
	case "unit_price":
		return f.UnitPrice
	case "coo":
		return f.COO
	case "cat":
		return f.Cat
	case "frm":
		return f.Frm
	case "pkg":
		return f.Pkg
	case "sku":
		return f.SKU
	case "requires_prescription":
		return f.RequiresPrescription
	case "is_controlled":
		return f.IsControlled
	case "storage_conditions":
		return f.StorageConditions
	case "description":
		return f.Description
	case "purchase_unit":
		return f.PurchaseUnit
	case "pieces_per_unit":
		return f.PiecesPerUnit
	case "unit":
		return f.Unit
	case "product_type":
		return f.ProductType
	}
	return ""
}

// fieldPaths translates flat field keys to dotted canonical paths. Errors,
// extractions, and meta all use the dotted form.
var fieldPaths = map[string]string{
	"generic_name":          "product.generic_name",
	"brand_name":            "product.brand_name",
	"manufacturer_name":     "product.manufacturer_name",
	"strength":              "product.strength",
	"form":                  "product.form",
	"category":              "product.category",
	"product_type":          "product.product_type",
	"requires_prescription": "product.requires_prescription",
	"is_controlled":         "product.is_controlled",
	"storage_conditions":    "product.storage_conditions",
	"description":           "product.description",
	"batch_no":              "batch.batch_no",
	"expiry_date":           "batch.expiry_date",
	"on_hand":               "batch.on_hand",
	"unit_price":            "batch.unit_price",
	"coo":                   "batch.coo",
	"purchase_unit":         "pkg.purchase_unit",
	"pieces_per_unit":       "pkg.pieces_per_unit",
	"unit":                  "pkg.unit",
	"cat":                   "identity.cat",
	"frm":                   "identity.frm",
	"pkg":                   "identity.pkg",
	"sku":                   "identity.sku",
}

// FieldPath returns the dotted canonical path for a flat field key, or the
// key itself when no mapping exists.
func FieldPath(key string) string {
	if p, ok := fieldPaths[key]; ok {
		return p
	}
	return key
}

// NA is the sentinel written into optional text fields that are still empty
// after validation. It is applied only after requiredness checks have run,
// so validation never sees it as a legitimate value.
const NA = "NA"
