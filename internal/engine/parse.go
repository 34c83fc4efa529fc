package engine

// parse.go is the public entry point. Parse orchestrates the detection
// stack (header mode, schema, column mapping, concatenation scan) over a
// bounded sample of the file, then maps, decomposes, and canonicalizes
// every data row in order. Detection sampling depth is the only thing the
// analysis mode changes; per-row logic is identical in fast and deep.

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/devShop-studio/medway-import-core-sub000/internal/refdata"
)

const (
	fastSampleLimit = 32
	deepSampleMin   = 64
	deepSampleMax   = 256
)

// pathToFlat reverses fieldPaths for the decomposition overlay.
var pathToFlat = func() map[string]string {
	m := make(map[string]string, len(fieldPaths))
	for flat, path := range fieldPaths {
		m[path] = flat
	}
	return m
}()

// Parse runs the full import pipeline over already-decoded rows.
func Parse(rows [][]string, origin Origin, hint TemplateHint, opts Options) Result {
	return parseAt(rows, origin, hint, opts, time.Now().UTC())
}

// parseAt is Parse with an injectable clock for the expiry cross-check.
func parseAt(rows [][]string, origin Origin, hint TemplateHint, opts Options, now time.Time) Result {
	if opts.Mode == "" {
		opts.Mode = ModeFast
	}
	if opts.ValidationMode == "" {
		opts.ValidationMode = ValidationFull
	}

	mode := DetectHeaderMode(rows)

	var headers []string
	var data [][]string
	if mode == HeaderModeHeaders && len(rows) > 0 {
		headers = rows[0]
		data = rows[1:]
	} else {
		data = rows
		headers = syntheticHeaders(maxWidth(data))
	}

	sampleSize := sampleSizeFor(opts.Mode, len(data))
	sampleCols := columnize(data, len(headers), sampleSize)

	schema := DetectSchema(headers, mode, origin, hint)
	policy := PolicyFor(schema)

	mapping, guesses := buildMapping(schema, mode, headers, sampleCols)

	decomposeOpts := DecomposeOptions{Allow: opts.Allow}
	var scan ConcatScan
	var concatMode ConcatMode = ConcatNone
	switch schema {
	case SchemaTemplateV3:
		// The official template is atomic by contract; never scanned.
	case SchemaConcatItems:
		// The legacy export concatenates inside the item-name column only;
		// decomposition there is always attempted, opportunistically.
		concatMode = ConcatNameOnly
	default:
		scan = ScanConcatColumns(headers, sampleCols, mode, concatSampleLimit, decomposeOpts)
		if len(scan.Columns) > 0 {
			concatMode = ConcatFull
		}
	}

	result := Result{
		Meta: Meta{
			SourceSchema:        schema,
			HeaderMode:          mode,
			RequiredFields:      policy.RequiredFields(),
			AnalysisMode:        opts.Mode,
			SampleSize:          sampleSize,
			ConcatMode:          concatMode,
			ValidationMode:      opts.ValidationMode,
			ConcatenatedColumns: scan.Columns,
			DirtyColumns:        scan.Dirty,
		},
	}
	if mode == HeaderModeNone {
		result.Meta.ColumnGuesses = guesses
	}

	decomposed := map[int]bool{}

	for i, raw := range data {
		if blankRow(raw) {
			continue
		}
		rowIdx := i + 1 // 1-based data row index

		flat := &canonicalFlat{}
		for col, key := range mapping {
			if col < len(raw) {
				flat.set(key, cleanCell(raw[col]))
			}
		}

		switch concatMode {
		case ConcatNameOnly:
			if col, ok := mappedColumn(mapping, "generic_name"); ok && col < len(raw) {
				if overlayNameCell(flat, cleanCell(raw[col]), decomposeOpts) {
					decomposed[col] = true
				}
			}
		case ConcatFull:
			for _, cc := range scan.Columns {
				if cc.Index >= len(raw) {
					continue
				}
				if overlayCell(flat, mapping[cc.Index], cleanCell(raw[cc.Index]), decomposeOpts) {
					decomposed[cc.Index] = true
				}
			}
		}

		product, issues := CanonicalizeRow(flat, policy, opts.ValidationMode, opts.Allow, now)
		result.Rows = append(result.Rows, product)
		for _, is := range issues {
			result.Errors = append(result.Errors, ParsedRowError{
				Row:     rowIdx,
				Field:   FieldPath(is.Field),
				Code:    is.Code,
				Message: is.Msg,
			})
		}
	}

	for col := range decomposed {
		result.Meta.DecomposedColumns = append(result.Meta.DecomposedColumns, col)
	}
	sort.Ints(result.Meta.DecomposedColumns)

	return result
}

// overlayCell decomposes one flagged cell and folds the extractions into
// the flat row. Extractions never overwrite an explicitly mapped value; the
// leftover replaces the cell's own mapped field.
func overlayCell(flat *canonicalFlat, mappedKey, value string, opts DecomposeOptions) bool {
	if value == "" {
		return false
	}
	dec := DecomposeCell(value, opts)
	if dec.Empty() {
		return false
	}
	return overlayFromDecomposition(flat, mappedKey, value, dec)
}

// overlayNameCell is the opportunistic name-only variant used for the
// legacy export's item-name column. A rejected decomposition leaves the raw
// name untouched.
func overlayNameCell(flat *canonicalFlat, value string, opts DecomposeOptions) bool {
	if value == "" {
		return false
	}
	opts.Opportunistic = true
	dec := DecomposeCell(value, opts)
	if dec.Empty() {
		return false
	}
	return overlayFromDecomposition(flat, "generic_name", value, dec)
}

func overlayFromDecomposition(flat *canonicalFlat, mappedKey, value string, dec Decomposition) bool {
	for _, ex := range dec.Extractions {
		key, ok := pathToFlat[ex.Field]
		if !ok {
			continue
		}
		if key == mappedKey || flat.get(key) == "" {
			flat.set(key, ex.Value)
		}
	}
	if flat.get(mappedKey) == value && dec.Leftover != "" {
		flat.set(mappedKey, dec.Leftover)
	}
	return true
}

// buildMapping resolves the column-to-field mapping for the detected
// schema.
func buildMapping(schema SourceSchema, mode HeaderMode, headers []string, sampleCols [][]string) (map[int]string, []ColumnGuess) {
	if mode == HeaderModeNone {
		return InferColumns(sampleCols)
	}

	switch schema {
	case SchemaTemplateV3:
		return mapByTable(headers, refdata.TemplateV3Mapping), nil
	case SchemaConcatItems:
		return mapByTable(headers, refdata.ConcatItemsMapping), nil
	}

	hints := MapHeaders(headers, sampleCols)
	mapping := make(map[int]string, len(hints))
	for col, hint := range hints {
		mapping[col] = hint.Key
	}
	return mapping, nil
}

// mapByTable maps columns through an exact normalized-header table.
func mapByTable(headers []string, table map[string]string) map[int]string {
	mapping := make(map[int]string)
	for i, h := range headers {
		if key, ok := table[strings.ToLower(cleanCell(h))]; ok {
			mapping[i] = key
		}
	}
	return mapping
}

func mappedColumn(mapping map[int]string, key string) (int, bool) {
	for col, k := range mapping {
		if k == key {
			return col, true
		}
	}
	return 0, false
}

// sampleSizeFor bounds detection sampling: fast caps at 32 rows, deep takes
// a quarter of the file clamped to [64, 256].
func sampleSizeFor(mode AnalysisMode, n int) int {
	limit := fastSampleLimit
	if mode == ModeDeep {
		limit = n / 4
		if limit < deepSampleMin {
			limit = deepSampleMin
		}
		if limit > deepSampleMax {
			limit = deepSampleMax
		}
	}
	if limit > n {
		limit = n
	}
	return limit
}

// columnize transposes the first sampleSize data rows into width columns.
func columnize(data [][]string, width, sampleSize int) [][]string {
	cols := make([][]string, width)
	for r := 0; r < len(data) && r < sampleSize; r++ {
		row := data[r]
		for c := 0; c < width; c++ {
			if c < len(row) {
				cols[c] = append(cols[c], row[c])
			} else {
				cols[c] = append(cols[c], "")
			}
		}
	}
	return cols
}

func syntheticHeaders(width int) []string {
	headers := make([]string, width)
	for i := range headers {
		headers[i] = fmt.Sprintf("col_%d", i+1)
	}
	return headers
}

func maxWidth(rows [][]string) int {
	w := 0
	for _, row := range rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// blankRow reports whether every cell is empty after cleanup. Blank rows
// are dropped before mapping begins; this is the only way a row can vanish.
func blankRow(row []string) bool {
	for _, cell := range row {
		if cleanCell(cell) != "" {
			return false
		}
	}
	return true
}
