// Package reader decodes uploaded inventory files into raw row grids for
// the parse engine. Two container formats are supported: xlsx workbooks
// (excelize) and delimited text (csv with delimiter sniffing). Readers do
// no field interpretation; that is the engine's job.
package reader

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/devShop-studio/medway-import-core-sub000/internal/engine"
)

// metaSheet is the hidden worksheet the template writer uses to stamp its
// version and header fingerprint.
const metaSheet = "_meta"

// maxWorkbookBytes caps how much of an upload the workbook reader will
// buffer. Streaming huge files is out of scope; uploads are preview-sized.
const maxWorkbookBytes = 32 << 20

// ReadWorkbook decodes the first worksheet of an xlsx file into a row grid
// and extracts the template hint from the metadata sheet when present.
func ReadWorkbook(r io.Reader) ([][]string, engine.TemplateHint, error) {
	var hint engine.TemplateHint

	data, err := io.ReadAll(io.LimitReader(r, maxWorkbookBytes+1))
	if err != nil {
		return nil, hint, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxWorkbookBytes {
		return nil, hint, fmt.Errorf("workbook exceeds %d byte limit", maxWorkbookBytes)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, hint, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, hint, fmt.Errorf("workbook has no sheets")
	}

	dataSheet := ""
	for _, sh := range sheets {
		if strings.EqualFold(sh, metaSheet) {
			hint = readMetaSheet(f, sh)
			continue
		}
		if dataSheet == "" {
			dataSheet = sh
		}
	}
	if dataSheet == "" {
		return nil, hint, fmt.Errorf("workbook has no data sheet")
	}
	if hint == (engine.TemplateHint{}) {
		hint = readDefinedNames(f)
	}

	rows, err := f.GetRows(dataSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, hint, fmt.Errorf("read sheet %q: %w", dataSheet, err)
	}
	return rows, hint, nil
}

// readMetaSheet scans the metadata sheet for key/value pairs.
func readMetaSheet(f *excelize.File, sheet string) engine.TemplateHint {
	var hint engine.TemplateHint
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return hint
	}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(row[0]))
		val := strings.TrimSpace(row[1])
		switch key {
		case "template_version", "version":
			hint.TemplateVersion = val
		case "header_checksum", "checksum":
			hint.HeaderChecksum = val
		}
	}
	return hint
}

// readDefinedNames is the fallback for templates stamped through workbook
// defined names instead of a metadata sheet.
func readDefinedNames(f *excelize.File) engine.TemplateHint {
	var hint engine.TemplateHint
	for _, dn := range f.GetDefinedName() {
		val := strings.Trim(strings.TrimSpace(dn.RefersTo), `"`)
		switch strings.ToLower(dn.Name) {
		case "template_version":
			hint.TemplateVersion = val
		case "header_checksum":
			hint.HeaderChecksum = val
		}
	}
	return hint
}
