package extractor

import (
	"alcyxob/traindoc/internal/domain"
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractExcel decodes an .xlsx payload via excelize, joining row cells with
// tabs. Bytes that are not a spreadsheet archive (a common case is CSV text
// uploaded with an Excel MIME type) produce the type-mismatch fallback.
func (e *Extractor) extractExcel(doc *domain.Document, data []byte) NormalizedText {
	if f := FormatForExtension(doc.OriginalName); f != FormatExcel && f != FormatUnknown && f != FormatCSV {
		return mismatchFallback(doc, FormatExcel, "filename extension indicates "+string(f))
	}
	if !e.caps.ExcelAvailable {
		return fallbackDocument(doc, FormatExcel, "spreadsheet processing is not available in this deployment",
			[]string{"Export the spreadsheet as CSV and upload again"})
	}
	if !isZipArchive(data) {
		return mismatchFallback(doc, FormatExcel, "content is not a spreadsheet archive")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return fallbackDocument(doc, FormatExcel, "the spreadsheet could not be opened: "+err.Error(),
			[]string{"Re-save the file as .xlsx and upload again"})
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, "\t"))
			if line != "" {
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
	}

	normalized := normalizeText(b.String())
	if normalized == "" {
		return fallbackDocument(doc, FormatExcel, "the spreadsheet contains no cell text",
			[]string{"Check that the workbook is not empty"})
	}
	return NormalizedText{Text: normalized, Format: FormatExcel, Method: MethodNative}
}
