package extractor

import (
	"alcyxob/traindoc/internal/domain"
	"bytes"
	"encoding/csv"
	"strings"
	"unicode/utf8"
)

// extractText decodes a plain-text payload. Bytes must be valid UTF-8; an
// archive payload declared as text is a mismatch, not text.
func (e *Extractor) extractText(doc *domain.Document, data []byte) NormalizedText {
	if isZipArchive(data) {
		return mismatchFallback(doc, FormatText, "content is a binary archive")
	}
	if !utf8.Valid(data) {
		return fallbackDocument(doc, FormatText, "the file is not valid UTF-8 text",
			[]string{"Re-save the file with UTF-8 encoding and upload again"})
	}
	normalized := normalizeText(string(data))
	if normalized == "" {
		return fallbackDocument(doc, FormatText, "the file contains no text",
			[]string{"Check that the file is not empty"})
	}
	return NormalizedText{Text: normalized, Format: FormatText, Method: MethodNative}
}

// extractCSV decodes a CSV payload, joining cells with " | " so row structure
// survives into the line-oriented parser.
func (e *Extractor) extractCSV(doc *domain.Document, data []byte) NormalizedText {
	if isZipArchive(data) {
		return mismatchFallback(doc, FormatCSV, "content is a binary archive")
	}
	if !utf8.Valid(data) {
		return fallbackDocument(doc, FormatCSV, "the file is not valid UTF-8 text",
			[]string{"Re-save the file with UTF-8 encoding and upload again"})
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // human-authored CSVs have ragged rows
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		// Fall back to treating the bytes as raw lines rather than losing
		// the document over a quoting error.
		return e.extractText(doc, data)
	}

	var b strings.Builder
	for _, record := range records {
		var cells []string
		for _, cell := range record {
			if c := strings.TrimSpace(cell); c != "" {
				cells = append(cells, c)
			}
		}
		if len(cells) > 0 {
			b.WriteString(strings.Join(cells, " | "))
			b.WriteString("\n")
		}
	}

	normalized := normalizeText(b.String())
	if normalized == "" {
		return fallbackDocument(doc, FormatCSV, "the file contains no data rows",
			[]string{"Check that the file is not empty"})
	}
	return NormalizedText{Text: normalized, Format: FormatCSV, Method: MethodNative}
}
