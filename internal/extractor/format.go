package extractor

import (
	"alcyxob/traindoc/internal/domain"
	"path/filepath"
	"strings"
)

// Format is the processing family a document is dispatched to.
type Format string

const (
	FormatWord    Format = "word"
	FormatExcel   Format = "excel"
	FormatCSV     Format = "csv"
	FormatText    Format = "text"
	FormatPDF     Format = "pdf"
	FormatUnknown Format = "unknown"
)

// mimeFormats maps declared MIME types to their processing format.
var mimeFormats = map[string]Format{
	domain.MimeWord:        FormatWord,
	domain.MimeWordLegacy:  FormatWord,
	domain.MimeExcel:       FormatExcel,
	domain.MimeExcelLegacy: FormatExcel,
	domain.MimeCSV:         FormatCSV,
	domain.MimeText:        FormatText,
	domain.MimePDF:         FormatPDF,
}

// extensionFormats maps filename extensions to formats, used when the MIME
// type is missing or unrecognized, and for extension/MIME mismatch checks.
var extensionFormats = map[string]Format{
	".doc":  FormatWord,
	".docx": FormatWord,
	".xls":  FormatExcel,
	".xlsx": FormatExcel,
	".csv":  FormatCSV,
	".txt":  FormatText,
	".text": FormatText,
	".pdf":  FormatPDF,
}

// DetectFormat resolves the declared MIME type and filename to a processing
// format. The MIME table wins; the extension is the fallback.
func DetectFormat(mimeType, filename string) Format {
	if f, ok := mimeFormats[strings.ToLower(strings.TrimSpace(mimeType))]; ok {
		return f
	}
	return FormatForExtension(filename)
}

// FormatForExtension resolves a filename extension alone to a format.
func FormatForExtension(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	if f, ok := extensionFormats[ext]; ok {
		return f
	}
	return FormatUnknown
}
