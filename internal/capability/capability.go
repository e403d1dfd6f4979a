// Package capability describes which optional decode libraries are wired in
// at process start. A single Capabilities value is constructed once in main
// and passed into component constructors; nothing re-detects per call.
package capability

import (
	"alcyxob/traindoc/internal/domain"
)

// PDFDecoder decodes PDF bytes into plain text. PDF support is optional;
// a nil decoder means the format degrades to conversion guidance.
type PDFDecoder interface {
	DecodeText(data []byte) (string, error)
}

// Capabilities is the runtime capability set consulted by the extractors,
// the integrity checker, and the upload path.
type Capabilities struct {
	PDF              PDFDecoder // nil when no PDF backend is available
	WordAvailable    bool
	ExcelAvailable   bool
	maxFileSizeBytes int64
}

// New builds the capability set. maxFileSize <= 0 falls back to 25 MiB.
func New(pdf PDFDecoder, maxFileSize int64) *Capabilities {
	if maxFileSize <= 0 {
		maxFileSize = 25 * 1024 * 1024
	}
	return &Capabilities{
		PDF:              pdf,
		WordAvailable:    true,
		ExcelAvailable:   true,
		maxFileSizeBytes: maxFileSize,
	}
}

// FileSizeLimit returns the maximum accepted upload size in bytes.
func (c *Capabilities) FileSizeLimit() int64 { return c.maxFileSizeBytes }

// SupportedFormats lists the MIME types uploads may declare.
func (c *Capabilities) SupportedFormats() []string {
	return domain.SupportedMimeTypes
}

// LibraryAvailable reports whether the decode capability for a declared MIME
// type is wired in. Text-family formats need no library.
func (c *Capabilities) LibraryAvailable(mimeType string) bool {
	switch mimeType {
	case domain.MimeWord, domain.MimeWordLegacy:
		return c.WordAvailable
	case domain.MimeExcel, domain.MimeExcelLegacy:
		return c.ExcelAvailable
	case domain.MimePDF:
		return c.PDF != nil
	case domain.MimeCSV, domain.MimeText:
		return true
	default:
		return false
	}
}
