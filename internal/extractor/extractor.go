// Package extractor decodes stored document bytes into normalized UTF-8
// text, one decoder per supported format. Extraction never fails past this
// boundary: any decode problem yields a deterministic fallback document so
// downstream stages always have text to work with.
package extractor

import (
	"alcyxob/traindoc/internal/capability"
	"alcyxob/traindoc/internal/domain"
	"context"
	"strings"
	"unicode"
)

// Processing method tags carried on extraction results.
const (
	MethodNative   = "native"
	MethodFallback = "fallback"
)

// NormalizedText is the outcome of extracting one document.
type NormalizedText struct {
	Text   string
	Format Format
	Method string
}

// IsFallback reports whether the text is a diagnostic fallback document
// rather than real decoded content.
func (n NormalizedText) IsFallback() bool { return n.Method == MethodFallback }

// Extractor dispatches documents to per-format decoders.
type Extractor struct {
	caps *capability.Capabilities
}

// New creates an Extractor using the given runtime capabilities.
func New(caps *capability.Capabilities) *Extractor {
	return &Extractor{caps: caps}
}

// Extract decodes the document's bytes according to its declared format.
// It always returns usable text; failures are encoded as fallback documents.
func (e *Extractor) Extract(ctx context.Context, doc *domain.Document, data []byte) NormalizedText {
	format := DetectFormat(doc.MimeType, doc.OriginalName)
	switch format {
	case FormatWord:
		return e.extractWord(doc, data)
	case FormatExcel:
		return e.extractExcel(doc, data)
	case FormatCSV:
		return e.extractCSV(doc, data)
	case FormatText:
		return e.extractText(doc, data)
	case FormatPDF:
		return e.extractPDF(doc, data)
	default:
		return unsupportedFallback(doc)
	}
}

// normalizeText converts line endings to \n and strips control characters,
// keeping tabs and newlines.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) || r == '�' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
