package extractor

import (
	"alcyxob/traindoc/internal/domain"
	"fmt"
	"strings"
)

// fallbackDocument builds the deterministic diagnostic text returned when a
// format cannot be decoded. It carries the original filename and size so the
// downstream pipeline still produces a plan shell the user can recognize.
func fallbackDocument(doc *domain.Document, format Format, reason string, guidance []string) NormalizedText {
	var b strings.Builder
	fmt.Fprintf(&b, "Document: %s\n", doc.OriginalName)
	fmt.Fprintf(&b, "Size: %d bytes\n", doc.SizeBytes)
	fmt.Fprintf(&b, "Declared type: %s\n\n", doc.MimeType)
	fmt.Fprintf(&b, "This %s document could not be processed: %s\n\n", format, reason)
	if len(guidance) > 0 {
		b.WriteString("Suggestions:\n")
		for _, g := range guidance {
			fmt.Fprintf(&b, "- %s\n", g)
		}
	}
	b.WriteString("\nSupported formats: Word (.docx), Excel (.xlsx), CSV, plain text, PDF.\n")
	return NormalizedText{Text: b.String(), Format: format, Method: MethodFallback}
}

// mismatchFallback is the fallback for a declared type whose bytes belong to
// a different format. Silent misparsing is never attempted.
func mismatchFallback(doc *domain.Document, format Format, detail string) NormalizedText {
	return fallbackDocument(doc, format, "declared type does not match the file content ("+detail+")",
		[]string{
			"Re-save the file in the declared format and upload it again",
			"Or upload it with the correct file type selected",
		})
}

func unsupportedFallback(doc *domain.Document) NormalizedText {
	return fallbackDocument(doc, FormatUnknown, "the file type is not supported",
		[]string{"Convert the document to Word, Excel, CSV, plain text, or PDF"})
}
