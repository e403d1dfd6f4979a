package extractor

import (
	"alcyxob/traindoc/internal/domain"
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF decodes a PDF payload when a decoder capability is wired in.
// PDF is a degraded-capability format: without a decoder the result is
// always the conversion-guidance fallback, which callers must treat as a
// fallback, not as missing data.
func (e *Extractor) extractPDF(doc *domain.Document, data []byte) NormalizedText {
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return mismatchFallback(doc, FormatPDF, "content does not carry a PDF header")
	}
	if e.caps.PDF == nil {
		return fallbackDocument(doc, FormatPDF, "PDF text extraction is not available in this deployment",
			[]string{
				"Convert the PDF to a Word document or plain text and upload again",
				"Most PDF viewers offer Save As Text",
			})
	}

	text, err := e.caps.PDF.DecodeText(data)
	if err != nil {
		return fallbackDocument(doc, FormatPDF, "the PDF could not be decoded: "+err.Error(),
			[]string{"Convert the PDF to a Word document or plain text and upload again"})
	}
	normalized := normalizeText(text)
	if normalized == "" {
		return fallbackDocument(doc, FormatPDF, "the PDF contains no extractable text (it may be scanned images)",
			[]string{"Run OCR on the document or re-export it with selectable text"})
	}
	return NormalizedText{Text: normalized, Format: FormatPDF, Method: MethodNative}
}

// LedongthucDecoder adapts github.com/ledongthuc/pdf to the PDFDecoder
// capability. Page decode errors are skipped, not fatal; a PDF where every
// page fails simply yields empty text.
type LedongthucDecoder struct{}

func (LedongthucDecoder) DecodeText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}
