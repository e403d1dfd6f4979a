package extractor

import (
	"alcyxob/traindoc/internal/domain"
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// extractWord decodes a .docx payload. A docx file is a zip archive whose
// text lives in word/document.xml as <w:t> runs.
func (e *Extractor) extractWord(doc *domain.Document, data []byte) NormalizedText {
	if f := FormatForExtension(doc.OriginalName); f != FormatWord && f != FormatUnknown {
		return mismatchFallback(doc, FormatWord, "filename extension indicates "+string(f))
	}
	if !e.caps.WordAvailable {
		return fallbackDocument(doc, FormatWord, "Word processing is not available in this deployment",
			[]string{"Convert the document to plain text or CSV and upload again"})
	}
	if !isZipArchive(data) {
		return mismatchFallback(doc, FormatWord, "content is not a Word archive")
	}

	text, err := decodeDocx(data)
	if err != nil {
		return fallbackDocument(doc, FormatWord, err.Error(),
			[]string{"Re-save the document as .docx and upload again"})
	}
	normalized := normalizeText(text)
	if normalized == "" {
		return fallbackDocument(doc, FormatWord, "the document contains no extractable text",
			[]string{"Check that the document is not empty or image-only"})
	}
	return NormalizedText{Text: normalized, Format: FormatWord, Method: MethodNative}
}

// isZipArchive checks the PK local-file-header magic.
func isZipArchive(data []byte) bool {
	return len(data) >= 4 && data[0] == 'P' && data[1] == 'K' && data[2] == 0x03 && data[3] == 0x04
}

// decodeDocx walks word/document.xml collecting <w:t> text runs, inserting
// newlines at paragraph boundaries (<w:p>).
func decodeDocx(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errMissingDocumentXML
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var b strings.Builder
	decoder := xml.NewDecoder(rc)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "t" { // <w:t>
				var text string
				if err := decoder.DecodeElement(&text, &se); err == nil {
					b.WriteString(text)
					b.WriteString(" ")
				}
			}
		case xml.EndElement:
			if se.Name.Local == "p" { // paragraph boundary
				b.WriteString("\n")
			}
		}
	}
	return b.String(), nil
}

var errMissingDocumentXML = docxError("archive does not contain word/document.xml")

type docxError string

func (e docxError) Error() string { return string(e) }
