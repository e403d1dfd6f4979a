package extractor

import (
	"alcyxob/traindoc/internal/domain"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		filename string
		want     Format
	}{
		{"word mime", domain.MimeWord, "plan.docx", FormatWord},
		{"legacy word mime", domain.MimeWordLegacy, "plan.doc", FormatWord},
		{"excel mime", domain.MimeExcel, "plan.xlsx", FormatExcel},
		{"csv mime", domain.MimeCSV, "plan.csv", FormatCSV},
		{"text mime", domain.MimeText, "plan.txt", FormatText},
		{"pdf mime", domain.MimePDF, "plan.pdf", FormatPDF},
		{"mime wins over extension", domain.MimeCSV, "plan.docx", FormatCSV},
		{"extension fallback", "", "plan.xlsx", FormatExcel},
		{"uppercase extension", "", "PLAN.DOCX", FormatWord},
		{"mime case insensitive", "TEXT/CSV", "noext", FormatCSV},
		{"unknown everything", "application/octet-stream", "blob.bin", FormatUnknown},
		{"no mime no extension", "", "README", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.mimeType, tt.filename); got != tt.want {
				t.Errorf("DetectFormat(%q, %q) = %v, want %v", tt.mimeType, tt.filename, got, tt.want)
			}
		})
	}
}

func TestFormatForExtension(t *testing.T) {
	if got := FormatForExtension("notes.text"); got != FormatText {
		t.Errorf("FormatForExtension(.text) = %v", got)
	}
	if got := FormatForExtension("archive.zip"); got != FormatUnknown {
		t.Errorf("FormatForExtension(.zip) = %v", got)
	}
}
