// Package integrity verifies that a stored document's bytes are trustworthy
// and processable. Verification runs four independent sub-checks and folds
// them into one verdict; it has no side effects and never returns an error —
// internal failures become an error-status result.
package integrity

import (
	"alcyxob/traindoc/internal/capability"
	"alcyxob/traindoc/internal/domain"
	"alcyxob/traindoc/internal/extractor"
	"alcyxob/traindoc/internal/repository"
	"alcyxob/traindoc/internal/storage"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// readabilitySampleSize bounds the sample read so huge documents don't get
// fully decoded just to be checked.
const readabilitySampleSize = 64 * 1024

// trivialFileSize is the size under which an all-whitespace sample is not
// held against the document.
const trivialFileSize = 100

// sizeTolerance is the allowed relative drift between declared and actual
// byte counts before the storage check warns.
const sizeTolerance = 0.10

// Checker runs integrity verification for stored documents.
type Checker struct {
	backend   storage.Backend
	docRepo   repository.DocumentRepository
	caps      *capability.Capabilities
	extractor *extractor.Extractor
}

// NewChecker creates a Checker.
func NewChecker(backend storage.Backend, docRepo repository.DocumentRepository, caps *capability.Capabilities, ex *extractor.Extractor) *Checker {
	return &Checker{backend: backend, docRepo: docRepo, caps: caps, extractor: ex}
}

// Verify runs the four sub-checks against the document and aggregates them.
// Callers persist the returned snapshot; Verify itself mutates nothing.
func (c *Checker) Verify(ctx context.Context, doc *domain.Document) (result domain.IntegrityResult) {
	defer func() {
		if r := recover(); r != nil {
			result = errorResult(doc, fmt.Sprintf("integrity check aborted: %v", r))
		}
	}()

	result = domain.IntegrityResult{
		DocumentID: doc.ID,
		Timestamp:  time.Now().UTC(),
	}
	result.Checks.Basic = c.checkMetadata(doc)
	result.Checks.Storage = c.checkStorage(ctx, doc)
	result.Checks.Readability = c.checkReadability(ctx, doc)
	result.Checks.Processing = c.checkProcessing(ctx, doc)

	result.OverallStatus = domain.WorstIntegrityStatus(
		result.Checks.Basic.Status,
		result.Checks.Storage.Status,
		result.Checks.Readability.Status,
		result.Checks.Processing.Status,
	)
	result.Recommendations = recommendations(result)
	return result
}

// checkMetadata validates the document record itself: required fields, a
// supported type, size within the platform limit, and an extension that
// matches the declared MIME type (mismatch warns, it does not fail).
func (c *Checker) checkMetadata(doc *domain.Document) domain.CheckResult {
	res := newCheckResult()

	if doc.ID.IsZero() {
		res.Issues = append(res.Issues, "Document has no id")
	}
	if strings.TrimSpace(doc.OriginalName) == "" {
		res.Issues = append(res.Issues, "Document has no filename")
	}
	if doc.UploadedAt.IsZero() {
		res.Issues = append(res.Issues, "Document has no upload timestamp")
	}
	if doc.MimeType == "" {
		res.Issues = append(res.Issues, "Document has no declared type")
	} else if !domain.IsSupportedMimeType(doc.MimeType) {
		res.Issues = append(res.Issues, fmt.Sprintf("Unsupported document type: %s", doc.MimeType))
	}
	if doc.SizeBytes <= 0 {
		res.Issues = append(res.Issues, "Invalid file size")
	} else if doc.SizeBytes > c.caps.FileSizeLimit() {
		res.Issues = append(res.Issues, fmt.Sprintf("File exceeds the %d byte size limit", c.caps.FileSizeLimit()))
	}

	declared := extractor.DetectFormat(doc.MimeType, "")
	byExt := extractor.FormatForExtension(doc.OriginalName)
	if declared != extractor.FormatUnknown && byExt != extractor.FormatUnknown && declared != byExt {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("Filename extension suggests %s but declared type is %s", byExt, declared))
	}

	res.Metadata["declaredType"] = doc.MimeType
	res.Status = statusFor(res)
	return res
}

// checkStorage verifies the handle resolves to non-empty bytes, that the
// metadata store still returns the document, and that declared and actual
// sizes agree within tolerance.
func (c *Checker) checkStorage(ctx context.Context, doc *domain.Document) domain.CheckResult {
	res := newCheckResult()

	if doc.StorageHandle == "" {
		res.Issues = append(res.Issues, "Document has no storage handle")
		res.Status = statusFor(res)
		return res
	}

	data, err := c.backend.Retrieve(ctx, doc.StorageHandle)
	if err != nil {
		res.Issues = append(res.Issues, fmt.Sprintf("Stored bytes are unresolvable: %v", err))
		res.Status = statusFor(res)
		return res
	}
	if len(data) == 0 {
		res.Issues = append(res.Issues, "Stored bytes are empty")
	}
	res.Metadata["actualBytes"] = fmt.Sprintf("%d", len(data))

	// Re-read the metadata record to confirm the document list still
	// carries this document intact.
	if !doc.ID.IsZero() && c.docRepo != nil {
		stored, err := c.docRepo.GetByID(ctx, doc.ID)
		if err != nil {
			res.Issues = append(res.Issues, "Document metadata could not be re-read from the store")
		} else if stored.StorageHandle != doc.StorageHandle {
			res.Warnings = append(res.Warnings, "Stored metadata carries a different storage handle")
		}
	}

	if doc.SizeBytes > 0 && len(data) > 0 {
		drift := float64(int64(len(data))-doc.SizeBytes) / float64(doc.SizeBytes)
		if drift < 0 {
			drift = -drift
		}
		if drift > sizeTolerance {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("Declared size %d differs from stored size %d by more than %.0f%%",
					doc.SizeBytes, len(data), sizeTolerance*100))
		}
	}

	res.Status = statusFor(res)
	return res
}

// checkReadability reads a bounded sample and, for text-like types, demands
// it decodes cleanly and isn't pure whitespace on a non-trivial file.
func (c *Checker) checkReadability(ctx context.Context, doc *domain.Document) domain.CheckResult {
	res := newCheckResult()

	if doc.StorageHandle == "" {
		res.Issues = append(res.Issues, "No storage handle to read from")
		res.Status = statusFor(res)
		return res
	}
	data, err := c.backend.Retrieve(ctx, doc.StorageHandle)
	if err != nil {
		res.Issues = append(res.Issues, fmt.Sprintf("Sample read failed: %v", err))
		res.Status = statusFor(res)
		return res
	}
	if len(data) == 0 {
		res.Issues = append(res.Issues, "Sample read returned no bytes")
		res.Status = statusFor(res)
		return res
	}

	sample := data
	if len(sample) > readabilitySampleSize {
		sample = sample[:readabilitySampleSize]
	}
	res.Metadata["sampleBytes"] = fmt.Sprintf("%d", len(sample))

	format := extractor.DetectFormat(doc.MimeType, doc.OriginalName)
	if format == extractor.FormatText || format == extractor.FormatCSV {
		text := string(sample)
		if !utf8.ValidString(text) || strings.ContainsRune(text, '�') {
			res.Issues = append(res.Issues, "Text sample does not decode cleanly")
		} else if strings.TrimSpace(text) == "" && doc.SizeBytes > trivialFileSize {
			res.Issues = append(res.Issues, "Text sample is entirely whitespace")
		}
	}

	res.Status = statusFor(res)
	return res
}

// checkProcessing confirms the decode capability for the document's format
// is wired in, then dry-runs the extractor over the stored bytes.
func (c *Checker) checkProcessing(ctx context.Context, doc *domain.Document) domain.CheckResult {
	res := newCheckResult()

	format := extractor.DetectFormat(doc.MimeType, doc.OriginalName)
	res.Metadata["format"] = string(format)

	if format == extractor.FormatUnknown {
		res.Issues = append(res.Issues, "No processor exists for this document type")
		res.Status = statusFor(res)
		return res
	}
	if !c.caps.LibraryAvailable(doc.MimeType) {
		if format == extractor.FormatPDF {
			// PDF is a degraded-capability format; a missing backend means
			// fallback guidance, not an unprocessable document.
			res.Warnings = append(res.Warnings, "PDF extraction backend is unavailable; processing will produce conversion guidance")
		} else {
			res.Issues = append(res.Issues, fmt.Sprintf("The %s processing library is unavailable", format))
		}
		res.Status = statusFor(res)
		return res
	}

	if doc.StorageHandle != "" {
		if data, err := c.backend.Retrieve(ctx, doc.StorageHandle); err == nil && len(data) > 0 {
			if c.extractor.Extract(ctx, doc, data).IsFallback() {
				res.Warnings = append(res.Warnings, "Dry-run decode fell back to diagnostic content")
			}
		}
	}

	res.Status = statusFor(res)
	return res
}

// statusFor derives a sub-check status from its collected issues/warnings.
func statusFor(res domain.CheckResult) domain.IntegrityStatus {
	switch {
	case len(res.Issues) > 0:
		return domain.IntegrityFailed
	case len(res.Warnings) > 0:
		return domain.IntegrityWarning
	default:
		return domain.IntegrityPassed
	}
}

func newCheckResult() domain.CheckResult {
	return domain.CheckResult{
		Status:   domain.IntegrityPassed,
		Issues:   []string{},
		Warnings: []string{},
		Metadata: map[string]string{},
	}
}

// recommendations maps failing sub-checks to remediation advice, with a
// generic ready message when nothing failed.
func recommendations(result domain.IntegrityResult) []string {
	var recs []string
	if result.Checks.Basic.Status == domain.IntegrityFailed {
		recs = append(recs, "Fix the document metadata or upload the file again with a supported type and size")
	}
	if result.Checks.Storage.Status == domain.IntegrityFailed {
		recs = append(recs, "The stored bytes are missing or corrupt; re-upload the document")
	}
	if result.Checks.Readability.Status == domain.IntegrityFailed {
		recs = append(recs, "The document could not be read; re-save it and upload again")
	}
	if result.Checks.Processing.Status == domain.IntegrityFailed {
		recs = append(recs, "Convert the document to a supported format such as Word, CSV, or plain text")
	}
	if len(recs) == 0 {
		recs = append(recs, "Document is ready for processing")
	}
	return recs
}

// errorResult converts an internal failure into an error-status result; the
// checker itself never propagates errors.
func errorResult(doc *domain.Document, message string) domain.IntegrityResult {
	check := domain.CheckResult{
		Status:   domain.IntegrityError,
		Issues:   []string{message},
		Warnings: []string{},
	}
	return domain.IntegrityResult{
		DocumentID:    doc.ID,
		Timestamp:     time.Now().UTC(),
		OverallStatus: domain.IntegrityError,
		Checks: domain.IntegrityChecks{
			Basic:       check,
			Storage:     check,
			Readability: check,
			Processing:  check,
		},
		Recommendations: []string{"An unexpected error interrupted verification; try again"},
	}
}
