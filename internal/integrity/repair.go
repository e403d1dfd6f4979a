package integrity

import (
	"alcyxob/traindoc/internal/domain"
	"alcyxob/traindoc/internal/repository"
	"alcyxob/traindoc/internal/storage"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RepairOutcome reports what a repair attempt changed and the verdict of
// the post-repair verification run.
type RepairOutcome struct {
	Repaired         bool                   `json:"repaired"`
	Actions          []string               `json:"actions"`
	PostRepairStatus domain.IntegrityStatus `json:"postRepairStatus"`
}

// Repairer applies narrow, enumerable fixes to documents that fail
// integrity checks. It fills missing metadata defaults and verifies storage
// handles; it cannot restore bytes that are gone.
type Repairer struct {
	docRepo repository.DocumentRepository
	backend storage.Backend
	checker *Checker
}

// NewRepairer creates a Repairer.
func NewRepairer(docRepo repository.DocumentRepository, backend storage.Backend, checker *Checker) *Repairer {
	return &Repairer{docRepo: docRepo, backend: backend, checker: checker}
}

// CanRepair is a cheap pre-check used by background maintenance to skip
// documents a repair attempt cannot help.
func (r *Repairer) CanRepair(doc *domain.Document) bool {
	if doc == nil {
		return false
	}
	if !domain.IsSupportedMimeType(doc.MimeType) {
		return false
	}
	return doc.StorageHandle != ""
}

// Repair applies the enumerable fixes, persists the document, and re-runs
// verification. Individual step failures are recorded as advisory actions;
// only a missing document propagates as an error.
func (r *Repairer) Repair(ctx context.Context, documentID primitive.ObjectID) (*RepairOutcome, error) {
	doc, err := r.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("repair: document %s: %w", documentID.Hex(), err)
	}

	outcome := &RepairOutcome{Actions: []string{}}

	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
		outcome.Actions = append(outcome.Actions, "Set missing upload timestamp to now")
	}
	if doc.PlatformOrigin == "" {
		doc.PlatformOrigin = r.backend.Origin()
		outcome.Actions = append(outcome.Actions, fmt.Sprintf("Set missing platform to %q", doc.PlatformOrigin))
	}
	if doc.StorageBackend == "" {
		doc.StorageBackend = r.backend.Name()
		outcome.Actions = append(outcome.Actions, fmt.Sprintf("Set missing storage backend tag to %q", doc.StorageBackend))
	}
	if doc.Processed && doc.ProcessedAt == nil {
		doc.Processed = false
		outcome.Actions = append(outcome.Actions, "Cleared processed flag with no processing timestamp")
	}

	fixesApplied := len(outcome.Actions)

	// Storage handle repair is report-only on path-backed backends: a
	// deleted local file cannot be restored here.
	if doc.StorageHandle == "" {
		outcome.Actions = append(outcome.Actions, "Storage handle is missing and cannot be re-derived; re-upload required")
	} else {
		exists, err := r.backend.Exists(ctx, doc.StorageHandle)
		switch {
		case err != nil:
			outcome.Actions = append(outcome.Actions, fmt.Sprintf("Storage handle check failed: %v", err))
		case !exists:
			outcome.Actions = append(outcome.Actions, "Storage handle no longer resolves; re-upload required")
		}
	}

	now := time.Now().UTC()
	doc.RepairedAt = &now
	if err := r.docRepo.Update(ctx, doc); err != nil {
		outcome.Actions = append(outcome.Actions, fmt.Sprintf("Failed to persist repaired metadata: %v", err))
	} else {
		outcome.Repaired = fixesApplied > 0
	}

	result := r.checker.Verify(ctx, doc)
	outcome.PostRepairStatus = result.OverallStatus
	return outcome, nil
}
