package integrity

import (
	"alcyxob/traindoc/internal/domain"
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestRepairer(h *testHarness) *Repairer {
	return NewRepairer(h.repo, h.backend, h.checker)
}

func TestCanRepair(t *testing.T) {
	tests := []struct {
		name string
		doc  *domain.Document
		want bool
	}{
		{"nil document", nil, false},
		{"unsupported type", &domain.Document{MimeType: "image/png", StorageHandle: "mem:x"}, false},
		{"missing handle", &domain.Document{MimeType: domain.MimeText}, false},
		{"repairable", &domain.Document{MimeType: domain.MimeText, StorageHandle: "mem:x"}, true},
	}
	r := newTestRepairer(newTestHarness())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.CanRepair(tt.doc); got != tt.want {
				t.Errorf("CanRepair = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRepairMissingPlatform(t *testing.T) {
	h := newTestHarness()
	doc := h.storeDoc(t, "plan.txt", domain.MimeText, []byte("Week 1\nMonday drills\n"))
	doc.PlatformOrigin = ""
	if err := h.repo.Update(context.Background(), doc); err != nil {
		t.Fatal(err)
	}

	outcome, err := newTestRepairer(h).Repair(context.Background(), doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !outcome.Repaired {
		t.Error("expected Repaired = true")
	}
	// A platform-only defect yields exactly the one fix action.
	if len(outcome.Actions) != 1 {
		t.Fatalf("actions = %v, want exactly one", outcome.Actions)
	}

	repaired, err := h.repo.GetByID(context.Background(), doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if repaired.PlatformOrigin != h.backend.Origin() {
		t.Errorf("platform = %q, want %q", repaired.PlatformOrigin, h.backend.Origin())
	}
	if repaired.RepairedAt == nil {
		t.Error("RepairedAt not persisted")
	}
}

func TestRepairMultipleDefects(t *testing.T) {
	h := newTestHarness()
	doc := h.storeDoc(t, "plan.txt", domain.MimeText, []byte("Week 1\nMonday drills\n"))
	doc.PlatformOrigin = ""
	doc.StorageBackend = ""
	doc.UploadedAt = time.Time{}
	doc.Processed = true
	doc.ProcessedAt = nil
	if err := h.repo.Update(context.Background(), doc); err != nil {
		t.Fatal(err)
	}

	outcome, err := newTestRepairer(h).Repair(context.Background(), doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !outcome.Repaired {
		t.Error("expected Repaired = true")
	}
	if len(outcome.Actions) != 4 {
		t.Fatalf("actions = %v, want 4", outcome.Actions)
	}

	repaired, _ := h.repo.GetByID(context.Background(), doc.ID)
	if repaired.UploadedAt.IsZero() {
		t.Error("upload timestamp not defaulted")
	}
	if repaired.Processed {
		t.Error("processed flag with no timestamp not cleared")
	}
}

func TestRepairHealthyDocumentChangesNothing(t *testing.T) {
	h := newTestHarness()
	doc := h.storeDoc(t, "plan.txt", domain.MimeText, []byte("Week 1\nMonday drills\n"))

	outcome, err := newTestRepairer(h).Repair(context.Background(), doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Repaired {
		t.Errorf("healthy document reported repaired, actions = %v", outcome.Actions)
	}
	if outcome.PostRepairStatus != domain.IntegrityPassed {
		t.Errorf("post-repair status = %v", outcome.PostRepairStatus)
	}
}

func TestRepairCannotRestoreMissingBytes(t *testing.T) {
	h := newTestHarness()
	doc := h.storeDoc(t, "plan.txt", domain.MimeText, []byte("Week 1\nMonday drills\n"))
	if err := h.backend.Delete(context.Background(), doc.StorageHandle); err != nil {
		t.Fatal(err)
	}

	outcome, err := newTestRepairer(h).Repair(context.Background(), doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Repaired {
		t.Error("missing bytes cannot count as repaired")
	}
	if outcome.PostRepairStatus != domain.IntegrityFailed {
		t.Errorf("post-repair status = %v, want failed", outcome.PostRepairStatus)
	}
	found := false
	for _, a := range outcome.Actions {
		if a == "Storage handle no longer resolves; re-upload required" {
			found = true
		}
	}
	if !found {
		t.Errorf("actions = %v, want re-upload advisory", outcome.Actions)
	}
}

func TestRepairUnknownDocument(t *testing.T) {
	h := newTestHarness()
	if _, err := newTestRepairer(h).Repair(context.Background(), primitive.NewObjectID()); err == nil {
		t.Fatal("expected an error for an unknown document")
	}
}
