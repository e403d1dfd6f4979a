package service

import (
	"alcyxob/traindoc/internal/capability"
	"alcyxob/traindoc/internal/domain"
	"alcyxob/traindoc/internal/integrity"
	"alcyxob/traindoc/internal/repository"
	"alcyxob/traindoc/internal/storage"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrDocumentNotFound    = errors.New("document not found")
	ErrDocumentNotOwned    = errors.New("document does not belong to this user")
	ErrUnsupportedType     = errors.New("unsupported document type")
	ErrEmptyDocument       = errors.New("document is empty")
	ErrDocumentTooLarge    = errors.New("document exceeds the size limit")
	ErrStorageWriteFailed  = errors.New("failed to store document bytes")
	ErrMetadataWriteFailed = errors.New("failed to persist document metadata")
)

// ValidationError carries actionable suggestions alongside the failure.
type ValidationError struct {
	Err         error
	Suggestions []string
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// DocumentService owns the document lifecycle: upload, retrieval,
// verification, repair, and deletion.
type DocumentService interface {
	Upload(ctx context.Context, ownerID primitive.ObjectID, name, mimeType string, data []byte) (*domain.Document, error)
	Get(ctx context.Context, ownerID, documentID primitive.ObjectID) (*domain.Document, error)
	List(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Document, error)
	Delete(ctx context.Context, ownerID, documentID primitive.ObjectID) error
	Verify(ctx context.Context, ownerID, documentID primitive.ObjectID) (*domain.IntegrityResult, error)
	Repair(ctx context.Context, ownerID, documentID primitive.ObjectID) (*integrity.RepairOutcome, error)
}

type documentService struct {
	docRepo  repository.DocumentRepository
	backend  storage.Backend
	caps     *capability.Capabilities
	checker  *integrity.Checker
	repairer *integrity.Repairer
}

// NewDocumentService creates a new instance of documentService.
func NewDocumentService(
	docRepo repository.DocumentRepository,
	backend storage.Backend,
	caps *capability.Capabilities,
	checker *integrity.Checker,
	repairer *integrity.Repairer,
) DocumentService {
	return &documentService{
		docRepo:  docRepo,
		backend:  backend,
		caps:     caps,
		checker:  checker,
		repairer: repairer,
	}
}

// Upload validates the incoming file, stores its bytes, and persists the
// document metadata.
func (s *documentService) Upload(ctx context.Context, ownerID primitive.ObjectID, name, mimeType string, data []byte) (*domain.Document, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required")
	}
	if !domain.IsSupportedMimeType(mimeType) {
		return nil, &ValidationError{
			Err: fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType),
			Suggestions: []string{
				"Upload a Word (.docx), Excel (.xlsx), CSV, plain text, or PDF document",
			},
		}
	}
	if len(data) == 0 {
		return nil, &ValidationError{
			Err:         ErrEmptyDocument,
			Suggestions: []string{"The selected file has no content; check the file and try again"},
		}
	}
	if int64(len(data)) > s.caps.FileSizeLimit() {
		return nil, &ValidationError{
			Err:         fmt.Errorf("%w: %d bytes (limit %d)", ErrDocumentTooLarge, len(data), s.caps.FileSizeLimit()),
			Suggestions: []string{"Split the document or remove embedded media to reduce its size"},
		}
	}

	handle, err := s.backend.Store(ctx, name, data)
	if err != nil {
		log.Printf("ERROR: storing document bytes for %q: %v", name, err)
		return nil, fmt.Errorf("%w: %v", ErrStorageWriteFailed, err)
	}

	doc := &domain.Document{
		OwnerID:        ownerID,
		OriginalName:   name,
		MimeType:       mimeType,
		SizeBytes:      int64(len(data)),
		UploadedAt:     time.Now().UTC(),
		PlatformOrigin: s.backend.Origin(),
		StorageBackend: s.backend.Name(),
		StorageHandle:  handle,
	}
	id, err := s.docRepo.Create(ctx, doc)
	if err != nil {
		// Metadata failed; release the orphaned object.
		_ = s.backend.Delete(ctx, handle)
		return nil, fmt.Errorf("%w: %v", ErrMetadataWriteFailed, err)
	}
	doc.ID = id
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, ownerID, documentID primitive.ObjectID) (*domain.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	if doc.OwnerID != ownerID {
		return nil, ErrDocumentNotOwned
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Document, error) {
	return s.docRepo.GetByOwnerID(ctx, ownerID)
}

// Delete removes the stored bytes first, then the metadata, releasing any
// transient platform resource the handle held.
func (s *documentService) Delete(ctx context.Context, ownerID, documentID primitive.ObjectID) error {
	doc, err := s.Get(ctx, ownerID, documentID)
	if err != nil {
		return err
	}
	if doc.StorageHandle != "" {
		if err := s.backend.Delete(ctx, doc.StorageHandle); err != nil {
			log.Printf("WARN: releasing storage for document %s: %v", documentID.Hex(), err)
		}
	}
	return s.docRepo.Delete(ctx, documentID)
}

// Verify runs the integrity checker and persists the snapshot onto the
// document. Concurrent verifications are last-writer-wins on the snapshot.
func (s *documentService) Verify(ctx context.Context, ownerID, documentID primitive.ObjectID) (*domain.IntegrityResult, error) {
	doc, err := s.Get(ctx, ownerID, documentID)
	if err != nil {
		return nil, err
	}

	result := s.checker.Verify(ctx, doc)

	doc.IntegrityCheck = &domain.IntegritySnapshot{
		Timestamp: result.Timestamp,
		Status:    result.OverallStatus,
	}
	if err := s.docRepo.Update(ctx, doc); err != nil {
		log.Printf("WARN: persisting integrity snapshot for %s: %v", documentID.Hex(), err)
	}
	return &result, nil
}

func (s *documentService) Repair(ctx context.Context, ownerID, documentID primitive.ObjectID) (*integrity.RepairOutcome, error) {
	if _, err := s.Get(ctx, ownerID, documentID); err != nil {
		return nil, err
	}
	return s.repairer.Repair(ctx, documentID)
}
