package repository

import (
	"alcyxob/traindoc/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// DocumentRepository defines the interface for interacting with stored
// document metadata. Updates are last-writer-wins; concurrent writers to the
// same document id are an accepted race, not a transaction.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Document, error)
	GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Document, error)
	Update(ctx context.Context, doc *domain.Document) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TrainingPlanRepository defines the interface for interacting with
// generated training plans.
type TrainingPlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error)
	// GetActiveBySourceDocumentID returns the non-reprocessed plan for a
	// source document, or ErrNotFound. At most one such plan exists.
	GetActiveBySourceDocumentID(ctx context.Context, documentID primitive.ObjectID) (*domain.TrainingPlan, error)
	GetByCreatorID(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingPlan, error)
	Update(ctx context.Context, plan *domain.TrainingPlan) error
}
