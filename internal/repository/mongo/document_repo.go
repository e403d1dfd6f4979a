package mongo

import (
	"alcyxob/traindoc/internal/domain"
	"alcyxob/traindoc/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const documentCollectionName = "documents"

// mongoDocumentRepository implements repository.DocumentRepository
type mongoDocumentRepository struct {
	collection *mongo.Collection
}

// NewMongoDocumentRepository creates a new Document repository.
func NewMongoDocumentRepository(db *mongo.Database) repository.DocumentRepository {
	return &mongoDocumentRepository{
		collection: db.Collection(documentCollectionName),
	}
}

// Create inserts new document metadata.
func (r *mongoDocumentRepository) Create(ctx context.Context, doc *domain.Document) (primitive.ObjectID, error) {
	if doc.OwnerID == primitive.NilObjectID || doc.OriginalName == "" || doc.StorageHandle == "" {
		return primitive.NilObjectID, errors.New("document requires ownerId, originalName, and storageHandle")
	}
	doc.ID = primitive.NewObjectID()
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted document ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single document by its ID.
func (r *mongoDocumentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Document, error) {
	var doc domain.Document
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// GetByOwnerID retrieves all documents uploaded by a user, newest first.
func (r *mongoDocumentRepository) GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Document, error) {
	var docs []domain.Document
	filter := bson.M{"ownerId": ownerID}
	findOptions := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Update replaces the document metadata. Last writer wins on concurrent
// updates to the same id.
func (r *mongoDocumentRepository) Update(ctx context.Context, doc *domain.Document) error {
	if doc.ID == primitive.NilObjectID {
		return errors.New("document ID is required for update")
	}
	filter := bson.M{"_id": doc.ID}
	result, err := r.collection.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes document metadata. The caller is responsible for releasing
// the backing storage object first.
func (r *mongoDocumentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureDocumentIndexes creates necessary indexes for the documents collection.
func EnsureDocumentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "uploadedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "processed", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
