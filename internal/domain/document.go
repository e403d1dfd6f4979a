package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlatformOrigin identifies which storage backend family a document's
// bytes live in. The handle format depends on it.
type PlatformOrigin string

const (
	OriginWeb    PlatformOrigin = "web"    // inline bytes held by the memory backend
	OriginMobile PlatformOrigin = "mobile" // local filesystem path
	OriginServer PlatformOrigin = "server" // S3 object key
)

// Supported document MIME types. Anything else is rejected at upload.
const (
	MimeWord      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeWordLegacy = "application/msword"
	MimeExcel     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeExcelLegacy = "application/vnd.ms-excel"
	MimeCSV       = "text/csv"
	MimeText      = "text/plain"
	MimePDF       = "application/pdf"
)

// SupportedMimeTypes is the fixed set of document types the pipeline accepts.
var SupportedMimeTypes = []string{
	MimeWord, MimeWordLegacy, MimeExcel, MimeExcelLegacy, MimeCSV, MimeText, MimePDF,
}

// IsSupportedMimeType reports whether the declared type is in the supported set.
func IsSupportedMimeType(mimeType string) bool {
	for _, m := range SupportedMimeTypes {
		if m == mimeType {
			return true
		}
	}
	return false
}

// IntegritySnapshot is the last integrity verdict persisted onto a document.
// The full result lives in the IntegrityResult returned to the caller; only
// the timestamp and overall status are kept on the document itself.
type IntegritySnapshot struct {
	Timestamp time.Time       `bson:"timestamp" json:"timestamp"`
	Status    IntegrityStatus `bson:"status" json:"status"`
}

// Document stores metadata about one uploaded training document. The raw
// bytes live behind StorageHandle in the backend named by StorageBackend;
// a handle that no longer resolves means the document is corrupt, not absent.
type Document struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID              primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	OriginalName         string             `bson:"originalName" json:"originalName"`
	MimeType             string             `bson:"mimeType" json:"mimeType"`
	SizeBytes            int64              `bson:"sizeBytes" json:"sizeBytes"`
	UploadedAt           time.Time          `bson:"uploadedAt" json:"uploadedAt"`
	PlatformOrigin       PlatformOrigin     `bson:"platformOrigin" json:"platformOrigin"`
	StorageBackend       string             `bson:"storageBackend" json:"storageBackend"`
	StorageHandle        string             `bson:"storageHandle" json:"-"`
	Processed            bool               `bson:"processed" json:"processed"`
	ProcessedAt          *time.Time         `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
	LinkedTrainingPlanID *primitive.ObjectID `bson:"linkedTrainingPlanId,omitempty" json:"linkedTrainingPlanId,omitempty"`
	IntegrityCheck       *IntegritySnapshot `bson:"integrityCheck,omitempty" json:"integrityCheck,omitempty"`
	RepairedAt           *time.Time         `bson:"repairedAt,omitempty" json:"repairedAt,omitempty"`
}
