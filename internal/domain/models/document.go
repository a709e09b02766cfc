// internal/domain/models/document.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document types.
const (
	DocPoliza           = "POLIZA"
	DocContrato         = "CONTRATO"
	DocFoto             = "FOTO"
	DocEstimado         = "ESTIMADO"
	DocFactura          = "FACTURA"
	DocPermiso          = "PERMISO"
	DocScopeAseguradora = "SCOPE_ASEGURADORA" // the insurer's scope of loss
	DocOtro             = "OTRO"
)

// IsValidDocumentType reports whether t is a known document type.
func IsValidDocumentType(t string) bool {
	switch t {
	case DocPoliza, DocContrato, DocFoto, DocEstimado, DocFactura, DocPermiso, DocScopeAseguradora, DocOtro:
		return true
	}
	return false
}

// Document is a file attached to a client or construction project.
// FileKey is the object storage key when the file lives in our bucket;
// FileURL is set for files hosted elsewhere.
type Document struct {
	ID                    primitive.ObjectID  `bson:"_id" json:"id"`
	OrganizationID        primitive.ObjectID  `bson:"organization_id" json:"organization_id"`
	ClientID              *string             `bson:"client_id,omitempty" json:"client_id,omitempty"`
	ConstructionProjectID *primitive.ObjectID `bson:"construction_project_id,omitempty" json:"construction_project_id,omitempty"`

	DocumentType string   `bson:"document_type" json:"document_type"`
	FileName     string   `bson:"file_name" json:"file_name"`
	FileURL      *string  `bson:"file_url,omitempty" json:"file_url,omitempty"`
	FileKey      *string  `bson:"file_key,omitempty" json:"file_key,omitempty"`
	MimeType     *string  `bson:"mime_type,omitempty" json:"mime_type,omitempty"`
	FileSize     *int64   `bson:"file_size,omitempty" json:"file_size,omitempty"`
	Description  *string  `bson:"description,omitempty" json:"description,omitempty"`
	Tags         []string `bson:"tags,omitempty" json:"tags,omitempty"`

	UploadedBy primitive.ObjectID `bson:"uploaded_by" json:"uploaded_by"`
	UploadedAt time.Time          `bson:"uploaded_at" json:"uploaded_at"`
}
