// internal/app/features/documents/types.go
package documents

import "time"

type uploadInput struct {
	FileName    string  `json:"file_name" validate:"required,max=255" label:"File name"`
	ContentType string  `json:"content_type" validate:"omitempty,max=120" label:"Content type"`
	ClientID    *string `json:"client_id" validate:"omitempty,max=40" label:"Client"`
}

// registerInput records a file. Exactly one of FileKey (an object
// uploaded through /documents/uploads) and FileURL must be given.
type registerInput struct {
	ClientID              *string  `json:"client_id" validate:"omitempty,max=40" label:"Client"`
	ConstructionProjectID *string  `json:"construction_project_id" validate:"omitempty,objectid" label:"Construction project"`
	DocumentType          string   `json:"document_type" validate:"required,doctype" label:"Document type"`
	FileName              string   `json:"file_name" validate:"required,max=255" label:"File name"`
	FileKey               *string  `json:"file_key" validate:"omitempty,max=1024" label:"File key"`
	FileURL               *string  `json:"file_url" validate:"omitempty,httpurl,max=2048" label:"File URL"`
	MimeType              *string  `json:"mime_type" validate:"omitempty,max=120" label:"MIME type"`
	FileSize              *int64   `json:"file_size" validate:"omitempty,min=0" label:"File size"`
	Description           *string  `json:"description" validate:"omitempty,max=2000" label:"Description"`
	Tags                  []string `json:"tags" validate:"omitempty,max=20,dive,max=50" label:"Tags"`
}

type downloadResponse struct {
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
