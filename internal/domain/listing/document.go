package listing

import (
	"time"

	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PropertyDocument is the metadata record of a legal document attached to a
// property (title deed, cadastral plan, tax certificate...). The file itself
// lives in external storage.
type PropertyDocument struct {
	ID         string
	PropertyID string
	Kind       string
	FilePath   string
	Notes      string
	UploadedAt time.Time
}

// NewPropertyDocument creates a new document record for a property
func NewPropertyDocument(propertyID, kind, filePath, notes string) (*PropertyDocument, error) {
	if propertyID == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Property ID cannot be empty")
	}
	if kind == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Document kind cannot be empty")
	}
	if filePath == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Document file path cannot be empty")
	}

	return &PropertyDocument{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		Kind:       kind,
		FilePath:   filePath,
		Notes:      notes,
		UploadedAt: time.Now().UTC(),
	}, nil
}
