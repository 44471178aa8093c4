package listing

import (
	"context"

	"github.com/brokerage/backend/internal/application/resolver"
	"github.com/brokerage/backend/internal/domain/listing"
	"github.com/brokerage/backend/internal/domain/shared"
)

// DocumentService handles property document records
type DocumentService struct {
	documents listing.DocumentRepository
	resolver  *resolver.Resolver
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(documents listing.DocumentRepository, res *resolver.Resolver) *DocumentService {
	return &DocumentService{documents: documents, resolver: res}
}

// Create registers a document against a property
func (s *DocumentService) Create(ctx context.Context, req CreateDocumentRequest) (*DocumentResponse, error) {
	if _, err := s.resolver.Property(ctx, req.PropertyID); err != nil {
		return nil, err
	}

	document, err := listing.NewPropertyDocument(req.PropertyID, req.Kind, req.FilePath, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.documents.Insert(ctx, document); err != nil {
		return nil, err
	}
	return toDocumentResponse(document), nil
}

// Get returns one document record
func (s *DocumentService) Get(ctx context.Context, id string) (*DocumentResponse, error) {
	document, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, shared.NewNotFound("document", id)
	}
	return toDocumentResponse(document), nil
}

// List returns document records, optionally narrowed by property and kind
func (s *DocumentService) List(ctx context.Context, propertyID, kind *string, offset, limit int) ([]DocumentResponse, error) {
	if propertyID != nil {
		if _, err := s.resolver.Property(ctx, *propertyID); err != nil {
			return nil, err
		}
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}

	documents, err := s.documents.List(ctx, propertyID, kind, offset, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]DocumentResponse, 0, len(documents))
	for i := range documents {
		responses = append(responses, *toDocumentResponse(&documents[i]))
	}
	return responses, nil
}

// Update patches a document record
func (s *DocumentService) Update(ctx context.Context, id string, req UpdateDocumentRequest) (*DocumentResponse, error) {
	patch := listing.DocumentPatch{Kind: req.Kind, FilePath: req.FilePath, Notes: req.Notes}
	if patch.IsEmpty() {
		return nil, shared.ErrEmptyPatch
	}

	updated, err := s.documents.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, shared.NewNotFound("document", id)
	}
	return toDocumentResponse(updated), nil
}

// Delete removes a document record
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	return s.documents.Delete(ctx, id)
}
