package persistence

import (
	"context"

	"github.com/brokerage/backend/internal/domain/listing"
	"github.com/brokerage/backend/internal/domain/shared"
)

// DocumentRepository persists property document records through the store
// gateway
type DocumentRepository struct {
	gateway shared.Gateway
}

// NewDocumentRepository creates a gateway-backed document repository
func NewDocumentRepository(gateway shared.Gateway) *DocumentRepository {
	return &DocumentRepository{gateway: gateway}
}

func decodeDocument(row shared.Row) (*listing.PropertyDocument, error) {
	doc := &listing.PropertyDocument{}
	var err error

	if doc.ID, err = row.String("id"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if doc.PropertyID, err = row.String("property_id"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if doc.Kind, err = row.String("kind"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if doc.FilePath, err = row.String("file_path"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	if row.Has("notes") {
		if doc.Notes, err = row.String("notes"); err != nil {
			return nil, shared.NewUpstreamFailure(err)
		}
	}
	if doc.UploadedAt, err = row.Time("uploaded_at"); err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	return doc, nil
}

func encodeDocument(doc *listing.PropertyDocument) shared.Row {
	return shared.Row{
		"id":          doc.ID,
		"property_id": doc.PropertyID,
		"kind":        doc.Kind,
		"file_path":   doc.FilePath,
		"notes":       doc.Notes,
		"uploaded_at": shared.EncodeTime(doc.UploadedAt),
	}
}

// FindByID returns the document record, or nil when it does not exist
func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*listing.PropertyDocument, error) {
	row, err := r.gateway.GetByKey(ctx, collectionDocuments, "id", id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodeDocument(row)
}

// List returns document records, optionally narrowed by property and kind
func (r *DocumentRepository) List(ctx context.Context, propertyID, kind *string, offset, limit int) ([]listing.PropertyDocument, error) {
	q := shared.Query{
		Order:  []shared.Order{{Field: "uploaded_at", Desc: true}},
		Offset: offset,
		Limit:  limit,
	}
	if propertyID != nil {
		q.Predicates = append(q.Predicates, shared.Eq("property_id", *propertyID))
	}
	if kind != nil {
		q.Predicates = append(q.Predicates, shared.Eq("kind", *kind))
	}

	rows, err := r.gateway.Filter(ctx, collectionDocuments, q)
	if err != nil {
		return nil, err
	}

	documents := make([]listing.PropertyDocument, 0, len(rows))
	for _, row := range rows {
		doc, err := decodeDocument(row)
		if err != nil {
			return nil, err
		}
		documents = append(documents, *doc)
	}
	return documents, nil
}

// Insert writes a new document row
func (r *DocumentRepository) Insert(ctx context.Context, document *listing.PropertyDocument) error {
	_, err := r.gateway.Insert(ctx, collectionDocuments, encodeDocument(document))
	return err
}

// Update patches the editable fields of a document and returns its new
// state, or nil when the document does not exist
func (r *DocumentRepository) Update(ctx context.Context, id string, patch listing.DocumentPatch) (*listing.PropertyDocument, error) {
	fields := shared.Row{}
	if patch.Kind != nil {
		fields["kind"] = *patch.Kind
	}
	if patch.FilePath != nil {
		fields["file_path"] = *patch.FilePath
	}
	if patch.Notes != nil {
		fields["notes"] = *patch.Notes
	}

	row, err := r.gateway.Update(ctx, collectionDocuments, "id", id, fields)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return decodeDocument(row)
}

// Delete removes the document row
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	row, err := r.gateway.Delete(ctx, collectionDocuments, "id", id)
	if err != nil {
		return err
	}
	if row == nil {
		return shared.NewNotFound("document", id)
	}
	return nil
}

// DeleteByProperty removes every document of a property, one row at a time
func (r *DocumentRepository) DeleteByProperty(ctx context.Context, propertyID string) error {
	rows, err := r.gateway.Filter(ctx, collectionDocuments, shared.Query{
		Predicates: []shared.Predicate{shared.Eq("property_id", propertyID)},
	})
	if err != nil {
		return err
	}

	for _, row := range rows {
		id, err := row.String("id")
		if err != nil {
			return shared.NewUpstreamFailure(err)
		}
		if _, err := r.gateway.Delete(ctx, collectionDocuments, "id", id); err != nil {
			return err
		}
	}
	return nil
}
