package persistence

import (
	"context"
	"fmt"

	"github.com/brokerage/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormGateway implements the store gateway over a SQL database through gorm.
// Every operation touches a single row of a single table; cross-row
// consistency is enforced by the services above it, never here.
type GormGateway struct {
	db *gorm.DB
}

// NewGormGateway creates a gateway backed by the given database
func NewGormGateway(db *gorm.DB) *GormGateway {
	return &GormGateway{db: db}
}

// GetByKey fetches one row by key field, or nil when no row matches
func (g *GormGateway) GetByKey(ctx context.Context, collection, keyField string, key any) (shared.Row, error) {
	var row map[string]any
	err := g.db.WithContext(ctx).
		Table(collection).
		Where(fmt.Sprintf("%s = ?", keyField), key).
		Take(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, shared.NewUpstreamFailure(err)
	}
	return shared.Row(row), nil
}

// Filter fetches rows matching the query
func (g *GormGateway) Filter(ctx context.Context, collection string, q shared.Query) ([]shared.Row, error) {
	tx := g.db.WithContext(ctx).Table(collection)
	tx = applyPredicates(tx, q.Predicates)

	for _, o := range q.Order {
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		tx = tx.Order(fmt.Sprintf("%s %s", o.Field, dir))
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []map[string]any
	if err := tx.Find(&rows).Error; err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}

	out := make([]shared.Row, len(rows))
	for i, r := range rows {
		out[i] = shared.Row(r)
	}
	return out, nil
}

// Insert writes a new row and returns it
func (g *GormGateway) Insert(ctx context.Context, collection string, row shared.Row) (shared.Row, error) {
	values := map[string]any(row.Clone())
	if err := g.db.WithContext(ctx).Table(collection).Create(values).Error; err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	return shared.Row(values), nil
}

// Update patches the keyed row and returns its new contents, or nil when the
// row is absent
func (g *GormGateway) Update(ctx context.Context, collection, keyField string, key any, patch shared.Row) (shared.Row, error) {
	existing, err := g.GetByKey(ctx, collection, keyField, key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	err = g.db.WithContext(ctx).
		Table(collection).
		Where(fmt.Sprintf("%s = ?", keyField), key).
		Updates(map[string]any(patch)).Error
	if err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}

	return g.GetByKey(ctx, collection, keyField, key)
}

// Delete removes the keyed row and returns its previous contents, or nil when
// the row is absent
func (g *GormGateway) Delete(ctx context.Context, collection, keyField string, key any) (shared.Row, error) {
	existing, err := g.GetByKey(ctx, collection, keyField, key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	err = g.db.WithContext(ctx).
		Table(collection).
		Where(fmt.Sprintf("%s = ?", keyField), key).
		Delete(nil).Error
	if err != nil {
		return nil, shared.NewUpstreamFailure(err)
	}
	return existing, nil
}

// Count returns the number of rows matching the predicates
func (g *GormGateway) Count(ctx context.Context, collection string, predicates []shared.Predicate) (int64, error) {
	tx := g.db.WithContext(ctx).Table(collection)
	tx = applyPredicates(tx, predicates)

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, shared.NewUpstreamFailure(err)
	}
	return count, nil
}

func applyPredicates(tx *gorm.DB, predicates []shared.Predicate) *gorm.DB {
	for _, p := range predicates {
		switch p.Op {
		case shared.OpEq:
			tx = tx.Where(fmt.Sprintf("%s = ?", p.Field), p.Value)
		case shared.OpNeq:
			tx = tx.Where(fmt.Sprintf("%s <> ?", p.Field), p.Value)
		case shared.OpLt:
			tx = tx.Where(fmt.Sprintf("%s < ?", p.Field), p.Value)
		case shared.OpLte:
			tx = tx.Where(fmt.Sprintf("%s <= ?", p.Field), p.Value)
		case shared.OpGt:
			tx = tx.Where(fmt.Sprintf("%s > ?", p.Field), p.Value)
		case shared.OpGte:
			tx = tx.Where(fmt.Sprintf("%s >= ?", p.Field), p.Value)
		case shared.OpILike:
			// LOWER/LIKE keeps substring matching portable across drivers
			tx = tx.Where(fmt.Sprintf("LOWER(%s) LIKE LOWER(?)", p.Field), "%"+fmt.Sprint(p.Value)+"%")
		}
	}
	return tx
}
