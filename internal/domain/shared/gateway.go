package shared

import "context"

// Op is a comparison operator understood by the store gateway
type Op string

const (
	OpEq    Op = "eq"
	OpNeq   Op = "neq"
	OpLt    Op = "lt"
	OpLte   Op = "lte"
	OpGt    Op = "gt"
	OpGte   Op = "gte"
	OpILike Op = "ilike"
)

// Predicate is a single-field filter condition
type Predicate struct {
	Field string
	Op    Op
	Value any
}

// Eq builds an equality predicate
func Eq(field string, value any) Predicate {
	return Predicate{Field: field, Op: OpEq, Value: value}
}

// Lt builds a less-than predicate
func Lt(field string, value any) Predicate {
	return Predicate{Field: field, Op: OpLt, Value: value}
}

// Lte builds a less-than-or-equal predicate
func Lte(field string, value any) Predicate {
	return Predicate{Field: field, Op: OpLte, Value: value}
}

// Gte builds a greater-than-or-equal predicate
func Gte(field string, value any) Predicate {
	return Predicate{Field: field, Op: OpGte, Value: value}
}

// ILike builds a case-insensitive substring predicate
func ILike(field string, value string) Predicate {
	return Predicate{Field: field, Op: OpILike, Value: value}
}

// Order describes a sort field
type Order struct {
	Field string
	Desc  bool
}

// Query describes a filtered, ordered, ranged read
type Query struct {
	Predicates []Predicate
	Order      []Order
	Offset     int
	Limit      int
}

// Gateway is the remote tabular store the core delegates persistence to.
// It offers only single-row atomic operations per collection: no multi-row
// transactions, no foreign keys, no check constraints. All consistency rules
// are enforced above this interface.
//
// GetByKey and Delete return (nil, nil) when no row matches; Update returns
// (nil, nil) when the keyed row is absent. Values cross this boundary in
// canonical encodings: dates as ISO-8601 strings, decimals as numbers.
type Gateway interface {
	GetByKey(ctx context.Context, collection, keyField string, key any) (Row, error)
	Filter(ctx context.Context, collection string, q Query) ([]Row, error)
	Insert(ctx context.Context, collection string, row Row) (Row, error)
	Update(ctx context.Context, collection, keyField string, key any, patch Row) (Row, error)
	Delete(ctx context.Context, collection, keyField string, key any) (Row, error)
	Count(ctx context.Context, collection string, predicates []Predicate) (int64, error)
}
