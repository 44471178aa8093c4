package persistence

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/brokerage/backend/internal/domain/shared"
)

// MemoryGateway is an in-memory store gateway used by tests and local
// development. It mirrors the remote store's contract: single-row atomic
// operations, nil results for absent rows, no cross-row guarantees.
type MemoryGateway struct {
	mu          sync.RWMutex
	collections map[string][]shared.Row
}

// NewMemoryGateway creates an empty in-memory gateway
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{collections: make(map[string][]shared.Row)}
}

// GetByKey fetches one row by key field, or nil when no row matches
func (g *MemoryGateway) GetByKey(ctx context.Context, collection, keyField string, key any) (shared.Row, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, row := range g.collections[collection] {
		if valuesEqual(row[keyField], key) {
			return row.Clone(), nil
		}
	}
	return nil, nil
}

// Filter fetches rows matching the query
func (g *MemoryGateway) Filter(ctx context.Context, collection string, q shared.Query) ([]shared.Row, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	matched := make([]shared.Row, 0)
	for _, row := range g.collections[collection] {
		if rowMatches(row, q.Predicates) {
			matched = append(matched, row.Clone())
		}
	}

	for i := len(q.Order) - 1; i >= 0; i-- {
		o := q.Order[i]
		sort.SliceStable(matched, func(a, b int) bool {
			less := compareValues(matched[a][o.Field], matched[b][o.Field]) < 0
			if o.Desc {
				return !less && compareValues(matched[a][o.Field], matched[b][o.Field]) != 0
			}
			return less
		})
	}

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return []shared.Row{}, nil
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// Insert writes a new row and returns it
func (g *MemoryGateway) Insert(ctx context.Context, collection string, row shared.Row) (shared.Row, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.collections[collection] = append(g.collections[collection], row.Clone())
	return row.Clone(), nil
}

// Update patches the keyed row and returns its new contents, or nil when the
// row is absent
func (g *MemoryGateway) Update(ctx context.Context, collection, keyField string, key any, patch shared.Row) (shared.Row, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, row := range g.collections[collection] {
		if valuesEqual(row[keyField], key) {
			for k, v := range patch {
				row[k] = v
			}
			return row.Clone(), nil
		}
	}
	return nil, nil
}

// Delete removes the keyed row and returns its previous contents, or nil when
// the row is absent
func (g *MemoryGateway) Delete(ctx context.Context, collection, keyField string, key any) (shared.Row, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	rows := g.collections[collection]
	for i, row := range rows {
		if valuesEqual(row[keyField], key) {
			g.collections[collection] = append(rows[:i:i], rows[i+1:]...)
			return row, nil
		}
	}
	return nil, nil
}

// Count returns the number of rows matching the predicates
func (g *MemoryGateway) Count(ctx context.Context, collection string, predicates []shared.Predicate) (int64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var count int64
	for _, row := range g.collections[collection] {
		if rowMatches(row, predicates) {
			count++
		}
	}
	return count, nil
}

func rowMatches(row shared.Row, predicates []shared.Predicate) bool {
	for _, p := range predicates {
		if !predicateMatches(row[p.Field], p) {
			return false
		}
	}
	return true
}

func predicateMatches(value any, p shared.Predicate) bool {
	switch p.Op {
	case shared.OpEq:
		return valuesEqual(value, p.Value)
	case shared.OpNeq:
		return !valuesEqual(value, p.Value)
	case shared.OpILike:
		s, ok := value.(string)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(s), strings.ToLower(fmt.Sprint(p.Value)))
	}

	if value == nil {
		return false
	}
	cmp := compareValues(value, p.Value)
	switch p.Op {
	case shared.OpLt:
		return cmp < 0
	case shared.OpLte:
		return cmp <= 0
	case shared.OpGt:
		return cmp > 0
	case shared.OpGte:
		return cmp >= 0
	}
	return false
}

func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if na, aok := asFloat(a); aok {
		if nb, bok := asFloat(b); bok {
			return na == nb
		}
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// compareValues orders two gateway values. Numbers compare numerically;
// everything else falls back to string comparison, which is correct for the
// canonical ISO date and RFC 3339 timestamp encodings.
func compareValues(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	if na, aok := asFloat(a); aok {
		if nb, bok := asFloat(b); bok {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
