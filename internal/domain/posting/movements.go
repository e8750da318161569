package posting

import (
	"tradecore/internal/core/entity"
)

// MovementSet collects the stock movements generated by a document for one
// posted version. Movements are applied inside the posting transaction.
// Journal and commission postings are produced by downstream posters after
// commit, not carried here.
type MovementSet struct {
	Stock []entity.StockMovement
}

// NewMovementSet creates an empty movement set.
func NewMovementSet() *MovementSet {
	return &MovementSet{}
}

// AddStock appends a stock movement.
func (m *MovementSet) AddStock(movement entity.StockMovement) {
	m.Stock = append(m.Stock, movement)
}

// IsEmpty reports whether the set contains no movements.
func (m *MovementSet) IsEmpty() bool {
	return len(m.Stock) == 0
}
