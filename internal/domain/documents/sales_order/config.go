package sales_order

import "tradecore/pkg/numerator"

const (
	// NumberPrefix is used for generated order numbers (ORD-2026-00001).
	NumberPrefix = "ORD"

	// NumeratorStrategy: orders are internal documents, gaps are fine.
	NumeratorStrategy = numerator.StrategyCached
)
