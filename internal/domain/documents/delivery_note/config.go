package delivery_note

import "tradecore/pkg/numerator"

const (
	// NumberPrefix is used for generated delivery note numbers (DN-2026-00001).
	NumberPrefix = "DN"

	// NumeratorStrategy: delivery notes are logistics paperwork, gaps are
	// acceptable, so the cached strategy avoids a DB round-trip per number.
	NumeratorStrategy = numerator.StrategyCached
)
