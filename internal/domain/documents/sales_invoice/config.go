package sales_invoice

import "tradecore/pkg/numerator"

const (
	// NumberPrefix is used for generated invoice numbers (INV-2026-00001).
	NumberPrefix = "INV"

	// NumeratorStrategy: invoices are primary accounting documents, so
	// numbers must be gapless.
	NumeratorStrategy = numerator.StrategyStrict
)
