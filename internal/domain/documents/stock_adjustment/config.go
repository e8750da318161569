package stock_adjustment

import "tradecore/pkg/numerator"

const (
	// NumberPrefix is used for generated adjustment numbers (ADJ-2026-00001).
	NumberPrefix = "ADJ"

	// NumeratorStrategy: adjustments correct ledger balances and are audited,
	// so numbers must be gapless.
	NumeratorStrategy = numerator.StrategyStrict
)
