package goods_receipt

import "tradecore/pkg/numerator"

const (
	// NumberPrefix is used for generated receipt numbers (GRN-2026-00001).
	NumberPrefix = "GRN"

	// NumeratorStrategy: receipts are primary accounting documents, so
	// numbers must be gapless.
	NumeratorStrategy = numerator.StrategyStrict
)
