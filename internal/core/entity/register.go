// Package entity provides core domain entities.
package entity

import (
	"time"

	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
)

// RecordType defines movement direction for accumulation registers.
type RecordType string

const (
	// RecordTypeReceipt increases balance
	RecordTypeReceipt RecordType = "receipt"
	// RecordTypeExpense decreases balance
	RecordTypeExpense RecordType = "expense"
)

// RegisterKind defines the type of register.
type RegisterKind string

const (
	// RegisterKindAccumulation - tracks quantities and amounts
	RegisterKindAccumulation RegisterKind = "accumulation"
	// RegisterKindInformation - stores dimensional data
	RegisterKindInformation RegisterKind = "information"
)

// MovementBase contains common fields for all register movements.
// Movements are immutable - they are never updated, only deleted and recreated.
type MovementBase struct {
	// LineID is unique identifier for this movement line (UUIDv7)
	// Used instead of hash for deterministic tracking
	LineID id.ID `db:"line_id" json:"lineId"`

	// RecorderID is the document that created this movement
	RecorderID id.ID `db:"recorder_id" json:"recorderId"`

	// RecorderType is the document type (e.g., "GoodsReceipt", "SalesInvoice")
	RecorderType string `db:"recorder_type" json:"recorderType"`

	// RecorderVersion tracks which posting iteration created this movement
	// Allows efficient cleanup: DELETE WHERE recorder_id = X AND recorder_version < Y
	RecorderVersion int `db:"recorder_version" json:"recorderVersion"`

	// Period is the business date for the movement (for period-based queries)
	Period time.Time `db:"period" json:"period"`

	// RecordType: receipt or expense
	RecordType RecordType `db:"record_type" json:"recordType"`

	// CreatedAt is when the movement was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovementBase creates a new movement base with generated LineID.
func NewMovementBase(recorderID id.ID, recorderType string, recorderVersion int, period time.Time, recordType RecordType) MovementBase {
	return MovementBase{
		LineID:          id.New(),
		RecorderID:      recorderID,
		RecorderType:    recorderType,
		RecorderVersion: recorderVersion,
		Period:          period,
		RecordType:      recordType,
		CreatedAt:       time.Now().UTC(),
	}
}

// StockMovement represents a movement in the stock accumulation register.
// Tracks quantity changes for items in warehouses. Every movement carries
// the balance snapshot taken under the row lock that applied it, so the
// ledger alone reconstructs the running balance at any point.
type StockMovement struct {
	MovementBase

	// Dimensions
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`
	ItemID      id.ID `db:"item_id" json:"itemId"`

	// Resources
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Balance snapshots in base units, captured while the balance row
	// was locked. QtyAfter = QtyBefore + SignedQuantity().
	QtyBefore types.Quantity `db:"qty_before" json:"qtyBefore"`
	QtyAfter  types.Quantity `db:"qty_after" json:"qtyAfter"`

	// ValuationRate is the per-base-unit cost carried by this movement.
	// Receipts record acquisition cost, expenses record the cost relieved.
	ValuationRate types.Money `db:"valuation_rate" json:"valuationRate"`
}

// NewStockMovement creates a new stock movement. Balance snapshots are
// filled in by the stock service when the movement is applied.
func NewStockMovement(
	recorderID id.ID,
	recorderType string,
	recorderVersion int,
	period time.Time,
	recordType RecordType,
	warehouseID, itemID id.ID,
	quantity types.Quantity,
	valuationRate types.Money,
) StockMovement {
	return StockMovement{
		MovementBase:  NewMovementBase(recorderID, recorderType, recorderVersion, period, recordType),
		WarehouseID:   warehouseID,
		ItemID:        itemID,
		Quantity:      quantity,
		ValuationRate: valuationRate,
	}
}

// SignedQuantity returns quantity with sign based on record type.
// Receipt = positive, Expense = negative.
func (m *StockMovement) SignedQuantity() types.Quantity {
	if m.RecordType == RecordTypeExpense {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// Amount returns the movement value: quantity × valuation rate.
func (m *StockMovement) Amount() types.Money {
	return m.Quantity.Decimal().Mul(m.ValuationRate)
}

// StockBalance represents current balance in the stock register.
// This is a materialized/cached view for fast balance queries.
type StockBalance struct {
	// Dimensions
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`
	ItemID      id.ID `db:"item_id" json:"itemId"`

	// Balances
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Metadata
	LastMovementAt time.Time `db:"last_movement_at" json:"lastMovementAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// JournalMovement represents a double-entry line in the financial journal
// register. Downstream posters (receivable, COGS) write pairs of these.
type JournalMovement struct {
	MovementBase

	// Dimensions
	Account        string `db:"account" json:"account"`
	CounterpartyID *id.ID `db:"counterparty_id" json:"counterpartyId,omitempty"`

	// Resources
	Debit  types.Money `db:"debit" json:"debit"`
	Credit types.Money `db:"credit" json:"credit"`
}

// NewJournalMovement creates a journal line. Exactly one of debit/credit
// should be non-zero.
func NewJournalMovement(
	recorderID id.ID,
	recorderType string,
	recorderVersion int,
	period time.Time,
	account string,
	debit, credit types.Money,
) JournalMovement {
	return JournalMovement{
		MovementBase: NewMovementBase(recorderID, recorderType, recorderVersion, period, RecordTypeReceipt),
		Account:      account,
		Debit:        debit,
		Credit:       credit,
	}
}

// CommissionMovement accrues salesperson commission for a posted document.
type CommissionMovement struct {
	MovementBase

	// Dimensions
	SalespersonID id.ID `db:"salesperson_id" json:"salespersonId"`

	// Resources
	BaseAmount types.Money `db:"base_amount" json:"baseAmount"`
	Rate       types.Money `db:"rate" json:"rate"`
	Amount     types.Money `db:"amount" json:"amount"`
}

// NewCommissionMovement creates a commission accrual: amount = base × rate / 100.
func NewCommissionMovement(
	recorderID id.ID,
	recorderType string,
	recorderVersion int,
	period time.Time,
	salespersonID id.ID,
	baseAmount, rate types.Money,
) CommissionMovement {
	hundred := types.NewMoney(100)
	return CommissionMovement{
		MovementBase:  NewMovementBase(recorderID, recorderType, recorderVersion, period, RecordTypeReceipt),
		SalespersonID: salespersonID,
		BaseAmount:    baseAmount,
		Rate:          rate,
		Amount:        baseAmount.Mul(rate).Div(hundred).Round(2),
	}
}
