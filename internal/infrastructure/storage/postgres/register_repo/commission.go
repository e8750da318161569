package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
	"tradecore/internal/domain/registers/commission"
	"tradecore/internal/infrastructure/storage/postgres"
)

const commissionAccrualsTable = "reg_commission_accruals"

// CommissionRepo implements commission.Repository.
type CommissionRepo struct {
	builder squirrel.StatementBuilderType
}

// NewCommissionRepo creates a new commission register repository.
func NewCommissionRepo() *CommissionRepo {
	return &CommissionRepo{
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *CommissionRepo) getTxManager(ctx context.Context) *postgres.TxManager {
	return postgres.MustGetTxManager(ctx)
}

// CreateAccruals batch inserts accruals.
func (r *CommissionRepo) CreateAccruals(ctx context.Context, accruals []entity.CommissionMovement) error {
	if len(accruals) == 0 {
		return nil
	}

	q := r.builder.Insert(commissionAccrualsTable).Columns(
		"line_id", "recorder_id", "recorder_type", "recorder_version",
		"period", "record_type",
		"salesperson_id", "base_amount", "rate", "amount", "created_at",
	)

	for _, a := range accruals {
		q = q.Values(
			a.LineID, a.RecorderID, a.RecorderType, a.RecorderVersion,
			a.Period, a.RecordType,
			a.SalespersonID, a.BaseAmount, a.Rate, a.Amount, a.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert accruals: %w", err)
	}

	return nil
}

// DeleteAccrualsByRecorder removes accruals for a document.
func (r *CommissionRepo) DeleteAccrualsByRecorder(ctx context.Context, recorderID id.ID) error {
	q := r.builder.Delete(commissionAccrualsTable).
		Where(squirrel.Eq{"recorder_id": recorderID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete accruals: %w", err)
	}

	return nil
}

// GetAccrualsByRecorder retrieves accruals for a document.
func (r *CommissionRepo) GetAccrualsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.CommissionMovement, error) {
	q := r.builder.Select(
		"line_id", "recorder_id", "recorder_type", "recorder_version",
		"period", "record_type",
		"salesperson_id", "base_amount", "rate", "amount", "created_at",
	).From(commissionAccrualsTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var accruals []entity.CommissionMovement
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &accruals, sql, args...); err != nil {
		return nil, fmt.Errorf("select accruals: %w", err)
	}

	return accruals, nil
}

// GetAccruedTotal sums accrued commission for a salesperson in a period.
func (r *CommissionRepo) GetAccruedTotal(ctx context.Context, salespersonID id.ID, from, to time.Time) (types.Money, error) {
	sql := `
		SELECT COALESCE(SUM(amount), 0)
		FROM reg_commission_accruals
		WHERE salesperson_id = $1 AND period >= $2 AND period < $3
	`

	var total types.Money
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	err := querier.QueryRow(ctx, sql, salespersonID, from, to).Scan(&total)
	if err != nil && err != pgx.ErrNoRows {
		return types.Zero(), fmt.Errorf("calculate accrued total: %w", err)
	}

	return total, nil
}

// GetAccrualsBySalesperson lists accruals for a salesperson.
func (r *CommissionRepo) GetAccrualsBySalesperson(ctx context.Context, salespersonID id.ID, filter commission.AccrualFilter) ([]entity.CommissionMovement, error) {
	q := r.builder.Select(
		"line_id", "recorder_id", "recorder_type", "recorder_version",
		"period", "record_type",
		"salesperson_id", "base_amount", "rate", "amount", "created_at",
	).From(commissionAccrualsTable).
		Where(squirrel.Eq{"salesperson_id": salespersonID})

	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"period": *filter.FromDate})
	}

	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"period": *filter.ToDate})
	}

	q = q.OrderBy("period DESC", "created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var accruals []entity.CommissionMovement
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &accruals, sql, args...); err != nil {
		return nil, fmt.Errorf("select accruals: %w", err)
	}

	return accruals, nil
}

var _ commission.Repository = (*CommissionRepo)(nil)
