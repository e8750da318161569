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
	"tradecore/internal/domain/registers/journal"
	"tradecore/internal/infrastructure/storage/postgres"
)

const journalEntriesTable = "reg_journal_entries"

// JournalRepo implements journal.Repository.
type JournalRepo struct {
	builder squirrel.StatementBuilderType
}

// NewJournalRepo creates a new journal register repository.
func NewJournalRepo() *JournalRepo {
	return &JournalRepo{
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *JournalRepo) getTxManager(ctx context.Context) *postgres.TxManager {
	return postgres.MustGetTxManager(ctx)
}

// CreateEntries batch inserts journal lines.
func (r *JournalRepo) CreateEntries(ctx context.Context, entries []entity.JournalMovement) error {
	if len(entries) == 0 {
		return nil
	}

	// Fast path: pipeline one INSERT per line when inside a transaction.
	txm := r.getTxManager(ctx)
	if tx := txm.GetTx(ctx); tx != nil {
		const insertSQL = `
			INSERT INTO reg_journal_entries (
				line_id, recorder_id, recorder_type, recorder_version,
				period, record_type,
				account, counterparty_id, debit, credit, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`

		executor := postgres.NewBatchExecutor(txm)
		queries := make([]postgres.BatchQuery, 0, len(entries))
		for _, e := range entries {
			queries = append(queries, postgres.BatchQuery{
				SQL: insertSQL,
				Args: []any{
					e.LineID, e.RecorderID, e.RecorderType, e.RecorderVersion,
					e.Period, e.RecordType,
					e.Account, e.CounterpartyID, e.Debit, e.Credit, e.CreatedAt,
				},
			})
		}
		if err := executor.ExecuteBatch(ctx, queries); err != nil {
			return fmt.Errorf("batch insert entries: %w", err)
		}
		return nil
	}

	q := r.builder.Insert(journalEntriesTable).Columns(
		"line_id", "recorder_id", "recorder_type", "recorder_version",
		"period", "record_type",
		"account", "counterparty_id", "debit", "credit", "created_at",
	)

	for _, e := range entries {
		q = q.Values(
			e.LineID, e.RecorderID, e.RecorderType, e.RecorderVersion,
			e.Period, e.RecordType,
			e.Account, e.CounterpartyID, e.Debit, e.Credit, e.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert entries: %w", err)
	}

	return nil
}

// DeleteEntriesByRecorder removes all lines for a document.
func (r *JournalRepo) DeleteEntriesByRecorder(ctx context.Context, recorderID id.ID) error {
	q := r.builder.Delete(journalEntriesTable).
		Where(squirrel.Eq{"recorder_id": recorderID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}

	return nil
}

// GetEntriesByRecorder retrieves all lines for a document.
func (r *JournalRepo) GetEntriesByRecorder(ctx context.Context, recorderID id.ID) ([]entity.JournalMovement, error) {
	q := r.builder.Select(
		"line_id", "recorder_id", "recorder_type", "recorder_version",
		"period", "record_type",
		"account", "counterparty_id", "debit", "credit", "created_at",
	).From(journalEntriesTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []entity.JournalMovement
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}

	return entries, nil
}

// GetAccountBalance returns debit minus credit for an account up to a date.
func (r *JournalRepo) GetAccountBalance(ctx context.Context, account string, until time.Time) (types.Money, error) {
	sql := `
		SELECT COALESCE(SUM(debit - credit), 0)
		FROM reg_journal_entries
		WHERE account = $1 AND period <= $2
	`

	var balance types.Money
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	err := querier.QueryRow(ctx, sql, account, until).Scan(&balance)
	if err != nil && err != pgx.ErrNoRows {
		return types.Zero(), fmt.Errorf("calculate account balance: %w", err)
	}

	return balance, nil
}

// GetEntriesByAccount lists lines for an account in a period.
func (r *JournalRepo) GetEntriesByAccount(ctx context.Context, account string, filter journal.EntryFilter) ([]entity.JournalMovement, error) {
	q := r.builder.Select(
		"line_id", "recorder_id", "recorder_type", "recorder_version",
		"period", "record_type",
		"account", "counterparty_id", "debit", "credit", "created_at",
	).From(journalEntriesTable).
		Where(squirrel.Eq{"account": account})

	if filter.CounterpartyID != nil {
		q = q.Where(squirrel.Eq{"counterparty_id": *filter.CounterpartyID})
	}

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

	var entries []entity.JournalMovement
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}

	return entries, nil
}

var _ journal.Repository = (*JournalRepo)(nil)
