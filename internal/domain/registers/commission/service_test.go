package commission

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
)

type fakeRepo struct {
	Repository

	accruals []entity.CommissionMovement
}

func (f *fakeRepo) CreateAccruals(ctx context.Context, accruals []entity.CommissionMovement) error {
	f.accruals = append(f.accruals, accruals...)
	return nil
}

func (f *fakeRepo) DeleteAccrualsByRecorder(ctx context.Context, recorderID id.ID) error {
	kept := f.accruals[:0]
	for _, a := range f.accruals {
		if a.RecorderID != recorderID {
			kept = append(kept, a)
		}
	}
	f.accruals = kept
	return nil
}

func (f *fakeRepo) GetAccrualsBySalesperson(ctx context.Context, salespersonID id.ID, filter AccrualFilter) ([]entity.CommissionMovement, error) {
	var out []entity.CommissionMovement
	for _, a := range f.accruals {
		if a.SalespersonID != salespersonID {
			continue
		}
		if filter.FromDate != nil && a.Period.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && a.Period.After(*filter.ToDate) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func accrual(recorder, sp id.ID, base, rate float64) entity.CommissionMovement {
	return entity.NewCommissionMovement(
		recorder, "SalesInvoice", 1, time.Now().UTC(),
		sp, types.NewMoney(base), types.NewMoney(rate),
	)
}

func TestNewCommissionMovement_AmountRounding(t *testing.T) {
	a := accrual(id.New(), id.New(), 333.33, 5)

	// 333.33 × 5% = 16.6665 → 16.67 after rounding to cents
	assert.Equal(t, "16.67", a.Amount.StringFixed(2))
}

func TestRecordAccruals_Validation(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	// negative rate rejected
	bad := accrual(id.New(), id.New(), 100, -2)
	err := svc.RecordAccruals(context.Background(), []entity.CommissionMovement{bad})
	require.Error(t, err)
	assert.Empty(t, repo.accruals)

	// empty batch is a no-op
	assert.NoError(t, svc.RecordAccruals(context.Background(), nil))

	good := accrual(id.New(), id.New(), 100, 2)
	require.NoError(t, svc.RecordAccruals(context.Background(), []entity.CommissionMovement{good}))
	assert.Len(t, repo.accruals, 1)
}

func TestGetAccruedTotal_SumsSalespersonOnly(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	sp := id.New()
	other := id.New()
	require.NoError(t, svc.RecordAccruals(context.Background(), []entity.CommissionMovement{
		accrual(id.New(), sp, 1000, 5),
		accrual(id.New(), sp, 500, 5),
		accrual(id.New(), other, 2000, 5),
	}))

	total, err := svc.GetAccruedTotal(context.Background(), sp, AccrualFilter{})
	require.NoError(t, err)
	assert.True(t, total.Equal(types.NewMoney(75)), "total = %s", total)
}

func TestReverseAccruals_RemovesOnlyRecorder(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	sp := id.New()
	docA := id.New()
	docB := id.New()
	require.NoError(t, svc.RecordAccruals(context.Background(), []entity.CommissionMovement{
		accrual(docA, sp, 100, 10),
		accrual(docB, sp, 200, 10),
	}))

	require.NoError(t, svc.ReverseAccruals(context.Background(), docA))

	total, err := svc.GetAccruedTotal(context.Background(), sp, AccrualFilter{})
	require.NoError(t, err)
	assert.True(t, total.Equal(types.NewMoney(20)))
}
