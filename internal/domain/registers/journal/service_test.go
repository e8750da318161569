package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/core/apperror"
	"tradecore/internal/core/entity"
	"tradecore/internal/core/id"
	"tradecore/internal/core/types"
)

type fakeRepo struct {
	Repository

	entries []entity.JournalMovement
}

func (f *fakeRepo) CreateEntries(ctx context.Context, entries []entity.JournalMovement) error {
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeRepo) DeleteEntriesByRecorder(ctx context.Context, recorderID id.ID) error {
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.RecorderID != recorderID {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

func entry(recorder id.ID, account string, debit, credit float64) entity.JournalMovement {
	return entity.NewJournalMovement(
		recorder, "SalesInvoice", 1, time.Now().UTC(),
		account,
		types.NewMoney(debit), types.NewMoney(credit),
	)
}

func TestRecordEntries_BalancedPairAccepted(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	doc := id.New()

	err := svc.RecordEntries(context.Background(), []entity.JournalMovement{
		entry(doc, "AR", 150, 0),
		entry(doc, "REVENUE", 0, 150),
	})
	require.NoError(t, err)
	assert.Len(t, repo.entries, 2)
}

func TestRecordEntries_UnbalancedRejected(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	doc := id.New()

	err := svc.RecordEntries(context.Background(), []entity.JournalMovement{
		entry(doc, "AR", 150, 0),
		entry(doc, "REVENUE", 0, 140),
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
	assert.Empty(t, repo.entries)
}

func TestRecordEntries_ValidationFailures(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	doc := id.New()

	// missing account
	err := svc.RecordEntries(context.Background(), []entity.JournalMovement{
		entry(doc, "", 10, 0),
		entry(doc, "REVENUE", 0, 10),
	})
	assert.Error(t, err)

	// negative amount
	err = svc.RecordEntries(context.Background(), []entity.JournalMovement{
		entry(doc, "AR", -10, 0),
		entry(doc, "REVENUE", 0, -10),
	})
	assert.Error(t, err)

	// empty batch is a no-op
	assert.NoError(t, svc.RecordEntries(context.Background(), nil))
}

func TestReverseEntries_RemovesOnlyRecorder(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	docA := id.New()
	docB := id.New()

	require.NoError(t, svc.RecordEntries(context.Background(), []entity.JournalMovement{
		entry(docA, "AR", 100, 0),
		entry(docA, "REVENUE", 0, 100),
	}))
	require.NoError(t, svc.RecordEntries(context.Background(), []entity.JournalMovement{
		entry(docB, "AR", 30, 0),
		entry(docB, "REVENUE", 0, 30),
	}))

	require.NoError(t, svc.ReverseEntries(context.Background(), docA))
	require.Len(t, repo.entries, 2)
	for _, e := range repo.entries {
		assert.Equal(t, docB, e.RecorderID)
	}
}
