package security

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/core/apperror"
	appctx "tradecore/internal/core/context"
)

func TestStrictPolicy(t *testing.T) {
	closed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewStrictPolicy(closed)

	err := p.CanPost(context.Background(), closed.AddDate(0, -1, 0))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodePeriodClosed, appErr.Code)

	assert.NoError(t, p.CanPost(context.Background(), closed.AddDate(0, 1, 0)))
}

func TestExpressionPolicy_AdminBypass(t *testing.T) {
	closed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p, err := NewExpressionPolicy("doc_date >= closed_until || is_admin", closed)
	require.NoError(t, err)

	backdated := closed.AddDate(0, -2, 0)

	// regular user is bound by the closed period
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "u1"})
	assert.Error(t, p.CanPost(ctx, backdated))

	// admin may backdate
	adminCtx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "u2", IsAdmin: true})
	assert.NoError(t, p.CanPost(adminCtx, backdated))

	// open period works for everyone
	assert.NoError(t, p.CanPost(ctx, closed.AddDate(0, 1, 0)))
}

func TestExpressionPolicy_PerOperation(t *testing.T) {
	closed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p, err := NewExpressionPolicy(`operation == "unpost" ? false : doc_date >= closed_until`, closed)
	require.NoError(t, err)

	open := closed.AddDate(0, 1, 0)
	assert.NoError(t, p.CanPost(context.Background(), open))
	assert.Error(t, p.CanUnpost(context.Background(), open))
}

func TestNewExpressionPolicy_RejectsNonBool(t *testing.T) {
	_, err := NewExpressionPolicy(`"yes"`, time.Time{})
	assert.Error(t, err)

	_, err = NewExpressionPolicy(`doc_date >=`, time.Time{})
	assert.Error(t, err)
}
