// Package audit provides helpers for filling audit fields on domain entities.
package audit

import (
	"context"

	appctx "tradecore/internal/core/context"
)

// EnrichCreatedBy sets CreatedBy and UpdatedBy from the context user ID.
// Use in BeforeCreate hooks. No-op when the context carries no user.
func EnrichCreatedBy(ctx context.Context, createdBy, updatedBy *string) {
	userID := appctx.GetUserID(ctx)
	if userID != "" && createdBy != nil && updatedBy != nil {
		*createdBy = userID
		*updatedBy = userID
	}
}

// EnrichUpdatedBy sets UpdatedBy from the context user ID.
// Use in BeforeUpdate hooks. No-op when the context carries no user.
func EnrichUpdatedBy(ctx context.Context, updatedBy *string) {
	userID := appctx.GetUserID(ctx)
	if userID != "" && updatedBy != nil {
		*updatedBy = userID
	}
}
