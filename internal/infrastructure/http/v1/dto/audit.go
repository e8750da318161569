package dto

import (
	"encoding/json"
	"time"

	"tradecore/internal/infrastructure/storage/postgres"
)

// AuditEntryResponse is one change-log record for an entity.
type AuditEntryResponse struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Action     string          `json:"action"`
	UserID     string          `json:"userId,omitempty"`
	UserEmail  string          `json:"userEmail,omitempty"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// FromAuditEntry maps a storage audit entry to its API representation.
func FromAuditEntry(e postgres.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         e.ID.String(),
		EntityType: e.EntityType,
		EntityID:   e.EntityID.String(),
		Action:     string(e.Action),
		UserID:     e.UserID,
		UserEmail:  e.UserEmail,
		Changes:    e.Changes,
		CreatedAt:  e.CreatedAt,
	}
}

// AuditEntryListResponse is a list of change-log records.
type AuditEntryListResponse struct {
	Items []AuditEntryResponse `json:"items"`
}
