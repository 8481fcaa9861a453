package dto

import (
	"encoding/json"
	"time"

	"edumaster/internal/infrastructure/storage/postgres"
)

// AuditEntryResponse is one issuance history record.
type AuditEntryResponse struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Action     string          `json:"action"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// AuditHistoryResponse wraps history entries.
type AuditHistoryResponse struct {
	Items []AuditEntryResponse `json:"items"`
}

// FromAuditEntries converts stored entries to response DTOs.
func FromAuditEntries(entries []postgres.AuditEntry) AuditHistoryResponse {
	items := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, AuditEntryResponse{
			ID:         e.ID.String(),
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Action:     e.Action,
			Changes:    e.Changes,
			CreatedAt:  e.CreatedAt,
		})
	}
	return AuditHistoryResponse{Items: items}
}
