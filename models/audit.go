package models

import "time"

// AuditAction enumerates the pipeline-visible state transitions.
type AuditAction string

const (
	AuditCreated AuditAction = "created"
	AuditUpdated AuditAction = "updated"
	AuditMerged  AuditAction = "merged"
	AuditFlagged AuditAction = "flagged"
)

// FieldChange describes one field transition inside an audit record.
type FieldChange struct {
	Field    string         `json:"field"`
	OldValue any            `json:"oldValue,omitempty"`
	NewValue any            `json:"newValue,omitempty"`
	Source   DataSourceType `json:"source,omitempty"`
}

// AuditRecord is one append-only entry in the audit trail. Records are never
// mutated or removed once written.
type AuditRecord struct {
	ID             string         `json:"id"`
	OrganisationID string         `json:"organisationId"`
	Timestamp      time.Time      `json:"timestamp"`
	Action         AuditAction    `json:"action"`
	Changes        []FieldChange  `json:"changes,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}
