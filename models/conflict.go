package models

import "time"

// ConflictValue is one candidate value for a disputed field, with the source
// that supplied it.
type ConflictValue struct {
	Source      DataSourceType `json:"source"`
	Value       any            `json:"value"`
	RetrievedAt time.Time      `json:"retrievedAt"`
}

// ConflictResolution records a manual decision on a conflict. Resolutions are
// append-only: once set they are never edited or removed.
type ConflictResolution struct {
	ResolvedValue any        `json:"resolvedValue"`
	ResolvedBy    string     `json:"resolvedBy,omitempty"`
	ResolvedAt    *time.Time `json:"resolvedAt,omitempty"`
	Reason        string     `json:"reason,omitempty"`
}

// DataConflict is recorded when two sources disagree on a field beyond
// tolerance. It lives independently of the organisation record until a
// reviewer resolves it.
type DataConflict struct {
	ID             string              `json:"id"`
	OrganisationID string              `json:"organisationId"`
	Field          string              `json:"field"`
	Values         []ConflictValue     `json:"values"`
	Resolution     *ConflictResolution `json:"resolution,omitempty"`
}

// Resolved reports whether a resolution has been recorded.
func (c *DataConflict) Resolved() bool { return c.Resolution != nil }
