package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"ukorgs/models"
)

// Trail is the append-only audit log for one pipeline run. Records are
// never mutated or removed; queries return copies.
type Trail struct {
	mu      sync.RWMutex
	records []models.AuditRecord
	byOrg   map[string][]int
}

// NewTrail creates an empty audit trail.
func NewTrail() *Trail {
	return &Trail{byOrg: make(map[string][]int)}
}

// Record appends one audit record and returns it. The id is freshly
// generated; the timestamp is the append time.
func (t *Trail) Record(action models.AuditAction, organisationID string, changes []models.FieldChange) models.AuditRecord {
	return t.append(action, organisationID, changes, nil)
}

// RecordWithMetadata appends a record carrying extra context, such as the
// names merged into an organisation.
func (t *Trail) RecordWithMetadata(action models.AuditAction, organisationID string, changes []models.FieldChange, metadata map[string]any) models.AuditRecord {
	return t.append(action, organisationID, changes, metadata)
}

func (t *Trail) append(action models.AuditAction, organisationID string, changes []models.FieldChange, metadata map[string]any) models.AuditRecord {
	record := models.AuditRecord{
		ID:             uuid.New().String(),
		OrganisationID: organisationID,
		Timestamp:      time.Now().UTC(),
		Action:         action,
		Changes:        changes,
		Metadata:       metadata,
	}

	t.mu.Lock()
	t.records = append(t.records, record)
	t.byOrg[organisationID] = append(t.byOrg[organisationID], len(t.records)-1)
	t.mu.Unlock()

	return record
}

// ByOrganisation returns the full history of one organisation in append
// order.
func (t *Trail) ByOrganisation(organisationID string) []models.AuditRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	indices := t.byOrg[organisationID]
	history := make([]models.AuditRecord, 0, len(indices))
	for _, idx := range indices {
		history = append(history, t.records[idx])
	}
	return history
}

// All returns every record in append order.
func (t *Trail) All() []models.AuditRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	all := make([]models.AuditRecord, len(t.records))
	copy(all, t.records)
	return all
}

// Len reports the number of records.
func (t *Trail) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}
