package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"ukorgs/models"
)

// Store persists finished pipeline runs to SQLite so the review server and
// export tooling can work against them. The pipeline core never touches it;
// runs are written whole, after the fact.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the store at path and applies migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}

	s := &Store{
		db:     db,
		logger: slog.Default().With("component", "store"),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			processed_at TIMESTAMP NOT NULL,
			total_organisations INTEGER NOT NULL,
			duplicates_found INTEGER NOT NULL,
			conflicts_detected INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS organisations (
			id TEXT NOT NULL,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			name TEXT NOT NULL,
			org_type TEXT NOT NULL,
			status TEXT NOT NULL,
			completeness REAL NOT NULL,
			requires_review INTEGER NOT NULL DEFAULT 0,
			document TEXT NOT NULL,
			PRIMARY KEY (id, run_id)
		)`,
		`CREATE TABLE IF NOT EXISTS conflicts (
			id TEXT NOT NULL,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			organisation_id TEXT NOT NULL,
			field TEXT NOT NULL,
			values_json TEXT NOT NULL,
			resolution_json TEXT,
			PRIMARY KEY (id, run_id)
		)`,
		`CREATE TABLE IF NOT EXISTS audit_records (
			id TEXT NOT NULL,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			organisation_id TEXT NOT NULL,
			recorded_at TIMESTAMP NOT NULL,
			action TEXT NOT NULL,
			changes_json TEXT,
			metadata_json TEXT,
			PRIMARY KEY (id, run_id)
		)`,
		`CREATE TABLE IF NOT EXISTS source_stats (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			source TEXT NOT NULL,
			record_count INTEGER NOT NULL,
			retrieved_at TIMESTAMP NOT NULL,
			errors_json TEXT,
			PRIMARY KEY (run_id, source)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_organisations_review
			ON organisations(run_id, requires_review)`,
		`CREATE INDEX IF NOT EXISTS idx_conflicts_org
			ON conflicts(run_id, organisation_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_org
			ON audit_records(run_id, organisation_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveRun stores a complete run plus its audit trail in one transaction and
// returns the run id.
func (s *Store) SaveRun(result models.ProcessingResult, auditRecords []models.AuditRecord) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (processed_at, total_organisations, duplicates_found, conflicts_detected)
		 VALUES (?, ?, ?, ?)`,
		result.Metadata.ProcessedAt,
		result.Metadata.Statistics.TotalOrganisations,
		result.Metadata.Statistics.DuplicatesFound,
		result.Metadata.Statistics.ConflictsDetected,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	for i := range result.Organisations {
		org := &result.Organisations[i]
		document, err := json.Marshal(org)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal organisation %s: %w", org.ID, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO organisations (id, run_id, name, org_type, status, completeness, requires_review, document)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			org.ID, runID, org.Name, string(org.Type), string(org.Status),
			org.DataQuality.Completeness, boolInt(org.DataQuality.RequiresReview), string(document),
		); err != nil {
			return 0, fmt.Errorf("failed to insert organisation %s: %w", org.ID, err)
		}
	}

	for _, conflict := range result.Conflicts {
		values, err := json.Marshal(conflict.Values)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal conflict %s: %w", conflict.ID, err)
		}
		var resolution any
		if conflict.Resolution != nil {
			data, err := json.Marshal(conflict.Resolution)
			if err != nil {
				return 0, fmt.Errorf("failed to marshal resolution for conflict %s: %w", conflict.ID, err)
			}
			resolution = string(data)
		}
		if _, err := tx.Exec(
			`INSERT INTO conflicts (id, run_id, organisation_id, field, values_json, resolution_json)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			conflict.ID, runID, conflict.OrganisationID, conflict.Field, string(values), resolution,
		); err != nil {
			return 0, fmt.Errorf("failed to insert conflict %s: %w", conflict.ID, err)
		}
	}

	for _, record := range auditRecords {
		changes, err := marshalNullable(record.Changes)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal audit changes for %s: %w", record.ID, err)
		}
		metadata, err := marshalNullable(record.Metadata)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal audit metadata for %s: %w", record.ID, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO audit_records (id, run_id, organisation_id, recorded_at, action, changes_json, metadata_json)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			record.ID, runID, record.OrganisationID, record.Timestamp, string(record.Action), changes, metadata,
		); err != nil {
			return 0, fmt.Errorf("failed to insert audit record %s: %w", record.ID, err)
		}
	}

	for _, stats := range result.Metadata.Sources {
		errorsJSON, err := marshalNullable(stats.Errors)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal source errors for %s: %w", stats.Source, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO source_stats (run_id, source, record_count, retrieved_at, errors_json)
			 VALUES (?, ?, ?, ?, ?)`,
			runID, string(stats.Source), stats.RecordCount, stats.RetrievedAt, errorsJSON,
		); err != nil {
			return 0, fmt.Errorf("failed to insert source stats for %s: %w", stats.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	s.logger.Info("run saved",
		"run_id", runID,
		"organisations", len(result.Organisations),
		"conflicts", len(result.Conflicts))
	return runID, nil
}

// LatestRunID returns the id of the most recent run, or an error when the
// store is empty.
func (s *Store) LatestRunID() (int64, error) {
	var runID int64
	err := s.db.QueryRow(`SELECT id FROM runs ORDER BY id DESC LIMIT 1`).Scan(&runID)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("store holds no runs")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query latest run: %w", err)
	}
	return runID, nil
}

// RunInfo summarises one persisted pipeline run.
type RunInfo struct {
	ID                 int64
	ProcessedAt        time.Time
	TotalOrganisations int
	DuplicatesFound    int
	ConflictsDetected  int
}

// Runs lists every persisted run, newest first.
func (s *Store) Runs() ([]RunInfo, error) {
	rows, err := s.db.Query(`
		SELECT id, processed_at, total_organisations, duplicates_found, conflicts_detected
		FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var run RunInfo
		if err := rows.Scan(&run.ID, &run.ProcessedAt, &run.TotalOrganisations,
			&run.DuplicatesFound, &run.ConflictsDetected); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// SourceStatsByRun loads the per-source ingestion summary of a run.
func (s *Store) SourceStatsByRun(runID int64) ([]models.SourceStats, error) {
	rows, err := s.db.Query(`
		SELECT source, record_count, retrieved_at, errors_json
		FROM source_stats WHERE run_id = ? ORDER BY source`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query source stats: %w", err)
	}
	defer rows.Close()

	var stats []models.SourceStats
	for rows.Next() {
		var stat models.SourceStats
		var source string
		var errorsJSON sql.NullString
		if err := rows.Scan(&source, &stat.RecordCount, &stat.RetrievedAt, &errorsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan source stats: %w", err)
		}
		stat.Source = models.DataSourceType(source)
		if errorsJSON.Valid {
			if err := json.Unmarshal([]byte(errorsJSON.String), &stat.Errors); err != nil {
				return nil, fmt.Errorf("failed to decode source errors: %w", err)
			}
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

// DeleteRun removes a run and everything recorded under it.
func (s *Store) DeleteRun(runID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"organisations", "conflicts", "audit_records", "source_stats"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE run_id = ?`, runID); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}

	res, err := tx.Exec(`DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %d not found", runID)
	}

	return tx.Commit()
}

// Organisations loads a run's organisations, optionally only those flagged
// for review.
func (s *Store) Organisations(runID int64, reviewOnly bool) ([]models.Organisation, error) {
	query := `SELECT document FROM organisations WHERE run_id = ?`
	if reviewOnly {
		query += ` AND requires_review = 1`
	}
	query += ` ORDER BY id`

	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query organisations: %w", err)
	}
	defer rows.Close()

	var organisations []models.Organisation
	for rows.Next() {
		var document string
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("failed to scan organisation row: %w", err)
		}
		var org models.Organisation
		if err := json.Unmarshal([]byte(document), &org); err != nil {
			return nil, fmt.Errorf("failed to unmarshal organisation document: %w", err)
		}
		organisations = append(organisations, org)
	}
	return organisations, rows.Err()
}

// Organisation loads one organisation by id within a run.
func (s *Store) Organisation(runID int64, id string) (*models.Organisation, error) {
	var document string
	err := s.db.QueryRow(
		`SELECT document FROM organisations WHERE run_id = ? AND id = ?`, runID, id,
	).Scan(&document)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query organisation %s: %w", id, err)
	}
	var org models.Organisation
	if err := json.Unmarshal([]byte(document), &org); err != nil {
		return nil, fmt.Errorf("failed to unmarshal organisation %s: %w", id, err)
	}
	return &org, nil
}

// Conflicts loads a run's conflicts, optionally only unresolved ones.
func (s *Store) Conflicts(runID int64, unresolvedOnly bool) ([]models.DataConflict, error) {
	query := `SELECT id, organisation_id, field, values_json, resolution_json
		FROM conflicts WHERE run_id = ?`
	if unresolvedOnly {
		query += ` AND resolution_json IS NULL`
	}
	query += ` ORDER BY organisation_id, field`

	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conflicts: %w", err)
	}
	defer rows.Close()

	var conflicts []models.DataConflict
	for rows.Next() {
		var (
			conflict   models.DataConflict
			valuesJSON string
			resolution sql.NullString
		)
		if err := rows.Scan(&conflict.ID, &conflict.OrganisationID, &conflict.Field, &valuesJSON, &resolution); err != nil {
			return nil, fmt.Errorf("failed to scan conflict row: %w", err)
		}
		if err := json.Unmarshal([]byte(valuesJSON), &conflict.Values); err != nil {
			return nil, fmt.Errorf("failed to unmarshal conflict values: %w", err)
		}
		if resolution.Valid {
			conflict.Resolution = &models.ConflictResolution{}
			if err := json.Unmarshal([]byte(resolution.String), conflict.Resolution); err != nil {
				return nil, fmt.Errorf("failed to unmarshal conflict resolution: %w", err)
			}
		}
		conflicts = append(conflicts, conflict)
	}
	return conflicts, rows.Err()
}

// ResolveConflict records a resolution for an unresolved conflict.
// Resolutions are append-only: attempting to overwrite an existing one is
// rejected.
func (s *Store) ResolveConflict(runID int64, conflictID string, resolution models.ConflictResolution) error {
	if resolution.ResolvedAt == nil {
		now := time.Now().UTC()
		resolution.ResolvedAt = &now
	}
	data, err := json.Marshal(resolution)
	if err != nil {
		return fmt.Errorf("failed to marshal resolution: %w", err)
	}

	res, err := s.db.Exec(
		`UPDATE conflicts SET resolution_json = ?
		 WHERE run_id = ? AND id = ? AND resolution_json IS NULL`,
		string(data), runID, conflictID,
	)
	if err != nil {
		return fmt.Errorf("failed to resolve conflict %s: %w", conflictID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check resolution result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("conflict %s not found in run %d or already resolved", conflictID, runID)
	}
	return nil
}

// AuditByOrganisation returns one organisation's audit history in append
// order.
func (s *Store) AuditByOrganisation(runID int64, organisationID string) ([]models.AuditRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, organisation_id, recorded_at, action, changes_json, metadata_json
		 FROM audit_records WHERE run_id = ? AND organisation_id = ?
		 ORDER BY recorded_at, id`,
		runID, organisationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var records []models.AuditRecord
	for rows.Next() {
		var (
			record   models.AuditRecord
			action   string
			changes  sql.NullString
			metadata sql.NullString
		)
		if err := rows.Scan(&record.ID, &record.OrganisationID, &record.Timestamp, &action, &changes, &metadata); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		record.Action = models.AuditAction(action)
		if changes.Valid {
			if err := json.Unmarshal([]byte(changes.String), &record.Changes); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit changes: %w", err)
			}
		}
		if metadata.Valid {
			if err := json.Unmarshal([]byte(metadata.String), &record.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit metadata: %w", err)
			}
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func marshalNullable(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch typed := v.(type) {
	case []models.FieldChange:
		if len(typed) == 0 {
			return nil, nil
		}
	case []string:
		if len(typed) == 0 {
			return nil, nil
		}
	case map[string]any:
		if len(typed) == 0 {
			return nil, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
