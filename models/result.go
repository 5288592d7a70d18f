package models

import "time"

// ProcessingStage names the pipeline stage an error was raised in.
type ProcessingStage string

const (
	StageMapping       ProcessingStage = "mapping"
	StageNormalisation ProcessingStage = "normalisation"
	StageMerge         ProcessingStage = "merge"
	StageIngest        ProcessingStage = "ingest"
)

// ProcessingError is one locally-recovered failure. Errors never abort a
// run; they accumulate here so the output metadata accounts for every
// skipped record.
type ProcessingError struct {
	Source   DataSourceType  `json:"source"`
	RecordID string          `json:"recordId,omitempty"`
	Stage    ProcessingStage `json:"stage"`
	Message  string          `json:"message"`
}

// SourceStats summarises one source's contribution to a run.
type SourceStats struct {
	Source      DataSourceType `json:"source"`
	RecordCount int            `json:"recordCount"`
	RetrievedAt time.Time      `json:"retrievedAt"`
	Errors      []string       `json:"errors,omitempty"`
}

// Statistics are the aggregate counters for a run.
type Statistics struct {
	TotalOrganisations  int                      `json:"totalOrganisations"`
	DuplicatesFound     int                      `json:"duplicatesFound"`
	ConflictsDetected   int                      `json:"conflictsDetected"`
	OrganisationsByType map[OrganisationType]int `json:"organisationsByType"`
}

// ResultMetadata describes when the run happened and what each source fed
// into it.
type ResultMetadata struct {
	ProcessedAt time.Time     `json:"processedAt"`
	Sources     []SourceStats `json:"sources"`
	Statistics  Statistics    `json:"statistics"`
}

// ProcessingResult is the pipeline's final output. It is persisted verbatim
// as the project's static JSON artifact, so field names must stay stable
// across runs.
type ProcessingResult struct {
	Organisations []Organisation    `json:"organisations"`
	Metadata      ResultMetadata    `json:"metadata"`
	Conflicts     []DataConflict    `json:"conflicts,omitempty"`
	Errors        []ProcessingError `json:"errors,omitempty"`
}
