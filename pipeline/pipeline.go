package pipeline

import (
	"log/slog"
	"sync"
	"time"

	"ukorgs/audit"
	"ukorgs/config"
	"ukorgs/dedup"
	"ukorgs/mapping"
	"ukorgs/merge"
	"ukorgs/models"
	"ukorgs/normalization"
	"ukorgs/quality"
)

// sourceBatch is one ingested batch of raw records from a single source.
type sourceBatch struct {
	source      models.DataSourceType
	records     []models.RawRecord
	retrievedAt time.Time
}

// Pipeline is the record unification pipeline. Callers Ingest one batch per
// source, then Run once; Result returns the assembled output. A Pipeline
// instance covers exactly one run and holds no state beyond it.
type Pipeline struct {
	cfg        *config.Config
	mapper     *mapping.FieldMapper
	identifier *normalization.Identifier
	dedup      *dedup.Deduplicator
	trail      *audit.Trail
	merger     *merge.Merger
	logger     *slog.Logger

	batches []sourceBatch

	organisations []models.Organisation
	conflicts     []models.DataConflict
	errors        []models.ProcessingError
	sourceStats   []models.SourceStats
	draftCount    int
	processedAt   time.Time
}

// New creates a pipeline with the given configuration.
func New(cfg *config.Config) *Pipeline {
	trail := audit.NewTrail()
	scorer := quality.NewScorer(cfg)
	return &Pipeline{
		cfg:        cfg,
		mapper:     mapping.NewFieldMapper(cfg),
		identifier: normalization.NewIdentifier(),
		dedup:      dedup.NewDeduplicator(cfg),
		trail:      trail,
		merger:     merge.NewMerger(cfg, scorer, trail),
		logger:     slog.Default().With("component", "pipeline"),
	}
}

// Mapper exposes the field mapper so callers can register custom rule sets
// before ingesting.
func (p *Pipeline) Mapper() *mapping.FieldMapper { return p.mapper }

// Trail exposes the audit trail for the current run.
func (p *Pipeline) Trail() *audit.Trail { return p.trail }

// Ingest hands over one source's raw records plus the fetch timestamp.
// Empty batches are accepted: the source is reported with a record count of
// zero and the run carries on with the other sources.
func (p *Pipeline) Ingest(source models.DataSourceType, rawRecords []models.RawRecord, retrievedAt time.Time) {
	p.batches = append(p.batches, sourceBatch{
		source:      source,
		records:     rawRecords,
		retrievedAt: retrievedAt,
	})
	p.logger.Info("ingested batch",
		"source", source,
		"records", len(rawRecords),
		"retrieved_at", retrievedAt)
}

// Run executes mapping, normalisation, deduplication and merging over every
// ingested batch. It never fails: all record- and source-level problems are
// recovered locally and reported in the result metadata.
func (p *Pipeline) Run() {
	p.processedAt = time.Now().UTC()

	drafts := p.mapAllSources()
	p.draftCount = len(drafts)

	clusters := p.dedup.Cluster(drafts)

	p.organisations = make([]models.Organisation, 0, len(clusters))
	for _, cluster := range clusters {
		outcome := p.merger.Merge(cluster)
		p.organisations = append(p.organisations, outcome.Organisation)
		p.conflicts = append(p.conflicts, outcome.Conflicts...)
		p.errors = append(p.errors, outcome.Errors...)
	}

	p.logger.Info("run complete",
		"sources", len(p.batches),
		"drafts", len(drafts),
		"organisations", len(p.organisations),
		"conflicts", len(p.conflicts),
		"errors", len(p.errors))
}

// mappedBatch carries one source's mapping output back to the joining step.
type mappedBatch struct {
	stats  models.SourceStats
	drafts []*models.OrganisationDraft
	errors []models.ProcessingError
}

// mapAllSources runs the field mapper over each batch, fanning out across
// workers since mapping shares no state. Outputs re-join in batch order so
// the draft sequence, and every downstream tie-break with it, stays
// deterministic regardless of worker scheduling.
func (p *Pipeline) mapAllSources() []*models.OrganisationDraft {
	results := make([]mappedBatch, len(p.batches))

	workers := p.cfg.MappingWorkers
	if workers > len(p.batches) {
		workers = len(p.batches)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = p.mapBatch(p.batches[idx])
			}
		}()
	}
	for idx := range p.batches {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	var drafts []*models.OrganisationDraft
	for _, result := range results {
		drafts = append(drafts, result.drafts...)
		p.errors = append(p.errors, result.errors...)
		p.sourceStats = append(p.sourceStats, result.stats)
	}
	return drafts
}

// mapBatch maps one source's records and applies identity normalisation.
// Failed records are skipped and reported, never fatal.
func (p *Pipeline) mapBatch(batch sourceBatch) mappedBatch {
	result := mappedBatch{
		stats: models.SourceStats{
			Source:      batch.source,
			RecordCount: len(batch.records),
			RetrievedAt: batch.retrievedAt,
		},
	}

	if len(batch.records) == 0 {
		result.stats.Errors = append(result.stats.Errors, "source produced no records")
		result.errors = append(result.errors, models.ProcessingError{
			Source:  batch.source,
			Stage:   models.StageIngest,
			Message: "source produced no records",
		})
		return result
	}

	for _, raw := range batch.records {
		draft, err := p.mapper.Map(raw, batch.source, batch.retrievedAt)
		if err != nil {
			result.stats.Errors = append(result.stats.Errors, err.Error())
			result.errors = append(result.errors, processingError(batch.source, err, models.StageMapping))
			continue
		}
		if err := p.identifier.Apply(draft); err != nil {
			result.stats.Errors = append(result.stats.Errors, err.Error())
			result.errors = append(result.errors, processingError(batch.source, err, models.StageNormalisation))
			continue
		}
		result.drafts = append(result.drafts, draft)
	}

	if expected, ok := p.cfg.ExpectedCounts[batch.source]; ok && expected != len(result.drafts) {
		// Published counts for several registers are unreliable; observe,
		// never gate.
		p.logger.Warn("record count differs from expected",
			"source", batch.source,
			"expected", expected,
			"actual", len(result.drafts))
	}

	return result
}

func processingError(source models.DataSourceType, err error, stage models.ProcessingStage) models.ProcessingError {
	pe := models.ProcessingError{
		Source:  source,
		Stage:   stage,
		Message: err.Error(),
	}
	switch typed := err.(type) {
	case *mapping.MappingError:
		pe.RecordID = typed.RecordID
	case *normalization.NormalisationError:
		pe.RecordID = typed.RecordID
	}
	return pe
}
