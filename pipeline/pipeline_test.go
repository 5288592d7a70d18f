package pipeline

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"ukorgs/config"
	"ukorgs/models"
)

var testRetrievedAt = time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)

func govukRecord(title, format, status string) models.RawRecord {
	return models.APIRecord{Data: map[string]any{
		"title":  title,
		"format": format,
		"details": map[string]any{
			"govuk_status": status,
		},
	}}
}

func onsRow(name, classification string) models.RawRecord {
	return models.SpreadsheetRecord{Row: map[string]string{
		"Organisation name":     name,
		"Sector classification": classification,
	}}
}

// TestRun_EndToEnd checks a small multi-source run: mapping, deduplication,
// merging and result assembly.
func TestRun_EndToEnd(t *testing.T) {
	pipe := New(config.DefaultConfig())

	pipe.Ingest(models.SourceGovUKAPI, []models.RawRecord{
		govukRecord("Environment Agency", "Executive non-departmental public body", "live"),
		govukRecord("HM Treasury", "Ministerial department", "live"),
	}, testRetrievedAt)
	// Retrieved before the GOV.UK batch so the tie on confidence resolves to
	// the GOV.UK spelling.
	pipe.Ingest(models.SourceONSPublicSector, []models.RawRecord{
		onsRow("The Environment Agency", "Executive non-departmental public body"),
		onsRow("National Audit Office", "Non-ministerial department"),
	}, testRetrievedAt.Add(-time.Hour))

	pipe.Run()
	result := pipe.Result()

	// Four records, one cross-source duplicate pair: three organisations.
	if result.Metadata.Statistics.TotalOrganisations != 3 {
		t.Fatalf("TotalOrganisations = %d, want 3", result.Metadata.Statistics.TotalOrganisations)
	}
	if result.Metadata.Statistics.DuplicatesFound != 1 {
		t.Errorf("DuplicatesFound = %d, want 1", result.Metadata.Statistics.DuplicatesFound)
	}
	if len(result.Metadata.Sources) != 2 {
		t.Errorf("expected stats for both sources, got %d", len(result.Metadata.Sources))
	}

	// The merged organisation carries both source references.
	var merged *models.Organisation
	for i := range result.Organisations {
		if result.Organisations[i].Name == "Environment Agency" {
			merged = &result.Organisations[i]
		}
	}
	if merged == nil {
		t.Fatal("merged Environment Agency not found")
	}
	if len(merged.Sources) != 2 {
		t.Errorf("merged organisation has %d sources, want 2", len(merged.Sources))
	}
	if len(merged.AlternativeNames) != 1 {
		t.Errorf("AlternativeNames = %v", merged.AlternativeNames)
	}
}

// TestRun_Idempotent checks an unchanged input yields identical ids and
// statistics across runs.
func TestRun_Idempotent(t *testing.T) {
	run := func() models.ProcessingResult {
		pipe := New(config.DefaultConfig())
		pipe.Ingest(models.SourceGovUKAPI, []models.RawRecord{
			govukRecord("Environment Agency", "Executive non-departmental public body", "live"),
			govukRecord("Natural England", "Executive non-departmental public body", "live"),
		}, testRetrievedAt)
		pipe.Ingest(models.SourceONSPublicSector, []models.RawRecord{
			onsRow("The Environment Agency", "Executive non-departmental public body"),
		}, testRetrievedAt.Add(time.Hour))
		pipe.Run()
		return pipe.Result()
	}

	first := run()
	second := run()

	if !reflect.DeepEqual(first.Metadata.Statistics, second.Metadata.Statistics) {
		t.Errorf("statistics differ across runs")
	}

	idsOf := func(r models.ProcessingResult) []string {
		ids := make([]string, 0, len(r.Organisations))
		for _, org := range r.Organisations {
			ids = append(ids, org.ID)
		}
		return ids
	}
	if !reflect.DeepEqual(idsOf(first), idsOf(second)) {
		t.Errorf("organisation ids differ across runs:\n%v\n%v", idsOf(first), idsOf(second))
	}
}

// TestRun_EmptySourceReported checks an empty batch is reported but never
// aborts the run.
func TestRun_EmptySourceReported(t *testing.T) {
	pipe := New(config.DefaultConfig())

	pipe.Ingest(models.SourceGovUKAPI, []models.RawRecord{
		govukRecord("HM Treasury", "Ministerial department", "live"),
	}, testRetrievedAt)
	pipe.Ingest(models.SourceFireServices, nil, testRetrievedAt)

	pipe.Run()
	result := pipe.Result()

	if result.Metadata.Statistics.TotalOrganisations != 1 {
		t.Errorf("TotalOrganisations = %d, want 1", result.Metadata.Statistics.TotalOrganisations)
	}

	found := false
	for _, e := range result.Errors {
		if e.Source == models.SourceFireServices && e.Stage == models.StageIngest {
			found = true
		}
	}
	if !found {
		t.Errorf("empty source must be reported in errors: %v", result.Errors)
	}

	for _, stats := range result.Metadata.Sources {
		if stats.Source == models.SourceFireServices && len(stats.Errors) == 0 {
			t.Error("empty source stats must carry the error")
		}
	}
}

// TestRun_BadRecordsSkippedNotFatal checks per-record failures accumulate as
// errors while the rest of the batch survives.
func TestRun_BadRecordsSkippedNotFatal(t *testing.T) {
	pipe := New(config.DefaultConfig())

	pipe.Ingest(models.SourceONSPublicSector, []models.RawRecord{
		onsRow("Ofwat", "Non-ministerial department"),
		onsRow("", "Non-ministerial department"),
		onsRow("---", "Non-ministerial department"),
	}, testRetrievedAt)

	pipe.Run()
	result := pipe.Result()

	if result.Metadata.Statistics.TotalOrganisations != 1 {
		t.Errorf("TotalOrganisations = %d, want 1", result.Metadata.Statistics.TotalOrganisations)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 record errors, got %d: %v", len(result.Errors), result.Errors)
	}

	stages := map[models.ProcessingStage]int{}
	for _, e := range result.Errors {
		stages[e.Stage]++
	}
	if stages[models.StageMapping] != 1 || stages[models.StageNormalisation] != 1 {
		t.Errorf("expected one mapping and one normalisation error, got %v", stages)
	}
}

// TestRun_NoDataLoss checks every successfully mapped record is accounted for
// in exactly one organisation's sources.
func TestRun_NoDataLoss(t *testing.T) {
	pipe := New(config.DefaultConfig())

	records := []models.RawRecord{
		govukRecord("Environment Agency", "Executive non-departmental public body", "live"),
		govukRecord("Natural England", "Executive non-departmental public body", "live"),
		govukRecord("Environment Agency", "Executive non-departmental public body", "live"),
	}
	pipe.Ingest(models.SourceGovUKAPI, records, testRetrievedAt)

	pipe.Run()
	result := pipe.Result()

	totalSources := 0
	for _, org := range result.Organisations {
		totalSources += len(org.Sources)
	}
	if totalSources != len(records) {
		t.Errorf("source references = %d, want one per mapped record (%d)", totalSources, len(records))
	}
}

// TestRun_ScaleWithSyntheticData runs a few hundred generated records through
// the full pipeline and checks the partition invariants hold.
func TestRun_ScaleWithSyntheticData(t *testing.T) {
	gofakeit.Seed(42)

	pipe := New(config.DefaultConfig())

	const perSource = 150
	for _, source := range []models.DataSourceType{models.SourceGovUKAPI, models.SourcePublicBodiesDir} {
		records := make([]models.RawRecord, 0, perSource)
		for i := 0; i < perSource; i++ {
			records = append(records, models.APIRecord{Data: map[string]any{
				"title":  fmt.Sprintf("%s %s Authority", gofakeit.City(), gofakeit.Word()),
				"format": "Executive non-departmental public body",
			}})
		}
		pipe.Ingest(source, records, testRetrievedAt)
	}

	pipe.Run()
	result := pipe.Result()

	mapped := 2*perSource - countRecordErrors(result)
	totalSources := 0
	for _, org := range result.Organisations {
		totalSources += len(org.Sources)
		if org.ID == "" {
			t.Error("organisation without id")
		}
		dq := org.DataQuality
		if dq.Completeness < 0 || dq.Completeness > 1 {
			t.Errorf("completeness %v out of bounds for %s", dq.Completeness, org.Name)
		}
	}
	if totalSources != mapped {
		t.Errorf("source references = %d, want %d (no record lost or double-counted)", totalSources, mapped)
	}
	if got := result.Metadata.Statistics.DuplicatesFound; got != mapped-len(result.Organisations) {
		t.Errorf("DuplicatesFound = %d, want %d", got, mapped-len(result.Organisations))
	}
}

func countRecordErrors(result models.ProcessingResult) int {
	n := 0
	for _, e := range result.Errors {
		if e.Stage == models.StageMapping || e.Stage == models.StageNormalisation {
			n++
		}
	}
	return n
}
