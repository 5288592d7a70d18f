package normalization

import (
	"testing"
	"time"

	"ukorgs/models"
)

func draftNamed(name string, source models.DataSourceType) *models.OrganisationDraft {
	return &models.OrganisationDraft{
		Name: name,
		Type: models.TypeOther,
		Source: models.DataSourceReference{
			Source:      source,
			SourceID:    "rec-1",
			RetrievedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

// TestIdentifier_Apply checks the normalised name lands on the draft.
func TestIdentifier_Apply(t *testing.T) {
	id := NewIdentifier()

	draft := draftNamed("The Environment Agency", models.SourceGovUKAPI)
	if err := id.Apply(draft); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if draft.NormalisedName != "environment agency" {
		t.Errorf("NormalisedName = %q, want %q", draft.NormalisedName, "environment agency")
	}
}

// TestIdentifier_Apply_EmptyAfterNormalisation checks punctuation-only names
// are rejected with a typed error, not silently accepted.
func TestIdentifier_Apply_EmptyAfterNormalisation(t *testing.T) {
	id := NewIdentifier()

	draft := draftNamed("---", models.SourceONSPublicSector)
	err := id.Apply(draft)
	if err == nil {
		t.Fatal("expected error for a name that normalises to nothing")
	}
	normErr, ok := err.(*NormalisationError)
	if !ok {
		t.Fatalf("expected *NormalisationError, got %T", err)
	}
	if normErr.Source != models.SourceONSPublicSector {
		t.Errorf("error source = %s, want %s", normErr.Source, models.SourceONSPublicSector)
	}
	if normErr.RecordID != "rec-1" {
		t.Errorf("error record id = %q, want %q", normErr.RecordID, "rec-1")
	}
}

// TestComputeID checks the id layout and that re-computation is stable.
func TestComputeID(t *testing.T) {
	t.Run("without source key", func(t *testing.T) {
		draft := draftNamed("The Environment Agency", models.SourceGovUKAPI)
		draft.NormalisedName = "environment agency"

		got := ComputeID(draft)
		want := "govuk-api:environment-agency"
		if got != want {
			t.Errorf("ComputeID = %q, want %q", got, want)
		}
	})

	t.Run("with source key", func(t *testing.T) {
		draft := draftNamed("Ofsted", models.SourceGovUKAPI)
		draft.NormalisedName = "ofsted"
		draft.SourceKey = "OT1234"

		got := ComputeID(draft)
		want := "govuk-api:ofsted:ot1234"
		if got != want {
			t.Errorf("ComputeID = %q, want %q", got, want)
		}
	})

	t.Run("stable across calls", func(t *testing.T) {
		draft := draftNamed("Companies House", models.SourceGovUKAPI)
		draft.NormalisedName = "companies house"

		if ComputeID(draft) != ComputeID(draft) {
			t.Error("ComputeID must be deterministic")
		}
	})
}
