package dedup

import (
	"testing"
	"time"

	"ukorgs/config"
	"ukorgs/models"
)

func testDraft(name, normalised string, orgType models.OrganisationType, source models.DataSourceType) *models.OrganisationDraft {
	return &models.OrganisationDraft{
		Name:           name,
		NormalisedName: normalised,
		Type:           orgType,
		Source: models.DataSourceReference{
			Source:      source,
			RetrievedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func newTestDeduplicator() *Deduplicator {
	return NewDeduplicator(config.DefaultConfig())
}

// TestCluster_ExactSourceKey checks records sharing a source-native key merge
// whatever their names look like.
func TestCluster_ExactSourceKey(t *testing.T) {
	dedup := newTestDeduplicator()

	a := testDraft("Environment Agency", "environment agency", models.TypeExecutiveNDPB, models.SourceGovUKAPI)
	a.SourceKey = "E123"
	b := testDraft("EA (Environment Agency)", "ea environment agency", models.TypeOther, models.SourceONSPublicSector)
	b.SourceKey = "e123"

	clusters := dedup.Cluster([]*models.OrganisationDraft{a, b})
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	if len(clusters[0]) != 2 {
		t.Errorf("expected both drafts in one cluster, got %d", len(clusters[0]))
	}
}

// TestCluster_ExactNormalisedName checks identical comparison keys merge
// across sources.
func TestCluster_ExactNormalisedName(t *testing.T) {
	dedup := newTestDeduplicator()

	a := testDraft("The National Archives", "national archives", models.TypeOther, models.SourceGovUKAPI)
	b := testDraft("National Archives", "national archives", models.TypeOther, models.SourceONSPublicSector)
	c := testDraft("National Audit Office", "national audit office", models.TypeOther, models.SourceONSPublicSector)

	clusters := dedup.Cluster([]*models.OrganisationDraft{a, b, c})
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	if len(clusters[0]) != 2 {
		t.Errorf("archives cluster should have 2 members, got %d", len(clusters[0]))
	}
}

// TestCluster_FuzzyThresholdBoundary checks the similarity cut-off is
// inclusive: exactly 0.90 clusters, just below does not.
func TestCluster_FuzzyThresholdBoundary(t *testing.T) {
	dedup := newTestDeduplicator()

	t.Run("at threshold", func(t *testing.T) {
		// Ten runes, one substitution: similarity exactly 0.90.
		a := testDraft("Birmingham", "birmingham", models.TypeLocalAuthority, models.SourceLocalAuthoritiesEng)
		b := testDraft("Birminghan", "birminghan", models.TypeLocalAuthority, models.SourceONSPublicSector)

		clusters := dedup.Cluster([]*models.OrganisationDraft{a, b})
		if len(clusters) != 1 {
			t.Errorf("similarity 0.90 must cluster, got %d clusters", len(clusters))
		}
	})

	t.Run("below threshold", func(t *testing.T) {
		// Nine runes, one substitution: similarity ~0.889.
		a := testDraft("Stockport", "stockport", models.TypeLocalAuthority, models.SourceLocalAuthoritiesEng)
		b := testDraft("Stockporr", "stockporr", models.TypeLocalAuthority, models.SourceONSPublicSector)

		clusters := dedup.Cluster([]*models.OrganisationDraft{a, b})
		if len(clusters) != 2 {
			t.Errorf("similarity below 0.90 must not cluster, got %d clusters", len(clusters))
		}
	})

	t.Run("at threshold in the first character", func(t *testing.T) {
		// Same 0.90 boundary, but the single substitution hits position
		// zero. Candidate screening must not hide the pair.
		a := testDraft("Birmingham", "birmingham", models.TypeLocalAuthority, models.SourceLocalAuthoritiesEng)
		b := testDraft("Airmingham", "airmingham", models.TypeLocalAuthority, models.SourceONSPublicSector)

		clusters := dedup.Cluster([]*models.OrganisationDraft{a, b})
		if len(clusters) != 1 {
			t.Errorf("first-character variant at 0.90 must cluster, got %d clusters", len(clusters))
		}
	})
}

// TestCluster_IncompatibleTypesNeverMerge checks the type gate beats any name
// similarity.
func TestCluster_IncompatibleTypesNeverMerge(t *testing.T) {
	dedup := newTestDeduplicator()

	// Name similarity is exactly 0.90, which would cluster were the types
	// compatible.
	a := testDraft("Birmingham", "birmingham", models.TypeLocalAuthority, models.SourceLocalAuthoritiesEng)
	b := testDraft("Birminghan", "birminghan", models.TypeJudicialBody, models.SourceCourtsTribunals)

	clusters := dedup.Cluster([]*models.OrganisationDraft{a, b})
	if len(clusters) != 2 {
		t.Errorf("incompatible types must never cluster, got %d clusters", len(clusters))
	}
}

// TestCluster_DifferentCompatibleTypesNeedSharedRegion checks that fuzzy
// matches across different (but compatible) types require a shared region.
func TestCluster_DifferentCompatibleTypesNeedSharedRegion(t *testing.T) {
	dedup := newTestDeduplicator()

	t.Run("no region", func(t *testing.T) {
		a := testDraft("Alderley Parish Council", "alderley parish", models.TypeCommunityCouncil, models.SourceParishCouncils)
		b := testDraft("Alderley Council", "alderley parishh", models.TypeLocalAuthority, models.SourceONSPublicSector)

		clusters := dedup.Cluster([]*models.OrganisationDraft{a, b})
		if len(clusters) != 2 {
			t.Errorf("cross-type fuzzy match without shared region must not cluster, got %d", len(clusters))
		}
	})

	t.Run("shared region", func(t *testing.T) {
		a := testDraft("Alderley Parish Council", "alderley parish", models.TypeCommunityCouncil, models.SourceParishCouncils)
		a.Location = &models.Location{Region: "Cheshire"}
		b := testDraft("Alderley Council", "alderley parishh", models.TypeLocalAuthority, models.SourceONSPublicSector)
		b.Location = &models.Location{Region: "cheshire"}

		clusters := dedup.Cluster([]*models.OrganisationDraft{a, b})
		if len(clusters) != 1 {
			t.Errorf("cross-type fuzzy match with shared region must cluster, got %d", len(clusters))
		}
	})
}

// TestCluster_EveryDraftLandsExactlyOnce checks the partition property: no
// draft is lost and none appears twice.
func TestCluster_EveryDraftLandsExactlyOnce(t *testing.T) {
	dedup := newTestDeduplicator()

	drafts := []*models.OrganisationDraft{
		testDraft("HM Treasury", "hm treasury", models.TypeMinisterialDepartment, models.SourceGovUKAPI),
		testDraft("HM Treasury", "hm treasury", models.TypeMinisterialDepartment, models.SourceONSPublicSector),
		testDraft("Home Office", "home office", models.TypeMinisterialDepartment, models.SourceGovUKAPI),
		testDraft("Kent Police", "kent police", models.TypeEmergencyService, models.SourcePoliceForces),
		testDraft("Kent Fire and Rescue", "kent fire and rescue", models.TypeEmergencyService, models.SourceFireServices),
	}

	clusters := dedup.Cluster(drafts)

	seen := make(map[*models.OrganisationDraft]int)
	total := 0
	for _, cluster := range clusters {
		for _, draft := range cluster {
			seen[draft]++
			total++
		}
	}
	if total != len(drafts) {
		t.Errorf("clusters contain %d drafts, want %d", total, len(drafts))
	}
	for draft, count := range seen {
		if count != 1 {
			t.Errorf("draft %q appears %d times", draft.Name, count)
		}
	}
}

// TestCluster_DeterministicOrder checks repeated runs produce identical
// clustering, including cluster order.
func TestCluster_DeterministicOrder(t *testing.T) {
	build := func() []*models.OrganisationDraft {
		return []*models.OrganisationDraft{
			testDraft("Natural England", "natural england", models.TypeExecutiveNDPB, models.SourceGovUKAPI),
			testDraft("Historic England", "historic england", models.TypeExecutiveNDPB, models.SourceGovUKAPI),
			testDraft("Natural England", "natural england", models.TypeExecutiveNDPB, models.SourceONSPublicSector),
			testDraft("Sport England", "sport england", models.TypeExecutiveNDPB, models.SourceGovUKAPI),
		}
	}

	dedup := newTestDeduplicator()
	first := dedup.Cluster(build())

	for run := 0; run < 5; run++ {
		again := dedup.Cluster(build())
		if len(again) != len(first) {
			t.Fatalf("run %d: %d clusters, want %d", run, len(again), len(first))
		}
		for i := range again {
			if len(again[i]) != len(first[i]) {
				t.Fatalf("run %d: cluster %d size %d, want %d", run, i, len(again[i]), len(first[i]))
			}
			for j := range again[i] {
				if again[i][j].Name != first[i][j].Name || again[i][j].Source.Source != first[i][j].Source.Source {
					t.Fatalf("run %d: cluster %d member %d differs", run, i, j)
				}
			}
		}
	}
}

// TestCluster_Empty checks the degenerate input.
func TestCluster_Empty(t *testing.T) {
	dedup := newTestDeduplicator()
	if clusters := dedup.Cluster(nil); clusters != nil {
		t.Errorf("empty input must produce no clusters, got %v", clusters)
	}
}
