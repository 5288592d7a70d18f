package dedup

import (
	"log/slog"
	"sort"
	"strings"

	"ukorgs/config"
	"ukorgs/models"
	"ukorgs/normalization/algorithms"
)

// Cluster is a non-empty group of drafts believed to represent one
// real-world organisation, ordered by original input position.
type Cluster []*models.OrganisationDraft

// Deduplicator groups drafts across sources. Matching runs in three tiers,
// first hit wins for a pair:
//
//  1. identical source-native key (ONS code, URN, slug)
//  2. identical normalised name
//  3. name similarity at or above the duplicate threshold, gated on
//     compatible organisation types or a shared region
//
// Input order must be stable: ties between equally similar clusters resolve
// to the earlier cluster.
type Deduplicator struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewDeduplicator creates a deduplicator with the configured threshold.
func NewDeduplicator(cfg *config.Config) *Deduplicator {
	return &Deduplicator{
		cfg:    cfg,
		logger: slog.Default().With("component", "deduplicator"),
	}
}

// Cluster partitions the drafts. Every input draft lands in exactly one
// output cluster; clusters are ordered by their earliest member.
func (d *Deduplicator) Cluster(drafts []*models.OrganisationDraft) []Cluster {
	if len(drafts) == 0 {
		return nil
	}

	uf := newUnionFind(len(drafts))

	d.unionExactKeys(drafts, uf)
	d.unionExactNames(drafts, uf)
	d.unionFuzzy(drafts, uf)

	clusters := collectClusters(drafts, uf)
	d.logger.Info("clustering complete",
		"drafts", len(drafts),
		"clusters", len(clusters),
		"duplicates", len(drafts)-len(clusters))
	return clusters
}

// unionExactKeys merges drafts sharing a source-native identifier.
func (d *Deduplicator) unionExactKeys(drafts []*models.OrganisationDraft, uf *unionFind) {
	firstSeen := make(map[string]int)
	for i, draft := range drafts {
		key := strings.ToLower(strings.TrimSpace(draft.SourceKey))
		if key == "" {
			continue
		}
		if j, ok := firstSeen[key]; ok {
			uf.union(j, i)
		} else {
			firstSeen[key] = i
		}
	}
}

// unionExactNames merges drafts whose normalised names are identical.
func (d *Deduplicator) unionExactNames(drafts []*models.OrganisationDraft, uf *unionFind) {
	firstSeen := make(map[string]int)
	for i, draft := range drafts {
		if draft.NormalisedName == "" {
			continue
		}
		if j, ok := firstSeen[draft.NormalisedName]; ok {
			uf.union(j, i)
		} else {
			firstSeen[draft.NormalisedName] = i
		}
	}
}

// unionFuzzy attaches clusters to earlier clusters when their best pairwise
// name similarity reaches the threshold. The candidate index screens out
// pairs whose distance lower bounds already rule the threshold out; it can
// never drop a pair the full pairwise scan would have clustered.
func (d *Deduplicator) unionFuzzy(drafts []*models.OrganisationDraft, uf *unionFind) {
	index := algorithms.NewCandidateIndex(d.cfg.DuplicateThreshold)
	for i, draft := range drafts {
		index.Add(i, draft.NormalisedName)
	}

	for i, draft := range drafts {
		bestScore := 0.0
		bestTarget := -1

		for _, j := range index.Candidates(draft.NormalisedName) {
			if j >= i || uf.same(i, j) {
				continue
			}
			if !d.matchable(draft, drafts[j]) {
				continue
			}
			score := algorithms.DamerauLevenshteinSimilarity(draft.NormalisedName, drafts[j].NormalisedName)
			if score < d.cfg.DuplicateThreshold {
				continue
			}
			// Candidates are scanned in ascending index order, so a
			// strictly-greater comparison keeps the earliest cluster on
			// equal scores.
			if score > bestScore {
				bestScore = score
				bestTarget = j
			}
		}

		if bestTarget >= 0 {
			d.logger.Debug("fuzzy match",
				"draft", draft.Name,
				"matched", drafts[bestTarget].Name,
				"score", bestScore)
			uf.union(bestTarget, i)
		}
	}
}

// matchable applies the type/region gate for fuzzy matches. Incompatible
// canonical types never cluster, whatever the name similarity.
func (d *Deduplicator) matchable(a, b *models.OrganisationDraft) bool {
	if !models.CompatibleTypes(a.Type, b.Type) {
		return false
	}
	if a.Type == b.Type {
		return true
	}
	return sameRegion(a, b)
}

func sameRegion(a, b *models.OrganisationDraft) bool {
	if a.Location == nil || b.Location == nil {
		return false
	}
	ra := strings.ToLower(strings.TrimSpace(a.Location.Region))
	rb := strings.ToLower(strings.TrimSpace(b.Location.Region))
	return ra != "" && ra == rb
}

// collectClusters materialises the union-find sets as ordered clusters.
func collectClusters(drafts []*models.OrganisationDraft, uf *unionFind) []Cluster {
	members := make(map[int][]int)
	for i := range drafts {
		root := uf.find(i)
		members[root] = append(members[root], i)
	}

	roots := make([]int, 0, len(members))
	for root := range members {
		roots = append(roots, root)
	}
	// Order clusters by earliest member, not by root id: union by rank can
	// make a later index the root.
	sort.Slice(roots, func(a, b int) bool {
		return members[roots[a]][0] < members[roots[b]][0]
	})

	clusters := make([]Cluster, 0, len(roots))
	for _, root := range roots {
		indices := members[root]
		sort.Ints(indices)
		cluster := make(Cluster, 0, len(indices))
		for _, idx := range indices {
			cluster = append(cluster, drafts[idx])
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}
