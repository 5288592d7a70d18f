package merge

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"ukorgs/audit"
	"ukorgs/config"
	"ukorgs/dedup"
	"ukorgs/models"
	"ukorgs/normalization"
	"ukorgs/normalization/algorithms"
	"ukorgs/quality"
)

// Tolerance above which two free-text values count as phrasing variants of
// the same fact rather than a conflict.
const textEquivalence = 0.95

// Outcome is the result of merging one cluster.
type Outcome struct {
	Organisation models.Organisation
	Conflicts    []models.DataConflict
	Errors       []models.ProcessingError
}

// Merger collapses clusters into single organisations, resolving field
// disagreements by source confidence and recency and recording a
// DataConflict for every field where sources genuinely diverge.
type Merger struct {
	cfg     *config.Config
	scorer  *quality.Scorer
	trail   *audit.Trail
	matcher *algorithms.HybridMatcher
	logger  *slog.Logger
}

// NewMerger creates a merger writing to the given audit trail.
func NewMerger(cfg *config.Config, scorer *quality.Scorer, trail *audit.Trail) *Merger {
	return &Merger{
		cfg:     cfg,
		scorer:  scorer,
		trail:   trail,
		matcher: algorithms.NewHybridMatcher(),
		logger:  slog.Default().With("component", "merger"),
	}
}

// Merge resolves one cluster into an organisation. It never fails for a
// well-formed cluster: unresolvable fields degrade to review flags plus a
// ProcessingError entry.
func (m *Merger) Merge(cluster dedup.Cluster) Outcome {
	var outcome Outcome

	canonical := cluster[pickWinner(cluster, func(d *models.OrganisationDraft) bool {
		return d.Name != ""
	})]

	// Active is the fallback only: any member that asserted a status
	// overrides it during field resolution.
	org := models.Organisation{
		ID:          normalization.ComputeID(canonical),
		Name:        canonical.Name,
		Type:        canonical.Type,
		Status:      models.StatusActive,
		LastUpdated: time.Now().UTC(),
	}

	conflicts := m.resolveFields(cluster, &org, &outcome)

	org.Sources = concatSources(cluster)
	org.AlternativeNames = alternativeNames(cluster, org.Name)
	org.AdditionalProperties = mergeAdditionalProperties(cluster)

	conflictFields := make([]string, 0, len(conflicts))
	for i := range conflicts {
		conflicts[i].OrganisationID = org.ID
		conflictFields = append(conflictFields, conflicts[i].Field)
	}
	org.DataQuality = m.scorer.Score(&org, conflictFields)

	m.recordAudit(cluster, &org, conflicts)

	outcome.Organisation = org
	outcome.Conflicts = conflicts
	return outcome
}

// fieldValue is one draft's contribution to a canonical field.
type fieldValue struct {
	draft *models.OrganisationDraft
	value any
}

// resolveFields runs the per-field merge policy and returns the recorded
// conflicts.
func (m *Merger) resolveFields(cluster dedup.Cluster, org *models.Organisation, outcome *Outcome) []models.DataConflict {
	var conflicts []models.DataConflict

	resolve := func(field string, collect func(*models.OrganisationDraft) (any, bool), adopt func(any), equivalent func(a, b any) bool) {
		var values []fieldValue
		for _, draft := range cluster {
			if v, ok := collect(draft); ok {
				values = append(values, fieldValue{draft: draft, value: v})
			}
		}
		if len(values) == 0 {
			return
		}

		distinct := groupEquivalent(values, equivalent)
		winner := m.pickValueWinner(values)
		adopt(winner.value)

		if len(distinct) > 1 {
			conflicts = append(conflicts, m.buildConflict(field, distinct))
		}
	}

	resolve("type",
		func(d *models.OrganisationDraft) (any, bool) {
			if d.Type == models.TypeOther {
				return nil, false
			}
			return d.Type, true
		},
		func(v any) { org.Type = v.(models.OrganisationType) },
		exactEqual,
	)
	resolve("classification",
		stringField(func(d *models.OrganisationDraft) string { return d.Classification }),
		func(v any) { org.Classification = v.(string) },
		m.textEquivalent,
	)
	resolve("parentOrganisation",
		stringField(func(d *models.OrganisationDraft) string { return d.ParentOrganisation }),
		func(v any) { org.ParentOrganisation = v.(string) },
		m.textEquivalent,
	)
	resolve("controllingUnit",
		stringField(func(d *models.OrganisationDraft) string { return d.ControllingUnit }),
		func(v any) { org.ControllingUnit = v.(string) },
		m.textEquivalent,
	)
	resolve("status",
		func(d *models.OrganisationDraft) (any, bool) {
			if !models.ValidStatus(d.Status) {
				return nil, false
			}
			return d.Status, true
		},
		func(v any) { org.Status = v.(models.OrganisationStatus) },
		exactEqual,
	)
	resolve("establishmentDate",
		dateField(func(d *models.OrganisationDraft) *time.Time { return d.EstablishmentDate }),
		func(v any) { t := v.(time.Time); org.EstablishmentDate = &t },
		dateEqual,
	)
	resolve("dissolutionDate",
		dateField(func(d *models.OrganisationDraft) *time.Time { return d.DissolutionDate }),
		func(v any) { t := v.(time.Time); org.DissolutionDate = &t },
		dateEqual,
	)
	resolve("location",
		func(d *models.OrganisationDraft) (any, bool) {
			if d.Location.Empty() {
				return nil, false
			}
			return *d.Location, true
		},
		func(v any) { loc := v.(models.Location); org.Location = &loc },
		m.locationEquivalent,
	)

	// A cluster holding incompatible canonical types should never have been
	// built; degrade to a review flag rather than failing the merge.
	if err := checkTypeCoherence(cluster); err != nil {
		outcome.Errors = append(outcome.Errors, models.ProcessingError{
			Source:  cluster[0].Source.Source,
			Stage:   models.StageMerge,
			Message: err.Error(),
		})
		m.trail.Record(models.AuditFlagged, org.ID, []models.FieldChange{{
			Field:    "type",
			NewValue: org.Type,
		}})
		m.logger.Warn("merge degraded", "organisation", org.Name, "error", err)
	}

	return conflicts
}

// pickValueWinner applies the resolution policy: highest source confidence,
// then most recent retrieval, then earliest cluster position.
func (m *Merger) pickValueWinner(values []fieldValue) fieldValue {
	winner := values[0]
	for _, candidate := range values[1:] {
		cw, cc := winner.draft.Source, candidate.draft.Source
		if cc.Confidence > cw.Confidence {
			winner = candidate
			continue
		}
		if cc.Confidence == cw.Confidence && cc.RetrievedAt.After(cw.RetrievedAt) {
			winner = candidate
		}
	}
	return winner
}

// groupEquivalent partitions values into equivalence groups, keeping the
// first representative of each group.
func groupEquivalent(values []fieldValue, equivalent func(a, b any) bool) []fieldValue {
	var distinct []fieldValue
	for _, fv := range values {
		found := false
		for _, d := range distinct {
			if equivalent(d.value, fv.value) {
				found = true
				break
			}
		}
		if !found {
			distinct = append(distinct, fv)
		}
	}
	return distinct
}

func (m *Merger) buildConflict(field string, distinct []fieldValue) models.DataConflict {
	conflict := models.DataConflict{
		ID:    uuid.New().String(),
		Field: field,
	}
	for _, fv := range distinct {
		conflict.Values = append(conflict.Values, models.ConflictValue{
			Source:      fv.draft.Source.Source,
			Value:       fv.value,
			RetrievedAt: fv.draft.Source.RetrievedAt,
		})
	}
	return conflict
}

func (m *Merger) recordAudit(cluster dedup.Cluster, org *models.Organisation, conflicts []models.DataConflict) {
	if len(cluster) == 1 {
		m.trail.Record(models.AuditCreated, org.ID, nil)
	} else {
		names := make([]string, 0, len(cluster))
		for _, draft := range cluster {
			names = append(names, draft.Name)
		}
		m.trail.RecordWithMetadata(models.AuditMerged, org.ID, nil, map[string]any{
			"mergedRecords": len(cluster),
			"mergedNames":   names,
		})
	}

	for _, conflict := range conflicts {
		changes := make([]models.FieldChange, 0, len(conflict.Values))
		for _, cv := range conflict.Values {
			changes = append(changes, models.FieldChange{
				Field:    conflict.Field,
				NewValue: cv.Value,
				Source:   cv.Source,
			})
		}
		m.trail.Record(models.AuditFlagged, org.ID, changes)
	}
}

// textEquivalent treats near-identical free text as the same value so that
// capitalisation and pluralisation differences do not raise conflicts.
func (m *Merger) textEquivalent(a, b any) bool {
	sa, sb := a.(string), b.(string)
	if strings.EqualFold(strings.TrimSpace(sa), strings.TrimSpace(sb)) {
		return true
	}
	return m.matcher.Score(strings.ToLower(sa), strings.ToLower(sb)) >= textEquivalence
}

func (m *Merger) locationEquivalent(a, b any) bool {
	la, lb := a.(models.Location), b.(models.Location)
	if la.Postcode != "" && lb.Postcode != "" {
		return normalisePostcode(la.Postcode) == normalisePostcode(lb.Postcode)
	}
	if la.Region != "" && lb.Region != "" {
		return strings.EqualFold(la.Region, lb.Region)
	}
	if la.Address != "" && lb.Address != "" {
		return m.textEquivalent(la.Address, lb.Address)
	}
	// Disjoint components cannot disagree.
	return true
}

func exactEqual(a, b any) bool { return a == b }

func dateEqual(a, b any) bool {
	ta, tb := a.(time.Time), b.(time.Time)
	return ta.Truncate(24 * time.Hour).Equal(tb.Truncate(24 * time.Hour))
}

func normalisePostcode(pc string) string {
	return strings.ToUpper(strings.ReplaceAll(pc, " ", ""))
}

func stringField(get func(*models.OrganisationDraft) string) func(*models.OrganisationDraft) (any, bool) {
	return func(d *models.OrganisationDraft) (any, bool) {
		v := strings.TrimSpace(get(d))
		if v == "" {
			return nil, false
		}
		return v, true
	}
}

func dateField(get func(*models.OrganisationDraft) *time.Time) func(*models.OrganisationDraft) (any, bool) {
	return func(d *models.OrganisationDraft) (any, bool) {
		t := get(d)
		if t == nil {
			return nil, false
		}
		return *t, true
	}
}

// concatSources concatenates every member's source reference, earliest
// retrieval first. References are copied verbatim and never deduplicated,
// even when two members came from the same source type.
func concatSources(cluster dedup.Cluster) []models.DataSourceReference {
	sources := make([]models.DataSourceReference, 0, len(cluster))
	for _, draft := range cluster {
		sources = append(sources, draft.Source)
	}
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].RetrievedAt.Before(sources[j].RetrievedAt)
	})
	return sources
}

// alternativeNames collects every distinct raw name other than the adopted
// canonical one, in cluster order.
func alternativeNames(cluster dedup.Cluster, canonical string) []string {
	seen := map[string]bool{canonical: true}
	var alternatives []string
	for _, draft := range cluster {
		if draft.Name == "" || seen[draft.Name] {
			continue
		}
		seen[draft.Name] = true
		alternatives = append(alternatives, draft.Name)
	}
	return alternatives
}

// mergeAdditionalProperties unions the unmapped fields of all members. On a
// key clash with differing values the earlier draft keeps the plain key and
// later values are kept under a source-qualified key, so nothing is lost.
func mergeAdditionalProperties(cluster dedup.Cluster) map[string]any {
	merged := make(map[string]any)
	for _, draft := range cluster {
		for _, key := range sortedKeys(draft.AdditionalProperties) {
			value := draft.AdditionalProperties[key]
			existing, ok := merged[key]
			if !ok {
				merged[key] = value
				continue
			}
			if fmt.Sprintf("%v", existing) == fmt.Sprintf("%v", value) {
				continue
			}
			merged[fmt.Sprintf("%s@%s", key, draft.Source.Source)] = value
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}

// checkTypeCoherence reports an error when a cluster holds canonical types
// that should never have been clustered together.
func checkTypeCoherence(cluster dedup.Cluster) error {
	for i := 1; i < len(cluster); i++ {
		if !models.CompatibleTypes(cluster[0].Type, cluster[i].Type) {
			return fmt.Errorf("cluster for %q mixes incompatible types %s and %s",
				cluster[0].Name, cluster[0].Type, cluster[i].Type)
		}
	}
	return nil
}

// pickWinner returns the index of the cluster member preferred by the
// resolution policy among those satisfying ok.
func pickWinner(cluster dedup.Cluster, ok func(*models.OrganisationDraft) bool) int {
	winner := -1
	for i, draft := range cluster {
		if !ok(draft) {
			continue
		}
		if winner < 0 {
			winner = i
			continue
		}
		cw, cc := cluster[winner].Source, draft.Source
		if cc.Confidence > cw.Confidence ||
			(cc.Confidence == cw.Confidence && cc.RetrievedAt.After(cw.RetrievedAt)) {
			winner = i
		}
	}
	if winner < 0 {
		return 0
	}
	return winner
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
