package quality

import (
	"fmt"
	"sort"

	"ukorgs/config"
	"ukorgs/models"
)

// Scorer computes the data-quality block for merged organisations. All
// thresholds come from configuration so tests can tighten or loosen them.
type Scorer struct {
	cfg *config.Config
}

// NewScorer creates a scorer.
func NewScorer(cfg *config.Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// assessedField describes one canonical field's contribution to the
// completeness score. Required fields weigh 1.0, optional ones 0.5; fields
// that do not apply to an organisation's type are excluded from the
// denominator entirely.
type assessedField struct {
	name       string
	weight     float64
	applicable func(*models.Organisation) bool
	populated  func(*models.Organisation) bool
}

var always = func(*models.Organisation) bool { return true }

// sponsoredTypes are the categories that normally have a parent or
// sponsoring body, so those fields only count against them.
var sponsoredTypes = map[models.OrganisationType]bool{
	models.TypeExecutiveAgency:    true,
	models.TypeExecutiveNDPB:      true,
	models.TypeAdvisoryNDPB:       true,
	models.TypeTribunalNDPB:       true,
	models.TypeNHSTrust:           true,
	models.TypeNHSFoundationTrust: true,
	models.TypePublicCorporation:  true,
}

var assessedFields = []assessedField{
	{
		name: "name", weight: 1.0, applicable: always,
		populated: func(o *models.Organisation) bool { return o.Name != "" },
	},
	{
		name: "type", weight: 1.0, applicable: always,
		populated: func(o *models.Organisation) bool { return o.Type != models.TypeOther },
	},
	{
		name: "status", weight: 1.0, applicable: always,
		populated: func(o *models.Organisation) bool { return models.ValidStatus(o.Status) },
	},
	{
		name: "classification", weight: 0.5, applicable: always,
		populated: func(o *models.Organisation) bool { return o.Classification != "" },
	},
	{
		name: "parentOrganisation", weight: 0.5,
		applicable: func(o *models.Organisation) bool { return sponsoredTypes[o.Type] },
		populated:  func(o *models.Organisation) bool { return o.ParentOrganisation != "" },
	},
	{
		name: "controllingUnit", weight: 0.5,
		applicable: func(o *models.Organisation) bool { return sponsoredTypes[o.Type] },
		populated:  func(o *models.Organisation) bool { return o.ControllingUnit != "" },
	},
	{
		name: "establishmentDate", weight: 0.5, applicable: always,
		populated: func(o *models.Organisation) bool { return o.EstablishmentDate != nil },
	},
	{
		name: "dissolutionDate", weight: 0.5,
		applicable: func(o *models.Organisation) bool { return o.Status == models.StatusDissolved },
		populated:  func(o *models.Organisation) bool { return o.DissolutionDate != nil },
	},
	{
		name: "location", weight: 0.5, applicable: always,
		populated: func(o *models.Organisation) bool { return !o.Location.Empty() },
	},
	{
		name: "url", weight: 0.5, applicable: always,
		populated: func(o *models.Organisation) bool {
			for _, src := range o.Sources {
				if src.URL != "" {
					return true
				}
			}
			return false
		},
	},
}

// Score computes the quality block. conflictFields lists the fields the
// merger flagged; nil means no conflicts were detected.
func (s *Scorer) Score(org *models.Organisation, conflictFields []string) models.DataQuality {
	completeness := s.completeness(org)

	dq := models.DataQuality{
		Completeness: completeness,
		HasConflicts: len(conflictFields) > 0,
	}
	if len(conflictFields) > 0 {
		fields := append([]string(nil), conflictFields...)
		sort.Strings(fields)
		dq.ConflictFields = fields
		dq.ReviewReasons = append(dq.ReviewReasons,
			fmt.Sprintf("conflicting values for: %v", fields))
	}

	if completeness < s.cfg.MinCompleteness {
		dq.ReviewReasons = append(dq.ReviewReasons,
			fmt.Sprintf("completeness %.2f below minimum %.2f", completeness, s.cfg.MinCompleteness))
	}
	for _, src := range org.Sources {
		if src.Confidence < s.cfg.LowConfidence {
			dq.ReviewReasons = append(dq.ReviewReasons,
				fmt.Sprintf("low-confidence source: %s", src.Source))
			break
		}
	}

	dq.RequiresReview = len(dq.ReviewReasons) > 0
	return dq
}

// completeness returns the weighted populated fraction, strictly in [0,1].
func (s *Scorer) completeness(org *models.Organisation) float64 {
	var populated, total float64
	for _, field := range assessedFields {
		if !field.applicable(org) {
			continue
		}
		total += field.weight
		if field.populated(org) {
			populated += field.weight
		}
	}
	if total == 0 {
		return 0
	}
	score := populated / total
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
