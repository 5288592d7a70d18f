package mapping

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"ukorgs/config"
	"ukorgs/models"
)

// MappingError reports a single raw record that could not be converted into
// a draft. The batch carries on without the record.
type MappingError struct {
	Source   models.DataSourceType
	RecordID string
	Field    string
	Reason   string
}

// Error implements the error interface.
func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping failed for record %q from %s: field %q: %s",
		e.RecordID, e.Source, e.Field, e.Reason)
}

// FieldMapper converts raw source records into organisation drafts by
// applying the declarative rule set registered for the record's source.
type FieldMapper struct {
	cfg      *config.Config
	ruleSets map[models.DataSourceType]RuleSet
	logger   *slog.Logger
}

// NewFieldMapper creates a mapper with the default rule sets. Sources
// without an explicit rule set fall back to the generic rules, which match
// the common column names used across the listings.
func NewFieldMapper(cfg *config.Config) *FieldMapper {
	return &FieldMapper{
		cfg:      cfg,
		ruleSets: DefaultRuleSets(),
		logger:   slog.Default().With("component", "field_mapper"),
	}
}

// RegisterRuleSet installs or replaces the rule set for one source.
func (fm *FieldMapper) RegisterRuleSet(rs RuleSet) {
	fm.ruleSets[rs.Source] = rs
}

// Map converts one raw record into a draft. retrievedAt is the fetch
// timestamp of the batch the record arrived in. A returned error is always a
// *MappingError; the caller records it and moves on.
func (fm *FieldMapper) Map(raw models.RawRecord, source models.DataSourceType, retrievedAt time.Time) (*models.OrganisationDraft, error) {
	ruleSet := fm.rulesFor(source)
	rules := ruleSet.Rules

	// Status is deliberately left unset: a draft only asserts a status when
	// the source actually carried one. The merged organisation defaults to
	// active when no member asserted anything.
	draft := &models.OrganisationDraft{
		Type: models.TypeOther,
		Source: models.DataSourceReference{
			Source:      source,
			RetrievedAt: retrievedAt,
			Confidence:  fm.cfg.ConfidenceFor(source),
		},
		AdditionalProperties: make(map[string]any),
	}

	// Top-level field names consumed by some rule; everything else passes
	// through to additionalProperties untouched.
	mapped := make(map[string]bool)
	// Target slots already filled by an earlier rule.
	assigned := make(map[string]bool)

	for _, rule := range rules {
		value, ok := raw.Get(rule.SourceField)
		if !ok {
			if rule.Required {
				return nil, &MappingError{
					Source:   source,
					RecordID: draft.Source.SourceID,
					Field:    rule.SourceField,
					Reason:   "required field missing",
				}
			}
			continue
		}
		mapped[rootField(rule.SourceField)] = true

		if rule.Transformer != "" {
			transformer, found := LookupTransformer(rule.Transformer)
			if !found {
				return nil, &MappingError{
					Source:   source,
					RecordID: draft.Source.SourceID,
					Field:    rule.SourceField,
					Reason:   fmt.Sprintf("unknown transformer %q", rule.Transformer),
				}
			}
			transformed, err := transformer(value)
			if err != nil {
				if rule.Required {
					return nil, &MappingError{
						Source:   source,
						RecordID: draft.Source.SourceID,
						Field:    rule.SourceField,
						Reason:   err.Error(),
					}
				}
				fm.logger.Debug("transformer rejected optional field",
					"source", source, "field", rule.SourceField, "error", err)
				continue
			}
			value = transformed
		}

		// First matching rule wins per target slot; later rules for the
		// same slot act as fallbacks for sources with variant columns.
		if assigned[rule.TargetField] {
			continue
		}
		assigned[rule.TargetField] = true

		if err := fm.assign(draft, rule.TargetField, value); err != nil {
			return nil, &MappingError{
				Source:   source,
				RecordID: draft.Source.SourceID,
				Field:    rule.SourceField,
				Reason:   err.Error(),
			}
		}
	}

	if strings.TrimSpace(draft.Name) == "" {
		return nil, &MappingError{
			Source:   source,
			RecordID: draft.Source.SourceID,
			Field:    TargetName,
			Reason:   "mapped record has no name",
		}
	}
	if n := utf8.RuneCountInString(draft.Name); n > 500 {
		return nil, &MappingError{
			Source:   source,
			RecordID: draft.Source.SourceID,
			Field:    TargetName,
			Reason:   fmt.Sprintf("name exceeds 500 characters (%d)", n),
		}
	}

	// No-matching-rule passthrough: unmapped source fields must survive.
	for _, field := range raw.FieldNames() {
		if mapped[field] {
			continue
		}
		if value, ok := raw.Get(field); ok {
			draft.AdditionalProperties[field] = value
		}
	}

	if pageURL := scrapedPageURL(raw); pageURL != "" && draft.Source.URL == "" {
		draft.Source.URL = pageURL
	}

	if draft.Type == models.TypeOther && ruleSet.DefaultType != "" {
		draft.Type = ruleSet.DefaultType
	}

	return draft, nil
}

func (fm *FieldMapper) rulesFor(source models.DataSourceType) RuleSet {
	if rs, ok := fm.ruleSets[source]; ok {
		return rs
	}
	return RuleSet{Source: source, Rules: genericRules}
}

// assign places a transformed value into its canonical slot.
func (fm *FieldMapper) assign(draft *models.OrganisationDraft, target string, value any) error {
	asString := func() string { return strings.TrimSpace(fmt.Sprintf("%v", value)) }

	switch target {
	case TargetName:
		draft.Name = asString()
	case TargetType:
		orgType, ok := value.(models.OrganisationType)
		if !ok {
			orgType = models.ClassifyOrganisationType(asString())
		}
		draft.Type = orgType
	case TargetClassification:
		draft.Classification = asString()
	case TargetParent:
		draft.ParentOrganisation = asString()
	case TargetControllingUnit:
		draft.ControllingUnit = asString()
	case TargetStatus:
		status, ok := value.(models.OrganisationStatus)
		if !ok {
			return fmt.Errorf("status rule must use the status transformer")
		}
		draft.Status = status
	case TargetEstablishmentDate:
		t, ok := value.(*time.Time)
		if !ok {
			return fmt.Errorf("date rule must use the date transformer")
		}
		draft.EstablishmentDate = t
	case TargetDissolutionDate:
		t, ok := value.(*time.Time)
		if !ok {
			return fmt.Errorf("date rule must use the date transformer")
		}
		draft.DissolutionDate = t
	case TargetAddress:
		ensureLocation(draft).Address = asString()
	case TargetRegion:
		ensureLocation(draft).Region = asString()
	case TargetCountry:
		ensureLocation(draft).Country = asString()
	case TargetPostcode:
		ensureLocation(draft).Postcode = asString()
	case TargetSourceKey:
		key := asString()
		draft.SourceKey = key
		if draft.Source.SourceID == "" {
			draft.Source.SourceID = key
		}
	case TargetURL:
		draft.Source.URL = asString()
	default:
		return fmt.Errorf("unknown target field %q", target)
	}
	return nil
}

func ensureLocation(draft *models.OrganisationDraft) *models.Location {
	if draft.Location == nil {
		draft.Location = &models.Location{}
	}
	return draft.Location
}

func rootField(sourceField string) string {
	if i := strings.Index(sourceField, "."); i > 0 {
		return sourceField[:i]
	}
	return sourceField
}

func scrapedPageURL(raw models.RawRecord) string {
	if scraped, ok := raw.(models.ScrapedRecord); ok {
		return scraped.PageURL
	}
	return ""
}
