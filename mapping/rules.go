package mapping

import (
	"fmt"
	"strings"
	"time"

	"ukorgs/models"
)

// FieldRule is one declarative mapping instruction: copy SourceField from
// the raw record into TargetField on the draft, optionally through a named
// transformer. SourceField supports dotted paths into nested JSON.
type FieldRule struct {
	SourceField string `json:"sourceField"`
	TargetField string `json:"targetField"`
	Transformer string `json:"transformer,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// RuleSet is the ordered list of rules for one source type. DefaultType,
// when set, applies to records the rules could not classify; some sources
// list only one kind of body and carry no classification column at all.
type RuleSet struct {
	Source      models.DataSourceType
	DefaultType models.OrganisationType
	Rules       []FieldRule
}

// Canonical target slot names accepted by the mapper. Anything else in a
// rule is a programming error caught at map time.
const (
	TargetName              = "name"
	TargetType              = "type"
	TargetClassification    = "classification"
	TargetParent            = "parentOrganisation"
	TargetControllingUnit   = "controllingUnit"
	TargetStatus            = "status"
	TargetEstablishmentDate = "establishmentDate"
	TargetDissolutionDate   = "dissolutionDate"
	TargetAddress           = "location.address"
	TargetRegion            = "location.region"
	TargetCountry           = "location.country"
	TargetPostcode          = "location.postcode"
	TargetSourceKey         = "sourceKey"
	TargetURL               = "url"
)

// Transformer converts a raw field value on its way into a canonical slot.
type Transformer func(value any) (any, error)

// transformers is the named transformer registry referenced by rules.
var transformers = map[string]Transformer{
	"trim":             transformTrim,
	"organisationType": transformOrganisationType,
	"status":           transformStatus,
	"date":             transformDate,
}

// LookupTransformer resolves a named transformer.
func LookupTransformer(name string) (Transformer, bool) {
	t, ok := transformers[name]
	return t, ok
}

func transformTrim(value any) (any, error) {
	return strings.TrimSpace(fmt.Sprintf("%v", value)), nil
}

// transformOrganisationType maps a free-text classification onto the closed
// canonical enum, falling back to "other" rather than failing the record.
func transformOrganisationType(value any) (any, error) {
	return models.ClassifyOrganisationType(fmt.Sprintf("%v", value)), nil
}

// statusAliases collects the status spellings observed across the sources.
var statusAliases = map[string]models.OrganisationStatus{
	"active":      models.StatusActive,
	"live":        models.StatusActive,
	"open":        models.StatusActive,
	"operational": models.StatusActive,
	"inactive":    models.StatusInactive,
	"dormant":     models.StatusInactive,
	"suspended":   models.StatusInactive,
	"dissolved":   models.StatusDissolved,
	"closed":      models.StatusDissolved,
	"defunct":     models.StatusDissolved,
	"abolished":   models.StatusDissolved,
	"merged":      models.StatusDissolved,
}

func transformStatus(value any) (any, error) {
	s := strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", value)))
	if status, ok := statusAliases[s]; ok {
		return status, nil
	}
	return nil, fmt.Errorf("unrecognised status value %q", s)
}

// dateLayouts covers the date formats seen across the source files.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
	"2 January 2006",
	"January 2006",
	"2006",
}

func transformDate(value any) (any, error) {
	if t, ok := value.(time.Time); ok {
		return &t, nil
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", value))
	if s == "" {
		return nil, fmt.Errorf("empty date value")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unparseable date value %q", s)
}
