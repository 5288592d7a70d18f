package models

import "time"

// OrganisationStatus describes the operational state of an organisation.
type OrganisationStatus string

const (
	StatusActive    OrganisationStatus = "active"
	StatusInactive  OrganisationStatus = "inactive"
	StatusDissolved OrganisationStatus = "dissolved"
)

// ValidStatus reports whether s is a recognised status value.
func ValidStatus(s OrganisationStatus) bool {
	return s == StatusActive || s == StatusInactive || s == StatusDissolved
}

// Location is an optional structured address for an organisation.
type Location struct {
	Address   string   `json:"address,omitempty"`
	Region    string   `json:"region,omitempty"`
	Country   string   `json:"country,omitempty"`
	Postcode  string   `json:"postcode,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Empty reports whether no component of the location is populated.
func (l *Location) Empty() bool {
	if l == nil {
		return true
	}
	return l.Address == "" && l.Region == "" && l.Country == "" &&
		l.Postcode == "" && l.Latitude == nil && l.Longitude == nil
}

// DataSourceReference records which upstream source contributed a record.
// One reference is created per ingested raw record and is immutable from
// then on; merges copy references, they never recompute them.
type DataSourceReference struct {
	Source      DataSourceType `json:"source"`
	SourceID    string         `json:"sourceId,omitempty"`
	RetrievedAt time.Time      `json:"retrievedAt"`
	URL         string         `json:"url,omitempty"`
	Confidence  float64        `json:"confidence"`
}

// DataQuality is the computed quality block attached to every organisation.
// It is recomputed whenever the owning organisation is merged or mutated.
type DataQuality struct {
	Completeness   float64  `json:"completeness"`
	HasConflicts   bool     `json:"hasConflicts"`
	ConflictFields []string `json:"conflictFields,omitempty"`
	RequiresReview bool     `json:"requiresReview"`
	ReviewReasons  []string `json:"reviewReasons,omitempty"`
}

// Organisation is the canonical unified entity produced by the pipeline.
//
// Invariants: Sources always holds at least one reference and only ever
// grows across merges; ID is stable across runs given identical input.
type Organisation struct {
	ID                   string                `json:"id"`
	Name                 string                `json:"name"`
	AlternativeNames     []string              `json:"alternativeNames,omitempty"`
	Type                 OrganisationType      `json:"type"`
	Classification       string                `json:"classification,omitempty"`
	ParentOrganisation   string                `json:"parentOrganisation,omitempty"`
	ControllingUnit      string                `json:"controllingUnit,omitempty"`
	Status               OrganisationStatus    `json:"status"`
	EstablishmentDate    *time.Time            `json:"establishmentDate,omitempty"`
	DissolutionDate      *time.Time            `json:"dissolutionDate,omitempty"`
	Location             *Location             `json:"location,omitempty"`
	Sources              []DataSourceReference `json:"sources"`
	DataQuality          DataQuality           `json:"dataQuality"`
	LastUpdated          time.Time             `json:"lastUpdated"`
	AdditionalProperties map[string]any        `json:"additionalProperties,omitempty"`
}

// OrganisationDraft is a single source-originated record after field
// mapping, before deduplication and merge. NormalisedName and SourceKey are
// filled in by the identity stage.
type OrganisationDraft struct {
	Name                 string
	NormalisedName       string
	Type                 OrganisationType
	Classification       string
	ParentOrganisation   string
	ControllingUnit      string
	Status               OrganisationStatus
	EstablishmentDate    *time.Time
	DissolutionDate      *time.Time
	Location             *Location
	Source               DataSourceReference
	SourceKey            string
	AdditionalProperties map[string]any
}
