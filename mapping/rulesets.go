package mapping

import "ukorgs/models"

// genericRules match the column and field names that recur across the
// listings. Sources without a registered rule set use these; candidate
// rules for the same target are ordered most- to least-preferred.
var genericRules = []FieldRule{
	{SourceField: "name", TargetField: TargetName, Transformer: "trim"},
	{SourceField: "Name", TargetField: TargetName, Transformer: "trim"},
	{SourceField: "title", TargetField: TargetName, Transformer: "trim"},
	{SourceField: "organisation", TargetField: TargetName, Transformer: "trim"},
	{SourceField: "classification", TargetField: TargetClassification, Transformer: "trim"},
	{SourceField: "type", TargetField: TargetClassification, Transformer: "trim"},
	{SourceField: "classification", TargetField: TargetType, Transformer: "organisationType"},
	{SourceField: "type", TargetField: TargetType, Transformer: "organisationType"},
	{SourceField: "status", TargetField: TargetStatus, Transformer: "status"},
	{SourceField: "parent", TargetField: TargetParent, Transformer: "trim"},
	{SourceField: "sponsor", TargetField: TargetControllingUnit, Transformer: "trim"},
	{SourceField: "code", TargetField: TargetSourceKey, Transformer: "trim"},
	{SourceField: "id", TargetField: TargetSourceKey, Transformer: "trim"},
	{SourceField: "region", TargetField: TargetRegion, Transformer: "trim"},
	{SourceField: "country", TargetField: TargetCountry, Transformer: "trim"},
	{SourceField: "address", TargetField: TargetAddress, Transformer: "trim"},
	{SourceField: "postcode", TargetField: TargetPostcode, Transformer: "trim"},
	{SourceField: "url", TargetField: TargetURL, Transformer: "trim"},
	{SourceField: "website", TargetField: TargetURL, Transformer: "trim"},
	{SourceField: "established", TargetField: TargetEstablishmentDate, Transformer: "date"},
	{SourceField: "dissolved", TargetField: TargetDissolutionDate, Transformer: "date"},
}

// DefaultRuleSets builds the per-source rule sets for the sources whose
// shapes differ from the generic column names. The GOV.UK API nests most of
// the useful fields under "details".
func DefaultRuleSets() map[models.DataSourceType]RuleSet {
	sets := []RuleSet{
		{
			Source: models.SourceGovUKAPI,
			Rules: []FieldRule{
				{SourceField: "title", TargetField: TargetName, Transformer: "trim", Required: true},
				{SourceField: "format", TargetField: TargetClassification, Transformer: "trim"},
				{SourceField: "format", TargetField: TargetType, Transformer: "organisationType"},
				{SourceField: "details.govuk_status", TargetField: TargetStatus, Transformer: "status"},
				{SourceField: "details.slug", TargetField: TargetSourceKey, Transformer: "trim"},
				{SourceField: "parent_organisations.0.title", TargetField: TargetParent, Transformer: "trim"},
				{SourceField: "web_url", TargetField: TargetURL, Transformer: "trim"},
				{SourceField: "details.closed_at", TargetField: TargetDissolutionDate, Transformer: "date"},
			},
		},
		{
			Source: models.SourceNHSDigitalODS,
			Rules: []FieldRule{
				{SourceField: "Name", TargetField: TargetName, Transformer: "trim", Required: true},
				{SourceField: "OrgId", TargetField: TargetSourceKey, Transformer: "trim", Required: true},
				{SourceField: "Status", TargetField: TargetStatus, Transformer: "status"},
				{SourceField: "PrimaryRoleDescription", TargetField: TargetClassification, Transformer: "trim"},
				{SourceField: "PrimaryRoleDescription", TargetField: TargetType, Transformer: "organisationType"},
				{SourceField: "PostCode", TargetField: TargetPostcode, Transformer: "trim"},
				{SourceField: "Country", TargetField: TargetCountry, Transformer: "trim"},
			},
		},
		{
			Source: models.SourceONSPublicSector,
			Rules: []FieldRule{
				{SourceField: "Organisation name", TargetField: TargetName, Transformer: "trim", Required: true},
				{SourceField: "ONS code", TargetField: TargetSourceKey, Transformer: "trim"},
				{SourceField: "Sector classification", TargetField: TargetClassification, Transformer: "trim"},
				{SourceField: "Sector classification", TargetField: TargetType, Transformer: "organisationType"},
				{SourceField: "Sponsoring department", TargetField: TargetControllingUnit, Transformer: "trim"},
				{SourceField: "Region", TargetField: TargetRegion, Transformer: "trim"},
			},
		},
		{
			Source: models.SourceGetInformationSchool,
			Rules: []FieldRule{
				{SourceField: "EstablishmentName", TargetField: TargetName, Transformer: "trim", Required: true},
				{SourceField: "URN", TargetField: TargetSourceKey, Transformer: "trim", Required: true},
				{SourceField: "EstablishmentStatus (name)", TargetField: TargetStatus, Transformer: "status"},
				{SourceField: "TypeOfEstablishment (name)", TargetField: TargetClassification, Transformer: "trim"},
				{SourceField: "TypeOfEstablishment (name)", TargetField: TargetType, Transformer: "organisationType"},
				{SourceField: "LA (name)", TargetField: TargetControllingUnit, Transformer: "trim"},
				{SourceField: "Postcode", TargetField: TargetPostcode, Transformer: "trim"},
				{SourceField: "GOR (name)", TargetField: TargetRegion, Transformer: "trim"},
				{SourceField: "OpenDate", TargetField: TargetEstablishmentDate, Transformer: "date"},
				{SourceField: "CloseDate", TargetField: TargetDissolutionDate, Transformer: "date"},
			},
		},
		{
			Source:      models.SourcePoliceForces,
			DefaultType: models.TypeEmergencyService,
			Rules: []FieldRule{
				{SourceField: "force", TargetField: TargetName, Transformer: "trim", Required: true},
				{SourceField: "id", TargetField: TargetSourceKey, Transformer: "trim"},
				{SourceField: "region", TargetField: TargetRegion, Transformer: "trim"},
				{SourceField: "url", TargetField: TargetURL, Transformer: "trim"},
			},
		},
	}

	byType := make(map[models.DataSourceType]RuleSet, len(sets))
	for _, rs := range sets {
		byType[rs.Source] = rs
	}
	return byType
}
