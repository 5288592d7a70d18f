package models

import "sort"

// DataSourceType identifies one of the upstream listings the pipeline
// aggregates. The value doubles as the stable id prefix for organisations
// first seen in that source.
type DataSourceType string

const (
	SourceGovUKAPI             DataSourceType = "govuk-api"
	SourceGovUKDepartments     DataSourceType = "govuk-departments"
	SourceNHSProviderDirectory DataSourceType = "nhs-provider-directory"
	SourceNHSTrusts            DataSourceType = "nhs-trusts"
	SourceNHSDigitalODS        DataSourceType = "nhs-digital-ods"
	SourceONSPublicSector      DataSourceType = "ons-public-sector"
	SourceONSGeography         DataSourceType = "ons-geography"
	SourceLocalAuthoritiesEng  DataSourceType = "local-authorities-england"
	SourceLocalAuthoritiesSco  DataSourceType = "local-authorities-scotland"
	SourceLocalAuthoritiesWal  DataSourceType = "local-authorities-wales"
	SourceLocalAuthoritiesNI   DataSourceType = "local-authorities-ni"
	SourceScottishGovernment   DataSourceType = "scottish-government"
	SourceWelshGovernment      DataSourceType = "welsh-government"
	SourceNIExecutive          DataSourceType = "ni-executive"
	SourcePoliceForces         DataSourceType = "police-forces"
	SourceFireServices         DataSourceType = "fire-services"
	SourceCourtsTribunals      DataSourceType = "courts-tribunals"
	SourceGetInformationSchool DataSourceType = "get-information-schools"
	SourceFECollegesRegister   DataSourceType = "fe-colleges"
	SourceHESAProviders        DataSourceType = "hesa-providers"
	SourceCommunityCouncilsWal DataSourceType = "community-councils-wales"
	SourceCommunityCouncilsSco DataSourceType = "community-councils-scotland"
	SourceParishCouncils       DataSourceType = "parish-councils"
	SourceNDPBRegister         DataSourceType = "ndpb-register"
	SourcePublicBodiesDir      DataSourceType = "public-bodies-directory"
	SourceTransportBodies      DataSourceType = "transport-bodies"
	SourceHealthBoardsScotland DataSourceType = "health-boards-scotland"
	SourceHealthBoardsWales    DataSourceType = "health-boards-wales"
	SourceCharityCommission    DataSourceType = "charity-commission"
	SourceWikidataPublicBodies DataSourceType = "wikidata-public-bodies"
)

// sourceInfo carries per-source metadata used during mapping and reporting.
type sourceInfo struct {
	displayName string
	confidence  float64
}

// Registry APIs and statutory registers get full confidence; scraped pages
// and third-party aggregations are judged less authoritative, which matters
// for conflict tie-breaking.
var sourceCatalogue = map[DataSourceType]sourceInfo{
	SourceGovUKAPI:             {"GOV.UK Organisations API", 1.0},
	SourceGovUKDepartments:     {"GOV.UK Departments page", 0.8},
	SourceNHSProviderDirectory: {"NHS Provider Directory", 0.9},
	SourceNHSTrusts:            {"NHS Trusts listing", 0.9},
	SourceNHSDigitalODS:        {"NHS Digital ODS", 1.0},
	SourceONSPublicSector:      {"ONS Public Sector Classification Guide", 1.0},
	SourceONSGeography:         {"ONS Geography register", 1.0},
	SourceLocalAuthoritiesEng:  {"English local authorities", 0.9},
	SourceLocalAuthoritiesSco:  {"Scottish local authorities", 0.9},
	SourceLocalAuthoritiesWal:  {"Welsh local authorities", 0.9},
	SourceLocalAuthoritiesNI:   {"Northern Ireland councils", 0.9},
	SourceScottishGovernment:   {"Scottish Government directorates", 0.9},
	SourceWelshGovernment:      {"Welsh Government bodies", 0.9},
	SourceNIExecutive:          {"Northern Ireland Executive departments", 0.9},
	SourcePoliceForces:         {"UK police forces", 0.8},
	SourceFireServices:         {"Fire and rescue services", 0.8},
	SourceCourtsTribunals:      {"Courts and tribunals finder", 0.8},
	SourceGetInformationSchool: {"Get Information about Schools", 1.0},
	SourceFECollegesRegister:   {"FE colleges register", 0.9},
	SourceHESAProviders:        {"HESA higher education providers", 0.9},
	SourceCommunityCouncilsWal: {"Welsh community councils", 0.7},
	SourceCommunityCouncilsSco: {"Scottish community councils", 0.7},
	SourceParishCouncils:       {"English parish councils", 0.6},
	SourceNDPBRegister:         {"Public bodies NDPB register", 1.0},
	SourcePublicBodiesDir:      {"Public bodies directory", 0.8},
	SourceTransportBodies:      {"Transport authorities", 0.8},
	SourceHealthBoardsScotland: {"NHS Scotland health boards", 0.9},
	SourceHealthBoardsWales:    {"NHS Wales health boards", 0.9},
	SourceCharityCommission:    {"Charity Commission register", 0.9},
	SourceWikidataPublicBodies: {"Wikidata public bodies", 0.5},
}

// DisplayName returns the human-readable name of the source, falling back to
// the raw identifier for unregistered sources.
func (st DataSourceType) DisplayName() string {
	if info, ok := sourceCatalogue[st]; ok {
		return info.displayName
	}
	return string(st)
}

// DefaultConfidence returns the default confidence attached to records from
// this source. Unknown sources are treated as low-trust.
func (st DataSourceType) DefaultConfidence() float64 {
	if info, ok := sourceCatalogue[st]; ok {
		return info.confidence
	}
	return 0.5
}

// KnownSources returns every registered source type in stable order.
func KnownSources() []DataSourceType {
	sources := make([]DataSourceType, 0, len(sourceCatalogue))
	for st := range sourceCatalogue {
		sources = append(sources, st)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return sources
}
