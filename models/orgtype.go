package models

import "strings"

// OrganisationType is the closed set of canonical organisation categories.
// Source classification strings are mapped onto it during field mapping; the
// verbatim source string is kept separately in Organisation.Classification.
type OrganisationType string

const (
	TypeMinisterialDepartment OrganisationType = "ministerial-department"
	TypeExecutiveAgency       OrganisationType = "executive-agency"
	TypeLocalAuthority        OrganisationType = "local-authority"
	TypeNHSTrust              OrganisationType = "nhs-trust"
	TypeNHSFoundationTrust    OrganisationType = "nhs-foundation-trust"
	TypeExecutiveNDPB         OrganisationType = "executive-ndpb"
	TypeAdvisoryNDPB          OrganisationType = "advisory-ndpb"
	TypeTribunalNDPB          OrganisationType = "tribunal-ndpb"
	TypePublicCorporation     OrganisationType = "public-corporation"
	TypeDevolvedAdministr     OrganisationType = "devolved-administration"
	TypeEmergencyService      OrganisationType = "emergency-service"
	TypeJudicialBody          OrganisationType = "judicial-body"
	TypeCollege               OrganisationType = "college"
	TypeCommunityCouncil      OrganisationType = "community-council"
	TypeHealthBody            OrganisationType = "health-body"
	TypeTransportBody         OrganisationType = "transport-body"
	TypeOther                 OrganisationType = "other"
)

// classificationPatterns maps lowercase substrings of source classification
// strings to canonical types. Order matters: more specific patterns first
// ("foundation trust" before "trust").
var classificationPatterns = []struct {
	substring string
	orgType   OrganisationType
}{
	{"ministerial department", TypeMinisterialDepartment},
	{"non-ministerial department", TypeMinisterialDepartment},
	{"executive agency", TypeExecutiveAgency},
	{"foundation trust", TypeNHSFoundationTrust},
	{"nhs trust", TypeNHSTrust},
	{"care trust", TypeNHSTrust},
	{"health board", TypeHealthBody},
	{"clinical commissioning", TypeHealthBody},
	{"integrated care", TypeHealthBody},
	{"executive non-departmental", TypeExecutiveNDPB},
	{"advisory non-departmental", TypeAdvisoryNDPB},
	{"tribunal non-departmental", TypeTribunalNDPB},
	{"tribunal", TypeTribunalNDPB},
	{"public corporation", TypePublicCorporation},
	{"devolved administration", TypeDevolvedAdministr},
	{"devolved government", TypeDevolvedAdministr},
	{"unitary authority", TypeLocalAuthority},
	{"county council", TypeLocalAuthority},
	{"district council", TypeLocalAuthority},
	{"borough council", TypeLocalAuthority},
	{"city council", TypeLocalAuthority},
	{"metropolitan", TypeLocalAuthority},
	{"local authority", TypeLocalAuthority},
	{"community council", TypeCommunityCouncil},
	{"parish council", TypeCommunityCouncil},
	{"town council", TypeCommunityCouncil},
	{"police", TypeEmergencyService},
	{"fire and rescue", TypeEmergencyService},
	{"fire service", TypeEmergencyService},
	{"ambulance", TypeEmergencyService},
	{"court", TypeJudicialBody},
	{"judiciary", TypeJudicialBody},
	{"magistrates", TypeJudicialBody},
	{"college", TypeCollege},
	{"university", TypeCollege},
	{"school", TypeCollege},
	{"passenger transport", TypeTransportBody},
	{"transport executive", TypeTransportBody},
	{"transport authority", TypeTransportBody},
	{"combined authority", TypeLocalAuthority},
}

// ClassifyOrganisationType maps a free-text source classification onto the
// canonical enum. Unrecognised classifications fall back to TypeOther rather
// than failing the record.
func ClassifyOrganisationType(classification string) OrganisationType {
	c := strings.ToLower(strings.TrimSpace(classification))
	if c == "" {
		return TypeOther
	}
	for _, p := range classificationPatterns {
		if strings.Contains(c, p.substring) {
			return p.orgType
		}
	}
	return TypeOther
}

// ValidOrganisationType reports whether t is a member of the canonical enum.
func ValidOrganisationType(t OrganisationType) bool {
	switch t {
	case TypeMinisterialDepartment, TypeExecutiveAgency, TypeLocalAuthority,
		TypeNHSTrust, TypeNHSFoundationTrust, TypeExecutiveNDPB,
		TypeAdvisoryNDPB, TypeTribunalNDPB, TypePublicCorporation,
		TypeDevolvedAdministr, TypeEmergencyService, TypeJudicialBody,
		TypeCollege, TypeCommunityCouncil, TypeHealthBody, TypeTransportBody,
		TypeOther:
		return true
	}
	return false
}

// CompatibleTypes reports whether two canonical types may belong to the same
// real-world organisation. Drafts of incompatible types are never clustered,
// whatever their name similarity. TypeOther is compatible with everything
// because it usually means the source carried no classification at all.
func CompatibleTypes(a, b OrganisationType) bool {
	if a == b || a == TypeOther || b == TypeOther {
		return true
	}
	// NHS trusts convert to foundation trusts without changing identity.
	if (a == TypeNHSTrust && b == TypeNHSFoundationTrust) ||
		(a == TypeNHSFoundationTrust && b == TypeNHSTrust) {
		return true
	}
	// Community and local councils overlap in several source listings.
	if (a == TypeLocalAuthority && b == TypeCommunityCouncil) ||
		(a == TypeCommunityCouncil && b == TypeLocalAuthority) {
		return true
	}
	return false
}
