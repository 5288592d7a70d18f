package models

import "testing"

// TestClassifyOrganisationType checks the substring table over realistic
// source classification strings.
func TestClassifyOrganisationType(t *testing.T) {
	tests := []struct {
		name           string
		classification string
		want           OrganisationType
	}{
		{"ministerial", "Ministerial department", TypeMinisterialDepartment},
		{"executive agency", "Executive agency", TypeExecutiveAgency},
		{"foundation trust before trust", "NHS foundation trust", TypeNHSFoundationTrust},
		{"plain nhs trust", "NHS trust", TypeNHSTrust},
		{"borough council", "London borough council", TypeLocalAuthority},
		{"parish", "Parish council", TypeCommunityCouncil},
		{"police", "Territorial police force", TypeEmergencyService},
		{"school", "Community school", TypeCollege},
		{"case insensitive", "EXECUTIVE NON-DEPARTMENTAL PUBLIC BODY", TypeExecutiveNDPB},
		{"unknown", "Something else entirely", TypeOther},
		{"empty", "", TypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyOrganisationType(tt.classification)
			if got != tt.want {
				t.Errorf("ClassifyOrganisationType(%q) = %s, want %s", tt.classification, got, tt.want)
			}
		})
	}
}

// TestValidOrganisationType checks membership of the canonical enum.
func TestValidOrganisationType(t *testing.T) {
	if !ValidOrganisationType(TypeLocalAuthority) {
		t.Error("TypeLocalAuthority must be valid")
	}
	if !ValidOrganisationType(TypeOther) {
		t.Error("TypeOther must be valid")
	}
	if ValidOrganisationType(OrganisationType("quango")) {
		t.Error("arbitrary strings must not validate")
	}
}

// TestCompatibleTypes checks the clustering gate, including its symmetry.
func TestCompatibleTypes(t *testing.T) {
	tests := []struct {
		name string
		a    OrganisationType
		b    OrganisationType
		want bool
	}{
		{"equal", TypeLocalAuthority, TypeLocalAuthority, true},
		{"other wildcard", TypeOther, TypeNHSTrust, true},
		{"nhs conversion", TypeNHSTrust, TypeNHSFoundationTrust, true},
		{"council overlap", TypeLocalAuthority, TypeCommunityCouncil, true},
		{"department vs trust", TypeMinisterialDepartment, TypeNHSTrust, false},
		{"police vs college", TypeEmergencyService, TypeCollege, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompatibleTypes(tt.a, tt.b); got != tt.want {
				t.Errorf("CompatibleTypes(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := CompatibleTypes(tt.b, tt.a); got != tt.want {
				t.Errorf("CompatibleTypes(%s, %s) = %v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}
