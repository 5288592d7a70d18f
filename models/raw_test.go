package models

import (
	"reflect"
	"testing"
)

// TestAPIRecord_Get checks dotted-path traversal through nested objects and
// arrays.
func TestAPIRecord_Get(t *testing.T) {
	record := APIRecord{Data: map[string]any{
		"title": "Environment Agency",
		"details": map[string]any{
			"govuk_status": "live",
			"slug":         "environment-agency",
		},
		"parent_organisations": []any{
			map[string]any{"title": "Department for Environment, Food & Rural Affairs"},
		},
		"closed_at": nil,
	}}

	tests := []struct {
		name   string
		path   string
		want   any
		wantOK bool
	}{
		{"top level", "title", "Environment Agency", true},
		{"nested", "details.govuk_status", "live", true},
		{"array index", "parent_organisations.0.title", "Department for Environment, Food & Rural Affairs", true},
		{"array out of range", "parent_organisations.5.title", nil, false},
		{"missing", "details.nonexistent", nil, false},
		{"missing root", "nope", nil, false},
		{"null value", "closed_at", nil, false},
		{"path through scalar", "title.sub", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := record.Get(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("Get(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Get(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// TestAPIRecord_FieldNames checks top-level names come back sorted.
func TestAPIRecord_FieldNames(t *testing.T) {
	record := APIRecord{Data: map[string]any{"c": 1, "a": 2, "b": 3}}
	want := []string{"a", "b", "c"}
	if got := record.FieldNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("FieldNames = %v, want %v", got, want)
	}
}

// TestSpreadsheetRecord_Get checks verbatim column lookup, including headers
// containing dots.
func TestSpreadsheetRecord_Get(t *testing.T) {
	record := SpreadsheetRecord{Row: map[string]string{
		"Organisation Name": "Leeds City Council",
		"Ref. No":           "E08000035",
		"Empty":             "",
	}}

	if v, ok := record.Get("Organisation Name"); !ok || v != "Leeds City Council" {
		t.Errorf("Get(Organisation Name) = %v, %v", v, ok)
	}
	if v, ok := record.Get("Ref. No"); !ok || v != "E08000035" {
		t.Errorf("dotted header must be looked up verbatim, got %v, %v", v, ok)
	}
	if _, ok := record.Get("Empty"); ok {
		t.Error("empty cells must report absent")
	}
	if _, ok := record.Get("Missing"); ok {
		t.Error("missing columns must report absent")
	}
}

// TestScrapedRecord checks field lookup and kind tagging.
func TestScrapedRecord(t *testing.T) {
	record := ScrapedRecord{
		Fields:  map[string]string{"name": "Kent Police"},
		PageURL: "https://example.gov.uk/forces",
	}

	if record.Kind() != KindScraped {
		t.Errorf("Kind = %s, want %s", record.Kind(), KindScraped)
	}
	if v, ok := record.Get("name"); !ok || v != "Kent Police" {
		t.Errorf("Get(name) = %v, %v", v, ok)
	}
}
