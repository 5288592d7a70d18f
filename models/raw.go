package models

import (
	"sort"
	"strconv"
	"strings"
)

// RecordKind distinguishes the three raw shapes sources arrive in.
type RecordKind string

const (
	KindAPI         RecordKind = "api"
	KindSpreadsheet RecordKind = "spreadsheet"
	KindScraped     RecordKind = "scraped"
)

// RawRecord is one source-shaped record as handed over by a fetcher. The
// pipeline never mutates raw records; the field mapper reads them through
// this interface so nested JSON, spreadsheet rows and scraped text all map
// the same way.
type RawRecord interface {
	// Kind identifies the raw shape family.
	Kind() RecordKind
	// Get resolves a dotted field path ("details.govuk_status"). The second
	// return is false when no value exists at that path.
	Get(path string) (any, bool)
	// FieldNames lists the top-level field names in stable order, used for
	// the additionalProperties passthrough.
	FieldNames() []string
}

// APIRecord is an arbitrary nested JSON object from a government API.
type APIRecord struct {
	Data map[string]any
}

// Kind implements RawRecord.
func (r APIRecord) Kind() RecordKind { return KindAPI }

// Get walks the dotted path through nested objects. Numeric path segments
// index into arrays ("parent_organisations.0.title").
func (r APIRecord) Get(path string) (any, bool) {
	var current any = r.Data
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, false
			}
			current = v
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

// FieldNames implements RawRecord.
func (r APIRecord) FieldNames() []string { return sortedKeysAny(r.Data) }

// SpreadsheetRecord is one workbook row keyed by column header.
type SpreadsheetRecord struct {
	Row      map[string]string
	RowIndex int
}

// Kind implements RawRecord.
func (r SpreadsheetRecord) Kind() RecordKind { return KindSpreadsheet }

// Get looks the column up verbatim; spreadsheet headers may themselves
// contain dots, so no path splitting happens here.
func (r SpreadsheetRecord) Get(path string) (any, bool) {
	v, ok := r.Row[path]
	if !ok || v == "" {
		return nil, false
	}
	return v, true
}

// FieldNames implements RawRecord.
func (r SpreadsheetRecord) FieldNames() []string { return sortedKeysString(r.Row) }

// ScrapedRecord holds fields extracted from an HTML page or PDF text.
type ScrapedRecord struct {
	Fields  map[string]string
	PageURL string
}

// Kind implements RawRecord.
func (r ScrapedRecord) Kind() RecordKind { return KindScraped }

// Get looks the extracted field up verbatim.
func (r ScrapedRecord) Get(path string) (any, bool) {
	v, ok := r.Fields[path]
	if !ok || v == "" {
		return nil, false
	}
	return v, true
}

// FieldNames implements RawRecord.
func (r ScrapedRecord) FieldNames() []string { return sortedKeysString(r.Fields) }

func sortedKeysAny(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeysString(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
