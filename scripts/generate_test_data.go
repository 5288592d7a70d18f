//go:build ignore
// +build ignore

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/xuri/excelize/v2"
)

// Generates a synthetic batch directory the aggregate command can ingest:
// a govuk-api.json API dump and an ons-public-sector.xlsx spreadsheet with
// deliberate overlap (shared organisations, some with misspelled names) so
// deduplication and merging have something to do.
//
// Usage: go run scripts/generate_test_data.go -out testdata/batch -count 500

func main() {
	outDir := flag.String("out", filepath.Join("testdata", "batch"), "Output directory for the batch")
	count := flag.Int("count", 500, "Organisations per source")
	seed := flag.Int64("seed", 0, "Random seed (0 for a random run)")
	flag.Parse()

	gofakeit.Seed(*seed)

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	names := make([]string, *count)
	for i := range names {
		names[i] = organisationName()
	}

	if err := writeGovUK(filepath.Join(*outDir, "govuk-api.json"), names); err != nil {
		log.Fatalf("Failed to write GOV.UK batch: %v", err)
	}
	if err := writeONS(filepath.Join(*outDir, "ons-public-sector.xlsx"), names); err != nil {
		log.Fatalf("Failed to write ONS batch: %v", err)
	}

	fmt.Printf("Generated %d organisations per source in %s\n", *count, *outDir)
}

func organisationName() string {
	towns := []string{
		"Ashford", "Barnsley", "Chesterfield", "Dunstable", "Eastleigh",
		"Falmouth", "Grantham", "Harrogate", "Ilkley", "Kendal",
		"Lancaster", "Morpeth", "Newquay", "Oswestry", "Pontypridd",
	}
	forms := []string{
		"%s Borough Council", "%s District Council", "%s Town Council",
		"%s NHS Foundation Trust", "Office for %s Standards",
		"%s Development Agency",
	}
	town := gofakeit.RandomString(towns)
	form := gofakeit.RandomString(forms)
	name := fmt.Sprintf(form, town)
	if gofakeit.Number(1, 10) == 1 {
		name = fmt.Sprintf("%s (%s)", name, gofakeit.LetterN(3))
	}
	return name
}

// misspell swaps two adjacent letters so the name lands near, but not at,
// its correctly spelled sibling.
func misspell(name string) string {
	runes := []rune(name)
	for i := 0; i < len(runes)-1; i++ {
		pos := gofakeit.Number(1, len(runes)-2)
		if runes[pos] != ' ' && runes[pos+1] != ' ' {
			runes[pos], runes[pos+1] = runes[pos+1], runes[pos]
			break
		}
	}
	return string(runes)
}

func writeGovUK(filename string, names []string) error {
	type govukRecord struct {
		Title   string `json:"title"`
		Format  string `json:"format"`
		Details struct {
			Slug string `json:"slug"`
		} `json:"details"`
		WebURL string `json:"web_url"`
	}

	records := make([]govukRecord, 0, len(names))
	for _, name := range names {
		var r govukRecord
		r.Title = name
		r.Format = gofakeit.RandomString([]string{
			"Executive non-departmental public body", "Executive agency",
			"Ministerial department", "Advisory non-departmental public body",
		})
		r.Details.Slug = slugify(name)
		r.WebURL = "https://www.gov.uk/government/organisations/" + r.Details.Slug
		records = append(records, r)
	}

	data, err := json.MarshalIndent(map[string]any{"results": records}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

func writeONS(filename string, names []string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Organisation", "Sector", "ONS code"}); err != nil {
		return err
	}

	row := 2
	for i, name := range names {
		// Roughly a third of the ONS rows overlap with GOV.UK, and some of
		// those carry a transcription error.
		if i%3 != 0 {
			continue
		}
		if i%9 == 0 {
			name = misspell(name)
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []any{
			name,
			gofakeit.RandomString([]string{"Central government", "Local government", "Public corporation"}),
			fmt.Sprintf("ONS%06d", gofakeit.Number(1, 999999)),
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		row++
	}

	return f.SaveAs(filename)
}

func slugify(name string) string {
	s := strings.ToLower(name)
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
