package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ukorgs/models"
)

// DecodeHTMLTable extracts the first data table from an already-fetched HTML
// page. Header cells become field names; each body row becomes one scraped
// record. pageURL is recorded on every record for provenance.
func DecodeHTMLTable(r io.Reader, pageURL string) ([]models.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table found in page %s", pageURL)
	}

	var headers []string
	table.Find("tr").First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(cell.Text()))
	})
	if len(headers) == 0 {
		return nil, fmt.Errorf("table in page %s has no header row", pageURL)
	}

	var records []models.RawRecord
	table.Find("tr").Each(func(rowIdx int, row *goquery.Selection) {
		if rowIdx == 0 {
			return
		}
		fields := make(map[string]string, len(headers))
		row.Find("td").Each(func(col int, cell *goquery.Selection) {
			if col >= len(headers) || headers[col] == "" {
				return
			}
			value := strings.TrimSpace(cell.Text())
			if value != "" {
				fields[headers[col]] = value
			}
		})
		if len(fields) > 0 {
			records = append(records, models.ScrapedRecord{Fields: fields, PageURL: pageURL})
		}
	})

	return records, nil
}

// DecodeHTMLList extracts scraped records from link lists ("a" elements
// inside the given selector), for source pages that publish a plain list of
// bodies rather than a table. Each link yields a record with "name" and
// "url" fields.
func DecodeHTMLList(r io.Reader, selector, pageURL string) ([]models.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var records []models.RawRecord
	doc.Find(selector).Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		name := strings.TrimSpace(link.Text())
		if name == "" {
			return
		}
		fields := map[string]string{"name": name}
		if href, ok := link.Attr("href"); ok {
			fields["url"] = href
		}
		records = append(records, models.ScrapedRecord{Fields: fields, PageURL: pageURL})
	})

	if len(records) == 0 {
		return nil, fmt.Errorf("no links matched selector %q in page %s", selector, pageURL)
	}
	return records, nil
}
