package importer

import (
	"encoding/json"
	"fmt"
	"io"

	"ukorgs/models"
)

// DecodeJSONRecords reads a JSON document of raw API records. Two layouts
// are accepted: a bare array of objects, or an object whose "results" key
// holds the array, the envelope the GOV.UK API and several open-data
// endpoints use.
func DecodeJSONRecords(r io.Reader) ([]models.RawRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON input: %w", err)
	}

	var objects []map[string]any
	if err := json.Unmarshal(data, &objects); err != nil {
		var envelope struct {
			Results []map[string]any `json:"results"`
		}
		if envErr := json.Unmarshal(data, &envelope); envErr != nil || envelope.Results == nil {
			return nil, fmt.Errorf("failed to parse JSON records: %w", err)
		}
		objects = envelope.Results
	}

	records := make([]models.RawRecord, 0, len(objects))
	for _, obj := range objects {
		records = append(records, models.APIRecord{Data: obj})
	}
	return records, nil
}
