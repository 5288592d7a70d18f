package export

import (
	"encoding/json"
	"fmt"
	"os"

	"ukorgs/models"
)

// WriteArtifact writes the ProcessingResult as the project's static JSON
// artifact: the exact result document, no additional wrapping, so the
// search website reads the same shape the pipeline produced.
func WriteArtifact(result models.ProcessingResult, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create artifact file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}
	return nil
}
