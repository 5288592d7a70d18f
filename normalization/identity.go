package normalization

import (
	"fmt"
	"strings"

	"ukorgs/models"
)

// NormalisationError marks a draft whose name is unusable after
// normalisation. The record is skipped and reported, never fatal.
type NormalisationError struct {
	Source   models.DataSourceType
	RecordID string
	Name     string
}

// Error implements the error interface.
func (e *NormalisationError) Error() string {
	return fmt.Sprintf("normalisation failed for %q (source %s, record %s): empty name after normalisation",
		e.Name, e.Source, e.RecordID)
}

// Identifier derives stable identities and comparison keys for drafts.
type Identifier struct {
	normalizer *NameNormalizer
}

// NewIdentifier creates an Identifier with the default normalizer.
func NewIdentifier() *Identifier {
	return &Identifier{normalizer: NewNameNormalizer()}
}

// Normalizer exposes the underlying name normalizer.
func (id *Identifier) Normalizer() *NameNormalizer { return id.normalizer }

// Apply fills in the draft's NormalisedName and rejects drafts whose name
// normalises to the empty string.
func (id *Identifier) Apply(draft *models.OrganisationDraft) error {
	normalised := id.normalizer.Normalise(draft.Name)
	if normalised == "" {
		return &NormalisationError{
			Source:   draft.Source.Source,
			RecordID: draft.Source.SourceID,
			Name:     draft.Name,
		}
	}
	draft.NormalisedName = normalised
	return nil
}

// ComputeID derives the organisation id for a draft: source-type prefix plus
// the slugged normalised name, plus the source-native code when one exists
// to disambiguate same-named bodies. Re-running the pipeline on unchanged
// input always yields the same id.
func ComputeID(draft *models.OrganisationDraft) string {
	slug := strings.ReplaceAll(draft.NormalisedName, " ", "-")
	if draft.SourceKey != "" {
		key := strings.ToLower(strings.TrimSpace(draft.SourceKey))
		key = strings.ReplaceAll(key, " ", "-")
		return fmt.Sprintf("%s:%s:%s", draft.Source.Source, slug, key)
	}
	return fmt.Sprintf("%s:%s", draft.Source.Source, slug)
}
