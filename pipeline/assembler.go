package pipeline

import (
	"sort"
	"time"

	"ukorgs/models"
)

// Result assembles the final ProcessingResult for the run. It is valid even
// when every source failed: an empty input still yields a well-formed,
// serialisable document.
func (p *Pipeline) Result() models.ProcessingResult {
	return assemble(p.organisations, p.sourceStats, p.conflicts, p.errors, p.draftCount, p.processedAt)
}

func assemble(organisations []models.Organisation, sourceStats []models.SourceStats, conflicts []models.DataConflict, errors []models.ProcessingError, draftCount int, processedAt time.Time) models.ProcessingResult {
	byType := make(map[models.OrganisationType]int)
	for _, org := range organisations {
		byType[org.Type]++
	}

	stats := make([]models.SourceStats, len(sourceStats))
	copy(stats, sourceStats)
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Source < stats[j].Source
	})

	if organisations == nil {
		organisations = []models.Organisation{}
	}

	return models.ProcessingResult{
		Organisations: organisations,
		Metadata: models.ResultMetadata{
			ProcessedAt: processedAt,
			Sources:     stats,
			Statistics: models.Statistics{
				TotalOrganisations:  len(organisations),
				DuplicatesFound:     draftCount - len(organisations),
				ConflictsDetected:   len(conflicts),
				OrganisationsByType: byType,
			},
		},
		Conflicts: conflicts,
		Errors:    errors,
	}
}
