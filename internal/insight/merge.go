package insight

import (
	"sort"

	"SEOScanner/internal/domain"
)

// Merge concatenates the given record lists in order, removes duplicates
// by DedupKey (first-seen wins, later duplicates are discarded without
// field merging), attaches a ranking score where one is missing, and
// returns the result sorted by score descending. The sort is stable, so
// ties keep their input order and the earlier-list-wins law holds all the
// way through ranking. Inputs are never mutated.
func Merge(lists ...[]domain.InsightRecord) []domain.InsightRecord {
	seen := make(map[string]struct{})
	var merged []domain.InsightRecord

	for _, list := range lists {
		for _, record := range list {
			key := record.DedupKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			if record.Score == 0 {
				record.Score = Score(record)
			}
			merged = append(merged, record)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	return merged
}
