package service

import (
	"sort"

	"github.com/KevinMitsi/MotorX-backend-sub001/internal/models"
)

// RankTechnicians orders candidates least-recently-loaded first: fewest
// assignments over the trailing rotation window, tie-broken by id
// ascending. The ranking is recomputed from historical counts on every
// call, so there is no rotation cursor to coordinate between callers.
func RankTechnicians(candidates []models.Technician, counts map[string]int) []models.Technician {
	ranked := make([]models.Technician, len(candidates))
	copy(ranked, candidates)
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i].ID] == counts[ranked[j].ID] {
			return ranked[i].ID < ranked[j].ID
		}
		return counts[ranked[i].ID] < counts[ranked[j].ID]
	})
	return ranked
}

// PickTechnician selects the rotation winner from the free candidates.
// The second return is false when no candidate is free.
func PickTechnician(candidates []models.Technician, counts map[string]int) (models.Technician, bool) {
	if len(candidates) == 0 {
		return models.Technician{}, false
	}
	return RankTechnicians(candidates, counts)[0], true
}
