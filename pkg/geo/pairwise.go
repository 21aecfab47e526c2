package geo

import "sort"

// DistancePair model info
//
//	@Description	two distinct entities and the haversine distance between them.
type DistancePair struct {
	From       LocatedEntity `json:"from" msgpack:"from"`
	To         LocatedEntity `json:"to" msgpack:"to"`
	DistanceKm float64       `json:"distance_km" msgpack:"distance_km"`
}

// PairwiseDistances computes the distance of every unordered pair (i < j, input order), shortest first.
// n*(n-1)/2 results; empty for fewer than two entities.
func PairwiseDistances(entities []LocatedEntity) []DistancePair {
	n := len(entities)
	if n < 2 {
		return []DistancePair{}
	}

	pairs := make([]DistancePair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, DistancePair{
				From:       entities[i],
				To:         entities[j],
				DistanceKm: distanceBetween(entities[i], entities[j]),
			})
		}
	}

	sortPairsByDistance(pairs)
	return pairs
}

func sortPairsByDistance(pairs []DistancePair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].DistanceKm < pairs[j].DistanceKm
	})
}
