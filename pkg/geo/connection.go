package geo

// ConnectionLinks resolves the Connections of every entity into distance pairs, shortest first.
// a link is reported once even when both ends list each other. connections to unknown keys
// or to the entity itself are ignored. when keys repeat, the first entity with that key is used.
func ConnectionLinks(entities []LocatedEntity) []DistancePair {
	byKey := make(map[string]int, len(entities))
	for i, e := range entities {
		if _, ok := byKey[e.Key]; !ok {
			byKey[e.Key] = i
		}
	}

	type link struct{ a, b int }
	seen := make(map[link]bool)
	links := make([]DistancePair, 0)
	for i, e := range entities {
		for _, conn := range e.Connections {
			j, ok := byKey[conn.Key]
			if !ok || j == i || entities[j].Key == e.Key {
				continue
			}
			l := link{a: i, b: j}
			if j < i {
				l = link{a: j, b: i}
			}
			if seen[l] {
				continue
			}
			seen[l] = true
			links = append(links, DistancePair{
				From:       entities[l.a],
				To:         entities[l.b],
				DistanceKm: distanceBetween(entities[l.a], entities[l.b]),
			})
		}
	}

	sortPairsByDistance(links)
	return links
}
