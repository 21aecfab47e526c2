// Package geo is the geospatial analysis core used by the case map: distances, radius search,
// pairwise distances, grid hotspots, chronological routes and co-occurrence (intersection) detection
// over geocoded entities.
//
// Every function is pure and synchronous. Nothing is validated: non-finite coordinates give NaN distances
// instead of errors, so callers that render results should validate their input first.
// Pairwise and intersection detection are O(n^2); above a few thousand entities run them off the
// request path or use FindIntersectionsIndexed.
package geo
