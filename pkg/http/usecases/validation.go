package usecases

import (
	"math"

	"github.com/lintang-b-s/geo-analysis/pkg"
	"github.com/lintang-b-s/geo-analysis/pkg/geo"
)

// the geo package does not validate, NaN would flow silently into the map. reject it here.

func validateCoordinate(field string, c geo.Coordinate) error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return pkg.WrapErrorf(nil, pkg.ErrBadParamInput, "%s: latitude must be within [-90, 90], got %v", field, c.Lat)
	}
	if math.IsNaN(c.Lng) || c.Lng < -180 || c.Lng > 180 {
		return pkg.WrapErrorf(nil, pkg.ErrBadParamInput, "%s: longitude must be within [-180, 180], got %v", field, c.Lng)
	}
	return nil
}

func validateNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return pkg.WrapErrorf(nil, pkg.ErrBadParamInput, "%s must be a non-negative number, got %v", field, v)
	}
	return nil
}

func validateEntities(entities []geo.LocatedEntity) error {
	for i, e := range entities {
		if e.Key == "" {
			return pkg.WrapErrorf(nil, pkg.ErrBadParamInput, "entity %d: key is required", i)
		}
		if err := validateCoordinate(e.Key, e.Coordinate()); err != nil {
			return pkg.WrapErrorf(err, pkg.ErrBadParamInput, "entity %d", i)
		}
	}
	return nil
}
