package geo

import (
	"strings"
	"time"
)

// LocatedEntity model info
//
//	@Description	a geocoded record of an investigation case (person, event, place, evidence ...).
type LocatedEntity struct {
	Key         string       `json:"key" msgpack:"key"`                                     // unique stable identifier
	Lat         float64      `json:"lat" msgpack:"lat"`                                     // degrees, [-90, 90]
	Lng         float64      `json:"lng" msgpack:"lng"`                                     // degrees, [-180, 180]
	Date        string       `json:"date,omitempty" msgpack:"date,omitempty"`               // ISO-8601, optional
	Type        string       `json:"type,omitempty" msgpack:"type,omitempty"`               // caller-side label, not interpreted here
	Connections []Connection `json:"connections,omitempty" msgpack:"connections,omitempty"` // relations to other entities by key
}

type Connection struct {
	Key      string `json:"key" msgpack:"key"`
	Relation string `json:"relation,omitempty" msgpack:"relation,omitempty"`
}

func NewLocatedEntity(key string, lat, lng float64, date, tipe string) LocatedEntity {
	return LocatedEntity{
		Key:  key,
		Lat:  lat,
		Lng:  lng,
		Date: date,
		Type: tipe,
	}
}

func (e LocatedEntity) Coordinate() Coordinate {
	return NewCoordinate(e.Lat, e.Lng)
}

// ParsedDate returns the entity date, ok=false when it is missing or unparseable.
func (e LocatedEntity) ParsedDate() (time.Time, bool) {
	return ParseDate(e.Date)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseDate parses the ISO-8601 forms used by case data. a date-time without zone is read as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
