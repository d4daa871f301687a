package geo

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Validation errors returned by ParseParams; handlers map these to 400.
var (
	ErrInvalidLatitude  = errors.New("Invalid latitude")
	ErrInvalidLongitude = errors.New("Invalid longitude")
	ErrInvalidRadius    = errors.New("Invalid radius_km")
)

// Params describes one search request. Location filtering is active only when
// both Lat and Lng are set; RadiusKm is meaningful only with an active
// location.
type Params struct {
	Lat      *float64
	Lng      *float64
	RadiusKm *float64
	Query    string
}

// LocationActive reports whether a reference point is available.
func (p Params) LocationActive() bool {
	return p.Lat != nil && p.Lng != nil
}

// RadiusActive reports whether results must be filtered by distance.
func (p Params) RadiusActive() bool {
	return p.LocationActive() && p.RadiusKm != nil
}

// ParseParams builds Params from raw query-string values. Malformed numbers
// are rejected rather than coerced: (0, 0) is a real coordinate and must never
// appear as a parsing default. A lone lat or lng deactivates location
// filtering entirely, matching the contract that both are required together.
func ParseParams(lat, lng, radiusKm, query string) (Params, error) {
	p := Params{Query: strings.TrimSpace(query)}

	if lat != "" {
		// ParseFloat accepts "NaN" and "Inf"; comparisons with NaN are always
		// false, so the range check alone would let it through.
		v, err := strconv.ParseFloat(lat, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < -90 || v > 90 {
			return Params{}, ErrInvalidLatitude
		}
		p.Lat = &v
	}
	if lng != "" {
		v, err := strconv.ParseFloat(lng, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < -180 || v > 180 {
			return Params{}, ErrInvalidLongitude
		}
		p.Lng = &v
	}
	// Both or neither: a single coordinate cannot anchor a reference point.
	if (p.Lat == nil) != (p.Lng == nil) {
		p.Lat, p.Lng = nil, nil
	}

	if radiusKm != "" {
		v, err := strconv.ParseFloat(radiusKm, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return Params{}, ErrInvalidRadius
		}
		if p.LocationActive() {
			p.RadiusKm = &v
		}
	}
	return p, nil
}

// DistanceTo returns the distance in kilometers from the reference point to
// (lat, lng), or nil when either endpoint lacks coordinates.
func (p Params) DistanceTo(lat, lng *float64) *float64 {
	if !p.LocationActive() || lat == nil || lng == nil {
		return nil
	}
	d := Distance(*p.Lat, *p.Lng, *lat, *lng)
	return &d
}

// WithinRadius is the row-qualification filter. With no radius every row
// qualifies; with an active radius, rows lacking coordinates never qualify.
func (p Params) WithinRadius(lat, lng *float64) bool {
	if !p.RadiusActive() {
		return true
	}
	d := p.DistanceTo(lat, lng)
	if d == nil {
		return false
	}
	return *d <= *p.RadiusKm
}
