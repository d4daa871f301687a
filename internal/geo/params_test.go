package geo

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestParseParams_Empty(t *testing.T) {
	p, err := ParseParams("", "", "", "")
	require.NoError(t, err)
	assert.False(t, p.LocationActive())
	assert.False(t, p.RadiusActive())
	assert.Empty(t, p.Query)
}

func TestParseParams_BothCoordinates(t *testing.T) {
	p, err := ParseParams("28.5383", "-81.3792", "5", "tools")
	require.NoError(t, err)
	require.True(t, p.LocationActive())
	assert.Equal(t, 28.5383, *p.Lat)
	assert.Equal(t, -81.3792, *p.Lng)
	require.True(t, p.RadiusActive())
	assert.Equal(t, 5.0, *p.RadiusKm)
	assert.Equal(t, "tools", p.Query)
}

func TestParseParams_LoneLatitudeDeactivatesLocation(t *testing.T) {
	p, err := ParseParams("28.5383", "", "5", "")
	require.NoError(t, err)
	assert.False(t, p.LocationActive())
	// Radius without an active location is dropped too.
	assert.False(t, p.RadiusActive())
	assert.Nil(t, p.RadiusKm)
}

func TestParseParams_MalformedNumbersRejected(t *testing.T) {
	_, err := ParseParams("not-a-number", "-81", "", "")
	assert.Equal(t, ErrInvalidLatitude, err)

	_, err = ParseParams("28", "east", "", "")
	assert.Equal(t, ErrInvalidLongitude, err)

	_, err = ParseParams("28", "-81", "five", "")
	assert.Equal(t, ErrInvalidRadius, err)
}

func TestParseParams_NonFiniteRejected(t *testing.T) {
	// ParseFloat happily parses these, so they must be caught explicitly;
	// a NaN distance_km would also fail JSON encoding downstream.
	_, err := ParseParams("NaN", "NaN", "", "")
	assert.Equal(t, ErrInvalidLatitude, err)

	_, err = ParseParams("28", "-Inf", "", "")
	assert.Equal(t, ErrInvalidLongitude, err)

	_, err = ParseParams("28", "-81", "NaN", "")
	assert.Equal(t, ErrInvalidRadius, err)

	_, err = ParseParams("28", "-81", "+Inf", "")
	assert.Equal(t, ErrInvalidRadius, err)
}

func TestParseParams_OutOfRangeRejected(t *testing.T) {
	_, err := ParseParams("91", "-81", "", "")
	assert.Equal(t, ErrInvalidLatitude, err)

	_, err = ParseParams("28", "-181", "", "")
	assert.Equal(t, ErrInvalidLongitude, err)

	_, err = ParseParams("28", "-81", "-1", "")
	assert.Equal(t, ErrInvalidRadius, err)
}

func TestParseParams_ZeroZeroIsValid(t *testing.T) {
	p, err := ParseParams("0", "0", "", "")
	require.NoError(t, err)
	require.True(t, p.LocationActive())
	assert.Equal(t, 0.0, *p.Lat)
	assert.Equal(t, 0.0, *p.Lng)
}

func TestWithinRadius_NoRadiusPassesEverything(t *testing.T) {
	p := Params{Lat: f(28.5383), Lng: f(-81.3792)}
	assert.True(t, p.WithinRadius(nil, nil))
	assert.True(t, p.WithinRadius(f(40.7), f(-74.0)))
}

func TestWithinRadius_ExcludesCoordinatelessRows(t *testing.T) {
	p := Params{Lat: f(28.5383), Lng: f(-81.3792), RadiusKm: f(10000)}
	assert.False(t, p.WithinRadius(nil, nil))
	assert.False(t, p.WithinRadius(f(28.5), nil))
}

func TestWithinRadius_InclusionBoundary(t *testing.T) {
	p := Params{Lat: f(28.5383), Lng: f(-81.3792), RadiusKm: f(1)}
	assert.True(t, p.WithinRadius(f(28.5383), f(-81.3792)))
	assert.True(t, p.WithinRadius(f(28.5402), f(-81.3816)))
	assert.False(t, p.WithinRadius(f(28.6383), f(-81.3792)))
}

func TestDistanceTo_NilWithoutReferencePoint(t *testing.T) {
	p := Params{}
	assert.Nil(t, p.DistanceTo(f(28.5), f(-81.3)))

	p = Params{Lat: f(28.5), Lng: f(-81.3)}
	assert.Nil(t, p.DistanceTo(nil, f(-81.3)))
}

type rankedRow struct {
	dist    *float64
	created time.Time
}

func (r rankedRow) RankDistance() *float64   { return r.dist }
func (r rankedRow) RankCreatedAt() time.Time { return r.created }

func TestLess_DistanceAscendingWhenLocationActive(t *testing.T) {
	p := Params{Lat: f(28.5), Lng: f(-81.3)}
	now := time.Now()
	rows := []rankedRow{
		{dist: f(5.0), created: now},
		{dist: nil, created: now.Add(time.Hour)},
		{dist: f(0.3), created: now.Add(-time.Hour)},
	}
	sort.SliceStable(rows, func(i, j int) bool { return Less(p, rows[i], rows[j]) })

	require.NotNil(t, rows[0].dist)
	assert.Equal(t, 0.3, *rows[0].dist)
	assert.Equal(t, 5.0, *rows[1].dist)
	assert.Nil(t, rows[2].dist)
}

func TestLess_RecencyWhenLocationInactive(t *testing.T) {
	p := Params{}
	now := time.Now()
	rows := []rankedRow{
		{dist: nil, created: now.Add(-time.Hour)},
		{dist: nil, created: now},
	}
	sort.SliceStable(rows, func(i, j int) bool { return Less(p, rows[i], rows[j]) })
	assert.Equal(t, now, rows[0].created)
}

func TestLess_TieBreakByRecency(t *testing.T) {
	p := Params{Lat: f(28.5), Lng: f(-81.3)}
	now := time.Now()
	rows := []rankedRow{
		{dist: f(1.0), created: now.Add(-time.Hour)},
		{dist: f(1.0), created: now},
	}
	sort.SliceStable(rows, func(i, j int) bool { return Less(p, rows[i], rows[j]) })
	assert.Equal(t, now, rows[0].created)
}
