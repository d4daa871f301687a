package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_ZeroForIdenticalPoints(t *testing.T) {
	d := Distance(28.5383, -81.3792, 28.5383, -81.3792)
	assert.False(t, math.IsNaN(d), "identical coordinates must not produce NaN")
	assert.InDelta(t, 0, d, 1e-6)
}

func TestDistance_NearIdenticalPointsNotNaN(t *testing.T) {
	// Tiny angular separation pushes the cosine sum right at 1.0; the clamp
	// keeps acos in-domain.
	d := Distance(28.5383, -81.3792, 28.5383, -81.37920000000001)
	assert.False(t, math.IsNaN(d))
	assert.GreaterOrEqual(t, d, 0.0)
	assert.Less(t, d, 0.001)
}

func TestDistance_Symmetric(t *testing.T) {
	d1 := Distance(28.5383, -81.3792, 40.7128, -74.0060)
	d2 := Distance(40.7128, -74.0060, 28.5383, -81.3792)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestDistance_KnownPair(t *testing.T) {
	// Orlando downtown to a point ~0.3 km away.
	d := Distance(28.5383, -81.3792, 28.5402, -81.3816)
	assert.Greater(t, d, 0.2)
	assert.Less(t, d, 0.4)
}

func TestDistance_LongHaul(t *testing.T) {
	// London to New York, roughly 5570 km.
	d := Distance(51.5074, -0.1278, 40.7128, -74.0060)
	assert.InDelta(t, 5570, d, 30)
}

func TestDistance_Antipodal(t *testing.T) {
	d := Distance(0, 0, 0, 180)
	assert.False(t, math.IsNaN(d))
	assert.InDelta(t, math.Pi*earthRadiusKm, d, 1)
}
