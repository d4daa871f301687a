package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a@b.com"))
	assert.True(t, IsValidEmail("user.name+tag@example.co"))
	assert.False(t, IsValidEmail("no-at-sign"))
	assert.False(t, IsValidEmail("spaces in@example.com"))
	assert.False(t, IsValidEmail("a@b"))
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("yard_fan-42"))
	assert.False(t, IsValidUsername("ab"))
	assert.False(t, IsValidUsername("has space"))
	assert.False(t, IsValidUsername("way-too-long-username-over-thirty-chars"))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("passw0rd!"))
	assert.False(t, IsValidPassword("short1!"))
	assert.False(t, IsValidPassword("nodigits!"))
	assert.False(t, IsValidPassword("nospecial1"))
}

func TestValidCoordinatePair(t *testing.T) {
	lat, lng := 28.5383, -81.3792
	outLat, outLng := 91.0, -181.0

	assert.True(t, ValidCoordinatePair(nil, nil))
	assert.True(t, ValidCoordinatePair(&lat, &lng))
	assert.False(t, ValidCoordinatePair(&lat, nil))
	assert.False(t, ValidCoordinatePair(nil, &lng))
	assert.False(t, ValidCoordinatePair(&outLat, &lng))
	assert.False(t, ValidCoordinatePair(&lat, &outLng))
}
