package geo

import "math"

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometers between two WGS84
// points using the spherical law of cosines. The acos argument is clamped to
// [-1, 1]: near-identical coordinates can push the cosine sum slightly above 1
// through floating-point error, which would otherwise yield NaN.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	la1 := radians(lat1)
	la2 := radians(lat2)
	dLng := radians(lng2) - radians(lng1)

	cosine := math.Cos(la1)*math.Cos(la2)*math.Cos(dLng) + math.Sin(la1)*math.Sin(la2)
	if cosine > 1 {
		cosine = 1
	} else if cosine < -1 {
		cosine = -1
	}
	return earthRadiusKm * math.Acos(cosine)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
