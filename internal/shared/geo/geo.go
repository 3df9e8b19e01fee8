package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// WGS-84 ellipsoid.
const (
	semiMajor  = 6378137.0
	flattening = 1 / 298.257223563
	semiMinor  = (1 - flattening) * semiMajor
)

const (
	maxIterations = 200
	convergence   = 1e-12
)

// HaversineKm returns the great-circle distance in kilometres on a
// spherical earth.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	return orbgeo.Distance(orb.Point{lng1, lat1}, orb.Point{lng2, lat2}) / 1000
}

// Distance returns the ellipsoidal distance in metres between two
// lon/lat points using Vincenty's inverse formula. Nearly antipodal pairs,
// where the iteration does not settle, fall back to the spherical distance.
func Distance(a, b orb.Point) float64 {
	if d, ok := vincenty(a.Lat(), a.Lon(), b.Lat(), b.Lon()); ok {
		return d
	}
	return orbgeo.Distance(a, b)
}

func vincenty(lat1, lon1, lat2, lon2 float64) (float64, bool) {
	l := rad(lon2 - lon1)
	u1 := math.Atan((1 - flattening) * math.Tan(rad(lat1)))
	u2 := math.Atan((1 - flattening) * math.Tan(rad(lat2)))
	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	var (
		sinSigma, cosSigma, sigma float64
		cos2Alpha, cos2SigmaM     float64
	)
	lambda := l
	converged := false
	for i := 0; i < maxIterations; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)
		sinSigma = math.Hypot(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda)
		if sinSigma == 0 {
			return 0, true
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cos2Alpha = 1 - sinAlpha*sinAlpha
		cos2SigmaM = 0
		if cos2Alpha != 0 {
			// Equatorial lines have cos2Alpha == 0.
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cos2Alpha
		}
		c := flattening / 16 * cos2Alpha * (4 + flattening*(4-3*cos2Alpha))
		prev := lambda
		lambda = l + (1-c)*flattening*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		if math.Abs(lambda-prev) < convergence {
			converged = true
			break
		}
	}
	if !converged {
		return 0, false
	}

	uSq := cos2Alpha * (semiMajor*semiMajor - semiMinor*semiMinor) / (semiMinor * semiMinor)
	a := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	b := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := b * sinSigma * (cos2SigmaM + b/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		b/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
	return semiMinor * a * (sigma - deltaSigma), true
}

// PathLength sums the distances between consecutive points.
func PathLength(points []orb.Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}

// MeanSpeed averages reported speeds, skipping missing values. It returns 0
// when nothing is reported.
func MeanSpeed(v []float64) float64 {
	var sum float64
	n := 0
	for _, s := range v {
		if math.IsNaN(s) {
			continue
		}
		sum += s
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// StepLength divides distance by steps, or returns 0 when there are no steps.
func StepLength(distance float64, steps int) float64 {
	if steps <= 0 {
		return 0
	}
	return distance / float64(steps)
}

// Center is the mean of the finite coordinates, used to place a map.
func Center(points []orb.Point) orb.Point {
	var lon, lat float64
	var nLon, nLat int
	for _, p := range points {
		if finite(p.Lon()) {
			lon += p.Lon()
			nLon++
		}
		if finite(p.Lat()) {
			lat += p.Lat()
			nLat++
		}
	}
	var c orb.Point
	if nLon > 0 {
		c[0] = lon / float64(nLon)
	}
	if nLat > 0 {
		c[1] = lat / float64(nLat)
	}
	return c
}

// Finite reports whether both coordinates of p are usable numbers.
func Finite(p orb.Point) bool {
	return finite(p.Lon()) && finite(p.Lat())
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
