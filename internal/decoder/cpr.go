package decoder

import "math"

// cprScale is 2^17, the resolution of a CPR lat/lon half-frame.
const cprScale = 131072.0

// CPRHalf is one half (even or odd) of a Compact Position Reporting frame.
type CPRHalf struct {
	Lat17     uint32
	Lon17     uint32
	Timestamp float64
	Airborne  bool
	Valid     bool
}

// cprMod is the mathematical (always non-negative) modulo, used throughout
// CPR arithmetic instead of Go's truncating %.
func cprMod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

func cprModF(a, b float64) float64 {
	r := math.Mod(a, b)
	if r < 0 {
		r += b
	}
	return r
}

// ResolveGlobalAirborne implements the globally-unambiguous CPR resolution
// for airborne position, given a fresh even and odd half-frame that share
// airborne=true. useEven selects which half's lat/lon to publish (the
// caller should prefer whichever half is more recent). Returns ok=false if
// the two halves straddle a latitude-zone boundary (spec §4.1 step 3).
func ResolveGlobalAirborne(even, odd CPRHalf, useEven bool) (lat, lon float64, ok bool) {
	return resolveGlobal(even, odd, useEven, 360.0, 360.0, nil)
}

// ResolveGlobalSurface implements the globally-unambiguous CPR resolution
// for surface position. The result is disambiguated against a reference
// position, since the 90-degree surface zone width is ambiguous otherwise
// (spec §4.1).
func ResolveGlobalSurface(even, odd CPRHalf, useEven bool, refLat, refLon float64) (lat, lon float64, ok bool) {
	return resolveGlobal(even, odd, useEven, 90.0, 90.0, &reference{refLat, refLon})
}

type reference struct {
	lat, lon float64
}

func resolveGlobal(even, odd CPRHalf, useEven bool, latZone, lonZone float64, ref *reference) (lat, lon float64, ok bool) {
	dLat0 := latZone / 60.0
	dLat1 := latZone / 59.0

	j := int(math.Floor(((59*float64(even.Lat17) - 60*float64(odd.Lat17)) / cprScale) + 0.5))

	latEven := dLat0 * (float64(cprMod(j, 60)) + float64(even.Lat17)/cprScale)
	latOdd := dLat1 * (float64(cprMod(j, 59)) + float64(odd.Lat17)/cprScale)

	if ref == nil {
		// Airborne: normalise values >= 270 by subtracting a full zone.
		if latEven >= 270 {
			latEven -= 360
		}
		if latOdd >= 270 {
			latOdd -= 360
		}
	}

	nl := NL(latEven)
	if nl != NL(latOdd) {
		return 0, 0, false
	}

	if useEven {
		lat = latEven
	} else {
		lat = latOdd
	}

	if ref != nil {
		lat -= 90.0 * math.Floor((lat-ref.lat+45.0)/90.0)
	}

	ni := nl
	if !useEven {
		ni--
	}
	if ni < 1 {
		ni = 1
	}

	m := int(math.Floor(((float64(even.Lon17)*float64(nl-1))-(float64(odd.Lon17)*float64(nl)))/cprScale + 0.5))

	var lonSrc uint32
	if useEven {
		lonSrc = even.Lon17
	} else {
		lonSrc = odd.Lon17
	}

	lon = (lonZone / float64(ni)) * (float64(cprMod(m, ni)) + float64(lonSrc)/cprScale)

	if ref == nil {
		lon -= math.Floor((lon+180)/360) * 360
	} else {
		lon -= 90.0 * math.Floor((lon-ref.lon+45.0)/90.0)
	}

	return lat, lon, true
}

// ResolveWithReference implements the locally-unambiguous, reference-seeded
// CPR resolution used when only one half-frame is fresh but a reference
// position is known (spec §4.1's "Locally unambiguous resolution"). surface
// uses a 90-degree zone width in place of the airborne 360 degrees.
func ResolveWithReference(half CPRHalf, useEven, surface bool, refLat, refLon float64) (lat, lon float64) {
	latZone := 360.0
	if surface {
		latZone = 90.0
	}

	dLat := latZone / 60.0
	if !useEven {
		dLat = latZone / 59.0
	}

	j := int(math.Floor(refLat/dLat)) + int(math.Floor(0.5+cprModF(refLat, dLat)/dLat-float64(half.Lat17)/cprScale))
	lat = dLat * (float64(j) + float64(half.Lat17)/cprScale)

	nl := NL(lat)
	if !useEven {
		nl--
	}

	lonZone := 360.0
	if surface {
		lonZone = 90.0
	}
	var dLon float64
	if nl > 0 {
		dLon = lonZone / float64(nl)
	} else {
		dLon = lonZone
	}

	m := int(math.Floor(refLon/dLon)) + int(math.Floor(0.5+cprModF(refLon, dLon)/dLon-float64(half.Lon17)/cprScale))
	lon = dLon * (float64(m) + float64(half.Lon17)/cprScale)

	return lat, lon
}
