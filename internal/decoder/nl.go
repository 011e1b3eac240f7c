package decoder

import "math"

// NL returns the Mode-S CPR latitude-zone count: the number of longitude
// zones at the given latitude. It decreases stepwise from 59 at the
// equator to 1 beyond 87 degrees.
func NL(lat float64) int {
	lat = math.Abs(lat)

	switch {
	case lat == 0:
		return 59
	case lat == 87:
		return 2
	case lat > 87:
		return 1
	}

	tmp := 1 - (1-math.Cos(math.Pi/30))/(math.Cos(math.Pi/180*lat)*math.Cos(math.Pi/180*lat))
	return int(math.Floor(2 * math.Pi / math.Acos(tmp)))
}
