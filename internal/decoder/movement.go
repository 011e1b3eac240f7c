package decoder

// decodeMovement decodes the 7-bit surface movement field (bit 37 of a
// surface position Extended Squitter) into knots, per the piecewise table
// of spec §4.1. Returns ok=false for the reserved/undefined codes (0 and
// 125-127).
func decodeMovement(v int) (knots float64, ok bool) {
	switch {
	case v == 0:
		return 0, false
	case v == 1:
		return 0, true
	case v >= 2 && v <= 8:
		return 0.125 * float64(v-1), true
	case v >= 9 && v <= 12:
		return 1 + 0.25*float64(v-8), true
	case v >= 13 && v <= 38:
		return 2 + 0.5*float64(v-12), true
	case v >= 39 && v <= 93:
		return 15 + float64(v-38), true
	case v >= 94 && v <= 108:
		return 70 + 2*float64(v-93), true
	case v >= 109 && v <= 123:
		return 100 + 5*float64(v-108), true
	case v == 124:
		return 175, true
	default: // 125-127
		return 0, false
	}
}
