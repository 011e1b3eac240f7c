package decoder

import "math"

// velocityResult holds the decoded fields of an Airborne Velocity (TC 19)
// message, each with its own validity flag since any of them may be absent
// (spec §4.1).
type velocityResult struct {
	speed        float64
	hasSpeed     bool
	heading      float64
	hasHeading   bool
	vertRate     int
	hasVertRate  bool
}

// decodeVelocity decodes TC 19 subtypes 1 and 2 (ground speed, east-west /
// north-south components). Speed and heading are decoded only for those
// subtypes; the vertical rate is decoded whatever the subtype.
func decodeVelocity(data []byte) velocityResult {
	var result velocityResult

	st := bits(data, 37, 3)
	if st == 1 || st == 2 {
		ewSign := bit(data, 45)
		ewMag := int(bits(data, 46, 10))
		nsSign := bit(data, 56)
		nsMag := int(bits(data, 57, 10))

		if ewMag != 0 && nsMag != 0 {
			vEW := ewMag - 1
			if ewSign {
				vEW = -vEW
			}
			vNS := nsMag - 1
			if nsSign {
				vNS = -vNS
			}

			speed := math.Sqrt(float64(vEW*vEW + vNS*vNS))
			if st == 2 {
				speed *= 4
			}
			result.speed = speed
			result.hasSpeed = true

			heading := math.Atan2(float64(vEW), float64(vNS)) * 180 / math.Pi
			if heading < 0 {
				heading += 360
			}
			result.heading = heading
			result.hasHeading = true
		}
	}

	vrSign := bit(data, 68)
	vrMag := int(bits(data, 69, 9))
	if vrMag != 0 {
		vr := (vrMag - 1) * 64
		if vrSign {
			vr = -vr
		}
		result.vertRate = vr
		result.hasVertRate = true
	}

	return result
}
