package decoder

// Squawk bit-field layout within the 13-bit identity field of DF 5/21
// (msg[2:4]), per ICAO Annex 10's interleaved Gillham encoding.
const (
	squawkA4A2A1Mask = 0x07
	squawkB4B2B1Mask = 0x07
	squawkC4C2C1Mask = 0x07
	squawkD4D2D1Mask = 0x07

	squawkA4A2A1Shift = 9
	squawkB4B2B1Shift = 6
	squawkC4C2C1Shift = 3
	squawkD4D2D1Shift = 0

	squawkAMultiplier = 1000
	squawkBMultiplier = 100
	squawkCMultiplier = 10
	squawkDMultiplier = 1
)

// decodeSquawk decodes the Mode-A identity field of DF 5/21 into its
// four-octal-digit decimal representation (e.g. digits A=7 B=5 C=0 D=0 -> 7500).
func decodeSquawk(data []byte) int {
	identity := (uint16(data[2]&0x1F) << 8) | uint16(data[3])

	a := int(identity>>squawkA4A2A1Shift) & squawkA4A2A1Mask
	b := int(identity>>squawkB4B2B1Shift) & squawkB4B2B1Mask
	c := int(identity>>squawkC4C2C1Shift) & squawkC4C2C1Mask
	d := int(identity>>squawkD4D2D1Shift) & squawkD4D2D1Mask

	return a*squawkAMultiplier + b*squawkBMultiplier + c*squawkCMultiplier + d*squawkDMultiplier
}
