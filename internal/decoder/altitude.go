package decoder

// decodeAC13 decodes the 13-bit altitude field used by DF 0/4/20 (bytes
// msg[2:4]). Only the Q-bit 25-foot encoding is supported; metric and
// Gillham (Mode C) encodings yield "undefined" in this core (spec §4.1).
func decodeAC13(data []byte) (feet int, ok bool) {
	mBit := data[3]&(1<<6) != 0
	if mBit {
		return 0, false
	}

	qBit := data[3]&(1<<4) != 0
	if !qBit {
		return 0, false
	}

	// N is the 11-bit integer formed by dropping the M and Q bits.
	n := (int(data[2]&0x1F) << 6) | (int(data[3]&0x80) >> 2) | (int(data[3]&0x20) >> 1) | int(data[3]&0x0F)
	return n*25 - 1000, true
}

// decodeAC12 decodes the 12-bit AC field used by Extended Squitter
// airborne position messages (ME bytes, i.e. msg[5:7]).
func decodeAC12(data []byte) (feet int, ok bool) {
	qBit := data[5]&1 != 0
	if !qBit {
		return 0, false
	}

	n := (int(data[5]>>1) << 4) | int(data[6]>>4)
	return n*25 - 1000, true
}
