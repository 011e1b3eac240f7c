package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeSquawkDigits(t *testing.T) {
	tests := []struct {
		name             string
		a, b, c, d       uint16
		want             int
	}{
		{"7500 hijack code", 7, 5, 0, 0, 7500},
		{"7600 radio failure", 7, 6, 0, 0, 7600},
		{"7700 emergency", 7, 7, 0, 0, 7700},
		{"1200 VFR", 1, 2, 0, 0, 1200},
		{"0000", 0, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := (tt.a << squawkA4A2A1Shift) | (tt.b << squawkB4B2B1Shift) | (tt.c << squawkC4C2C1Shift) | (tt.d << squawkD4D2D1Shift)
			data := []byte{0, 0, byte(identity>>8) & 0x1F, byte(identity)}

			assert.Equal(t, tt.want, decodeSquawk(data))
		})
	}
}
