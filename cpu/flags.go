package cpu

import (
	"math/bits"
)

// Flag bit positions in the packed flag byte.
const (
	FLAG_S  = uint8(1 << 7) // Sign
	FLAG_Z  = uint8(1 << 6) // Zero
	FLAG_P  = uint8(1 << 2) // Parity (even)
	FLAG_CY = uint8(1 << 0) // Carry / borrow
)

// Flags is the flag register. Auxiliary carry is not modelled.
type Flags struct {
	Z  bool
	S  bool
	P  bool
	CY bool
}

// Byte returns the packed flag byte.
func (fl Flags) Byte() (value uint8) {
	if fl.S {
		value |= FLAG_S
	}
	if fl.Z {
		value |= FLAG_Z
	}
	if fl.P {
		value |= FLAG_P
	}
	if fl.CY {
		value |= FLAG_CY
	}

	return
}

// SetByte unpacks a flag byte. Unused bits are ignored.
func (fl *Flags) SetByte(value uint8) {
	fl.S = (value & FLAG_S) != 0
	fl.Z = (value & FLAG_Z) != 0
	fl.P = (value & FLAG_P) != 0
	fl.CY = (value & FLAG_CY) != 0
}

// UpdateZSP derives zero, sign and parity from an 8-bit result.
func (fl *Flags) UpdateZSP(value uint8) {
	fl.Z = value == 0
	fl.S = (value & 0x80) != 0
	fl.P = (bits.OnesCount8(value) & 1) == 0
}

// String returns the flags as "szpc", with set flags in upper case.
func (fl Flags) String() string {
	out := []byte("szpc")
	for n, set := range []bool{fl.S, fl.Z, fl.P, fl.CY} {
		if set {
			out[n] -= 'a' - 'A'
		}
	}

	return string(out)
}
