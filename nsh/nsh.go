// Package nsh defines Network Service Header control plane records.
//
// An NSH entry describes the header pushed for a service path position.
// An NSH map tells the engine what to do with a packet carrying a given header.
// Both are keyed by NspNsi, which packs the Service Path Identifier and the Service Index.
package nsh

import (
	"fmt"
)

// NspNsi field layout.
const (
	NspShift = 8
	NspMask  = 0xFFFFFF
	NsiMask  = 0xFF

	// MaxNsp is the largest Service Path Identifier.
	MaxNsp = NspMask
)

// IndexAll selects every record in a dump request.
const IndexAll = ^uint32(0)

// NspNsi packs a 24-bit Service Path Identifier and an 8-bit Service Index.
type NspNsi uint32

// MakeNspNsi constructs NspNsi from SPI and SI.
// Bits of nsp above 24 bits are discarded.
func MakeNspNsi(nsp uint32, nsi uint8) NspNsi {
	return NspNsi((nsp&NspMask)<<NspShift | uint32(nsi))
}

// Nsp returns the Service Path Identifier.
func (v NspNsi) Nsp() uint32 {
	return (uint32(v) >> NspShift) & NspMask
}

// Nsi returns the Service Index.
func (v NspNsi) Nsi() uint8 {
	return uint8(uint32(v) & NsiMask)
}

// WithNsi returns a copy with the Service Index replaced.
func (v NspNsi) WithNsi(nsi uint8) NspNsi {
	return MakeNspNsi(v.Nsp(), nsi)
}

func (v NspNsi) String() string {
	return fmt.Sprintf("%d:%d", v.Nsp(), v.Nsi())
}

// MarshalText implements encoding.TextMarshaler.
func (v NspNsi) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// It accepts "nsp:nsi" or a decimal packed value.
func (v *NspNsi) UnmarshalText(text []byte) error {
	var nsp, nsi uint32
	if n, _ := fmt.Sscanf(string(text), "%d:%d", &nsp, &nsi); n == 2 {
		if nsp > MaxNsp || nsi > NsiMask {
			return fmt.Errorf("NspNsi %q out of range", text)
		}
		*v = MakeNspNsi(nsp, uint8(nsi))
		return nil
	}

	var packed uint32
	if _, e := fmt.Sscanf(string(text), "%d", &packed); e != nil {
		return fmt.Errorf("NspNsi %q: %w", text, e)
	}
	*v = NspNsi(packed)
	return nil
}
