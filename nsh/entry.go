package nsh

import (
	"fmt"
	"strings"
)

// VerOC field layout.
const (
	VersionShift = 6
	OBit         = 0x20
	CBit         = 0x10
)

// MakeVerOC constructs the version/flags byte.
func MakeVerOC(version uint8, oBit, cBit bool) (v uint8) {
	v = (version & 0x03) << VersionShift
	if oBit {
		v |= OBit
	}
	if cBit {
		v |= CBit
	}
	return v
}

// MdType is the metadata type.
type MdType uint8

// MdType values.
const (
	MdType1 MdType = 1
	MdType2 MdType = 2
)

// MdType1Length is the header length, in 4-octet words, of an MD type 1 header.
const MdType1Length = 6

// NextProtocol identifies the header after NSH.
type NextProtocol uint8

// NextProtocol values.
const (
	NextIPv4     NextProtocol = 1
	NextIPv6     NextProtocol = 2
	NextEthernet NextProtocol = 3
)

func (np NextProtocol) String() string {
	switch np {
	case NextIPv4:
		return "ip4"
	case NextIPv6:
		return "ip6"
	case NextEthernet:
		return "ethernet"
	}
	return fmt.Sprintf("%d", uint8(np))
}

// ParseNextProtocol parses "ip4", "ip6", or "ethernet".
func ParseNextProtocol(s string) (NextProtocol, error) {
	for _, np := range []NextProtocol{NextIPv4, NextIPv6, NextEthernet} {
		if s == np.String() {
			return np, nil
		}
	}
	return 0, fmt.Errorf("invalid next protocol %q", s)
}

// Entry is an NSH header entry.
type Entry struct {
	NspNsi       NspNsi       `json:"nspNsi"`
	VerOC        uint8        `json:"verOC"`
	Length       uint8        `json:"length"`
	MdType       MdType       `json:"mdType"`
	NextProtocol NextProtocol `json:"nextProtocol"`
	C1           uint32       `json:"c1"`
	C2           uint32       `json:"c2"`
	C3           uint32       `json:"c3"`
	C4           uint32       `json:"c4"`
}

// Version returns the NSH version.
func (ent Entry) Version() uint8 {
	return ent.VerOC >> VersionShift
}

// HasOBit determines whether the OAM bit is set.
func (ent Entry) HasOBit() bool {
	return ent.VerOC&OBit != 0
}

// HasCBit determines whether the critical metadata bit is set.
func (ent Entry) HasCBit() bool {
	return ent.VerOC&CBit != 0
}

// Validate checks whether the entry can be created from the CLI.
// The binary API accepts any field values.
func (ent Entry) Validate() error {
	if ent.MdType != MdType1 {
		return fmt.Errorf("md-type 1 only supported at this time")
	}
	return nil
}

// String formats the entry in the style of "show nsh entry".
func (ent Entry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "nsh ver %d ", ent.Version())
	if ent.HasOBit() {
		b.WriteString("O-set ")
	}
	if ent.HasCBit() {
		b.WriteString("C-set ")
	}
	fmt.Fprintf(&b, "len %d (%d bytes) md_type %d next_protocol %d\n",
		ent.Length, int(ent.Length)*4, ent.MdType, ent.NextProtocol)
	fmt.Fprintf(&b, "  service path %d service index %d\n", ent.NspNsi.Nsp(), ent.NspNsi.Nsi())
	fmt.Fprintf(&b, "  c1 %d c2 %d c3 %d c4 %d\n", ent.C1, ent.C2, ent.C3, ent.C4)
	return b.String()
}
