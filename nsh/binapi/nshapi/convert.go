package nshapi

import (
	"github.com/usnistgov/nshsfc/nsh"
)

// NewNshAddDelEntry constructs an add/delete entry request.
func NewNshAddDelEntry(isAdd bool, ent nsh.Entry) *NshAddDelEntry {
	return &NshAddDelEntry{
		IsAdd:        isAdd,
		NspNsi:       uint32(ent.NspNsi),
		MdType:       uint8(ent.MdType),
		VerOC:        ent.VerOC,
		Length:       ent.Length,
		NextProtocol: uint8(ent.NextProtocol),
		C1:           ent.C1,
		C2:           ent.C2,
		C3:           ent.C3,
		C4:           ent.C4,
	}
}

// Entry returns the entry carried in the request.
func (m *NshAddDelEntry) Entry() nsh.Entry {
	return nsh.Entry{
		NspNsi:       nsh.NspNsi(m.NspNsi),
		VerOC:        m.VerOC,
		Length:       m.Length,
		MdType:       nsh.MdType(m.MdType),
		NextProtocol: nsh.NextProtocol(m.NextProtocol),
		C1:           m.C1,
		C2:           m.C2,
		C3:           m.C3,
		C4:           m.C4,
	}
}

// NewNshEntryDetails constructs an entry details message.
func NewNshEntryDetails(index uint32, ent nsh.Entry) *NshEntryDetails {
	req := NewNshAddDelEntry(true, ent)
	return &NshEntryDetails{
		EntryIndex:   index,
		NspNsi:       req.NspNsi,
		MdType:       req.MdType,
		VerOC:        req.VerOC,
		Length:       req.Length,
		NextProtocol: req.NextProtocol,
		C1:           req.C1,
		C2:           req.C2,
		C3:           req.C3,
		C4:           req.C4,
	}
}

// Entry returns the entry carried in the details.
func (m *NshEntryDetails) Entry() nsh.Entry {
	return (&NshAddDelEntry{
		NspNsi:       m.NspNsi,
		MdType:       m.MdType,
		VerOC:        m.VerOC,
		Length:       m.Length,
		NextProtocol: m.NextProtocol,
		C1:           m.C1,
		C2:           m.C2,
		C3:           m.C3,
		C4:           m.C4,
	}).Entry()
}

// NewNshAddDelMap constructs an add/delete map request.
func NewNshAddDelMap(isAdd bool, m nsh.Map) *NshAddDelMap {
	return &NshAddDelMap{
		IsAdd:        isAdd,
		NspNsi:       uint32(m.NspNsi),
		MappedNspNsi: uint32(m.MappedNspNsi),
		NshAction:    uint32(m.Action),
		SwIfIndex:    m.SwIfIndex,
		NextNode:     uint32(m.NextNode),
	}
}

// Map returns the map carried in the request.
func (m *NshAddDelMap) Map() nsh.Map {
	return nsh.Map{
		NspNsi:       nsh.NspNsi(m.NspNsi),
		MappedNspNsi: nsh.NspNsi(m.MappedNspNsi),
		Action:       nsh.Action(m.NshAction),
		SwIfIndex:    m.SwIfIndex,
		NextNode:     nsh.NextNode(m.NextNode),
	}
}

// NewNshMapDetails constructs a map details message.
func NewNshMapDetails(index uint32, nm nsh.Map) *NshMapDetails {
	return &NshMapDetails{
		MapIndex:     index,
		NspNsi:       uint32(nm.NspNsi),
		MappedNspNsi: uint32(nm.MappedNspNsi),
		NshAction:    uint32(nm.Action),
		SwIfIndex:    nm.SwIfIndex,
		NextNode:     uint32(nm.NextNode),
	}
}

// Map returns the map carried in the details.
func (m *NshMapDetails) Map() nsh.Map {
	return nsh.Map{
		NspNsi:       nsh.NspNsi(m.NspNsi),
		MappedNspNsi: nsh.NspNsi(m.MappedNspNsi),
		Action:       nsh.Action(m.NshAction),
		SwIfIndex:    m.SwIfIndex,
		NextNode:     nsh.NextNode(m.NextNode),
	}
}
