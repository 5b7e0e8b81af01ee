package nsh

import (
	"fmt"
	"strconv"
	"strings"
)

// Action is the header action applied by an NSH map.
type Action uint32

// Action values.
const (
	ActionSwap Action = iota
	ActionPush
	ActionPop
)

func (a Action) String() string {
	switch a {
	case ActionSwap:
		return "swap"
	case ActionPush:
		return "push"
	case ActionPop:
		return "pop"
	}
	return fmt.Sprintf("unknown %d", uint32(a))
}

// ParseAction parses "swap", "push", "pop", or a decimal number.
func ParseAction(s string) (Action, error) {
	switch s {
	case "swap":
		return ActionSwap, nil
	case "push":
		return ActionPush, nil
	case "pop":
		return ActionPop, nil
	}
	n, e := strconv.ParseUint(s, 10, 32)
	if e != nil {
		return 0, fmt.Errorf("invalid nsh_action %q", s)
	}
	return Action(n), nil
}

// NextNode identifies the encapsulation applied after the map action.
type NextNode uint32

// NextNode values.
const (
	NextDrop NextNode = iota
	NextEncapGRE
	NextEncapVxlanGpe
	NextEncapVxlan4
	NextEncapVxlan6
)

// IsProxy determines whether a map toward this next node needs an NSH proxy session.
func (nn NextNode) IsProxy() bool {
	return nn == NextEncapVxlan4 || nn == NextEncapVxlan6
}

func (nn NextNode) String() string {
	switch nn {
	case NextDrop:
		return "drop"
	case NextEncapGRE:
		return "encap-gre"
	case NextEncapVxlanGpe:
		return "encap-vxlan-gpe"
	case NextEncapVxlan4:
		return "encap-vxlan4"
	case NextEncapVxlan6:
		return "encap-vxlan6"
	}
	return fmt.Sprintf("%d", uint32(nn))
}

// ParseNextNode parses a NextNode name such as "encap-vxlan4", with or without "encap-" prefix.
func ParseNextNode(s string) (NextNode, error) {
	for nn := NextDrop; nn <= NextEncapVxlan6; nn++ {
		name := nn.String()
		if s == name || "encap-"+s == name {
			return nn, nil
		}
	}
	return 0, fmt.Errorf("invalid next node %q", s)
}

// Map is an NSH mapping.
//
// If NspNsi equals MappedNspNsi, the use case is like an SFC forwarder; otherwise it is like a
// service function.
type Map struct {
	NspNsi       NspNsi   `json:"nspNsi"`
	MappedNspNsi NspNsi   `json:"mappedNspNsi"`
	Action       Action   `json:"action"`
	SwIfIndex    uint32   `json:"swIfIndex"`
	NextNode     NextNode `json:"nextNode"`
}

// String formats the map in the style of "show nsh map".
func (m Map) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "nsh entry nsp: %d nsi: %d ", m.NspNsi.Nsp(), m.NspNsi.Nsi())
	fmt.Fprintf(&b, "maps to nsp: %d nsi: %d ", m.MappedNspNsi.Nsp(), m.MappedNspNsi.Nsi())
	fmt.Fprintf(&b, " nsh_action %s\n", m.Action)

	switch m.NextNode {
	case NextEncapGRE:
		fmt.Fprintf(&b, "encapped by GRE intf: %d", m.SwIfIndex)
	case NextEncapVxlanGpe:
		fmt.Fprintf(&b, "encapped by VXLAN GPE intf: %d", m.SwIfIndex)
	case NextEncapVxlan4:
		fmt.Fprintf(&b, "encapped by VXLAN4 intf: %d", m.SwIfIndex)
	case NextEncapVxlan6:
		fmt.Fprintf(&b, "encapped by VXLAN6 intf: %d", m.SwIfIndex)
	default:
		b.WriteString("only GRE and VXLANGPE support in this rev")
	}
	return b.String()
}

// ProxyKey identifies an NSH proxy session by its transport.
type ProxyKey struct {
	TransportType  NextNode `json:"transportType"`
	TransportIndex uint32   `json:"transportIndex"`
}

// ProxySession maps a VXLAN transport to the NSH header pushed onto decapsulated packets.
type ProxySession struct {
	ProxyKey
	NspNsi NspNsi `json:"nspNsi"`
}

// MakeProxySession derives the proxy session of a map.
// The proxy decrements the Service Index, so SI 0 is rejected.
func MakeProxySession(m Map) (ps ProxySession, e error) {
	if m.NspNsi.Nsi() == 0 {
		return ps, fmt.Errorf("nsh-proxy needs nsi > 0 in %s", m.NspNsi)
	}
	ps.TransportType = m.NextNode
	ps.TransportIndex = m.SwIfIndex
	ps.NspNsi = m.NspNsi.WithNsi(m.NspNsi.Nsi() - 1)
	return ps, nil
}
