package nshplugin

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/usnistgov/nshsfc/nsh"
)

// CLI command help.
const (
	EntryCommandHelp = "create nsh entry {nsp <nn> nsi <nn>} c1 <nn> c2 <nn> c3 <nn> c4 <nn> [md-type <nn>] " +
		"[version <nn>] [o-bit <nn>] [c-bit <nn>] [next-ip4|next-ip6|next-ethernet] [del]"
	MapCommandHelp = "create nsh map nsp <nn> nsi <nn> [del] mapped-nsp <nn> mapped-nsi <nn> nsh_action [swap|push|pop] " +
		"[encap-gre-intf <nn> | encap-vxlan-gpe-intf <nn> | encap-vxlan4-intf <nn> | encap-vxlan6-intf <nn> | encap-none]"
)

// Exec executes a CLI command line.
//
// Supported commands:
//
//	create nsh entry ...
//	create nsh map ...
//	show nsh entry
//	show nsh map
//	show nsh proxy-session
func (p *Plugin) Exec(line string) (output string, e error) {
	words, e := shellquote.Split(line)
	if e != nil {
		return "", fmt.Errorf("parse error: %w", e)
	}

	switch {
	case len(words) == 0:
		return "", nil
	case hasPrefix(words, "create", "nsh", "entry"):
		return "", p.execCreateEntry(cliArgs(words[3:]))
	case hasPrefix(words, "create", "nsh", "map"):
		return "", p.execCreateMap(cliArgs(words[3:]))
	case hasPrefix(words, "show", "nsh", "entry"):
		return p.showEntries(), nil
	case hasPrefix(words, "show", "nsh", "map"):
		return p.showMaps(), nil
	case hasPrefix(words, "show", "nsh", "proxy-session"):
		return p.showProxySessions(), nil
	}
	return "", fmt.Errorf("unknown input `%s'", strings.Join(words, " "))
}

func hasPrefix(words []string, prefix ...string) bool {
	if len(words) < len(prefix) {
		return false
	}
	for i, w := range prefix {
		if words[i] != w {
			return false
		}
	}
	return true
}

// cliArgs is a cursor over CLI arguments.
type cliArgs []string

func (a *cliArgs) next() (word string, ok bool) {
	if len(*a) == 0 {
		return "", false
	}
	word, *a = (*a)[0], (*a)[1:]
	return word, true
}

func (a *cliArgs) uint(keyword string, bitSize int) (uint64, error) {
	word, ok := a.next()
	if !ok {
		return 0, fmt.Errorf("parse error: '%s' needs a value", keyword)
	}
	n, e := strconv.ParseUint(word, 0, bitSize)
	if e != nil {
		return 0, fmt.Errorf("parse error: '%s %s'", keyword, word)
	}
	return n, nil
}

func (a *cliArgs) uint32(keyword string) (uint32, error) {
	n, e := a.uint(keyword, 32)
	return uint32(n), e
}

func (a cliArgs) parseError(word string) error {
	return fmt.Errorf("parse error: '%s'", strings.Join(append([]string{word}, a...), " "))
}

func (p *Plugin) execCreateEntry(args cliArgs) (e error) {
	isAdd := true
	var nsp, nsi uint64
	nspSet, nsiSet := false, false
	var ent nsh.Entry
	ent.NextProtocol = nsh.NextIPv4

	for {
		word, ok := args.next()
		if !ok {
			break
		}

		var n uint64
		switch word {
		case "del":
			isAdd = false
		case "version":
			if n, e = args.uint(word, 32); e == nil {
				ent.VerOC |= uint8(n&3) << nsh.VersionShift
			}
		case "o-bit":
			if n, e = args.uint(word, 32); e == nil && n&1 != 0 {
				ent.VerOC |= nsh.OBit
			}
		case "c-bit":
			if n, e = args.uint(word, 32); e == nil && n&1 != 0 {
				ent.VerOC |= nsh.CBit
			}
		case "md-type":
			if n, e = args.uint(word, 8); e == nil {
				ent.MdType = nsh.MdType(n)
			}
		case "next-ip4":
			ent.NextProtocol = nsh.NextIPv4
		case "next-ip6":
			ent.NextProtocol = nsh.NextIPv6
		case "next-ethernet":
			ent.NextProtocol = nsh.NextEthernet
		case "c1":
			ent.C1, e = args.uint32(word)
		case "c2":
			ent.C2, e = args.uint32(word)
		case "c3":
			ent.C3, e = args.uint32(word)
		case "c4":
			ent.C4, e = args.uint32(word)
		case "nsp":
			nsp, e = args.uint(word, 24)
			nspSet = true
		case "nsi":
			nsi, e = args.uint(word, 8)
			nsiSet = true
		default:
			return args.parseError(word)
		}
		if e != nil {
			return e
		}
	}

	switch {
	case !nspSet:
		return errors.New("nsp not specified")
	case !nsiSet:
		return errors.New("nsi not specified")
	}
	if e = ent.Validate(); e != nil {
		return e
	}
	ent.Length = nsh.MdType1Length
	ent.NspNsi = nsh.MakeNspNsi(uint32(nsp), uint8(nsi))

	if _, e = p.AddDelEntry(isAdd, ent); e != nil {
		return fmt.Errorf("nsh_add_del_entry returned %d", Retval(e))
	}
	return nil
}

func (p *Plugin) execCreateMap(args cliArgs) (e error) {
	isAdd := true
	var nsp, nsi, mappedNsp, mappedNsi uint64
	nspSet, nsiSet, mappedNspSet, mappedNsiSet, actionSet := false, false, false, false, false
	var m nsh.Map
	nextNodeSet := false

	for {
		word, ok := args.next()
		if !ok {
			break
		}

		switch word {
		case "del":
			isAdd = false
		case "nsp":
			nsp, e = args.uint(word, 24)
			nspSet = true
		case "nsi":
			nsi, e = args.uint(word, 8)
			nsiSet = true
		case "mapped-nsp":
			mappedNsp, e = args.uint(word, 24)
			mappedNspSet = true
		case "mapped-nsi":
			mappedNsi, e = args.uint(word, 8)
			mappedNsiSet = true
		case "nsh_action":
			actionWord, ok := args.next()
			if !ok {
				return errors.New("parse error: 'nsh_action' needs a value")
			}
			if m.Action, e = nsh.ParseAction(actionWord); e != nil {
				e = fmt.Errorf("parse error: '%s %s'", word, actionWord)
			}
			actionSet = true
		case "encap-gre-intf":
			m.SwIfIndex, e = args.uint32(word)
			m.NextNode, nextNodeSet = nsh.NextEncapGRE, true
		case "encap-vxlan-gpe-intf":
			m.SwIfIndex, e = args.uint32(word)
			m.NextNode, nextNodeSet = nsh.NextEncapVxlanGpe, true
		case "encap-vxlan4-intf":
			m.SwIfIndex, e = args.uint32(word)
			m.NextNode, nextNodeSet = nsh.NextEncapVxlan4, true
		case "encap-vxlan6-intf":
			m.SwIfIndex, e = args.uint32(word)
			m.NextNode, nextNodeSet = nsh.NextEncapVxlan6, true
		case "encap-none":
			m.SwIfIndex = ^uint32(0)
			m.NextNode = nsh.NextDrop
			nextNodeSet = true
		default:
			return args.parseError(word)
		}
		if e != nil {
			return e
		}
	}

	switch {
	case !nspSet || !nsiSet:
		return errors.New("nsp nsi pair required. Key: for NSH entry")
	case !mappedNspSet || !mappedNsiSet:
		return errors.New("mapped-nsp mapped-nsi pair required. Key: for NSH entry")
	case !actionSet:
		return errors.New("nsh_action required: swap|push|pop.")
	case !nextNodeSet:
		return errors.New("must specific action: [encap-gre-intf <nn> | encap-vxlan-gpe-intf <nn> | encap-none]")
	}
	m.NspNsi = nsh.MakeNspNsi(uint32(nsp), uint8(nsi))
	m.MappedNspNsi = nsh.MakeNspNsi(uint32(mappedNsp), uint8(mappedNsi))

	_, e = p.AddDelMap(isAdd, m)
	switch {
	case e == nil:
		return nil
	case errors.Is(e, ErrProxySession) && errors.Is(e, ErrExists):
		return errors.New("nsh-proxy-session already exists. Remove it first.")
	case errors.Is(e, ErrProxySession) && errors.Is(e, ErrNoSuchEntry):
		return errors.New("nsh-proxy-session does not exist.")
	case errors.Is(e, ErrProxySession):
		return fmt.Errorf("nsh_add_del_proxy_session() returned %d", Retval(e))
	case errors.Is(e, ErrExists):
		return errors.New("mapping already exists. Remove it first.")
	case errors.Is(e, ErrNoSuchEntry):
		return errors.New("mapping does not exist.")
	}
	return fmt.Errorf("nsh_add_del_map returned %d", Retval(e))
}

func (p *Plugin) showEntries() string {
	entries := p.Entries(nsh.IndexAll)
	if len(entries) == 0 {
		return "No nsh entries configured.\n"
	}
	var b strings.Builder
	for _, ent := range entries {
		b.WriteString(ent.Entry.String())
	}
	return b.String()
}

func (p *Plugin) showMaps() string {
	maps := p.Maps(nsh.IndexAll)
	if len(maps) == 0 {
		return "No nsh maps configured.\n"
	}
	var b strings.Builder
	for _, m := range maps {
		b.WriteString(m.Map.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func (p *Plugin) showProxySessions() string {
	sessions := p.ProxySessions()
	if len(sessions) == 0 {
		return "No nsh proxy sessions configured.\n"
	}
	var b strings.Builder
	for _, ps := range sessions {
		fmt.Fprintf(&b, "nsh-proxy %s intf: %d pushes nsp: %d nsi: %d\n",
			ps.TransportType, ps.TransportIndex, ps.NspNsi.Nsp(), ps.NspNsi.Nsi())
	}
	return b.String()
}
