// Package nshplugin implements the NSH plugin tables of the engine, and serves them over the binary API.
package nshplugin

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/usnistgov/nshsfc/core/logging"
	"github.com/usnistgov/nshsfc/nsh"
	"go.uber.org/zap"
)

var logger = logging.New("nshplugin")

// Error conditions.
var (
	ErrExists      = errors.New("already exists")
	ErrNoSuchEntry = errors.New("no such entry")
	ErrInvalidNsi  = errors.New("invalid nsi")

	// ErrProxySession is wrapped together with another error condition when the proxy session
	// of a map cannot be changed.
	ErrProxySession = errors.New("nsh-proxy-session")
)

// Retval converts an error to a reply retval.
func Retval(e error) int32 {
	switch {
	case e == nil:
		return nsh.RetvalOK
	case errors.Is(e, ErrExists), errors.Is(e, ErrInvalidNsi):
		return nsh.RetvalInvalidValue
	case errors.Is(e, ErrNoSuchEntry):
		return nsh.RetvalNoSuchEntry
	}
	return nsh.RetvalUnspecified
}

// IndexedEntry is an NSH entry with its table index.
type IndexedEntry struct {
	Index uint32 `json:"index"`
	nsh.Entry
}

// IndexedMap is an NSH map with its table index.
type IndexedMap struct {
	Index uint32 `json:"index"`
	nsh.Map
}

// Plugin contains NSH entry, map, and proxy session tables.
type Plugin struct {
	mu         sync.Mutex
	entries    pool[nsh.Entry]
	entryByKey map[nsh.NspNsi]uint32
	maps       pool[nsh.Map]
	mapByKey   map[nsh.NspNsi]uint32
	proxies    map[nsh.ProxyKey]nsh.NspNsi
}

// New creates an empty Plugin.
func New() *Plugin {
	return &Plugin{
		entryByKey: map[nsh.NspNsi]uint32{},
		mapByKey:   map[nsh.NspNsi]uint32{},
		proxies:    map[nsh.ProxyKey]nsh.NspNsi{},
	}
}

// AddDelEntry adds or deletes an NSH entry keyed by its NspNsi.
// Returns the entry index after adding, or nsh.IndexAll after deleting.
func (p *Plugin) AddDelEntry(isAdd bool, ent nsh.Entry) (index uint32, e error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.updateGauges()

	index, found := p.entryByKey[ent.NspNsi]
	if isAdd {
		if found {
			return nsh.IndexAll, fmt.Errorf("nsh entry %s %w", ent.NspNsi, ErrExists)
		}
		index = p.entries.alloc(ent)
		p.entryByKey[ent.NspNsi] = index
		logger.Debug("entry added", zap.Stringer("nsp-nsi", ent.NspNsi), zap.Uint32("index", index))
		return index, nil
	}

	if !found {
		return nsh.IndexAll, fmt.Errorf("nsh entry %s: %w", ent.NspNsi, ErrNoSuchEntry)
	}
	p.entries.release(index)
	delete(p.entryByKey, ent.NspNsi)
	logger.Debug("entry deleted", zap.Stringer("nsp-nsi", ent.NspNsi), zap.Uint32("index", index))
	return nsh.IndexAll, nil
}

// Entries returns NSH entries.
// If index is nsh.IndexAll, all entries are returned in index order.
// Otherwise, the entry at index is returned if it exists.
func (p *Plugin) Entries(index uint32) (list []IndexedEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index != nsh.IndexAll {
		if ent, ok := p.entries.get(index); ok {
			list = append(list, IndexedEntry{Index: index, Entry: ent})
		}
		return list
	}

	p.entries.each(func(i uint32, ent nsh.Entry) {
		list = append(list, IndexedEntry{Index: i, Entry: ent})
	})
	return list
}

// AddDelMap adds or deletes an NSH map keyed by its NspNsi.
// Returns the map index after adding, or nsh.IndexAll after deleting.
//
// A map toward a VXLAN next node also adds or deletes the proxy session of its transport.
// If the proxy session cannot be changed, the map change is reverted.
func (p *Plugin) AddDelMap(isAdd bool, m nsh.Map) (index uint32, e error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.updateGauges()

	index, found := p.mapByKey[m.NspNsi]
	if isAdd {
		if found {
			return nsh.IndexAll, fmt.Errorf("nsh map %s %w", m.NspNsi, ErrExists)
		}
		if m.NextNode.IsProxy() {
			if e = p.addProxy(m); e != nil {
				return nsh.IndexAll, e
			}
		}
		index = p.maps.alloc(m)
		p.mapByKey[m.NspNsi] = index
		logger.Debug("map added", zap.Stringer("nsp-nsi", m.NspNsi), zap.Uint32("index", index))
		return index, nil
	}

	if !found {
		return nsh.IndexAll, fmt.Errorf("nsh map %s: %w", m.NspNsi, ErrNoSuchEntry)
	}
	stored, _ := p.maps.get(index)
	if stored.NextNode.IsProxy() {
		if e = p.delProxy(stored); e != nil {
			return nsh.IndexAll, e
		}
	}
	p.maps.release(index)
	delete(p.mapByKey, m.NspNsi)
	logger.Debug("map deleted", zap.Stringer("nsp-nsi", m.NspNsi), zap.Uint32("index", index))
	return nsh.IndexAll, nil
}

func (p *Plugin) addProxy(m nsh.Map) error {
	ps, e := nsh.MakeProxySession(m)
	if e != nil {
		return fmt.Errorf("%w: %w: %v", ErrProxySession, ErrInvalidNsi, e)
	}
	if _, found := p.proxies[ps.ProxyKey]; found {
		return fmt.Errorf("%w %s %d %w", ErrProxySession, ps.TransportType, ps.TransportIndex, ErrExists)
	}
	p.proxies[ps.ProxyKey] = ps.NspNsi
	return nil
}

func (p *Plugin) delProxy(m nsh.Map) error {
	key := nsh.ProxyKey{TransportType: m.NextNode, TransportIndex: m.SwIfIndex}
	if _, found := p.proxies[key]; !found {
		return fmt.Errorf("%w %s %d: %w", ErrProxySession, key.TransportType, key.TransportIndex, ErrNoSuchEntry)
	}
	delete(p.proxies, key)
	return nil
}

// Maps returns NSH maps.
// If index is nsh.IndexAll, all maps are returned in index order.
// Otherwise, the map at index is returned if it exists.
func (p *Plugin) Maps(index uint32) (list []IndexedMap) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index != nsh.IndexAll {
		if m, ok := p.maps.get(index); ok {
			list = append(list, IndexedMap{Index: index, Map: m})
		}
		return list
	}

	p.maps.each(func(i uint32, m nsh.Map) {
		list = append(list, IndexedMap{Index: i, Map: m})
	})
	return list
}

// ProxySessions returns NSH proxy sessions sorted by transport.
func (p *Plugin) ProxySessions() (list []nsh.ProxySession) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, nspNsi := range p.proxies {
		list = append(list, nsh.ProxySession{ProxyKey: key, NspNsi: nspNsi})
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].ProxyKey, list[j].ProxyKey
		if a.TransportType != b.TransportType {
			return a.TransportType < b.TransportType
		}
		return a.TransportIndex < b.TransportIndex
	})
	return list
}

// LookupProxy finds the NspNsi that a proxy session pushes for a transport.
func (p *Plugin) LookupProxy(key nsh.ProxyKey) (nspNsi nsh.NspNsi, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	nspNsi, ok = p.proxies[key]
	return
}

func (p *Plugin) updateGauges() {
	stats.SetTableSizes(p.entries.len(), p.maps.len(), len(p.proxies))
}
