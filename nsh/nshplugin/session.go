package nshplugin

import (
	"os"
	"sync"

	"github.com/usnistgov/nshsfc/nsh/apiwire"
	"github.com/usnistgov/nshsfc/nsh/binapi/nshapi"
	api "go.fd.io/govpp/api"
	"go.fd.io/govpp/binapi/memclnt"
	"go.fd.io/govpp/binapi/vlib"
	"go.uber.org/zap"
)

// session serves one client.
type session struct {
	s          *Server
	tr         Transport
	index      uint32
	logger     *zap.Logger
	registered bool

	txMu   sync.Mutex
	closed bool
}

func (sess *session) run() {
	for wire := range sess.tr.Rx() {
		msg, h, e := sess.s.table.Decode(wire)
		if e != nil {
			sess.logger.Warn("cannot decode message", zap.Error(e))
			continue
		}
		sess.handle(msg, h)
	}
	sess.close()
	sess.logger.Debug("session closed")
}

func (sess *session) send(msg api.Message, context uint32) {
	wire, e := sess.s.table.Encode(msg, sess.index, context)
	if e != nil {
		sess.logger.Error("cannot encode message", zap.String("msg", msg.GetMessageName()), zap.Error(e))
		return
	}

	sess.txMu.Lock()
	defer sess.txMu.Unlock()
	if !sess.closed {
		sess.tr.Tx() <- wire
	}
}

func (sess *session) close() {
	sess.txMu.Lock()
	defer sess.txMu.Unlock()
	if !sess.closed {
		sess.closed = true
		close(sess.tr.Tx())
	}
}

func (sess *session) handle(msg api.Message, h apiwire.Header) {
	if _, ok := msg.(*memclnt.SockclntCreate); !ok && !sess.registered {
		sess.logger.Warn("message before sockclnt_create dropped", zap.String("msg", msg.GetMessageName()))
		return
	}

	p := sess.s.plugin
	retval := int32(0)
	switch m := msg.(type) {
	case *memclnt.SockclntCreate:
		sess.registered = true
		reply := &memclnt.SockclntCreateReply{Index: sess.index}
		for _, ent := range sess.s.table.Entries() {
			reply.MessageTable = append(reply.MessageTable, memclnt.MessageTableEntry{Index: ent.ID, Name: ent.NameCRC})
		}
		reply.Count = uint16(len(reply.MessageTable))
		sess.logger.Info("client registered", zap.String("name", m.Name))
		sess.send(reply, h.Context)

	case *memclnt.SockclntDelete:
		sess.send(&memclnt.SockclntDeleteReply{}, h.Context)
		sess.close()

	case *memclnt.ControlPing:
		sess.send(&memclnt.ControlPingReply{ClientIndex: sess.index, VpePID: uint32(os.Getpid())}, h.Context)

	case *vlib.CliInband:
		// CLI errors are reported in reply text, retval stays zero
		output, e := p.Exec(m.Cmd)
		if e != nil {
			output = e.Error() + "\n"
		}
		sess.send(&vlib.CliInbandReply{Reply: output}, h.Context)

	case *nshapi.NshAddDelEntry:
		index, e := p.AddDelEntry(m.IsAdd, m.Entry())
		retval = Retval(e)
		sess.send(&nshapi.NshAddDelEntryReply{Retval: retval, EntryIndex: index}, h.Context)

	case *nshapi.NshEntryDump:
		for _, ent := range p.Entries(m.EntryIndex) {
			sess.send(nshapi.NewNshEntryDetails(ent.Index, ent.Entry), h.Context)
		}

	case *nshapi.NshAddDelMap:
		index, e := p.AddDelMap(m.IsAdd, m.Map())
		retval = Retval(e)
		sess.send(&nshapi.NshAddDelMapReply{Retval: retval, MapIndex: index}, h.Context)

	case *nshapi.NshMapDump:
		for _, nm := range p.Maps(m.MapIndex) {
			sess.send(nshapi.NewNshMapDetails(nm.Index, nm.Map), h.Context)
		}

	default:
		sess.logger.Warn("unexpected message dropped", zap.String("msg", msg.GetMessageName()))
		return
	}

	stats.HandledRequest(msg.GetMessageName(), retval)
}
