package binapi

import (
	"github.com/usnistgov/nshsfc/nsh/binapi/nshapi"
	api "go.fd.io/govpp/api"
	"go.fd.io/govpp/binapi/memclnt"
	"go.fd.io/govpp/binapi/vlib"
)

// Fixed message IDs, known before the message table is exchanged.
const (
	SockclntCreateID      uint16 = 15
	SockclntCreateReplyID uint16 = 16
)

// Message ID bases used by the engine when assigning message IDs.
const (
	CoreMsgIDBase          = SockclntCreateReplyID + 1
	PluginMsgIDBase uint16 = 100
)

// CoreMessages returns the memclnt and vlib messages served by the engine, except sockclnt_create and its reply.
func CoreMessages() []api.Message {
	return []api.Message{
		(*memclnt.SockclntDelete)(nil),
		(*memclnt.SockclntDeleteReply)(nil),
		(*memclnt.ControlPing)(nil),
		(*memclnt.ControlPingReply)(nil),
		(*vlib.CliInband)(nil),
		(*vlib.CliInbandReply)(nil),
	}
}

// PluginMessages returns messages of the NSH plugin.
func PluginMessages() []api.Message {
	return nshapi.AllMessages()
}

// AllMessages returns every message known to clients.
func AllMessages() (list []api.Message) {
	list = append(list,
		(*memclnt.SockclntCreate)(nil),
		(*memclnt.SockclntCreateReply)(nil),
	)
	list = append(list, CoreMessages()...)
	return append(list, PluginMessages()...)
}
