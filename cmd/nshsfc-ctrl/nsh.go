package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/urfave/cli/v2"
	"github.com/usnistgov/nshsfc/core/runningstat"
	"github.com/usnistgov/nshsfc/nsh"
	"github.com/usnistgov/nshsfc/nsh/binapi/nshapi"
	"github.com/usnistgov/nshsfc/nsh/nshplugin"
	"go.fd.io/govpp/binapi/memclnt"
	"go.fd.io/govpp/binapi/vlib"
)

type indexResult struct {
	Context uint32 `json:"context"`
	Index   uint32 `json:"index"`
}

func nspNsiFlags(prefix string) []cli.Flag {
	return []cli.Flag{
		&cli.UintFlag{
			Name:     prefix + "nsp",
			Usage:    "service path `identifier`",
			Required: true,
		},
		&cli.UintFlag{
			Name:     prefix + "nsi",
			Usage:    "service `index`",
			Required: true,
		},
	}
}

func readNspNsi(c *cli.Context, prefix string) (nsh.NspNsi, error) {
	nsp, nsi := c.Uint(prefix+"nsp"), c.Uint(prefix+"nsi")
	if nsp > nsh.MaxNsp || nsi > nsh.NsiMask {
		return 0, fmt.Errorf("%snsp %d %snsi %d out of range", prefix, nsp, prefix, nsi)
	}
	return nsh.MakeNspNsi(uint32(nsp), uint8(nsi)), nil
}

var indexFlag = &cli.UintFlag{
	Name:  "index",
	Usage: "pool `index` (default: all)",
}

func readIndex(c *cli.Context) uint32 {
	if c.IsSet("index") {
		return uint32(c.Uint("index"))
	}
	return nsh.IndexAll
}

func init() {
	entryFlags := append(nspNsiFlags(""),
		&cli.UintFlag{
			Name:  "version",
			Usage: "NSH `version`",
		},
		&cli.BoolFlag{
			Name:  "o-bit",
			Usage: "set OAM bit",
		},
		&cli.BoolFlag{
			Name:  "c-bit",
			Usage: "set critical metadata bit",
		},
		&cli.StringFlag{
			Name:  "next-protocol",
			Usage: "next `protocol`: ip4, ip6, ethernet",
			Value: "ip4",
		},
		&cli.UintFlag{Name: "c1", Usage: "context header `c1`"},
		&cli.UintFlag{Name: "c2", Usage: "context header `c2`"},
		&cli.UintFlag{Name: "c3", Usage: "context header `c3`"},
		&cli.UintFlag{Name: "c4", Usage: "context header `c4`"},
	)

	addDelEntry := func(c *cli.Context, isAdd bool) error {
		var ent nsh.Entry
		var e error
		if ent.NspNsi, e = readNspNsi(c, ""); e != nil {
			return e
		}
		if isAdd {
			if ent.NextProtocol, e = nsh.ParseNextProtocol(c.String("next-protocol")); e != nil {
				return e
			}
			ent.MdType, ent.Length = nsh.MdType1, nsh.MdType1Length
			ent.VerOC = nsh.MakeVerOC(uint8(c.Uint("version")), c.Bool("o-bit"), c.Bool("c-bit"))
			ent.C1, ent.C2, ent.C3, ent.C4 = uint32(c.Uint("c1")), uint32(c.Uint("c2")), uint32(c.Uint("c3")), uint32(c.Uint("c4"))
		}

		api, e := openAPI(c)
		if e != nil {
			return e
		}
		ctx, cancel := withTimeout(c)
		defer cancel()
		res, e := api.NshAddDelEntry(nshapi.NewNshAddDelEntry(isAdd, ent)).Get(ctx)
		if e != nil {
			return e
		}
		printJSON(indexResult{Context: res.Context, Index: res.Reply.EntryIndex})
		return nil
	}

	defineCommand(&cli.Command{
		Category: "nsh",
		Name:     "entry",
		Usage:    "Manage NSH entries",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an NSH entry (MD type 1)",
				Flags: entryFlags,
				Action: func(c *cli.Context) error {
					return addDelEntry(c, true)
				},
			},
			{
				Name:  "delete",
				Usage: "Delete an NSH entry",
				Flags: nspNsiFlags(""),
				Action: func(c *cli.Context) error {
					return addDelEntry(c, false)
				},
			},
			{
				Name:  "list",
				Usage: "List NSH entries",
				Flags: []cli.Flag{indexFlag},
				Action: func(c *cli.Context) error {
					api, e := openAPI(c)
					if e != nil {
						return e
					}
					ctx, cancel := withTimeout(c)
					defer cancel()
					res, e := api.NshEntryDump(&nshapi.NshEntryDump{EntryIndex: readIndex(c)}).Get(ctx)
					if e != nil {
						return e
					}

					list := []nshplugin.IndexedEntry{}
					for _, d := range res.Details {
						list = append(list, nshplugin.IndexedEntry{Index: d.EntryIndex, Entry: d.Entry()})
					}
					printJSON(list)
					return nil
				},
			},
		},
	})
}

func init() {
	mapFlags := append(nspNsiFlags(""), nspNsiFlags("mapped-")...)
	mapFlags = append(mapFlags,
		&cli.StringFlag{
			Name:  "action",
			Usage: "NSH `action`: swap, push, pop",
			Value: "swap",
		},
		&cli.StringFlag{
			Name:  "next-node",
			Usage: "encapsulation `node`: gre, vxlan-gpe, vxlan4, vxlan6, drop",
			Value: "drop",
		},
		&cli.UintFlag{
			Name:  "sw-if-index",
			Usage: "encapsulation `interface` index",
		},
	)

	addDelMap := func(c *cli.Context, isAdd bool) error {
		var m nsh.Map
		var e error
		if m.NspNsi, e = readNspNsi(c, ""); e != nil {
			return e
		}
		if isAdd {
			if m.MappedNspNsi, e = readNspNsi(c, "mapped-"); e != nil {
				return e
			}
			if m.Action, e = nsh.ParseAction(c.String("action")); e != nil {
				return e
			}
			if m.NextNode, e = nsh.ParseNextNode(c.String("next-node")); e != nil {
				return e
			}
			m.SwIfIndex = uint32(c.Uint("sw-if-index"))
		}

		api, e := openAPI(c)
		if e != nil {
			return e
		}
		ctx, cancel := withTimeout(c)
		defer cancel()
		res, e := api.NshAddDelMap(nshapi.NewNshAddDelMap(isAdd, m)).Get(ctx)
		if e != nil {
			return e
		}
		printJSON(indexResult{Context: res.Context, Index: res.Reply.MapIndex})
		return nil
	}

	defineCommand(&cli.Command{
		Category: "nsh",
		Name:     "map",
		Usage:    "Manage NSH maps",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an NSH map",
				Flags: mapFlags,
				Action: func(c *cli.Context) error {
					return addDelMap(c, true)
				},
			},
			{
				Name:  "delete",
				Usage: "Delete an NSH map",
				Flags: nspNsiFlags(""),
				Action: func(c *cli.Context) error {
					return addDelMap(c, false)
				},
			},
			{
				Name:  "list",
				Usage: "List NSH maps",
				Flags: []cli.Flag{indexFlag},
				Action: func(c *cli.Context) error {
					api, e := openAPI(c)
					if e != nil {
						return e
					}
					ctx, cancel := withTimeout(c)
					defer cancel()
					res, e := api.NshMapDump(&nshapi.NshMapDump{MapIndex: readIndex(c)}).Get(ctx)
					if e != nil {
						return e
					}

					list := []nshplugin.IndexedMap{}
					for _, d := range res.Details {
						list = append(list, nshplugin.IndexedMap{Index: d.MapIndex, Map: d.Map()})
					}
					printJSON(list)
					return nil
				},
			},
		},
	})
}

func init() {
	defineCommand(&cli.Command{
		Category:  "engine",
		Name:      "exec",
		Usage:     "Execute a debug CLI command",
		ArgsUsage: "WORDS...",
		Description: "Supported commands:\n   " + strings.Join([]string{
			nshplugin.EntryCommandHelp,
			nshplugin.MapCommandHelp,
			"show nsh entry",
			"show nsh map",
			"show nsh proxy-session",
		}, "\n   "),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("exec: command is required", 1)
			}

			api, e := openAPI(c)
			if e != nil {
				return e
			}
			ctx, cancel := withTimeout(c)
			defer cancel()
			res, e := api.CliInband(&vlib.CliInband{Cmd: shellquote.Join(c.Args().Slice()...)}).Get(ctx)
			if e != nil {
				return e
			}
			fmt.Print(res.Reply.Reply)
			return nil
		},
	})
}

func init() {
	type pingResult struct {
		Context     uint32        `json:"context"`
		ClientIndex uint32        `json:"clientIndex"`
		VpePID      uint32        `json:"vpePid"`
		RTT         time.Duration `json:"rtt"`
	}

	defineCommand(&cli.Command{
		Category: "engine",
		Name:     "ping",
		Usage:    "Check engine liveness with control_ping",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "count",
				Usage: "number of pings",
				Value: 1,
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "interval between pings",
				Value: time.Second,
			},
		},
		Action: func(c *cli.Context) error {
			api, e := openAPI(c)
			if e != nil {
				return e
			}

			var rtt runningstat.RunningStat
			count := c.Int("count")
			for i := 0; i < count; i++ {
				if i > 0 {
					time.Sleep(c.Duration("interval"))
				}

				ctx, cancel := withTimeout(c)
				t0 := time.Now()
				res, e := api.ControlPing(&memclnt.ControlPing{}).Get(ctx)
				cancel()
				if e != nil {
					return e
				}
				result := pingResult{
					Context:     res.Context,
					ClientIndex: res.Reply.ClientIndex,
					VpePID:      res.Reply.VpePID,
					RTT:         time.Since(t0),
				}
				rtt.Push(float64(result.RTT))
				printJSON(result)
			}

			if count > 1 {
				printJSON(map[string]any{"rttMillis": rtt.Read().Scale(1 / float64(time.Millisecond))})
			}
			return nil
		},
	})
}
