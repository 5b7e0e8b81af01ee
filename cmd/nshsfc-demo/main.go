// Command nshsfc-demo runs the callback and future API demonstrations against an NSH engine.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/usnistgov/nshsfc/core/nnduration"
	"github.com/usnistgov/nshsfc/core/version"
	"github.com/usnistgov/nshsfc/nsh"
	"github.com/usnistgov/nshsfc/nsh/apiclient"
	"github.com/usnistgov/nshsfc/nsh/harness"
	"github.com/usnistgov/nshsfc/nsh/nshplugin"
	"github.com/usnistgov/nshsfc/nsh/sockettransport"
)

var (
	interrupt = make(chan os.Signal, 1)
	engine    *nshplugin.Server
	conn      *apiclient.Conn
)

// connectEmbedded starts an in-process engine and connects to it over a pipe.
func connectEmbedded(ctx context.Context) (e error) {
	engine = nshplugin.NewServer(nshplugin.New(), nshplugin.ServerConfig{})
	trA, trB, e := sockettransport.Pipe(sockettransport.Config{})
	if e != nil {
		return e
	}
	engine.ServeTransport(trB)

	conn, e = apiclient.Connect(ctx, trA, apiclient.Config{ClientName: "nshsfc-demo"})
	return e
}

var app = &cli.App{
	Version: version.V.String(),
	Usage:   "NSH binary API demo.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "socket",
			Value:   "/run/vpp/api.sock",
			Usage:   "binary API socket `address` of NSH engine",
			EnvVars: []string{"NSHSFC_SOCKET"},
		},
		&cli.BoolFlag{
			Name:  "embedded",
			Usage: "run against an in-process engine",
		},
		&cli.BoolFlag{
			Name:  "govpp",
			Usage: "connect via GoVPP socketclient (Unix socket only)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Value: 10 * time.Second,
			Usage: "connect and run `timeout`",
		},
	},
	Before: func(c *cli.Context) (e error) {
		signal.Notify(interrupt, syscall.SIGINT)
		ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
		defer cancel()

		if c.Bool("embedded") {
			return connectEmbedded(ctx)
		}
		conn, e = apiclient.Dial(ctx, c.String("socket"), apiclient.DialConfig{
			Config: apiclient.Config{ClientName: "nshsfc-demo"},
			GoVPP:  c.Bool("govpp"),
		})
		return e
	},
	After: func(c *cli.Context) (e error) {
		if conn != nil {
			fmt.Println("Disconnecting...")
			e = conn.Close()
		}
		if engine != nil {
			engine.Close()
		}
		return e
	},
}

func defineCommand(command *cli.Command) {
	app.Commands = append(app.Commands, command)
}

func harnessFlags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:  "delay",
			Usage: "pause after each reply",
		},
		&cli.UintFlag{
			Name:  "dump-index",
			Usage: "entry_index of the dump request (default: all)",
		},
		&cli.UintFlag{
			Name:  "nsp",
			Usage: "service path identifier of the added entry",
			Value: 1,
		},
		&cli.UintFlag{
			Name:  "nsi",
			Usage: "service index of the added entry",
			Value: 2,
		},
	}
}

func readHarnessConfig(c *cli.Context) (cfg harness.Config, e error) {
	cfg.Delay = nnduration.Milliseconds(c.Duration("delay") / time.Millisecond)
	if c.IsSet("dump-index") {
		index := uint32(c.Uint("dump-index"))
		cfg.DumpIndex = &index
	}

	nsp, nsi := c.Uint("nsp"), c.Uint("nsi")
	if nsp > nsh.MaxNsp || nsi > nsh.NsiMask {
		return cfg, fmt.Errorf("nsp %d nsi %d out of range", nsp, nsi)
	}
	ent := harness.DefaultEntry()
	ent.NspNsi = nsh.MakeNspNsi(uint32(nsp), uint8(nsi))
	cfg.Entry = &ent
	return cfg, nil
}

// runContext returns a context canceled by timeout or SIGINT.
func runContext(c *cli.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	go func() {
		select {
		case <-interrupt:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func main() {
	sort.Sort(cli.CommandsByName(app.Commands))
	e := app.Run(os.Args)
	if e != nil {
		log.Fatal(e)
	}
}
