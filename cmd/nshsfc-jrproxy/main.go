// Command nshsfc-jrproxy exposes the NSH engine binary API as a JSON-RPC 2.0 management API.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/usnistgov/nshsfc/core/logging"
	"github.com/usnistgov/nshsfc/core/version"
	"github.com/usnistgov/nshsfc/mgmt"
	"github.com/usnistgov/nshsfc/mgmt/nshmgmt"
	"github.com/usnistgov/nshsfc/mgmt/versionmgmt"
	"github.com/usnistgov/nshsfc/nsh/apiclient"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

var logger = logging.New("main")

func main() {
	var socket, listen string
	var timeout time.Duration
	app := &cli.App{
		Name:    "nshsfc-jrproxy",
		Version: version.V.String(),
		Usage:   "Expose NSH engine as JSON-RPC 2.0 management API.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "socket",
				EnvVars:     []string{"NSHSFC_SOCKET"},
				Value:       "/run/vpp/api.sock",
				Usage:       "binary API socket `address` of NSH engine",
				Destination: &socket,
			},
			&cli.StringFlag{
				Name:        "listen",
				EnvVars:     []string{"MGMT"},
				Value:       "tcp:127.0.0.1:6345",
				Usage:       "JSON-RPC listen `address`",
				Destination: &listen,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Value:       nshmgmt.DefaultTimeout,
				Usage:       "per-call `timeout`",
				Destination: &timeout,
			},
		},
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithTimeout(c.Context, timeout)
			conn, e := apiclient.Dial(ctx, socket, apiclient.DialConfig{
				Config: apiclient.Config{ClientName: "nshsfc-jrproxy"},
			})
			cancel()
			if e != nil {
				return e
			}
			defer conn.Close()
			defer conn.OnStateChange(func(isDown bool) {
				logger.Info("engine connection state changed", zap.Bool("down", isDown))
			}).Close()

			server := mgmt.NewServer()
			defer server.Close()
			if e := server.Register(versionmgmt.VersionMgmt{}); e != nil {
				return e
			}
			if e := server.Register(nshmgmt.NshMgmt{API: apiclient.NewFutureAPI(conn), Timeout: timeout}); e != nil {
				return e
			}
			if _, e := server.Listen(listen); e != nil {
				return e
			}

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, unix.SIGINT, unix.SIGTERM)
			logger.Info("shutdown requested by signal", zap.Stringer("signal", <-sig))
			return nil
		},
	}

	e := app.Run(os.Args)
	logging.Sync()
	if e != nil {
		log.Fatal(e)
	}
}
