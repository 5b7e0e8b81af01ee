// Command nshsfc-engine runs the NSH engine and serves its binary API.
package main

import (
	"bytes"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"github.com/usnistgov/nshsfc/core/gqlclient"
	"github.com/usnistgov/nshsfc/core/gqlserver"
	"github.com/usnistgov/nshsfc/core/logging"
	_ "github.com/usnistgov/nshsfc/core/logging/logginggql"
	"github.com/usnistgov/nshsfc/core/version"
	"github.com/usnistgov/nshsfc/mgmt/gqlnsh"
	"github.com/usnistgov/nshsfc/nsh/nshplugin"
	"github.com/usnistgov/nshsfc/nsh/sockettransport"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

var logger = logging.New("main")

var app = &cli.App{
	Version: version.V.String(),
	Usage:   "Run NSH engine.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "JSON configuration `file`",
			EnvVars: []string{"NSHSFC_ENGINE_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "socket",
			Usage: "binary API socket `address`, overrides config",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, e := loadConfig(c.String("config"))
		if e != nil {
			return cli.Exit(e, 1)
		}
		if c.IsSet("socket") {
			cfg.Socket = c.String("socket")
		}

		plugin := nshplugin.New()
		for _, line := range cfg.Startup {
			output, e := plugin.Exec(line)
			if e != nil {
				return cli.Exit(e, 1)
			}
			logger.Info("startup command", zap.String("line", line), zap.String("output", output))
		}

		network, address, e := sockettransport.ParseAddress(cfg.Socket)
		if e != nil {
			return cli.Exit(e, 1)
		}
		server := nshplugin.NewServer(plugin, cfg.Server)
		defer server.Close()
		if _, e := server.Listen(network, address); e != nil {
			return cli.Exit(e, 1)
		}

		if cfg.Metrics != "" {
			go serveMetrics(cfg.Metrics)
		}
		if cfg.GqlServer != "" {
			if e := serveGraphQL(cfg.GqlServer, plugin); e != nil {
				return cli.Exit(e, 1)
			}
		}

		go systemdNotify()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, unix.SIGINT, unix.SIGTERM)
		logger.Info("shutdown requested by signal", zap.Stringer("signal", <-sig))
		daemon.SdNotify(false, daemon.SdNotifyStopping)
		return nil
	},
}

func serveMetrics(listen string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("metrics HTTP server starting", zap.String("listen", listen))
	logger.Error("metrics HTTP server error", zap.Error(http.ListenAndServe(listen, mux)))
}

func serveGraphQL(serverURI string, plugin *nshplugin.Plugin) error {
	listen, e := gqlclient.MakeListenAddress(serverURI)
	if e != nil {
		return e
	}

	gqlnsh.GqlPlugin = plugin
	h, e := gqlserver.Handler()
	if e != nil {
		return e
	}

	go func() {
		logger.Info("GraphQL HTTP server starting", zap.String("listen", listen))
		logger.Error("GraphQL HTTP server error", zap.Error(http.ListenAndServe(listen, h)))
	}()
	return nil
}

func systemdNotify() {
	daemon.SdNotify(false, daemon.SdNotifyReady)

	d, e := daemon.SdWatchdogEnabled(false)
	if d == 0 || e != nil {
		logger.Debug("systemd watchdog not configured", zap.Error(e))
		return
	}

	d /= 2
	logger.Debug("systemd watchdog enabled", zap.Duration("duration", d))
	for range time.Tick(d) {
		daemon.SdNotify(false, daemon.SdNotifyWatchdog)
	}
}

func main() {
	var uname unix.Utsname
	unix.Uname(&uname)
	logger.Info("NSH engine starting",
		zap.Any("version", version.V),
		zap.Int("uid", os.Getuid()),
		zap.ByteString("linux", bytes.TrimRight(uname.Release[:], string([]byte{0}))),
	)

	e := app.Run(os.Args)
	logging.Sync()
	if e != nil {
		os.Exit(1)
	}
}
