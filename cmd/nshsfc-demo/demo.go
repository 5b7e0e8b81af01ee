package main

import (
	"os"

	"github.com/urfave/cli/v2"
	"github.com/usnistgov/nshsfc/nsh/harness"
)

func init() {
	defineCommand(&cli.Command{
		Name:  "callback",
		Usage: "Add an NSH entry and dump entries with the callback API.",
		Flags: harnessFlags(),
		Action: func(c *cli.Context) error {
			cfg, e := readHarnessConfig(c)
			if e != nil {
				return e
			}
			ctx, cancel := runContext(c)
			defer cancel()
			return harness.RunCallback(ctx, conn, os.Stdout, cfg)
		},
	})

	defineCommand(&cli.Command{
		Name:  "future",
		Usage: "Add an NSH entry and dump entries with the future API.",
		Flags: harnessFlags(),
		Action: func(c *cli.Context) error {
			cfg, e := readHarnessConfig(c)
			if e != nil {
				return e
			}
			ctx, cancel := runContext(c)
			defer cancel()
			return harness.RunFuture(ctx, conn, os.Stdout, cfg)
		},
	})
}
