package main

import (
	"github.com/urfave/cli/v2"
)

func clientDoPrint(c *cli.Context, query string, vars map[string]any, key string) error {
	client, e := openGqlClient()
	if e != nil {
		return e
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	var value any
	if e := client.Do(ctx, query, vars, key, &value); e != nil {
		return e
	}
	printJSON(value)
	return nil
}

func init() {
	defineCommand(&cli.Command{
		Category: "engine",
		Name:     "show-version",
		Usage:    "Show engine version",
		Action: func(c *cli.Context) error {
			return clientDoPrint(c, `
				query version {
					version
				}
			`, nil, "version")
		},
	})

	defineCommand(&cli.Command{
		Category: "engine",
		Name:     "list-loggers",
		Usage:    "List engine log levels",
		Action: func(c *cli.Context) error {
			return clientDoPrint(c, `
				query loggers {
					loggers {
						package
						level
					}
				}
			`, nil, "loggers")
		},
	})

	var pkg, lvl string
	defineCommand(&cli.Command{
		Category: "engine",
		Name:     "set-log-level",
		Usage:    "Change engine log level",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "package",
				Usage:       "package `name`",
				Destination: &pkg,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "level",
				Usage:       "log `level`: V D I W E F",
				Destination: &lvl,
				Required:    true,
			},
		},
		Action: func(c *cli.Context) error {
			return clientDoPrint(c, `
				mutation setLogLevel($package: String!, $level: String!) {
					setLogLevel(package: $package, level: $level) {
						package
						level
					}
				}
			`, map[string]any{
				"package": pkg,
				"level":   lvl,
			}, "setLogLevel")
		},
	})
}
