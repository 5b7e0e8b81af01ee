// Command nshsfc-ctrl controls an NSH engine through its binary API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"reflect"
	"sort"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/usnistgov/nshsfc/core/gqlclient"
	"github.com/usnistgov/nshsfc/core/version"
	"github.com/usnistgov/nshsfc/nsh/apiclient"
)

var (
	socket    string
	govpp     bool
	gqlserver string
	timeout   time.Duration
	conn      *apiclient.Conn
	client    *gqlclient.Client
)

var app = &cli.App{
	Version: version.V.String(),
	Usage:   "Control NSH engine.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "socket",
			Value:       "/run/vpp/api.sock",
			Usage:       "binary API socket `address`",
			EnvVars:     []string{"NSHSFC_SOCKET"},
			Destination: &socket,
		},
		&cli.BoolFlag{
			Name:        "govpp",
			Usage:       "connect via GoVPP socketclient (Unix socket only)",
			Destination: &govpp,
		},
		&cli.StringFlag{
			Name:        "gqlserver",
			Value:       "http://127.0.0.1:3030/",
			Usage:       "GraphQL `endpoint` of NSH engine",
			EnvVars:     []string{"GQLSERVER"},
			Destination: &gqlserver,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Value:       5 * time.Second,
			Usage:       "per-operation `timeout`",
			Destination: &timeout,
		},
	},
	After: func(c *cli.Context) (e error) {
		if conn != nil {
			e = conn.Close()
		}
		if client != nil {
			client.Close()
		}
		return e
	},
}

func defineCommand(command *cli.Command) {
	app.Commands = append(app.Commands, command)
}

// openAPI connects to the engine on first use.
func openAPI(c *cli.Context) (*apiclient.FutureAPI, error) {
	if conn == nil {
		ctx, cancel := context.WithTimeout(c.Context, timeout)
		defer cancel()

		var e error
		if conn, e = apiclient.Dial(ctx, socket, apiclient.DialConfig{
			Config: apiclient.Config{ClientName: "nshsfc-ctrl"},
			GoVPP:  govpp,
		}); e != nil {
			return nil, e
		}
	}
	return apiclient.NewFutureAPI(conn), nil
}

func openGqlClient() (_ *gqlclient.Client, e error) {
	if client == nil {
		if client, e = gqlclient.New(gqlclient.Config{HTTPUri: gqlserver}); e != nil {
			return nil, e
		}
	}
	return client, nil
}

func withTimeout(c *cli.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context, timeout)
}

// printJSON prints a value as JSON, or each element of a slice as one line of JSON.
func printJSON(value any) {
	if val := reflect.ValueOf(value); val.Kind() == reflect.Slice {
		for i, last := 0, val.Len(); i < last; i++ {
			j, _ := json.Marshal(val.Index(i).Interface())
			fmt.Println(string(j))
		}
	} else {
		j, _ := json.Marshal(value)
		fmt.Println(string(j))
	}
}

func main() {
	sort.Sort(cli.CommandsByName(app.Commands))
	e := app.Run(os.Args)
	if e != nil {
		log.Fatal(e)
	}
}
