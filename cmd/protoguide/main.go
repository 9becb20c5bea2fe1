package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/protoguide/protoguide/internal/config"
	"github.com/protoguide/protoguide/internal/version"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	envFlag := &cli.StringFlag{
		Name:    "env",
		Aliases: []string{"e"},
		Usage:   "Configuration environment (config/<env>.yaml)",
		EnvVars: []string{"ENV"},
		Value:   config.GetEnv(),
	}

	return &cli.App{
		Name:    "protoguide",
		Usage:   "Protocol lookup and answer service for field responders",
		Version: version.Version,
		Flags:   []cli.Flag{envFlag},
		Action:  serveCommand,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
			},
			{
				Name:   "token",
				Usage:  "Issue an identity token for an existing user",
				Action: tokenCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "subject",
						Aliases:  []string{"s"},
						Usage:    "User open id to put in the token subject",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name claim",
					},
					&cli.DurationFlag{
						Name:  "ttl",
						Usage: "Token lifetime (defaults to auth.token_ttl_hours)",
					},
				},
			},
			{
				Name:  "version",
				Usage: "Print build information",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprintln(c.App.Writer, version.String())
					return err
				},
			},
		},
	}
}
