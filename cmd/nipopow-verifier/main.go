// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/thedlop/sigma-go/config"
	"github.com/thedlop/sigma-go/types/chaincfg"
)

const (
	flagConfig     = "config"
	flagNet        = "net"
	flagDebugLevel = "debug-level"
)

// App holds the state shared by the commands.
type App struct {
	config  *config.Config
	params  *chaincfg.Params
	loggers config.Loggers
}

func main() {
	app := &App{}
	cliApp := &cli.App{
		Name:     "nipopow-verifier",
		Usage:    "checks NiPoPoW proofs and merkle proofs of an Ergo chain",
		Flags:    app.InitFlags(),
		Before:   app.InitCfg,
		Commands: app.getCommands(),
	}

	err := cliApp.Run(os.Args)
	if err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

func (app *App) InitFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Usage:   "path to the yaml or toml configuration file, nipopow.yaml when present",
		},
		&cli.StringFlag{
			Name:  flagNet,
			Usage: "network name, overrides the configuration",
		},
		&cli.StringFlag{
			Name:  flagDebugLevel,
			Usage: "logging level, overrides the configuration",
		},
	}
}

func (app *App) InitCfg(c *cli.Context) error {
	path := c.String(flagConfig)
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigFile()); err == nil {
			path = config.DefaultConfigFile()
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if net := c.String(flagNet); net != "" {
		cfg.Net = net
	}
	if level := c.String(flagDebugLevel); level != "" {
		cfg.DebugLevel = level
	}
	if err := cfg.Validate(); err != nil {
		return cli.NewExitError(err, 1)
	}

	app.params, err = cfg.Params()
	if err != nil {
		return cli.NewExitError(errors.Wrap(err, "network parameters"), 1)
	}
	app.config = cfg
	app.loggers = config.SetupLoggers(cfg)
	app.loggers.Main.Debug().Str("net", app.params.Name).
		Str("genesis", app.params.GenesisID.String()).Msg("configuration loaded")
	return nil
}

func (app *App) getCommands() cli.Commands {
	return []*cli.Command{
		{
			Name:      "verify",
			Usage:     "process NiPoPoW proofs in the given order and report the best chain",
			ArgsUsage: "PROOF.json...",
			Flags:     app.verifyFlags(),
			Action:    app.verifyCmd,
		},
		{
			Name:   "prove",
			Usage:  "build a NiPoPoW proof from a chain of headers with interlinks",
			Flags:  app.proveFlags(),
			Action: app.proveCmd,
		},
		{
			Name:   "merkle",
			Usage:  "check a merkle proof against a root hash",
			Flags:  app.merkleFlags(),
			Action: app.merkleCmd,
		},
		{
			Name:   "decode-header",
			Usage:  "decode a serialized block header",
			Flags:  app.decodeHeaderFlags(),
			Action: app.decodeHeaderCmd,
		},
	}
}
