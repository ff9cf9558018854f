// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/thedlop/sigma-go/node/nipopow"
	"github.com/thedlop/sigma-go/types/wire"
)

const (
	flagChain      = "chain"
	flagM          = "m"
	flagK          = "k"
	flagContinuous = "continuous"
	flagOut        = "out"
)

func (app *App) proveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     flagChain,
			Usage:    "path to a JSON array of headers with interlinks, genesis first",
			Required: true,
		},
		&cli.UintFlag{
			Name:  flagM,
			Usage: "minimal superchain length, network default when zero",
		},
		&cli.UintFlag{
			Name:  flagK,
			Usage: "suffix length, network default when zero",
		},
		&cli.BoolFlag{
			Name:  flagContinuous,
			Usage: "mark the proof as continuous",
		},
		&cli.StringFlag{
			Name:    flagOut,
			Aliases: []string{"o"},
			Usage:   "write the proof to this file instead of stdout",
		},
	}
}

func (app *App) proveCmd(c *cli.Context) error {
	data, err := ioutil.ReadFile(c.String(flagChain))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	params := nipopow.PoPowParams{
		M:          app.params.Nipopow.M,
		K:          app.params.Nipopow.K,
		Continuous: c.Bool(flagContinuous),
	}
	if m := c.Uint(flagM); m != 0 {
		params.M = uint32(m)
	}
	if k := c.Uint(flagK); k != 0 {
		params.K = uint32(k)
	}

	out, err := proveChain(nipopow.NewAlgos(app.params.PowScheme()), data, params)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if path := c.String(flagOut); path != "" {
		return ioutil.WriteFile(path, out, 0644)
	}
	fmt.Println(string(out))
	return nil
}

// proveChain decodes a JSON chain and returns the indented JSON proof.
func proveChain(algos *nipopow.Algos, data []byte, params nipopow.PoPowParams) ([]byte, error) {
	var chain []*wire.PoPowHeader
	if err := json.Unmarshal(data, &chain); err != nil {
		return nil, errors.Wrap(err, "decode chain")
	}

	proof, err := algos.Prove(chain, params)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(proof, "", "  ")
}
