// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/thedlop/sigma-go/types/merkle"
	"github.com/thedlop/sigma-go/types/wire"
)

const (
	flagProof  = "proof"
	flagRoot   = "root"
	flagBatch  = "batch"
	flagHeader = "header"
	flagJSON   = "json"
)

func (app *App) merkleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     flagProof,
			Aliases:  []string{"p"},
			Usage:    "path to the JSON encoded proof",
			Required: true,
		},
		&cli.StringFlag{
			Name:     flagRoot,
			Aliases:  []string{"r"},
			Usage:    "hex encoded root hash",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  flagBatch,
			Usage: "the proof is a batch proof",
		},
	}
}

func (app *App) merkleCmd(c *cli.Context) error {
	data, err := ioutil.ReadFile(c.String(flagProof))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	valid, err := checkMerkleProof(data, c.String(flagRoot), c.Bool(flagBatch))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if !valid {
		return cli.NewExitError("proof is invalid", 2)
	}
	fmt.Println("proof is valid")
	return nil
}

// checkMerkleProof decodes a single or batch proof and checks it against
// the hex encoded root.
func checkMerkleProof(data []byte, root string, batch bool) (bool, error) {
	if !batch {
		proof, err := merkle.ProofFromJSON(data)
		if err != nil {
			return false, err
		}
		return proof.ValidHex(root)
	}

	rawRoot, err := hex.DecodeString(root)
	if err != nil {
		return false, errors.Wrap(err, "root")
	}
	proof := new(merkle.BatchProof)
	if err := json.Unmarshal(data, proof); err != nil {
		return false, err
	}
	return proof.Valid(rawRoot), nil
}

func (app *App) decodeHeaderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     flagHeader,
			Aliases:  []string{"b"},
			Usage:    "hex encoded serialized header",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  flagJSON,
			Usage: "print the header as JSON",
		},
	}
}

func (app *App) decodeHeaderCmd(c *cli.Context) error {
	raw, err := hex.DecodeString(c.String(flagHeader))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	header, err := wire.DeserializeHeader(raw)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if !c.Bool(flagJSON) {
		spew.Dump(header)
		return nil
	}
	data, err := json.MarshalIndent(header, "", "  ")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Println(string(data))
	return nil
}
