// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/thedlop/sigma-go/node/metrics"
	"github.com/thedlop/sigma-go/node/nipopow"
)

const (
	flagCSV         = "csv"
	flagMetricsFile = "metrics-file"
	flagServe       = "serve"
)

func (app *App) verifyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  flagCSV,
			Usage: "write the report to this CSV file",
		},
		&cli.StringFlag{
			Name:  flagMetricsFile,
			Usage: "write the metrics in text format to this file, overrides the configuration",
		},
		&cli.BoolFlag{
			Name:  flagServe,
			Usage: "keep serving the metrics over http after processing",
		},
	}
}

func (app *App) verifyCmd(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.NewExitError("no proof files given", 1)
	}

	registry := prometheus.NewRegistry()
	recorder := metrics.NewVerifierMetrics(registry, "verifier", app.loggers.Metrics)
	verifier := nipopow.NewVerifier(app.params.GenesisID,
		nipopow.WithParams(app.params),
		nipopow.WithRecorder(recorder),
	)
	recorder.SetSource(verifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	manager := metrics.Metrics(ctx, time.Duration(app.config.Metrics.Interval)*time.Second, registry)
	manager.Add(recorder)

	rows := verifyFiles(verifier, c.Args().Slice())
	renderTable(os.Stdout, rows)
	if tip := verifier.BestChain(); len(tip) > 0 {
		best := tip[len(tip)-1]
		fmt.Printf("best chain tip %s at height %d\n", best.ID, best.Height)
	}

	if path := c.String(flagCSV); path != "" {
		if err := NewCSVStorage(path).SaveRows(rows); err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	manager.ReadAll()
	metricsFile := app.config.Metrics.TextFile
	if path := c.String(flagMetricsFile); path != "" {
		metricsFile = path
	}
	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, registry); err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	if c.Bool(flagServe) || app.config.Metrics.Enable {
		app.loggers.Main.Info().Uint16("port", app.config.Metrics.Port).Msg("serving metrics")
		return manager.Listen(withInterrupt(ctx, app.loggers.Main), "/metrics", app.config.Metrics.Port)
	}
	return nil
}

// verifyFiles feeds the proofs to the verifier in order. Unreadable and
// undecodable files are reported as malformed and skipped.
func verifyFiles(verifier *nipopow.Verifier, paths []string) []ProofReport {
	rows := make([]ProofReport, 0, len(paths))
	for _, path := range paths {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			rows = append(rows, newProofReport(path, nil, false, err))
			continue
		}
		proof, err := nipopow.NewProofFromJSON(data)
		if err != nil {
			rows = append(rows, newProofReport(path, nil, false, err))
			continue
		}

		adopted, err := verifier.Process(proof)
		rows = append(rows, newProofReport(path, proof, adopted, err))
	}
	return rows
}
