// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"io"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/olekukonko/tablewriter"

	"github.com/thedlop/sigma-go/node/nipopow"
)

const (
	outcomeAdopted   = "adopted"
	outcomeLost      = "lost"
	outcomeRejected  = "rejected"
	outcomeMalformed = "malformed"
)

// ProofReport is the outcome of one processed proof file.
type ProofReport struct {
	File    string `csv:"file"`
	Outcome string `csv:"outcome"`
	Height  uint32 `csv:"height"`
	TipID   string `csv:"tip_id"`
	Prefix  int    `csv:"prefix"`
	Suffix  int    `csv:"suffix"`
	Reason  string `csv:"reason"`
}

func newProofReport(file string, proof *nipopow.NipopowProof, adopted bool, err error) ProofReport {
	r := ProofReport{File: file, Outcome: outcomeLost}
	switch {
	case err != nil:
		r.Outcome = outcomeRejected
		r.Reason = err.Error()
		var kind nipopow.ErrorKind
		if !errors.As(err, &kind) {
			r.Outcome = outcomeMalformed
		}
	case adopted:
		r.Outcome = outcomeAdopted
	}

	if proof != nil {
		r.Prefix = len(proof.Prefix)
		r.Suffix = len(proof.SuffixTail)
		if proof.SuffixHead != nil {
			r.Suffix++
		}
		if tip := proof.Tip(); tip != nil {
			r.Height = tip.Height
			r.TipID = tip.ID.String()
		}
	}
	return r
}

func renderTable(w io.Writer, rows []ProofReport) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Outcome", "Height", "Tip", "Prefix", "Suffix", "Reason"})
	table.SetRowLine(true)
	for _, r := range rows {
		table.Append([]string{
			r.File,
			r.Outcome,
			strconv.FormatUint(uint64(r.Height), 10),
			r.TipID,
			strconv.Itoa(r.Prefix),
			strconv.Itoa(r.Suffix),
			r.Reason,
		})
	}
	table.Render()
}

type CSVStorage struct {
	path string
}

func NewCSVStorage(path string) *CSVStorage {
	return &CSVStorage{path: path}
}

func (storage *CSVStorage) SaveRows(rows []ProofReport) error {
	file, err := os.OpenFile(storage.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	return gocsv.MarshalFile(&rows, file)
}
