// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"github.com/thedlop/sigma-go/corelog"
	"github.com/thedlop/sigma-go/node/nipopow"
)

const (
	logUnitMAIN = "MAIN"
	logUnitNIPO = "NIPO"
	logUnitMETR = "METR"
)

// Loggers holds the loggers of every subsystem.
type Loggers struct {
	Main    zerolog.Logger
	Nipopow zerolog.Logger
	Metrics *zap.Logger
}

// SetupLoggers creates the subsystem loggers and hands them to the library
// packages.
func SetupLoggers(cfg *Config) Loggers {
	level := corelog.ParseLevel(cfg.DebugLevel)
	loggers := Loggers{
		Main:    corelog.New(logUnitMAIN, level, cfg.LogConfig),
		Nipopow: corelog.New(logUnitNIPO, level, cfg.LogConfig),
		Metrics: corelog.NewZap(logUnitMETR, level, cfg.LogConfig),
	}

	nipopow.UseLogger(loggers.Nipopow)
	return loggers
}
