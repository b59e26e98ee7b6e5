// Copyright 2016 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package debug wires verbosity, profiling/trace and pprof flags into a
// urfave/cli command, the way the teacher's own internal/debug package
// does for geth's subcommands. It carries no firehose/deep-mind
// instrumentation: that is an upstream overlay with no corresponding
// component anywhere in this chain.
package debug

import (
	"fmt"
	"log/slog"
	"net/http"
	_ "net/http/pprof" // registers the pprof HTTP handlers on DefaultServeMux
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/urfave/cli/v2"

	"github.com/ethcore/chain/log"
)

var (
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: -8=trace, -4=debug, 0=info, 4=warn, 8=error",
		Value: int(slog.LevelInfo),
	}
	pprofFlag = &cli.BoolFlag{
		Name:  "pprof",
		Usage: "Enable the pprof HTTP server",
	}
	pprofAddrFlag = &cli.StringFlag{
		Name:  "pprof.addr",
		Usage: "pprof HTTP server listening interface",
		Value: "127.0.0.1",
	}
	pprofPortFlag = &cli.IntFlag{
		Name:  "pprof.port",
		Usage: "pprof HTTP server listening port",
		Value: 6060,
	}
	memprofilerateFlag = &cli.IntFlag{
		Name:  "pprof.memprofilerate",
		Usage: "Turn on memory profiling with the given rate",
		Value: runtime.MemProfileRate,
	}
	cpuprofileFlag = &cli.StringFlag{
		Name:  "pprof.cpuprofile",
		Usage: "Write a CPU profile to the given file for the process's lifetime",
	}
	traceFlag = &cli.StringFlag{
		Name:  "trace",
		Usage: "Write an execution trace to the given file for the process's lifetime",
	}
)

// Flags holds the debugging flags a chaincli command can add to its own
// Flags slice.
var Flags = []cli.Flag{
	verbosityFlag,
	pprofFlag,
	pprofAddrFlag,
	pprofPortFlag,
	memprofilerateFlag,
	cpuprofileFlag,
	traceFlag,
}

var (
	cpuProfileFile *os.File
	traceFile      *os.File
)

// Setup applies the debugging flags: it installs the root logger at the
// requested verbosity, starts CPU/execution-trace capture if
// requested, and launches the pprof server if enabled. Call it as early as
// possible in a command's Action, and call Exit via defer to flush any
// open profiles.
func Setup(ctx *cli.Context) error {
	level := slog.Level(ctx.Int(verbosityFlag.Name))
	log.SetDefault(log.New(os.Stderr, level))

	runtime.MemProfileRate = ctx.Int(memprofilerateFlag.Name)

	if traceFilePath := ctx.String(traceFlag.Name); traceFilePath != "" {
		f, err := os.Create(traceFilePath)
		if err != nil {
			return fmt.Errorf("creating trace file: %w", err)
		}
		if err := trace.Start(f); err != nil {
			f.Close()
			return fmt.Errorf("starting execution trace: %w", err)
		}
		traceFile = f
	}

	if cpuFilePath := ctx.String(cpuprofileFlag.Name); cpuFilePath != "" {
		f, err := os.Create(cpuFilePath)
		if err != nil {
			return fmt.Errorf("creating cpu profile file: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("starting cpu profile: %w", err)
		}
		cpuProfileFile = f
	}

	if ctx.Bool(pprofFlag.Name) {
		address := fmt.Sprintf("%s:%d", ctx.String(pprofAddrFlag.Name), ctx.Int(pprofPortFlag.Name))
		StartPProf(address)
	}
	return nil
}

// StartPProf launches the pprof HTTP server on address in its own
// goroutine; a failure to bind is logged rather than returned, since it
// happens well after Setup's caller could still usefully react to it.
func StartPProf(address string) {
	log.Info("starting pprof server", "addr", fmt.Sprintf("http://%s/debug/pprof", address))
	go func() {
		if err := http.ListenAndServe(address, nil); err != nil {
			log.Error("pprof server failed", "err", err)
		}
	}()
}

// Exit flushes any open CPU or execution-trace profile. Call it via defer
// right after Setup succeeds.
func Exit() {
	if cpuProfileFile != nil {
		pprof.StopCPUProfile()
		cpuProfileFile.Close()
		cpuProfileFile = nil
	}
	if traceFile != nil {
		trace.Stop()
		traceFile.Close()
		traceFile = nil
	}
}
