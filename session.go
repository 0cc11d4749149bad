package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"qtermlab/history"
	"qtermlab/qcengine"
)

// runRequest is one program execution asked for by the CLI or the TUI.
type runRequest struct {
	Name    string
	Program qcengine.Program
	Shots   int
	Seed    int64 // 0 lets the engine draw one
}

// runOutcome is a finished run plus the history id it was stored under, if any.
type runOutcome struct {
	Name   string
	Result *qcengine.Result
	RunID  string
}

// isQASMFile reports whether path names an OpenQASM source.
func isQASMFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".qasm")
}

// loadProgram reads a program file. OpenQASM is used when forced or when the
// file has a .qasm extension.
func loadProgram(path string, forceQASM bool) (qcengine.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program: %w", err)
	}
	if forceQASM || isQASMFile(path) {
		prog, err := qcengine.ParseQASM(string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return prog, nil
	}
	prog, err := qcengine.ParseProgram(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

// execute runs req and records it when a store is configured. A failed
// history write is logged and does not fail the run.
func execute(ctx context.Context, cfg Config, store *history.Store, logger *log.Logger, req runRequest) (runOutcome, error) {
	opts := append(cfg.runOptions(req.Seed), qcengine.WithLogger(logger))
	res, err := qcengine.Run(req.Program, req.Shots, opts...)
	if err != nil {
		logger.Error("run failed", "name", req.Name, "err", err)
		return runOutcome{}, err
	}
	logger.Info("run complete", "name", req.Name, "shots", res.Shots, "qubits", res.QubitCount, "seed", res.Seed)

	out := runOutcome{Name: req.Name, Result: res}
	if store == nil {
		return out, nil
	}
	rec, err := store.Record(ctx, history.Run{
		Name:       req.Name,
		Program:    req.Program.String(),
		Shots:      res.Shots,
		Seed:       res.Seed,
		QubitCount: res.QubitCount,
		Histogram:  res.Histogram,
	})
	if err != nil {
		logger.Warn("history not recorded", "err", err)
		return out, nil
	}
	out.RunID = rec.ID
	logger.Debug("run recorded", "id", rec.ID)
	return out, nil
}

// openHistory opens the configured store, or returns nil when history is off.
func openHistory(ctx context.Context, cfg Config) (*history.Store, error) {
	if cfg.HistoryDB == "" {
		return nil, nil
	}
	return history.Open(ctx, cfg.HistoryDB)
}
