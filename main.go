package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"qtermlab/history"
	"qtermlab/qcengine"
)

// app carries what every command needs once the environment is loaded.
type app struct {
	cfg    Config
	logger *log.Logger
	store  *history.Store
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var closeLog func() error

	root := &cobra.Command{
		Use:           "qtermlab [program]",
		Short:         "Terminal quantum circuit lab",
		Long:          "qtermlab edits and runs programs on a state-vector simulator.\nWith no subcommand it opens the interactive editor.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logFile := cfg.LogFile
			if cmd.Name() == "qtermlab" && logFile == "" {
				// The editor owns the terminal.
				logFile = os.DevNull
			}
			logger, closer, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, logFile)
			if err != nil {
				return err
			}
			closeLog = closer
			store, err := openHistory(cmd.Context(), cfg)
			if err != nil {
				return errors.Join(err, closer())
			}
			a.cfg, a.logger, a.store = cfg, logger, store
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			err := a.store.Close()
			if closeLog != nil {
				err = errors.Join(err, closeLog())
			}
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(args)
		},
	}

	root.AddCommand(a.newRunCmd(), a.newQASMCmd(), a.newHistoryCmd())
	return root
}

func (a *app) runTUI(args []string) error {
	var path, source string
	if len(args) == 1 {
		path = args[0]
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// New file; saved on ^S.
		case err != nil:
			return fmt.Errorf("read program: %w", err)
		case isQASMFile(path):
			prog, err := qcengine.ParseQASM(string(data))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			source = prog.String()
			path = strings.TrimSuffix(path, filepath.Ext(path)) + ".qc"
		default:
			source = string(data)
		}
	}

	m := initialModel(a.cfg, a.store, a.logger, path, source)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (a *app) newRunCmd() *cobra.Command {
	var (
		shots    int
		seed     int64
		asQASM   bool
		htmlPath string
		asJSON   bool
		all      bool
	)
	cmd := &cobra.Command{
		Use:   "run <program>",
		Short: "Run a program and print its histogram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := loadProgram(args[0], asQASM)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("shots") {
				shots = a.cfg.Shots
			}
			if !cmd.Flags().Changed("seed") {
				seed = a.cfg.Seed
			}

			out, err := execute(cmd.Context(), a.cfg, a.store, a.logger, runRequest{
				Name:    filepath.Base(args[0]),
				Program: prog,
				Shots:   shots,
				Seed:    seed,
			})
			if err != nil {
				return err
			}

			if htmlPath != "" {
				if err := exportChart(htmlPath, out); err != nil {
					return err
				}
				a.logger.Info("chart written", "path", htmlPath)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			return writeReport(cmd.OutOrStdout(), out, all)
		},
	}
	cmd.Flags().IntVarP(&shots, "shots", "n", 0, "number of shots (default $QTERMLAB_SHOTS)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 draws one (default $QTERMLAB_SEED)")
	cmd.Flags().BoolVar(&asQASM, "qasm", false, "read the program as OpenQASM 2.0")
	cmd.Flags().StringVar(&htmlPath, "html", "", "also write the histogram as an HTML chart")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&all, "all", false, "list outcomes with zero shots")
	return cmd
}

func (a *app) newQASMCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "qasm <program>",
		Short: "Convert a program to OpenQASM 2.0",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := loadProgram(args[0], false)
			if err != nil {
				return err
			}
			qasm, warnings := qcengine.ToQASM(prog)
			for _, w := range warnings {
				a.logger.Warn("qasm export", "detail", w)
			}

			if output == "" {
				_, err = io.WriteString(cmd.OutOrStdout(), qasm)
				return err
			}
			return writeQASMFile(output, qasm)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func writeQASMFile(path, qasm string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	_, err = io.WriteString(f, qasm)
	return errors.Join(err, f.Close())
}

func (a *app) newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.store == nil {
				return errors.New("history is disabled; set QTERMLAB_HISTORY_DB")
			}
			ctx := cmd.Context()
			if len(args) == 1 {
				run, err := a.store.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return writeReport(cmd.OutOrStdout(), runOutcome{
					Name:  run.Name,
					RunID: run.ID,
					Result: &qcengine.Result{
						Histogram:  run.Histogram,
						QubitCount: run.QubitCount,
						Shots:      run.Shots,
						Seed:       run.Seed,
					},
				}, false)
			}
			runs, err := a.store.List(ctx, limit)
			if err != nil {
				return err
			}
			return writeHistory(cmd.OutOrStdout(), runs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to list")
	return cmd
}
