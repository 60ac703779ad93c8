// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/katalvlaran/densela/backend"
	"github.com/katalvlaran/densela/matrix"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logLevel  string
	backend   string
	workers   int
	heapLimit int64
	seed      int64
}

func (g *globalFlags) logger(w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(g.logLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid --log-level %q: %w", g.logLevel, err)
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(lvl).With().Timestamp().Logger(), nil
}

// matrixOptions resolves the backend flags into Dense options on a fresh heap.
func (g *globalFlags) matrixOptions(log zerolog.Logger) ([]matrix.Option, *backend.Heap, error) {
	if g.workers < 0 {
		return nil, nil, fmt.Errorf("invalid --workers %d: must be >= 0", g.workers)
	}
	heap := backend.NewHeap(g.heapLimit)
	be, err := backend.ByName(g.backend, heap, g.workers)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Str("backend", be.Name()).Int64("heap_limit", g.heapLimit).Msg("backend ready")

	return []matrix.Option{
		matrix.WithBackend(be),
		matrix.WithWorkers(g.workers),
		matrix.WithLogger(log),
	}, heap, nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "densebench",
		Short: "Exercise and time dense float64 matrix operations",
		Long: `densebench builds random dense matrices on a chosen backend and times
in-place multiplication and addition. It also reports the CPU features and
BLAS implementation the process will use.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVarP(&g.backend, "backend", "b", "gonum", fmt.Sprintf("Compute backend %v", backend.Names))
	pf.IntVarP(&g.workers, "workers", "w", 0, "Row-parallel workers (0 = GOMAXPROCS)")
	pf.Int64Var(&g.heapLimit, "heap-limit", 0, "Cap on live buffer bytes (0 = unlimited)")
	pf.Int64Var(&g.seed, "seed", 1, "Seed for random matrix contents")

	root.AddCommand(
		newMulCmd(g),
		newAddCmd(g),
		newExampleCmd(g),
		newCPUCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
