// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/katalvlaran/densela/matrix"
	"github.com/spf13/cobra"
)

type addFlags struct {
	rows, cols  int
	reps        int
	minParallel int
}

func newAddCmd(g *globalFlags) *cobra.Command {
	f := &addFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Time A += B for random A and B of the same shape",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, g, f)
		},
	}

	cmd.Flags().IntVarP(&f.rows, "rows", "r", 1024, "Rows of A and B")
	cmd.Flags().IntVarP(&f.cols, "cols", "c", 1024, "Cols of A and B")
	cmd.Flags().IntVar(&f.reps, "reps", 10, "Repetitions; the best time is reported")
	cmd.Flags().IntVar(&f.minParallel, "min-parallel", matrix.DefaultMinParallelElems,
		"Element count below which rows are added on one goroutine")

	return cmd
}

func runAdd(cmd *cobra.Command, g *globalFlags, f *addFlags) error {
	if f.reps < 1 {
		return fmt.Errorf("invalid --reps %d: must be >= 1", f.reps)
	}
	if f.minParallel < 0 {
		return fmt.Errorf("invalid --min-parallel %d: must be >= 0", f.minParallel)
	}
	log, err := g.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	opts, _, err := g.matrixOptions(log)
	if err != nil {
		return err
	}
	opts = append(opts, matrix.WithMinParallelElems(f.minParallel))

	rng := rand.New(rand.NewSource(g.seed))
	a, err := randomDense(rng, f.rows, f.cols, opts)
	if err != nil {
		return fmt.Errorf("failed to build A: %w", err)
	}
	defer a.Release()
	b, err := randomDense(rng, f.rows, f.cols, opts)
	if err != nil {
		return fmt.Errorf("failed to build B: %w", err)
	}
	defer b.Release()

	var best time.Duration
	for rep := 0; rep < f.reps; rep++ {
		start := time.Now()
		if _, err = a.AddAssign(b); err != nil {
			return fmt.Errorf("addition failed: %w", err)
		}
		elapsed := time.Since(start)
		if rep == 0 || elapsed < best {
			best = elapsed
		}
		log.Debug().Int("rep", rep).Dur("elapsed", elapsed).Msg("add")
	}

	bytes := 3 * 8 * float64(f.rows) * float64(f.cols) // two loads, one store
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "shape:    %d×%d\n", f.rows, f.cols)
	fmt.Fprintf(out, "best:     %s\n", best)
	fmt.Fprintf(out, "gb/s:     %.3f\n", bytes/best.Seconds()/1e9)
	fmt.Fprintf(out, "checksum: %g\n", sum(a.Values()))

	return nil
}
