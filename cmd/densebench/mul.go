// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/katalvlaran/densela/matrix"
	"github.com/spf13/cobra"
)

type mulFlags struct {
	m, k, n int
	reps    int
	verify  bool
}

func newMulCmd(g *globalFlags) *cobra.Command {
	f := &mulFlags{}

	cmd := &cobra.Command{
		Use:   "mul",
		Short: "Time A *= B for random A (m×k) and B (k×n)",
		Long: `Time in-place multiplication A *= B.

Example:
  densebench mul -m 512 -k 512 -n 512 --reps 5 --backend native --verify`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMul(cmd, g, f)
		},
	}

	cmd.Flags().IntVarP(&f.m, "m", "m", 256, "Rows of A")
	cmd.Flags().IntVarP(&f.k, "k", "k", 256, "Cols of A, rows of B")
	cmd.Flags().IntVarP(&f.n, "n", "n", 256, "Cols of B")
	cmd.Flags().IntVar(&f.reps, "reps", 3, "Repetitions; the best time is reported")
	cmd.Flags().BoolVar(&f.verify, "verify", false, "Check the result against a naive product")

	return cmd
}

func runMul(cmd *cobra.Command, g *globalFlags, f *mulFlags) error {
	if f.reps < 1 {
		return fmt.Errorf("invalid --reps %d: must be >= 1", f.reps)
	}
	log, err := g.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	opts, heap, err := g.matrixOptions(log)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(g.seed))
	a0, err := randomDense(rng, f.m, f.k, opts)
	if err != nil {
		return fmt.Errorf("failed to build A: %w", err)
	}
	defer a0.Release()
	b, err := randomDense(rng, f.k, f.n, opts)
	if err != nil {
		return fmt.Errorf("failed to build B: %w", err)
	}
	defer b.Release()

	var (
		best     time.Duration
		checksum float64
		maxDiff  float64
	)
	for rep := 0; rep < f.reps; rep++ {
		a, err := a0.Clone()
		if err != nil {
			return fmt.Errorf("failed to clone A: %w", err)
		}

		start := time.Now()
		_, err = a.MulAssign(b)
		elapsed := time.Since(start)
		if err != nil {
			_ = a.Release()
			return fmt.Errorf("multiplication failed: %w", err)
		}
		if rep == 0 || elapsed < best {
			best = elapsed
		}
		log.Debug().Int("rep", rep).Dur("elapsed", elapsed).Msg("mul")

		if rep == f.reps-1 {
			checksum = sum(a.Values())
			if f.verify {
				maxDiff = maxAbsDiff(a.Values(), naive(a0.Values(), b.Values(), f.m, f.k, f.n))
			}
		}
		if err = a.Release(); err != nil {
			return err
		}
	}

	flops := 2 * float64(f.m) * float64(f.k) * float64(f.n)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "backend:  %s\n", a0.Backend().Name())
	fmt.Fprintf(out, "shape:    (%d×%d)·(%d×%d)\n", f.m, f.k, f.k, f.n)
	fmt.Fprintf(out, "best:     %s\n", best)
	fmt.Fprintf(out, "gflops:   %.3f\n", flops/best.Seconds()/1e9)
	fmt.Fprintf(out, "checksum: %g\n", checksum)
	if f.verify {
		fmt.Fprintf(out, "max diff: %g\n", maxDiff)
	}
	fmt.Fprintf(out, "live:     %d buffers\n", heap.Stats().LiveBuffers)

	if f.verify && maxDiff > verifyTol*float64(f.k) {
		return fmt.Errorf("verification failed: max diff %g", maxDiff)
	}

	return nil
}

const verifyTol = 1e-12

// randomDense fills an r×c Dense with values in [-1, 1).
func randomDense(rng *rand.Rand, r, c int, opts []matrix.Option) (*matrix.Dense, error) {
	if r < 0 || c < 0 {
		return nil, fmt.Errorf("invalid shape %d×%d", r, c)
	}
	vals := make([]float64, r*c)
	for i := range vals {
		vals[i] = rng.Float64()*2 - 1
	}

	return matrix.NewDenseFrom(r, c, vals, opts...)
}

func sum(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s
}

func maxAbsDiff(x, y []float64) float64 {
	var d float64
	for i := range x {
		d = math.Max(d, math.Abs(x[i]-y[i]))
	}
	return d
}

// naive is the reference i-p-j product of a (m×k) and b (k×n).
func naive(a, b []float64, m, k, n int) []float64 {
	out := make([]float64, m*n)
	for i := 0; i < m; i++ {
		for p := 0; p < k; p++ {
			av := a[i*k+p]
			for j := 0; j < n; j++ {
				out[i*n+j] += av * b[p*n+j]
			}
		}
	}
	return out
}
