// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/katalvlaran/densela/backend"
	"github.com/katalvlaran/densela/backend/netlib"
	"github.com/katalvlaran/densela/internal/cpu"
	"github.com/katalvlaran/densela/matrix"
	"github.com/spf13/cobra"
)

func newCPUCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cpu",
		Short: "Report SIMD features and the registered BLAS implementation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cpu.DetectFeatures()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "arch:     %s\n", f.Architecture)
			fmt.Fprintf(out, "simd:     %s (%d-byte vectors)\n", f.Level(), f.Level().VectorBytes())
			fmt.Fprintf(out, "fma:      %t\n", f.HasFMA)
			fmt.Fprintf(out, "netlib:   %t\n", netlib.Enabled)
			fmt.Fprintf(out, "default:  %s\n", backend.Default().Name())
			fmt.Fprintf(out, "backends: %v\n", backend.Names)
			fmt.Fprintf(out, "align:    %d bytes\n", backend.Alignment)
			return nil
		},
	}
}

func newExampleCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Multiply the 2×3 by 3×4 worked example and describe the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := g.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts, _, err := g.matrixOptions(log)
			if err != nil {
				return err
			}

			a, err := matrix.NewDenseFrom(2, 3, []float64{
				3, 4, 2,
				9, 2, 6,
			}, opts...)
			if err != nil {
				return err
			}
			defer a.Release()
			b, err := matrix.NewDenseFrom(3, 4, []float64{
				13, 9, 7, 15,
				8, 7, 4, 6,
				6, 4, 0, 3,
			}, opts...)
			if err != nil {
				return err
			}
			defer b.Release()

			if _, err = a.MulAssign(b); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), a.Describe())
			return nil
		},
	}
}
