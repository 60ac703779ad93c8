//go:build cgo && netlib

// Package netlib registers the system BLAS (OpenBLAS, Accelerate, MKL through
// its CBLAS interface) with gonum's blas64 when built with cgo and the
// "netlib" build tag. backend.Gonum then dispatches Dgemm to it.
//
// Without the tag the package compiles to a no-op and Enabled is false.
package netlib

import (
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/netlib/blas/netlib"
)

// Enabled reports whether system BLAS was registered.
const Enabled = true

func init() {
	blas64.Use(netlib.Implementation{})
	log.Debug().Msg("netlib: system BLAS registered with blas64")
}
