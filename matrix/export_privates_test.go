// SPDX-License-Identifier: MIT

package matrix

// Test-Bridge (White-Box) for the options snapshot and the product phases.
//
// Purpose:
//   - Expose a read-only view of resolved Options to matrix_test.
//   - Expose phase 1 of the product protocol so tests can prove it has no
//     observable effect on the receiver.
//
// Build Policy:
//   - _test.go file in package matrix: compiled only by `go test`.

// OptionsSnapshot is a stable, read-only view of resolved Options.
type OptionsSnapshot struct {
	BackendName    string
	Workers        int
	MinParallel    int
	ValidateNaNInf bool
}

// GatherOptionsSnapshot_TestOnly resolves opts like a constructor would.
func GatherOptionsSnapshot_TestOnly(opts ...Option) OptionsSnapshot {
	o := gatherOptions(opts...)

	return OptionsSnapshot{
		BackendName:    o.backend.Name(),
		Workers:        o.workers,
		MinParallel:    o.minParallel,
		ValidateNaNInf: o.validateNaNInf,
	}
}

// PrepareProduct_TestOnly runs phase 1 only and hands the fresh buffer back.
func PrepareProduct_TestOnly(a *Dense, b Matrix) ([]float64, error) {
	return a.prepareProduct(b)
}
