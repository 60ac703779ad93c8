//go:build !(cgo && netlib)

package netlib

// Enabled reports whether system BLAS was registered.
const Enabled = false
