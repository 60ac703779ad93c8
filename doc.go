// Package densela is a small dense linear-algebra kit built around one type:
// a row-major float64 matrix on a 64-byte aligned, exclusively owned buffer.
//
// 🚀 What is in the box?
//
//   - matrix/  Dense: construction (blank or from a length-checked slice),
//     bounds-checked access, in-place AddAssign/SubAssign (row-parallel) and
//     MulAssign (GEMM-backed, two-phase: compute into a fresh buffer, then
//     commit), Product, Clone, String/Describe.
//   - backend/ The allocator + GEMM contract and its implementations:
//     Gonum (blas64, optionally routed to system BLAS via backend/netlib)
//     and Native (row-parallel kernels on algo-vecmath).
//   - cmd/densebench  CLI to time multiplication/addition per backend and to
//     report CPU features.
//
// ✨ Guarantees
//
//   - A failed operation leaves its receiver exactly as it was.
//   - The right operand of every operation is read-only, so it can be reused
//     and shared between goroutines.
//   - A.MulAssign(A) is well defined.
//   - Every buffer is released exactly once: explicitly (Release) or by the
//     garbage collector.
//
// Quick start:
//
//	a, _ := matrix.NewDenseFrom(2, 3, []float64{3, 4, 2, 9, 2, 6})
//	b, _ := matrix.NewDenseFrom(3, 4, []float64{13, 9, 7, 15, 8, 7, 4, 6, 6, 4, 0, 3})
//	if _, err := a.MulAssign(b); err != nil { ... }
//	fmt.Print(a) // [83, 63, 37, 75]\n[169, 119, 71, 165]\n
package densela
