// Package solvers implements the tridiagonal solution strategies behind
// [heat.Solver].
//
//   - [Dense]: full Gaussian elimination through gonum every step
//   - [LU]: tridiagonal factorization once, O(m) substitution per step
//   - [Banded]: band loaded into a sparse matrix, factored once
//
// All three return node temperatures that agree to round-off for the same
// system. Use [New] to select one by [heat.Strategy].
package solvers
