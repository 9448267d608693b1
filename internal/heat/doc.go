// Package heat provides the model primitives for one-dimensional transient
// conduction in a slab, cylinder, or sphere with convection at the surface.
//
// The package covers everything upstream of the time loop:
//
//   - [Derive]: turns physical inputs into the mesh and dimensionless numbers
//   - [Assemble]: builds the implicit tridiagonal [System] for a [Shape]
//   - [System.UpdateRHS]: the per-step surface boundary update
//   - [Solver]: the contract every tridiagonal solution strategy implements
//   - [Field]: the (steps+1) x nodes temperature history
//
// # Example
//
//	p, err := heat.Derive(in)
//	sys, err := heat.Assemble(p)
//	solver := solvers.NewLU()
//	err = solver.Prepare(sys)
//
// # Numbering
//
// Node 0 is the geometric center (zero-flux symmetry condition) and node
// Nodes-1 is the convecting surface. The diagonals of a [System] never change
// after assembly; only the right-hand side is rebuilt each step.
package heat
