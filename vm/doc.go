// Package vm implements the forthdb virtual machine.
//
// This package contains:
//   - Data stack and word dictionary
//   - Native primitive words (arithmetic, stack shuffling, output)
//   - A compiler that turns colon definitions into instruction lists
//   - A translator that lowers an instruction list to one SQL statement
//     prepared against the backing engine
//   - A persistence store that keeps compiled words across restarts
//
// The VM is strictly single-threaded: one token is fully processed before
// the next begins, and the backing-store connection is a single handle held
// for the VM's lifetime.
package vm
