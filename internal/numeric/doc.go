// Package numeric implements the computations run by the calculator jobs:
// exact factorial, Miller-Rabin primality, roots, logarithms and powers.
//
// The long-running algorithms take a context.Context and poll it between
// loop iterations, so cancelling a job stops the arithmetic itself and not
// only the bookkeeping around it.
package numeric
