package matrix

import "errors"

// ErrNoSolution is returned by Solve when the augmented system reduces to
// an inconsistent set of equations (a non-zero constant row with no
// corresponding variable).
var ErrNoSolution = errors.New("matrix: no solution")
