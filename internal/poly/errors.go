package poly

import "errors"

// ErrCapacityExceeded is returned whenever a polynomial would need more
// than MaxCoeffs coefficients to represent -- too many initial
// coefficients, or a product/degree that overflows the fixed capacity.
var ErrCapacityExceeded = errors.New("poly: capacity exceeded")
