package field

import "errors"

// ErrDivideByZero is returned by Inv and Div when asked to invert zero.
var ErrDivideByZero = errors.New("field: division by zero")
