package sentinel

// Compile-time check that Error implements the error interface.
var _ error = Error("")

// Error is an immutable error type backed by a string constant.
//
// Error is comparable, so the == comparison errors.Is performs matches a
// const sentinel through any number of %w wraps.
type Error string

// Error implements the error interface.
func (e Error) Error() string {
	return string(e)
}
