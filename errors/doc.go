// Package errors provides structured error types for the prediction host.
//
// Errors are categorized by Phase (where in the request the error
// occurred) and Kind (error category). Every layer returns a distinct
// typed error so failures are debuggable internally, even though the
// HTTP boundary collapses all of them into a single opaque response.
//
// Use the convenience constructors for common patterns:
//
//	err := errors.MissingExport("alloc")
//	err := errors.GuestTrap(cause)
//
// All errors implement the standard error interface and support
// errors.Is/As. Two *Error values match under errors.Is when their
// Phase and Kind agree.
package errors
