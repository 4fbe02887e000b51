package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in request processing the error occurred
type Phase string

const (
	PhaseLoad    Phase = "load"    // guest binary compilation
	PhaseLink    Phase = "link"    // import resolution / instantiation
	PhaseMarshal Phase = "marshal" // copying buffers into guest memory
	PhaseInvoke  Phase = "invoke"  // the inference call boundary
	PhaseFetch   Phase = "fetch"   // image download
	PhaseStore   Phase = "store"   // model / label file access
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidBinary Kind = "invalid_binary"
	KindLinkFailure   Kind = "link_failure"
	KindMissingExport Kind = "missing_export"
	KindAllocation    Kind = "allocation"
	KindProtocol      Kind = "protocol"
	KindGuestTrap     Kind = "guest_trap"
	KindIO            Kind = "io"
	KindNetwork       Kind = "network"
	KindOutOfRange    Kind = "out_of_range"
)

// Error is the structured error type used throughout the host
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Export string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Export != "" {
		b.WriteString(": export ")
		b.WriteString(fmt.Sprintf("%q", e.Export))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for the host's error taxonomy

// Load creates a guest binary compilation error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidBinary,
		Detail: detail,
		Cause:  cause,
	}
}

// Link creates an import-resolution or instantiation error
func Link(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLink,
		Kind:   KindLinkFailure,
		Detail: detail,
		Cause:  cause,
	}
}

// MissingExport reports a guest that does not satisfy the ABI contract
func MissingExport(phase Phase, export string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMissingExport,
		Export: export,
	}
}

// Allocation reports a failed call to the guest allocator
func Allocation(size int, cause error) *Error {
	return &Error{
		Phase:  PhaseMarshal,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
		Cause:  cause,
	}
}

// Protocol reports a return shape or bounds violation of the ABI contract
func Protocol(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindProtocol,
		Detail: detail,
	}
}

// GuestTrap reports a fault raised inside the guest during inference
func GuestTrap(cause error) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindGuestTrap,
		Detail: "guest faulted during inference",
		Cause:  cause,
	}
}

// IO reports an unreadable model or label file
func IO(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseStore,
		Kind:   KindIO,
		Detail: detail,
		Cause:  cause,
	}
}

// Network reports a failed image fetch
func Network(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseFetch,
		Kind:   KindNetwork,
		Detail: detail,
		Cause:  cause,
	}
}

// OutOfRange reports a class index with no corresponding label line
func OutOfRange(index, lines int) *Error {
	return &Error{
		Phase:  PhaseStore,
		Kind:   KindOutOfRange,
		Detail: fmt.Sprintf("class index %d outside label file (%d lines)", index, lines),
	}
}
