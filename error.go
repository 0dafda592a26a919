package libcell

import "io"

// API error code type.
type ErrorCode int

// API error codes.
const (
	// Factory errors
	IdInUse ErrorCode = iota
	ContainerNotExists

	// Container errors
	InvalidState

	// Configuration errors
	ConfigInvalid

	// System errors
	SystemError

	// Host errors
	PlatformUnsupported
)

func (c ErrorCode) String() string {
	switch c {
	case IdInUse:
		return "Id already in use"
	case ContainerNotExists:
		return "Container does not exist"
	case InvalidState:
		return "Invalid lifecycle state"
	case ConfigInvalid:
		return "Invalid configuration"
	case SystemError:
		return "System error"
	case PlatformUnsupported:
		return "Platform not supported"
	default:
		return "Unknown error"
	}
}

// API Error type.
type Error interface {
	error

	// Returns the error code for this error.
	Code() ErrorCode

	// Detail writes a multiline report of the error for diagnostics.
	// Returns an error if it failed to write the detail, e.g. because
	// of an io problem.
	Detail(w io.Writer) error
}
