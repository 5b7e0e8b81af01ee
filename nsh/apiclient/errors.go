package apiclient

import (
	"errors"
	"fmt"

	api "go.fd.io/govpp/api"
)

// Error conditions.
var (
	ErrClosed          = errors.New("connection closed")
	ErrDisconnected    = errors.New("transport disconnected")
	ErrUnknownMessage  = errors.New("message not supported by engine")
	ErrUnexpectedReply = errors.New("unexpected reply")
)

// CallError indicates a failed call.
// It carries the call name, correlation id, and native error code.
type CallError struct {
	// Call is the request message name.
	Call string

	// Context is the correlation id.
	Context uint32

	// Retval is the native error code, or zero if the call failed without reaching the engine.
	Retval int32

	// Err is the local error, if any.
	Err error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s context=%d retval=%d: %v", e.Call, e.Context, e.Retval, e.Unwrap())
}

// Unwrap returns the underlying error.
// Native error codes are represented as api.VPPApiError.
func (e *CallError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return api.RetvalToVPPApiError(e.Retval)
}
