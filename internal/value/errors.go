package value

import (
	"errors"
	"fmt"
)

// PanicCode identifies an internal consistency failure.
type PanicCode int

// Stable panic codes - do not change values.
const (
	PanicCircularPairList  PanicCode = 1001 // VC1001: cycle in a cons chain
	PanicPairListTag       PanicCode = 1002 // VC1002: tag that is neither a symbol nor NULL
	PanicPairListAttrs     PanicCode = 1003 // VC1003: attributes on an inner cons cell
	PanicForeignProtocol   PanicCode = 1004 // VC1004: foreign value broke the adapter protocol
	PanicSessionMisuse     PanicCode = 1005 // VC1005: access session used after close or while writing
	PanicSharedMutation    PanicCode = 1006 // VC1006: in-place update of a shared container
	PanicUnsupportedAccess PanicCode = 1007 // VC1007: element read of the wrong shape
	PanicUnreachable       PanicCode = 1999 // VC1999: state assumed impossible
)

// String returns the code as "VC1001" format.
func (c PanicCode) String() string {
	return fmt.Sprintf("VC%d", c)
}

// InternalError signals a broken invariant. It is raised with panic and is
// never recovered inside this module.
type InternalError struct {
	Code    PanicCode
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error %s: %s", e.Code, e.Message)
}

// Fail raises an InternalError.
func Fail(code PanicCode, format string, args ...any) {
	panic(&InternalError{Code: code, Message: fmt.Sprintf(format, args...)})
}

// AsInternalError extracts an InternalError from a recovered panic value.
func AsInternalError(r any) (*InternalError, bool) {
	ie, ok := r.(*InternalError)
	return ie, ok
}

// ErrUnsupported is matched by every UnsupportedError.
var ErrUnsupported = errors.New("unsupported operation")

// UnsupportedError reports an operation the target value cannot perform,
// such as writing through a foreign-backed vector.
type UnsupportedError struct {
	Op     string
	Kind   Kind
	Reason string
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s on %s value: %s", e.Op, e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s not supported on %s value", e.Op, e.Kind)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

// CoercionError reports an input whose shape cannot be converted to the
// requested kind at all.
type CoercionError struct {
	From   Kind
	To     Kind
	Detail string
}

func (e *CoercionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("cannot coerce %s to vector of type '%s'", e.Detail, e.To)
	}
	return fmt.Sprintf("cannot coerce type '%s' to vector of type '%s'", e.From, e.To)
}
