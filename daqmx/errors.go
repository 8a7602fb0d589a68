package daqmx

import (
	"errors"
	"fmt"
	"strings"
)

// Status codes from NIDAQmx.h that this package interprets.  Any other code is
// passed through verbatim.
const (
	// Success is DAQmxSuccess
	Success int32 = 0

	ErrorInvalidTask                      int32 = -200088
	ErrorDuplicateTask                    int32 = -200089
	ErrorPhysicalChanDoesNotExist         int32 = -200170
	ErrorBufferTooSmallForString          int32 = -200228
	ErrorChanAlreadyInTask                int32 = -200489
	ErrorMinNotLessThanMax                int32 = -200082
	WarningCAPIStringTruncatedToFitBuffer int32 = 200026
)

var (
	// ErrCodes maps status codes to their NIDAQmx.h names
	ErrCodes = map[int32]string{
		Success:                               "DAQmxSuccess",
		ErrorInvalidTask:                      "DAQmxErrorInvalidTask",
		ErrorDuplicateTask:                    "DAQmxErrorDuplicateTask",
		ErrorPhysicalChanDoesNotExist:         "DAQmxErrorPhysicalChanDoesNotExist",
		ErrorBufferTooSmallForString:          "DAQmxErrorBufferTooSmallForString",
		ErrorChanAlreadyInTask:                "DAQmxErrorChanAlreadyInTask",
		ErrorMinNotLessThanMax:                "DAQmxErrorMinNotLessThanMax",
		WarningCAPIStringTruncatedToFitBuffer: "DAQmxWarningCAPIStringTruncatedToFitBuffer",
	}

	// ErrTaskClosed is returned by any operation on a task, or a view of one,
	// after the task has been closed
	ErrTaskClosed = errors.New("daqmx: task has been closed")
)

// CodeName returns the NIDAQmx.h name of a status code, or UNKNOWN_ERROR_CODE
func CodeName(code int32) string {
	if s, ok := ErrCodes[code]; ok {
		return s
	}
	return "UNKNOWN_ERROR_CODE"
}

// Kind classifies errors produced by this package.  Kinds satisfy error so
// they can be used as errors.Is targets:
//
//	if errors.Is(err, daqmx.DuplicateResource) { ... }
type Kind int

const (
	// DriverError is any native failure this package does not interpret
	DriverError Kind = iota

	// DuplicateResource is a task or channel name collision
	DuplicateResource

	// InvalidArgument is a malformed argument rejected before reaching the driver
	InvalidArgument

	// IndexOutOfRange is a channel index beyond the end of the task's channels.
	// It is only ever carried by a panic, see AIChannelCollection.ChannelAt
	IndexOutOfRange
)

func (k Kind) String() string {
	switch k {
	case DuplicateResource:
		return "DuplicateResource"
	case InvalidArgument:
		return "InvalidArgument"
	case IndexOutOfRange:
		return "IndexOutOfRange"
	default:
		return "DriverError"
	}
}

func (k Kind) Error() string {
	return "daqmx: " + k.String()
}

// Error is a failed call into the driver.  Description and ExtendedInfo are
// filled from DAQmxGetErrorString and DAQmxGetExtendedErrorInfo when the
// driver is able to supply them, and are empty otherwise.
type Error struct {
	// Op is the driver entry point or operation that failed
	Op string

	// Code is the status code returned by the driver, verbatim.
	// It is zero for arguments rejected before any driver call.
	Code int32

	// Description is the driver's text for Code
	Description string

	// ExtendedInfo is the driver's description of the last error on the
	// calling thread, usually naming the offending channel or task
	ExtendedInfo string

	kind Kind
	set  bool
}

// Kind returns the classification of the error
func (e *Error) Kind() Kind {
	if e.set {
		return e.kind
	}
	switch e.Code {
	case ErrorDuplicateTask, ErrorChanAlreadyInTask:
		return DuplicateResource
	default:
		return DriverError
	}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Code == 0 {
		b.WriteString(e.Description)
		return b.String()
	}
	fmt.Fprintf(&b, "DAQmx error %d (%s)", e.Code, CodeName(e.Code))
	if e.Description != "" {
		b.WriteString(": ")
		b.WriteString(e.Description)
	}
	return b.String()
}

// Is reports whether target is the Kind of e
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind()
}

// IndexOutOfRangeError is the panic value of ChannelAt for an index beyond
// the channels in the task
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("daqmx: channel index %d out of range [0:%d]", e.Index, e.Len)
}

// Is matches the IndexOutOfRange kind
func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == IndexOutOfRange
}

func invalidArgument(op, msg string) *Error {
	return &Error{Op: op, Description: msg, kind: InvalidArgument, set: true}
}

// checkString rejects strings that cannot cross the C boundary intact
func checkString(op, arg, s string) error {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return invalidArgument(op, fmt.Sprintf("%s %q contains a NUL byte at offset %d", arg, s, i))
	}
	return nil
}
