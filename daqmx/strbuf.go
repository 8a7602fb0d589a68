package daqmx

import (
	"bytes"
	"errors"
	"runtime"

	"github.com/cenkalti/backoff"
)

const (
	// MaxStringQueryAttempts bounds the number of driver round trips spent on
	// one string query.  Two suffice when the string does not change between
	// the probe and the fetch.
	MaxStringQueryAttempts = 8

	// fill is written into fetch buffers so a string the driver truncated
	// without saying so has no terminator
	fill = '\n'
)

// errResize continues the query loop with the size computed by the last call
var errResize = errors.New("daqmx: string buffer must be resized")

func bufferTooSmall(code int32) bool {
	return code == ErrorBufferTooSmallForString || code == WarningCAPIStringTruncatedToFitBuffer
}

// queryString runs the DAQmx variable-length string protocol against q.
// q is first called with an empty buffer; a positive return is the required
// size including the terminator, and q is called again with a buffer of that
// size.  Any "buffer too small" reply starts over from an empty buffer.
// The returned code is negative on failure.
func queryString(q func(buf []byte) int32) (string, int32) {
	var (
		size int
		code int32
		out  string
	)
	op := func() error {
		var buf []byte
		if size > 0 {
			buf = bytes.Repeat([]byte{fill}, size)
		}
		code = q(buf)
		switch {
		case bufferTooSmall(code):
			size = 0
			return errResize
		case code > 0 && size == 0:
			size = int(code)
			return errResize
		case code < 0:
			return backoff.Permanent(errors.New("daqmx: string query failed"))
		}
		if size == 0 {
			out = ""
			return nil
		}
		n := bytes.IndexByte(buf, 0)
		if n < 0 {
			// truncated without a warning, the size we were given is stale
			size = 0
			return errResize
		}
		out = string(buf[:n])
		return nil
	}
	policy := backoff.WithMaxRetries(&backoff.ZeroBackOff{}, MaxStringQueryAttempts-1)
	err := backoff.Retry(op, policy)
	if err == errResize {
		return "", ErrorBufferTooSmallForString
	}
	if code < 0 {
		return "", code
	}
	return out, Success
}

// getString is queryString with driver errors converted to *Error
func getString(d Driver, op string, q func(buf []byte) int32) (string, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	s, code := queryString(q)
	if code < 0 {
		return "", driverError(d, op, code)
	}
	return s, nil
}

// call runs fn with the goroutine pinned to its OS thread, so that the error
// text fetched after a failure describes this call and not another one.
func call(d Driver, op string, fn func() int32) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	code := fn()
	if code >= 0 {
		return nil
	}
	return driverError(d, op, code)
}

// driverError builds an *Error for code, asking the driver for its text.
// The caller must hold the OS thread the failing call ran on.
func driverError(d Driver, op string, code int32) *Error {
	e := &Error{Op: op, Code: code}
	// extended info is per-thread state, read it before anything else can fail
	if s, c := queryString(d.GetExtendedErrorInfo); c >= 0 {
		e.ExtendedInfo = s
	}
	if s, c := queryString(func(buf []byte) int32 { return d.GetErrorString(code, buf) }); c >= 0 {
		e.Description = s
	}
	return e
}
