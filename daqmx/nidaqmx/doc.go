// Package nidaqmx binds the National Instruments DAQmx C library as a
// daqmx.Driver.
//
// The binding is only compiled with cgo and the nidaqmx build tag,
//
//	go build -tags nidaqmx ./...
//
// which need NIDAQmx.h and libnidaqmx installed.  Without them New returns
// ErrUnavailable, and the rest of the module still builds.
package nidaqmx

import "errors"

// ErrUnavailable is returned by New when the binding was not compiled in
var ErrUnavailable = errors.New("nidaqmx: built without the nidaqmx tag or cgo, the DAQmx library is not available")
