//go:build !nidaqmx || !cgo

package nidaqmx

import "github.jpl.nasa.gov/bdube/nidaq/daqmx"

// New returns ErrUnavailable
func New() (daqmx.Driver, error) {
	return nil, ErrUnavailable
}
