//go:build nidaqmx && cgo

package nidaqmx

/*
#cgo linux CFLAGS: -I/usr/local/natinst/nidaqmx/include
#cgo linux LDFLAGS: -lnidaqmx
#cgo windows LDFLAGS: -lNIDAQmx
#include <stdlib.h>
#include <NIDAQmx.h>

*/
import "C"
import (
	"fmt"
	"sync"
	"unsafe"

	"github.jpl.nasa.gov/bdube/nidaq/daqmx"
)

// Driver is the DAQmx library.  The native TaskHandle is a pointer, so the
// handles given out are keys into a table rather than the pointers themselves.
type Driver struct {
	mu      sync.Mutex
	next    daqmx.TaskHandle
	handles map[daqmx.TaskHandle]C.TaskHandle
}

// New returns the DAQmx library as a daqmx.Driver.  It fails if the status
// codes compiled into package daqmx disagree with NIDAQmx.h.
func New() (daqmx.Driver, error) {
	if err := checkConstants(); err != nil {
		return nil, err
	}
	return &Driver{handles: make(map[daqmx.TaskHandle]C.TaskHandle)}, nil
}

func checkConstants() error {
	pairs := []struct {
		name string
		goV  int64
		cV   int64
	}{
		{"DAQmxSuccess", int64(daqmx.Success), int64(C.DAQmxSuccess)},
		{"DAQmxErrorInvalidTask", int64(daqmx.ErrorInvalidTask), int64(C.DAQmxErrorInvalidTask)},
		{"DAQmxErrorDuplicateTask", int64(daqmx.ErrorDuplicateTask), int64(C.DAQmxErrorDuplicateTask)},
		{"DAQmxErrorPhysicalChanDoesNotExist", int64(daqmx.ErrorPhysicalChanDoesNotExist), int64(C.DAQmxErrorPhysicalChanDoesNotExist)},
		{"DAQmxErrorBufferTooSmallForString", int64(daqmx.ErrorBufferTooSmallForString), int64(C.DAQmxErrorBufferTooSmallForString)},
		{"DAQmxErrorChanAlreadyInTask", int64(daqmx.ErrorChanAlreadyInTask), int64(C.DAQmxErrorChanAlreadyInTask)},
		{"DAQmxErrorMinNotLessThanMax", int64(daqmx.ErrorMinNotLessThanMax), int64(C.DAQmxErrorMinNotLessThanMax)},
		{"DAQmxWarningCAPIStringTruncatedToFitBuffer", int64(daqmx.WarningCAPIStringTruncatedToFitBuffer), int64(C.DAQmxWarningCAPIStringTruncatedToFitBuffer)},
		{"DAQmx_Val_Cfg_Default", int64(daqmx.ValCfgDefault), int64(C.DAQmx_Val_Cfg_Default)},
		{"DAQmx_Val_RSE", int64(daqmx.ValRSE), int64(C.DAQmx_Val_RSE)},
		{"DAQmx_Val_NRSE", int64(daqmx.ValNRSE), int64(C.DAQmx_Val_NRSE)},
		{"DAQmx_Val_Diff", int64(daqmx.ValDiff), int64(C.DAQmx_Val_Diff)},
		{"DAQmx_Val_PseudoDiff", int64(daqmx.ValPseudoDiff), int64(C.DAQmx_Val_PseudoDiff)},
		{"DAQmx_Val_Volts", int64(daqmx.ValVolts), int64(C.DAQmx_Val_Volts)},
	}
	for _, p := range pairs {
		if p.goV != p.cV {
			return fmt.Errorf("nidaqmx: %s is %d in NIDAQmx.h but %d in package daqmx", p.name, p.cV, p.goV)
		}
	}
	return nil
}

// cstring converts s to a C string, NULL for the empty string.  The caller
// frees it with C.free, which accepts NULL.
func cstring(s string) *C.char {
	if s == "" {
		return nil
	}
	return C.CString(s)
}

func cbuf(buf []byte) (*C.char, C.uInt32) {
	if len(buf) == 0 {
		return nil, 0
	}
	return (*C.char)(unsafe.Pointer(&buf[0])), C.uInt32(len(buf))
}

func (d *Driver) lookup(h daqmx.TaskHandle) (C.TaskHandle, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch, ok := d.handles[h]
	return ch, ok
}

// CreateTask satisfies daqmx.Driver
func (d *Driver) CreateTask(name string) (daqmx.TaskHandle, int32) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var ch C.TaskHandle
	code := int32(C.DAQmxCreateTask(cname, &ch))
	if code < 0 {
		return 0, code
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next++
	d.handles[d.next] = ch
	return d.next, code
}

// ClearTask satisfies daqmx.Driver
func (d *Driver) ClearTask(h daqmx.TaskHandle) int32 {
	ch, ok := d.lookup(h)
	if !ok {
		return daqmx.ErrorInvalidTask
	}
	code := int32(C.DAQmxClearTask(ch))
	// the caller never uses h again, whatever the library said
	d.mu.Lock()
	delete(d.handles, h)
	d.mu.Unlock()
	return code
}

// CreateAIVoltageChan satisfies daqmx.Driver
func (d *Driver) CreateAIVoltageChan(h daqmx.TaskHandle, physicalChannel, nameToAssign string,
	terminalConfig daqmx.TerminalConfig, minVal, maxVal float64,
	units daqmx.VoltageUnits, customScaleName string) int32 {
	ch, ok := d.lookup(h)
	if !ok {
		return daqmx.ErrorInvalidTask
	}
	cphys := C.CString(physicalChannel)
	defer C.free(unsafe.Pointer(cphys))
	cname := C.CString(nameToAssign)
	defer C.free(unsafe.Pointer(cname))
	cscale := cstring(customScaleName)
	defer C.free(unsafe.Pointer(cscale))
	return int32(C.DAQmxCreateAIVoltageChan(ch, cphys, cname,
		C.int32(terminalConfig), C.float64(minVal), C.float64(maxVal),
		C.int32(units), cscale))
}

// GetTaskChannels satisfies daqmx.Driver
func (d *Driver) GetTaskChannels(h daqmx.TaskHandle, buf []byte) int32 {
	ch, ok := d.lookup(h)
	if !ok {
		return daqmx.ErrorInvalidTask
	}
	p, n := cbuf(buf)
	return int32(C.DAQmxGetTaskChannels(ch, p, n))
}

// GetErrorString satisfies daqmx.Driver
func (d *Driver) GetErrorString(code int32, buf []byte) int32 {
	p, n := cbuf(buf)
	return int32(C.DAQmxGetErrorString(C.int32(code), p, n))
}

// GetExtendedErrorInfo satisfies daqmx.Driver
func (d *Driver) GetExtendedErrorInfo(buf []byte) int32 {
	p, n := cbuf(buf)
	return int32(C.DAQmxGetExtendedErrorInfo(p, n))
}
