// Package simulated provides an in-memory stand-in for the DAQmx library.
//
// It keeps a driver-global task namespace and an ordered channel list per
// task, and answers with the same status codes and string protocol as the
// real library, so code written against daqmx.Driver can be exercised
// without hardware.
package simulated

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.jpl.nasa.gov/bdube/nidaq/daqmx"
)

// DefaultDevices is one device named Dev1 with eight analog inputs
var DefaultDevices = map[string]int{"Dev1": 8}

// descriptions is the text returned by GetErrorString
var descriptions = map[int32]string{
	daqmx.ErrorInvalidTask:                      "Task specified is invalid or does not exist.",
	daqmx.ErrorDuplicateTask:                    "Task name specified conflicts with an existing task name.",
	daqmx.ErrorPhysicalChanDoesNotExist:         "Physical channel specified does not exist on this device.",
	daqmx.ErrorBufferTooSmallForString:          "Buffer is too small to fit the string.",
	daqmx.ErrorChanAlreadyInTask:                "Specified channel cannot be added to the task, because a channel with the same name is already in the task.",
	daqmx.ErrorMinNotLessThanMax:                "Maximum value must be greater than the minimum value.",
	daqmx.WarningCAPIStringTruncatedToFitBuffer: "String has been truncated to fit into the buffer.",
}

type task struct {
	name     string
	channels []string
}

// Driver is a simulated DAQmx library.  It is safe for concurrent use.
type Driver struct {
	mu      sync.Mutex
	devices map[string]int
	tasks   map[daqmx.TaskHandle]*task
	names   map[string]daqmx.TaskHandle
	next    daqmx.TaskHandle
	unnamed int
	lastErr string
	calls   map[string]int

	// BeforeGetTaskChannels, if not nil, is called at the start of every
	// GetTaskChannels with the handle and the length of the buffer.  It runs
	// without the driver's lock held, so it may call back into the driver,
	// e.g. to add a channel between the probe and the fetch.
	BeforeGetTaskChannels func(h daqmx.TaskHandle, bufLen int)
}

// New returns a simulated driver with the given devices, a map of device name
// to number of analog inputs.  nil means DefaultDevices.
func New(devices map[string]int) *Driver {
	if devices == nil {
		devices = DefaultDevices
	}
	devs := make(map[string]int, len(devices))
	for k, v := range devices {
		devs[k] = v
	}
	return &Driver{
		devices: devs,
		tasks:   make(map[daqmx.TaskHandle]*task),
		names:   make(map[string]daqmx.TaskHandle),
		calls:   make(map[string]int)}
}

// Calls returns how many times the named entry point (e.g., "DAQmxClearTask")
// has been called
func (d *Driver) Calls(entry string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[entry]
}

// Tasks returns the names of the live tasks, sorted
func (d *Driver) Tasks() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.names))
	for name := range d.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// fail records the extended info for code and returns it.  d.mu must be held.
func (d *Driver) fail(code int32, detail string) int32 {
	d.lastErr = fmt.Sprintf("%s\n%s\n\nStatus Code: %d", descriptions[code], detail, code)
	return code
}

// CreateTask satisfies daqmx.Driver
func (d *Driver) CreateTask(name string) (daqmx.TaskHandle, int32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["DAQmxCreateTask"]++
	if name == "" {
		name = "_unnamedTask<" + strconv.Itoa(d.unnamed) + ">"
		d.unnamed++
	}
	if _, ok := d.names[name]; ok {
		return 0, d.fail(daqmx.ErrorDuplicateTask, "Task Name: "+name)
	}
	d.next++
	h := d.next
	d.tasks[h] = &task{name: name}
	d.names[name] = h
	return h, daqmx.Success
}

// ClearTask satisfies daqmx.Driver
func (d *Driver) ClearTask(h daqmx.TaskHandle) int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["DAQmxClearTask"]++
	t, ok := d.tasks[h]
	if !ok {
		return d.fail(daqmx.ErrorInvalidTask, "Task Handle: "+strconv.Itoa(int(h)))
	}
	delete(d.tasks, h)
	delete(d.names, t.name)
	return daqmx.Success
}

// validPhysical reports whether s names an analog input of a device, e.g. Dev1/ai3
func (d *Driver) validPhysical(s string) bool {
	chunks := strings.SplitN(s, "/", 2)
	if len(chunks) != 2 || !strings.HasPrefix(chunks[1], "ai") {
		return false
	}
	n, ok := d.devices[chunks[0]]
	if !ok {
		return false
	}
	suffix := strings.TrimPrefix(chunks[1], "ai")
	idx, err := strconv.Atoi(suffix)
	if err != nil || strconv.Itoa(idx) != suffix { // ai01 and ai+1 are not ai1
		return false
	}
	return idx >= 0 && idx < n
}

// CreateAIVoltageChan satisfies daqmx.Driver
func (d *Driver) CreateAIVoltageChan(h daqmx.TaskHandle, physicalChannel, nameToAssign string,
	terminalConfig daqmx.TerminalConfig, minVal, maxVal float64,
	units daqmx.VoltageUnits, customScaleName string) int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["DAQmxCreateAIVoltageChan"]++
	t, ok := d.tasks[h]
	if !ok {
		return d.fail(daqmx.ErrorInvalidTask, "Task Handle: "+strconv.Itoa(int(h)))
	}
	detail := "Physical Channel: " + physicalChannel + "\nTask Name: " + t.name
	if !d.validPhysical(physicalChannel) {
		return d.fail(daqmx.ErrorPhysicalChanDoesNotExist, detail)
	}
	if minVal >= maxVal {
		return d.fail(daqmx.ErrorMinNotLessThanMax, detail)
	}
	name := nameToAssign
	if name == "" {
		name = physicalChannel
	}
	for _, c := range t.channels {
		if c == name {
			return d.fail(daqmx.ErrorChanAlreadyInTask, "Virtual Channel Name: "+name+"\nTask Name: "+t.name)
		}
	}
	t.channels = append(t.channels, name)
	return daqmx.Success
}

// GetTaskChannels satisfies daqmx.Driver
func (d *Driver) GetTaskChannels(h daqmx.TaskHandle, buf []byte) int32 {
	if hook := d.BeforeGetTaskChannels; hook != nil {
		hook(h, len(buf))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["DAQmxGetTaskChannels"]++
	t, ok := d.tasks[h]
	if !ok {
		return d.fail(daqmx.ErrorInvalidTask, "Task Handle: "+strconv.Itoa(int(h)))
	}
	return d.reply(daqmx.FlattenChannelString(t.channels), buf)
}

// GetErrorString satisfies daqmx.Driver
func (d *Driver) GetErrorString(code int32, buf []byte) int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["DAQmxGetErrorString"]++
	s, ok := descriptions[code]
	if !ok {
		s = "Error code could not be found."
	}
	return d.reply(s, buf)
}

// GetExtendedErrorInfo satisfies daqmx.Driver
func (d *Driver) GetExtendedErrorInfo(buf []byte) int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["DAQmxGetExtendedErrorInfo"]++
	return d.reply(d.lastErr, buf)
}

// reply writes s into buf following the DAQmx string protocol
func (d *Driver) reply(s string, buf []byte) int32 {
	need := len(s) + 1
	switch {
	case len(buf) == 0:
		return int32(need)
	case len(buf) < need:
		n := copy(buf[:len(buf)-1], s)
		buf[n] = 0
		return daqmx.WarningCAPIStringTruncatedToFitBuffer
	}
	n := copy(buf, s)
	buf[n] = 0
	return daqmx.Success
}
