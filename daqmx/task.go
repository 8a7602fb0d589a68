package daqmx

import (
	"log"
	"runtime"
	"sync"
)

// taskRef is the handle state shared by a Task and every view derived from
// it.  Only Task releases it.
type taskRef struct {
	mu       sync.Mutex
	drv      Driver
	handle   TaskHandle
	released bool
}

// do runs fn against the live handle, serialized with every other call on
// the same task
func (r *taskRef) do(fn func(d Driver, h TaskHandle) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrTaskClosed
	}
	return fn(r.drv, r.handle)
}

// release clears the native task.  The handle is zeroed before the driver is
// called, so a second release never reaches the driver.
func (r *taskRef) release() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return nil
	}
	h := r.handle
	r.handle = 0
	r.released = true
	return call(r.drv, "DAQmxClearTask", func() int32 { return r.drv.ClearTask(h) })
}

// Task is a DAQmx task.  It exclusively owns its native handle; close it with
// Close when done, typically
//
//	task, err := daqmx.NewTask(drv, "scan")
//	if err != nil {
//		return err
//	}
//	defer task.Close()
//
// A Task that becomes unreachable without being closed is released by the
// garbage collector, but the task name stays registered with the driver
// until then.  Collections and channels derived from a Task keep it
// reachable; the Task holds no pointer back to them.
type Task struct {
	ref  *taskRef
	name string
}

// NewTask registers a new task called name with the driver
func NewTask(d Driver, name string) (*Task, error) {
	if err := checkString("DAQmxCreateTask", "task name", name); err != nil {
		return nil, err
	}
	var h TaskHandle
	err := call(d, "DAQmxCreateTask", func() int32 {
		var code int32
		h, code = d.CreateTask(name)
		return code
	})
	if err != nil {
		return nil, err
	}
	t := &Task{ref: &taskRef{drv: d, handle: h}, name: name}
	runtime.SetFinalizer(t, (*Task).finalize)
	return t, nil
}

// Name is the name the task was registered under
func (t *Task) Name() string {
	return t.name
}

// AIChannels returns the analog input channels of the task.  The collection
// does not own the task; it stops working once the task is closed.
func (t *Task) AIChannels() *AIChannelCollection {
	return &AIChannelCollection{task: t}
}

// Close releases the task and its name.  Only the first call reaches the
// driver.  A release failure is logged and returned, but the task is
// considered closed regardless.
func (t *Task) Close() error {
	runtime.SetFinalizer(t, nil)
	err := t.ref.release()
	if err != nil {
		log.Printf("daqmx: clearing task %q: %v", t.name, err)
	}
	return err
}

func (t *Task) finalize() {
	log.Printf("daqmx: task %q was never closed, releasing it", t.name)
	t.Close()
}
