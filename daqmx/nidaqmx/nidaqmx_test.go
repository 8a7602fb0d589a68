//go:build nidaqmx && cgo

package nidaqmx

import (
	"errors"
	"testing"

	"github.jpl.nasa.gov/bdube/nidaq/daqmx"
)

func TestConstantsMatchHeader(t *testing.T) {
	if err := checkConstants(); err != nil {
		t.Fatal(err)
	}
}

// the remaining tests need a device named Dev1, real or simulated in NI MAX

func TestCreateCloseTask(t *testing.T) {
	drv, err := New()
	if err != nil {
		t.Fatal(err)
	}
	const name = "nidaqmx_create_close_task"
	task, err := daqmx.NewTask(drv, name)
	if err != nil {
		t.Fatal(err)
	}
	_, err = daqmx.NewTask(drv, name)
	var derr *daqmx.Error
	if !errors.As(err, &derr) || derr.Code != daqmx.ErrorDuplicateTask {
		t.Fatalf("expected DAQmxErrorDuplicateTask, got %v", err)
	}
	if derr.Description == "" {
		t.Error("expected the driver to describe the error")
	}
	if err := task.Close(); err != nil {
		t.Fatal(err)
	}
	task, err = daqmx.NewTask(drv, name)
	if err != nil {
		t.Fatalf("task name should be available after close, got %v", err)
	}
	task.Close()
}

func TestChannelNames(t *testing.T) {
	drv, err := New()
	if err != nil {
		t.Fatal(err)
	}
	task, err := daqmx.NewTask(drv, "nidaqmx_channel_names")
	if err != nil {
		t.Fatal(err)
	}
	defer task.Close()
	chans := task.AIChannels()
	for _, phys := range []string{"Dev1/ai0", "Dev1/ai1"} {
		if _, err := chans.AddAIVoltageChan(phys, -5, 5); err != nil {
			t.Fatal(err)
		}
	}
	names, err := chans.ChannelNames()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "Dev1/ai0" || names[1] != "Dev1/ai1" {
		t.Errorf("expected [Dev1/ai0 Dev1/ai1], got %v", names)
	}
}

func TestFailedClearForgetsHandle(t *testing.T) {
	iface, err := New()
	if err != nil {
		t.Fatal(err)
	}
	drv := iface.(*Driver)
	h, code := drv.CreateTask("nidaqmx_failed_clear")
	if code < 0 {
		t.Fatalf("DAQmxCreateTask returned %d", code)
	}
	stale, _ := drv.lookup(h)
	if code := drv.ClearTask(h); code < 0 {
		t.Fatalf("DAQmxClearTask returned %d", code)
	}

	// a native handle that was already cleared makes the library fail
	drv.mu.Lock()
	drv.next++
	h2 := drv.next
	drv.handles[h2] = stale
	drv.mu.Unlock()
	if code := drv.ClearTask(h2); code >= 0 {
		t.Fatalf("expected clearing a cleared task to fail, got %d", code)
	}
	if _, ok := drv.lookup(h2); ok {
		t.Error("expected the handle to be forgotten after a failed clear")
	}
}
