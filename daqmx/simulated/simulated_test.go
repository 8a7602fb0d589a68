package simulated

import (
	"testing"

	"github.jpl.nasa.gov/bdube/nidaq/daqmx"
)

func TestValidPhysical(t *testing.T) {
	d := New(nil)
	for _, s := range []string{"Dev1/ai0", "Dev1/ai7"} {
		if !d.validPhysical(s) {
			t.Errorf("expected %s to be valid", s)
		}
	}
	for _, s := range []string{"Dev1/ai8", "Dev1/ai-1", "Dev1/ai01", "Dev1/ai+1", "Dev1/ai", "Dev2/ai0", "Dev1/ao0", "Dev1"} {
		if d.validPhysical(s) {
			t.Errorf("expected %s to be rejected", s)
		}
	}
}

func TestNonCanonicalIndexIsNotADifferentChannel(t *testing.T) {
	d := New(nil)
	h, code := d.CreateTask("canonical")
	if code != daqmx.Success {
		t.Fatalf("CreateTask returned %d", code)
	}
	if code := d.CreateAIVoltageChan(h, "Dev1/ai1", "", daqmx.ValCfgDefault, -1, 1, daqmx.ValVolts, ""); code != daqmx.Success {
		t.Fatalf("CreateAIVoltageChan returned %d", code)
	}
	if code := d.CreateAIVoltageChan(h, "Dev1/ai01", "", daqmx.ValCfgDefault, -1, 1, daqmx.ValVolts, ""); code != daqmx.ErrorPhysicalChanDoesNotExist {
		t.Errorf("expected Dev1/ai01 to fail with %d, got %d", daqmx.ErrorPhysicalChanDoesNotExist, code)
	}
}
