package daqmx

import "testing"

// fixedString answers the string protocol for s, counting calls
type fixedString struct {
	s     string
	calls int
}

func (f *fixedString) query(buf []byte) int32 {
	f.calls++
	need := len(f.s) + 1
	if len(buf) == 0 {
		return int32(need)
	}
	if len(buf) < need {
		return ErrorBufferTooSmallForString
	}
	copy(buf, f.s)
	buf[len(f.s)] = 0
	return Success
}

func TestQueryStringProbeThenFetch(t *testing.T) {
	for _, s := range []string{"", "x", "Dev1/ai0, Dev1/ai1, Dev1/ai2"} {
		f := &fixedString{s: s}
		out, code := queryString(f.query)
		if code != Success {
			t.Errorf("%q: expected success, got %d", s, code)
		}
		if out != s {
			t.Errorf("expected %q, got %q", s, out)
		}
		if f.calls != 2 {
			t.Errorf("%q: expected 2 round trips, got %d", s, f.calls)
		}
	}
}

func TestQueryStringFailurePassesCodeThrough(t *testing.T) {
	calls := 0
	q := func(buf []byte) int32 {
		calls++
		return ErrorInvalidTask
	}
	_, code := queryString(q)
	if code != ErrorInvalidTask {
		t.Errorf("expected %d, got %d", ErrorInvalidTask, code)
	}
	if calls != 1 {
		t.Errorf("a hard error should end the query, got %d calls", calls)
	}
}

func TestQueryStringRegrowsAfterTooSmall(t *testing.T) {
	// the string grows once, after the probe
	f := &fixedString{s: "Dev1/ai0"}
	q := func(buf []byte) int32 {
		if len(buf) > 0 && f.s == "Dev1/ai0" {
			f.s = "Dev1/ai0, Dev1/ai1"
		}
		return f.query(buf)
	}
	out, code := queryString(q)
	if code != Success || out != "Dev1/ai0, Dev1/ai1" {
		t.Errorf("expected the grown string, got %q, %d", out, code)
	}
	if f.calls != 4 {
		t.Errorf("expected probe, short fetch, probe, fetch; got %d calls", f.calls)
	}
}

func TestQueryStringRejectsSilentTruncation(t *testing.T) {
	// reports success but fills the whole buffer without a terminator on the
	// first fetch
	calls := 0
	q := func(buf []byte) int32 {
		calls++
		if len(buf) == 0 {
			return 4
		}
		if calls == 2 {
			copy(buf, "abcd")
			return Success
		}
		copy(buf, "abc\x00")
		return Success
	}
	out, code := queryString(q)
	if code != Success || out != "abc" {
		t.Errorf("expected abc, got %q, %d", out, code)
	}
	if calls != 4 {
		t.Errorf("expected the truncated fetch to be retried, got %d calls", calls)
	}
}

func TestQueryStringGivesUpOnNonConvergence(t *testing.T) {
	calls := 0
	q := func(buf []byte) int32 {
		calls++
		if len(buf) == 0 {
			return int32(calls) // always asks for a little more than it then needs
		}
		return WarningCAPIStringTruncatedToFitBuffer
	}
	_, code := queryString(q)
	if code != ErrorBufferTooSmallForString {
		t.Errorf("expected %d, got %d", ErrorBufferTooSmallForString, code)
	}
	if calls != MaxStringQueryAttempts {
		t.Errorf("expected %d round trips, got %d", MaxStringQueryAttempts, calls)
	}
}

func TestCheckString(t *testing.T) {
	if err := checkString("op", "name", "Dev1/ai0"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	err := checkString("op", "name", "Dev1\x00/ai0")
	e, ok := err.(*Error)
	if !ok || e.Kind() != InvalidArgument {
		t.Fatalf("expected an InvalidArgument *Error, got %v", err)
	}
	if e.Code != 0 {
		t.Errorf("expected no driver code, got %d", e.Code)
	}
}
