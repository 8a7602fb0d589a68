package generichttp

import (
	"fmt"
	"net/http"
	"testing"
)

func ExampleSubMuxSanitize() {
	fmt.Println(SubMuxSanitize("daq/"))
	fmt.Println(SubMuxSanitize("/daq/*"))
	fmt.Println(SubMuxSanitize(""))
	// Output:
	// /daq
	// /daq
	// /
}

func TestEndpointsSorted(t *testing.T) {
	nop := func(w http.ResponseWriter, r *http.Request) {}
	rt := RouteTable{
		MethodPath{Method: http.MethodPost, Path: "/tasks"}: nop,
		MethodPath{Method: http.MethodGet, Path: "/lock"}:   nop,
		MethodPath{Method: http.MethodGet, Path: "/tasks"}:  nop,
	}
	got := rt.Endpoints()
	want := []string{"GET /lock", "GET /tasks", "POST /tasks"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("endpoint %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
