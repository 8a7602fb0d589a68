// Package server contains misc server utilities.
package server

import (
	"encoding/json"
	"fmt"
	"go/types"
	"log"
	"net/http"
	"strconv"
	"strings"
)

// BoolT is a struct with a single Bool field
type BoolT struct {
	Bool bool `json:"bool"`
}

// IntT is a struct with a single Int field
type IntT struct {
	Int int `json:"int"`
}

// StrT is a struct with a single Str field
type StrT struct {
	Str string `json:"str"`
}

// StrsT is a struct with a single Strs field
type StrsT struct {
	Strs []string `json:"strs"`
}

// HumanPayload is a struct containing the basic types that a client may want
// back.  T picks which field is sent.
type HumanPayload struct {
	// T is the type of the payload; Bool, Int, String or Invalid (for Strs)
	T types.BasicKind

	Bool   bool
	Int    int
	String string
	Strs   []string
}

// wantsText reports whether the client asked for plain text
func wantsText(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/plain")
}

// EncodeAndRespond writes the payload to w as JSON, or as plain text if the
// client asked for text/plain
func (hp HumanPayload) EncodeAndRespond(w http.ResponseWriter, r *http.Request) {
	var (
		txt string
		obj interface{}
	)
	switch hp.T {
	case types.Bool:
		txt, obj = strconv.FormatBool(hp.Bool), BoolT{hp.Bool}
	case types.Int:
		txt, obj = strconv.Itoa(hp.Int), IntT{hp.Int}
	case types.String:
		txt, obj = hp.String, StrT{hp.String}
	default:
		if hp.Strs == nil {
			hp.Strs = []string{}
		}
		txt, obj = strings.Join(hp.Strs, "\n"), StrsT{hp.Strs}
	}
	if wantsText(r) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, txt)
		return
	}
	WriteJSON(w, http.StatusOK, obj)
}

// WriteJSON encodes v to w with the given status
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.Printf("error encoding %T to json %q", v, err)
	}
}
