// Package generichttp defines a route table type that the HTTP wrappers of
// devices fill in, and binds it onto a chi router
package generichttp

import (
	"go/types"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi"

	"github.jpl.nasa.gov/bdube/nidaq/server"
)

// MethodPath is a struct containing an HTTP method and a URL path
type MethodPath struct {
	Method string
	Path   string
}

// RouteTable maps method-path pairs to handlers
type RouteTable map[MethodPath]http.HandlerFunc

// HTTPer is anything that carries a route table
type HTTPer interface {
	RT() RouteTable
}

// Endpoints lists the routes in the table as "METHOD path", sorted by path
func (rt RouteTable) Endpoints() []string {
	keys := make([]MethodPath, 0, len(rt))
	for k := range rt {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Path == keys[j].Path {
			return keys[i].Method < keys[j].Method
		}
		return keys[i].Path < keys[j].Path
	})
	routes := make([]string, len(keys))
	for i, k := range keys {
		routes[i] = k.Method + " " + k.Path
	}
	return routes
}

// Bind binds every route in the table to r, along with GET /endpoints which
// lists them
func (rt RouteTable) Bind(r chi.Router) {
	for mp, fcn := range rt {
		r.MethodFunc(mp.Method, mp.Path, fcn)
	}
	r.Get("/endpoints", func(w http.ResponseWriter, req *http.Request) {
		hp := server.HumanPayload{T: types.Invalid, Strs: rt.Endpoints()}
		hp.EncodeAndRespond(w, req)
	})
}

// SubMuxSanitize converts a URL stem such as "daq/" into "/daq", the form
// chi wants for Mount.  The empty stem becomes "/".
func SubMuxSanitize(str string) string {
	str = strings.TrimSuffix(str, "*")
	str = strings.Trim(str, "/")
	return "/" + str
}
