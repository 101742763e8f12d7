package router

import (
	"net/http/pprof"

	"github.com/gorilla/mux"
)

const ROUTE_PPROF = "/debug/pprof/"

// RegisterDebugRoutes mounts the pprof handlers. Named profiles such as
// heap and goroutine are served by the index under the prefix.
func RegisterDebugRoutes(r *mux.Router) {
	r.HandleFunc(ROUTE_PPROF+"cmdline", pprof.Cmdline)
	r.HandleFunc(ROUTE_PPROF+"profile", pprof.Profile)
	r.HandleFunc(ROUTE_PPROF+"symbol", pprof.Symbol)
	r.HandleFunc(ROUTE_PPROF+"trace", pprof.Trace)
	r.PathPrefix(ROUTE_PPROF).HandlerFunc(pprof.Index)
}
