package httprouter

import (
	"net/http"

	jshttprouter "github.com/julienschmidt/httprouter"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/router"
)

// Router adapts julienschmidt/httprouter to the router.Router interface.
type Router struct {
	rt *jshttprouter.Router
}

func New() router.Router {
	rt := jshttprouter.New()
	rt.HandleMethodNotAllowed = true
	return &Router{rt: rt}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.rt.ServeHTTP(w, req)
}

func (r *Router) Register(method, path string, handler http.Handler) {
	r.rt.Handler(method, path, handler)
}
