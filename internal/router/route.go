package router

import (
	"github.com/gin-gonic/gin"
)

// Route is the definition of one endpoint before registration
type Route struct {
	Methods []string
	Path    string
	Handler gin.HandlerFunc
	// Permission runs before argument validation. Nil means public.
	Permission gin.HandlerFunc
	Args       map[string]Arg
}

// Filter receives a default route definition and returns the one to register
type Filter func(Route) Route

// Filters maps route names (e.g. "endpoints/subscribe") to their filter
type Filters map[string]Filter

// Apply runs the filter registered for name, if any
func (f Filters) Apply(name string, route Route) Route {
	if filter, ok := f[name]; ok && filter != nil {
		return filter(route)
	}
	return route
}

// Register applies filters and mounts route on r under its methods
func Register(r gin.IRoutes, name string, route Route, filters Filters) {
	route = filters.Apply(name, route)

	chain := make([]gin.HandlerFunc, 0, 3)
	if route.Permission != nil {
		chain = append(chain, route.Permission)
	}
	chain = append(chain, Validate(route.Args), route.Handler)

	for _, method := range route.Methods {
		r.Handle(method, route.Path, chain...)
	}
}
