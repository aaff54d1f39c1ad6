// Package router assembles the HTTP route table from route groups.
package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// Group collects the routes of one API area until it is mounted. Middleware
// given to a group applies to its routes and to every nested group.
type Group struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	children   []*Group
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func NewGroup(name, prefix string, middleware ...gin.HandlerFunc) *Group {
	return &Group{name: name, prefix: prefix, middleware: middleware}
}

func (g *Group) Handle(method, relativePath string, handlers ...gin.HandlerFunc) *Group {
	g.routes = append(g.routes, route{method: method, path: relativePath, handlers: handlers})
	return g
}

func (g *Group) GET(relativePath string, handlers ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodGet, relativePath, handlers...)
}

func (g *Group) POST(relativePath string, handlers ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodPost, relativePath, handlers...)
}

func (g *Group) DELETE(relativePath string, handlers ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodDelete, relativePath, handlers...)
}

// Group adds a nested group and returns it.
func (g *Group) Group(name, prefix string, middleware ...gin.HandlerFunc) *Group {
	child := NewGroup(name, prefix, middleware...)
	g.children = append(g.children, child)
	return child
}

func (g *Group) Name() string { return g.name }

func (g *Group) mount(parent *gin.RouterGroup) {
	rg := parent.Group(g.prefix, g.middleware...)
	for _, r := range g.routes {
		rg.Handle(r.method, r.path, r.handlers...)
	}
	for _, child := range g.children {
		child.mount(rg)
	}
}

// Routes lists "METHOD /full/path" for the group, relative to the API base.
func (g *Group) Routes() []string {
	var out []string
	g.walk("/", func(method, full string) {
		out = append(out, method+" "+full)
	})
	return out
}

func (g *Group) walk(parent string, visit func(method, full string)) {
	base := path.Join(parent, g.prefix)
	for _, r := range g.routes {
		visit(r.method, path.Join(base, r.path))
	}
	for _, child := range g.children {
		child.walk(base, visit)
	}
}

// BasePath is the prefix every group is mounted under.
func BasePath(version string) string {
	if version == "" {
		version = "v1"
	}
	return "/api/" + version
}

// Mount attaches groups to engine under BasePath(version).
func Mount(engine *gin.Engine, version string, groups ...*Group) {
	api := engine.Group(BasePath(version))
	for _, g := range groups {
		g.mount(api)
	}
}
