package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Router mounts resource groups under /api/<version>.
type Router struct {
	engine  *gin.Engine
	version string
	chain   []gin.HandlerFunc
	groups  []*DomainGroup
}

// Option customizes a Router
type Option func(*Router)

// WithAPIVersion overrides the "v1" path segment
func WithAPIVersion(version string) Option {
	return func(r *Router) { r.version = version }
}

// WithMiddleware appends handlers that run in front of every API route
func WithMiddleware(chain ...gin.HandlerFunc) Option {
	return func(r *Router) { r.chain = append(r.chain, chain...) }
}

func NewRouter(engine *gin.Engine, opts ...Option) *Router {
	r := &Router{engine: engine, version: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues a group; nothing is mounted until Setup.
func (r *Router) Register(g *DomainGroup) *Router {
	r.groups = append(r.groups, g)
	return r
}

// Setup mounts every registered group on the engine.
func (r *Router) Setup() {
	api := r.engine.Group("/api/"+r.version, r.chain...)
	for _, g := range r.groups {
		g.mount(api)
	}
}

// DomainGroup is the route table of a single resource. Routes may nest
// through Group, and middleware added with Use applies to nested routes too.
type DomainGroup struct {
	name     string
	prefix   string
	chain    []gin.HandlerFunc
	mounts   []func(*gin.RouterGroup)
	children []*DomainGroup
}

func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

func (g *DomainGroup) Name() string   { return g.name }
func (g *DomainGroup) Prefix() string { return g.prefix }

func (g *DomainGroup) Use(chain ...gin.HandlerFunc) *DomainGroup {
	g.chain = append(g.chain, chain...)
	return g
}

// Handle adds a route relative to the group prefix.
func (g *DomainGroup) Handle(method, path string, handlers ...gin.HandlerFunc) *DomainGroup {
	g.mounts = append(g.mounts, func(rg *gin.RouterGroup) {
		rg.Handle(method, path, handlers...)
	})
	return g
}

func (g *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodGet, path, handlers...)
}

func (g *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodPost, path, handlers...)
}

func (g *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodPut, path, handlers...)
}

func (g *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.Handle(http.MethodPatch, path, handlers...)
}

// Group returns a child group nested under this one's prefix.
func (g *DomainGroup) Group(name, prefix string) *DomainGroup {
	child := NewDomainGroup(name, prefix)
	g.children = append(g.children, child)
	return child
}

func (g *DomainGroup) mount(parent *gin.RouterGroup) {
	rg := parent.Group(g.prefix, g.chain...)
	for _, m := range g.mounts {
		m(rg)
	}
	for _, child := range g.children {
		child.mount(rg)
	}
}
