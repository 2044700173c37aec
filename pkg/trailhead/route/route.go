// Package route defines the route tree and the path matcher that turns a
// pathname into an ordered stack of matched routes.
//
// Routes are built once at startup and never change. Whether a route supplies
// loader data to its view is decided by the constructor used to build it:
//
//	routes := []*route.Route{
//	    route.New("/", shell,
//	        route.New("", home),
//	        route.NewWithLoader("users/:id", loadUser, userPage),
//	    ),
//	}
//
//	stack, ok := route.MatchPath(routes, "/users/42")
package route

import (
	"context"
	"net/url"
)

// Kind tags the handler variant of a route.
type Kind int

const (
	KindLayout Kind = iota // No handler; only groups children
	KindView               // Handler that receives params only
	KindData               // Handler that receives loader data and params
)

func (k Kind) String() string {
	switch k {
	case KindLayout:
		return "layout"
	case KindView:
		return "view"
	case KindData:
		return "data"
	default:
		return "unknown"
	}
}

// Request describes the navigation a loader runs for.
type Request struct {
	URL *url.URL
}

// Loader produces the data a route needs. The context is cancelled when the
// navigation that started the loader is superseded.
type Loader func(ctx context.Context, params Params, req Request) (any, error)

// View renders a route without loader data. The scope argument is whatever
// per-position bundle the render layer hands over; outlet is the already
// built node of the next nesting level, or nil at the leaf.
type View func(scope any, outlet any) any

// DataView renders a route with the resolved loader value.
type DataView func(data any, scope any, outlet any) any

// Route is a node in the route tree.
type Route struct {
	pattern  string
	segments []string
	kind     Kind
	view     View
	dataView DataView
	loader   Loader
	children []*Route
}

// New creates a route whose handler takes no loader data.
// A nil view makes the route a layout.
func New(pattern string, view View, children ...*Route) *Route {
	r := newRoute(pattern, children)
	if view != nil {
		r.kind = KindView
		r.view = view
	}
	return r
}

// NewWithLoader creates a route that always passes loader data to its view.
func NewWithLoader(pattern string, loader Loader, view DataView, children ...*Route) *Route {
	if loader == nil || view == nil {
		panic("route: NewWithLoader requires both a loader and a view")
	}
	r := newRoute(pattern, children)
	r.kind = KindData
	r.loader = loader
	r.dataView = view
	return r
}

// Layout creates a handler-less route that only matches through a child.
func Layout(pattern string, children ...*Route) *Route {
	return newRoute(pattern, children)
}

func newRoute(pattern string, children []*Route) *Route {
	kids := make([]*Route, 0, len(children))
	for _, c := range children {
		if c != nil {
			kids = append(kids, c)
		}
	}
	return &Route{
		pattern:  pattern,
		segments: splitPath(pattern),
		kind:     KindLayout,
		children: kids,
	}
}

func (r *Route) Pattern() string { return r.pattern }

func (r *Route) Kind() Kind { return r.kind }

// HasHandler reports whether the route renders anything itself.
func (r *Route) HasHandler() bool { return r.kind != KindLayout }

func (r *Route) HasLoader() bool { return r.loader != nil }

func (r *Route) Loader() Loader { return r.loader }

func (r *Route) View() View { return r.view }

func (r *Route) DataView() DataView { return r.dataView }

// Children returns a copy of the child list.
func (r *Route) Children() []*Route {
	out := make([]*Route, len(r.children))
	copy(out, r.children)
	return out
}

func (r *Route) isLeaf() bool { return len(r.children) == 0 }
