package route

import (
	"net/url"
	"strings"
)

// Params maps parameter names to captured segment values.
type Params map[string]string

// Get returns the value for name, or "" when absent.
func (p Params) Get(name string) string { return p[name] }

func (p Params) clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Match is one route matched against a pathname.
type Match struct {
	Route *Route
	// Params holds the parameters of this level merged over every
	// ancestor's; deeper levels win on collision.
	Params Params
	// Pathname is the prefix consumed up to and including this level.
	Pathname string
}

// Stack is an ordered root-to-leaf list of matches. Index positions are
// stable for a given route tree and pathname and are used as cache and state
// keys by the router.
type Stack []Match

// Leaf returns the deepest match, or nil for an empty stack.
func (s Stack) Leaf() *Match {
	if len(s) == 0 {
		return nil
	}
	return &s[len(s)-1]
}

// Params returns the leaf params, which include every ancestor's.
func (s Stack) Params() Params {
	if leaf := s.Leaf(); leaf != nil {
		return leaf.Params
	}
	return Params{}
}

// MatchPath resolves pathname against the route tree. The boolean is false and
// the stack nil when nothing matches.
//
// Roots and children are tried depth-first in declaration order and the
// first complete match wins. A trailing slash leaves an empty final segment,
// so "/users/42/" does not match "/users/:id".
func MatchPath(routes []*Route, pathname string) (Stack, bool) {
	segs := splitPath(pathname)
	for _, r := range routes {
		if stack, ok := matchRoute(r, segs, "", Params{}); ok {
			return stack, true
		}
	}
	return nil, false
}

func matchRoute(r *Route, segs []string, prefix string, parent Params) (Stack, bool) {
	if len(r.segments) > len(segs) {
		return nil, false
	}

	params := parent.clone()
	consumed := prefix
	for i, pat := range r.segments {
		seg := segs[i]
		if name, ok := strings.CutPrefix(pat, ":"); ok && name != "" {
			if seg == "" {
				return nil, false
			}
			params[name] = unescape(seg)
		} else if pat != seg {
			return nil, false
		}
		consumed += "/" + seg
	}
	rest := segs[len(r.segments):]
	if consumed == "" {
		consumed = "/"
	}

	self := Match{Route: r, Params: params, Pathname: consumed}

	if r.isLeaf() {
		if len(rest) != 0 {
			return nil, false
		}
		return Stack{self}, true
	}

	childPrefix := strings.TrimSuffix(consumed, "/")
	for _, child := range r.children {
		if tail, ok := matchRoute(child, rest, childPrefix, params); ok {
			return append(Stack{self}, tail...), true
		}
	}

	// Layout-only match: a parent with a handler and nothing left over
	// stands alone when no child (index or otherwise) claims the remainder.
	if r.HasHandler() && len(rest) == 0 {
		return Stack{self}, true
	}
	return nil, false
}

// splitPath strips one leading slash and splits on "/". The root path and
// the empty string produce no segments.
func splitPath(p string) []string {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func unescape(seg string) string {
	v, err := url.PathUnescape(seg)
	if err != nil {
		return seg
	}
	return v
}
