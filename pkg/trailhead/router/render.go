package router

import (
	"github.com/BrandonKowalski/trailhead/pkg/trailhead/route"
)

// Render composes the current matched stack into a single node. The leaf is
// built first and handed to its parent as the outlet, so each level sees
// only the already-built remainder below it.
//
// A pending loader surfaces as an error satisfying IsPending; the caller
// waits on it and renders again. Loader failures come back as *LoaderError.
// Render returns nil, nil when nothing matched.
func (r *Router) Render() (any, error) {
	return compose(r.Scopes())
}

func compose(scopes []*Scope) (any, error) {
	if len(scopes) == 0 {
		return nil, nil
	}
	outlet, err := compose(scopes[1:])
	if err != nil {
		return nil, err
	}
	return scopes[0].render(outlet)
}

func (s *Scope) render(outlet any) (any, error) {
	rt := s.Route()
	switch rt.Kind() {
	case route.KindView:
		return rt.View()(s, outlet), nil
	case route.KindData:
		data, err := s.Data().Read()
		if err != nil {
			if IsPending(err) {
				return nil, err
			}
			return nil, &LoaderError{Position: s.pos, Pattern: rt.Pattern(), Err: err}
		}
		return rt.DataView()(data, s, outlet), nil
	default:
		return outlet, nil
	}
}
