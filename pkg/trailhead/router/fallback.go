package router

import "net/url"

// initFallback prepares the router for a platform without a navigation
// primitive. FallbackNone leaves the snapshot nil so nothing renders;
// FallbackStatic matches the ambient URL once and never changes.
func (r *Router) initFallback() {
	if r.opts.Fallback != FallbackStatic {
		r.log.Warn("navigation primitive unavailable; rendering nothing")
		return
	}

	u, err := url.Parse(r.opts.FallbackURL)
	if err != nil {
		r.log.Error("navigation primitive unavailable and fallback url is invalid; rendering nothing",
			"url", r.opts.FallbackURL, "error", err)
		return
	}
	r.static = newLocation(r.routes, u, staticKey, nil, 0)
	r.log.Warn("navigation primitive unavailable; rendering a static match with navigation disabled",
		"url", u.String(), "matched", len(r.static.stack) > 0)
}
