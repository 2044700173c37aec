// Package router connects a platform navigation primitive to a route tree.
//
// Every navigation the platform announces flows through one pipeline:
// registered blockers may cancel it, the OnNavigate hook observes it, and
// when the destination matches a route the router intercepts it and starts
// the loaders of the matched stack. Loader results are cached per history
// entry, so revisiting an entry never refetches and two entries for the same
// URL never share data.
//
// # Basic Usage
//
//	mem, _ := history.NewMemory("/")
//
//	routes := []*route.Route{
//	    route.New("/", shell,
//	        route.New("", home),
//	        route.NewWithLoader("users/:id", loadUser, userPage),
//	    ),
//	}
//
//	r := router.New(mem, routes, router.Options{})
//	defer r.Close()
//
//	res := r.Navigate("/users/42", router.NavigateOptions{})
//	if err := res.Wait(ctx); err != nil {
//	    // Blocked, cancelled, superseded or a loader failed
//	}
//
//	node, err := r.Render()
//
// # Loading Modes
//
// ModeAsync holds the commit until every loader has settled, so nothing
// renders without its data. ModeSync commits at once; Render then reports a
// pending loader as an error satisfying IsPending, and the caller waits on
// it before rendering again.
//
// # Route State
//
// Each position of the matched stack owns one state slot stored on the
// history entry. Scope.SetState writes through a replace navigation that
// blockers and OnNavigate see; Scope.SetStateSync rewrites the entry in
// place and is readable immediately. Slots travel with their entry across
// back and forward.
//
// # Blocking
//
// A blocker is a predicate keyed by its owner. When any registered blocker
// returns true, navigations are cancelled and the platform is asked to
// prompt before unloading.
package router
