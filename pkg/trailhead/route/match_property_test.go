package route

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func propertyTree() []*Route {
	return []*Route{
		New("/", view("root"),
			New("", view("index")),
			New("about", view("about")),
			New("orgs/:id", view("org"),
				New("", view("org-index")),
				New("teams/:id", view("team")),
			),
			Layout("files", New(":name", view("file"))),
		),
	}
}

func genPathname() gopter.Gen {
	segment := gen.OneGenOf(
		gen.OneConstOf("about", "orgs", "teams", "files", ""),
		gen.AlphaString(),
	)
	return gen.SliceOfN(4, segment).Map(func(segs []string) string {
		return "/" + strings.Join(segs, "/")
	})
}

func TestMatchProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	routes := propertyTree()

	// Property: the same tree and pathname always give the same stack
	properties.Property("matching is deterministic", prop.ForAll(
		func(pathname string) bool {
			first, ok1 := MatchPath(routes, pathname)
			second, ok2 := MatchPath(routes, pathname)
			if ok1 != ok2 || len(first) != len(second) {
				return false
			}
			for i := range first {
				if first[i].Route != second[i].Route || first[i].Pathname != second[i].Pathname {
					return false
				}
				if len(first[i].Params) != len(second[i].Params) {
					return false
				}
				for k, v := range first[i].Params {
					if second[i].Params[k] != v {
						return false
					}
				}
			}
			return true
		},
		genPathname(),
	))

	// Property: a nested param shadows the same name at the parent level
	properties.Property("deepest param wins", prop.ForAll(
		func(org, team string) bool {
			stack, ok := MatchPath(routes, "/orgs/"+org+"/teams/"+team)
			if !ok {
				return false
			}
			return stack.Params().Get("id") == team && stack[1].Params.Get("id") == org
		},
		gen.Identifier(),
		gen.Identifier(),
	))

	// Property: every level's pathname is a prefix of the next
	properties.Property("pathnames nest", prop.ForAll(
		func(pathname string) bool {
			stack, ok := MatchPath(routes, pathname)
			if !ok {
				return true
			}
			for i := 1; i < len(stack); i++ {
				parent := strings.TrimSuffix(stack[i-1].Pathname, "/")
				if !strings.HasPrefix(stack[i].Pathname, parent) {
					return false
				}
			}
			return true
		},
		genPathname(),
	))

	properties.TestingRun(t)
}
