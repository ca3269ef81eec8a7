package endpoint

import (
	"fmt"
	"strings"

	"github.com/tsgonest/swagts/internal/naming"
)

// URLGetter is the generated URL-builder function of an endpoint.
type URLGetter struct {
	Name       string   // e.g. "getUsersById"
	Params     []string // placeholder names in path order
	ParamsCode string   // "{id,slug}", or "" without placeholders
	Code       string   // the full function declaration
}

// DeriveURLGetter builds the URL getter for method on the path segments left
// after the shared prefix. A placeholder segment "{name}" contributes "by" +
// name to the function name and "${name}" to the template.
func DeriveURLGetter(method string, segments []string, prefix string) (URLGetter, error) {
	words := make([]string, 0, len(segments)+1)
	nodes := make([]string, 0, len(segments)+1)
	nodes = append(nodes, prefix)

	var params []string
	seen := make(map[string]bool)
	for _, seg := range segments {
		name, ok := placeholder(seg)
		if !ok {
			words = append(words, seg)
			nodes = append(nodes, seg)
			continue
		}
		if seen[name] {
			return URLGetter{}, fmt.Errorf("%w: %q", ErrDuplicatePathParam, name)
		}
		seen[name] = true
		params = append(params, name)
		words = append(words, "by", seg)
		nodes = append(nodes, "${"+name+"}")
	}

	g := URLGetter{
		Name:   method + naming.PascalCase(words...),
		Params: params,
	}
	if len(params) > 0 {
		g.ParamsCode = "{" + strings.Join(params, ",") + "}"
	}
	g.Code = fmt.Sprintf("export const %s = (%s) => `%s`", g.Name, g.ParamsCode, strings.Join(nodes, "/"))
	return g, nil
}

// placeholder returns the parameter name of a "{name}" segment.
func placeholder(seg string) (string, bool) {
	if !strings.HasPrefix(seg, "{") {
		return "", false
	}
	if len(seg) < 2 {
		return "", true
	}
	return seg[1 : len(seg)-1], true
}
