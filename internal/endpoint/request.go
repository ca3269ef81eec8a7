package endpoint

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tsgonest/swagts/internal/naming"
	"github.com/tsgonest/swagts/internal/schema"
	"github.com/tsgonest/swagts/internal/typegen"
)

// Facet is one of the type declarations generated for an endpoint.
type Facet string

const (
	FacetData   Facet = "data"   // request body
	FacetResult Facet = "result" // 200 response
	FacetQuery  Facet = "query"  // query parameters
	FacetPath   Facet = "path"   // path parameters, exposed as "urlParams"
	FacetParams Facet = "params" // consolidated call parameters
)

// urlParamsKey is the call-signature key of the path facet.
const urlParamsKey = "urlParams"

// signatures lists, per method, the call-signature keys that may apply.
var signatures = map[string][]string{
	"get":    {urlParamsKey, string(FacetQuery)},
	"post":   {urlParamsKey, string(FacetData)},
	"put":    {urlParamsKey, string(FacetData)},
	"patch":  {urlParamsKey, string(FacetData)},
	"delete": {urlParamsKey},
}

var nonWordRe = regexp.MustCompile(`[^\w]+`)

// FacetType is a generated declaration tagged with its facet.
type FacetType struct {
	Facet Facet
	typegen.GeneratedType
}

// Request describes the request function of an endpoint: its call
// signature and the declarations it refers to.
type Request struct {
	Params             []string    // signature keys, e.g. ["urlParams", "query"]
	ParamsCode         string      // "{urlParams,query}", or ""
	ParamsWithTypeCode string      // "{urlParams,query}: GetUsersByIdParams", or ""
	Types              []FacetType // creation order: data, result, query, path, params
}

// Type returns the declaration generated for facet f.
func (r Request) Type(f Facet) (typegen.GeneratedType, bool) {
	for _, t := range r.Types {
		if t.Facet == f {
			return t.GeneratedType, true
		}
	}
	return typegen.GeneratedType{}, false
}

// builder accumulates facet declarations for one endpoint.
type builder struct {
	getter string
	types  []FacetType
}

func (b *builder) add(f Facet, name, decl string) {
	b.types = append(b.types, FacetType{Facet: f, GeneratedType: typegen.GeneratedType{Name: name, Declaration: decl}})
}

func (b *builder) typeName(suffix ...string) string {
	return naming.PascalCase(append([]string{b.getter}, suffix...)...)
}

// BuildRequest generates the parameter, body, response and consolidated
// parameter types of op and selects its call signature.
//
// Query parameters of post operations are dropped. Parameters in locations
// other than path and query are rejected.
func BuildRequest(e *typegen.Engine, getter URLGetter, method string, op *schema.Operation) (Request, error) {
	signature, ok := signatures[method]
	if !ok {
		return Request{}, fmt.Errorf("%w %q", ErrUnsupportedMethod, method)
	}

	var queryFields, pathFields []string
	for _, p := range op.Parameters {
		var fields *[]string
		switch p.In {
		case "query":
			fields = &queryFields
		case "path":
			fields = &pathFields
		default:
			return Request{}, fmt.Errorf("parameter %q: %w %q", p.Name, ErrUnsupportedLocation, p.In)
		}
		t := e.Synthesize(p.Schema, p.Name, []string{getter.Name, p.In, p.Name})
		opt := "?"
		if p.Required {
			opt = ""
		}
		*fields = append(*fields, fmt.Sprintf("%s%s: %s", nonWordRe.ReplaceAllString(p.Name, ""), opt, t))
	}

	b := &builder{getter: getter.Name}

	if op.RequestBody != nil {
		body, ok := op.RequestBody.JSONSchema()
		if !ok {
			return Request{}, ErrMissingJSONBody
		}
		name := b.typeName("data", "params")
		b.add(FacetData, name, typegen.Declare(name, e.Synthesize(body, "", []string{getter.Name, string(FacetData)})))
	}

	if resp, ok := op.ResponseSchema("200"); ok {
		name := b.typeName("result")
		b.add(FacetResult, name, typegen.Declare(name, e.Synthesize(resp, "", []string{getter.Name, string(FacetResult)})))
	}

	if method == "post" {
		queryFields = nil
	}
	if len(queryFields) > 0 {
		name := b.typeName("query", "params")
		b.add(FacetQuery, name, groupDecl(name, queryFields))
	}
	if len(pathFields) > 0 {
		name := b.typeName("url", "params")
		b.add(FacetPath, name, groupDecl(name, pathFields))
	}

	var entries []string
	for _, t := range b.types {
		switch t.Facet {
		case FacetResult:
			continue
		case FacetPath:
			entries = append(entries, urlParamsKey+": "+t.Name)
		default:
			entries = append(entries, string(t.Facet)+": "+t.Name)
		}
	}
	paramsName := b.typeName("params")
	b.add(FacetParams, paramsName, fmt.Sprintf("export type %s = {\n%s\n}", paramsName, strings.Join(entries, ",")))

	req := Request{Types: b.types}
	for _, key := range signature {
		facet := Facet(key)
		if key == urlParamsKey {
			if getter.ParamsCode == "" {
				continue
			}
			facet = FacetPath
		}
		if _, ok := req.Type(facet); ok {
			req.Params = append(req.Params, key)
		}
	}
	if len(req.Params) > 0 {
		req.ParamsCode = "{" + strings.Join(req.Params, ",") + "}"
		req.ParamsWithTypeCode = req.ParamsCode + ": " + paramsName
	}
	return req, nil
}

func groupDecl(name string, fields []string) string {
	return fmt.Sprintf("export type %s = {\n%s\n};", name, strings.Join(fields, ","))
}
