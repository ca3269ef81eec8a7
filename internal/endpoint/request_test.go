package endpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsgonest/swagts/internal/schema"
	"github.com/tsgonest/swagts/internal/typegen"
)

func newEngine() *typegen.Engine {
	return typegen.NewEngine(nil, typegen.Overrides{}, typegen.DefaultOptions())
}

func prim(t string) *schema.Node { return &schema.Node{Type: t} }

func mustGetter(t *testing.T, method string, segments ...string) URLGetter {
	t.Helper()
	g, err := DeriveURLGetter(method, segments, "")
	require.NoError(t, err)
	return g
}

func facets(r Request) []Facet {
	out := make([]Facet, 0, len(r.Types))
	for _, t := range r.Types {
		out = append(out, t.Facet)
	}
	return out
}

func withQueryAndPath(method string) *schema.Operation {
	return &schema.Operation{
		Method: method,
		Parameters: []schema.Parameter{
			{Name: "id", In: "path", Required: true, Schema: prim("integer")},
			{Name: "q", In: "query", Schema: prim("string")},
		},
	}
}

func TestBuildRequest_GetKeepsQuery(t *testing.T) {
	g := mustGetter(t, "get", "items", "{id}")
	req, err := BuildRequest(newEngine(), g, "get", withQueryAndPath("get"))
	require.NoError(t, err)

	assert.Equal(t, []Facet{FacetQuery, FacetPath, FacetParams}, facets(req))
	assert.Equal(t, []string{"urlParams", "query"}, req.Params)
	assert.Equal(t, "{urlParams,query}", req.ParamsCode)
	assert.Equal(t, "{urlParams,query}: GetItemsByIdParams", req.ParamsWithTypeCode)

	q, ok := req.Type(FacetQuery)
	require.True(t, ok)
	assert.Equal(t, "GetItemsByIdQueryParams", q.Name)
	assert.Equal(t, "export type GetItemsByIdQueryParams = {\nq?: string\n};", q.Declaration)

	u, ok := req.Type(FacetPath)
	require.True(t, ok)
	assert.Equal(t, "export type GetItemsByIdUrlParams = {\nid: number\n};", u.Declaration)

	p, ok := req.Type(FacetParams)
	require.True(t, ok)
	assert.Equal(t, "export type GetItemsByIdParams = {\nquery: GetItemsByIdQueryParams,urlParams: GetItemsByIdUrlParams\n}", p.Declaration)
}

func TestBuildRequest_PostDropsQuery(t *testing.T) {
	g := mustGetter(t, "post", "items", "{id}")
	req, err := BuildRequest(newEngine(), g, "post", withQueryAndPath("post"))
	require.NoError(t, err)

	_, ok := req.Type(FacetQuery)
	assert.False(t, ok)
	assert.Equal(t, []Facet{FacetPath, FacetParams}, facets(req))
	assert.Equal(t, []string{"urlParams"}, req.Params)
	assert.Equal(t, "{urlParams}: PostItemsByIdParams", req.ParamsWithTypeCode)
}

func TestBuildRequest_PutKeepsQueryType(t *testing.T) {
	g := mustGetter(t, "put", "items", "{id}")
	req, err := BuildRequest(newEngine(), g, "put", withQueryAndPath("put"))
	require.NoError(t, err)

	// The query type is declared but put has no query signature key.
	_, ok := req.Type(FacetQuery)
	assert.True(t, ok)
	assert.Equal(t, []string{"urlParams"}, req.Params)
}

func TestBuildRequest_BodyAndResult(t *testing.T) {
	op := &schema.Operation{
		Method: "patch",
		RequestBody: &schema.RequestBody{Content: []schema.MediaType{
			{Type: "text/plain", Schema: prim("string")},
			{Type: "application/json", Schema: &schema.Node{Ref: "#/components/schemas/Patch"}},
		}},
		Responses: []schema.Response{
			{Code: "200", Content: []schema.MediaType{{Type: "application/json", Schema: &schema.Node{
				Type:  "array",
				Items: &schema.Node{Ref: "#/components/schemas/Item"},
			}}}},
		},
	}
	g := mustGetter(t, "patch", "items")
	req, err := BuildRequest(newEngine(), g, "patch", op)
	require.NoError(t, err)

	assert.Equal(t, []Facet{FacetData, FacetResult, FacetParams}, facets(req))

	d, _ := req.Type(FacetData)
	assert.Equal(t, "export type PatchItemsDataParams = Patch", d.Declaration)
	r, _ := req.Type(FacetResult)
	assert.Equal(t, "export type PatchItemsResult = Array<Item>", r.Declaration)
	p, _ := req.Type(FacetParams)
	assert.Equal(t, "export type PatchItemsParams = {\ndata: PatchItemsDataParams\n}", p.Declaration)

	assert.Equal(t, []string{"data"}, req.Params)
	assert.Equal(t, "{data}: PatchItemsParams", req.ParamsWithTypeCode)
}

func TestBuildRequest_NoParameters(t *testing.T) {
	g := mustGetter(t, "get", "health")
	req, err := BuildRequest(newEngine(), g, "get", &schema.Operation{Method: "get"})
	require.NoError(t, err)

	assert.Equal(t, []Facet{FacetParams}, facets(req))
	p, _ := req.Type(FacetParams)
	assert.Equal(t, "export type GetHealthParams = {\n\n}", p.Declaration)
	assert.Empty(t, req.Params)
	assert.Empty(t, req.ParamsCode)
	assert.Empty(t, req.ParamsWithTypeCode)
}

func TestBuildRequest_URLParamsNeedPlaceholders(t *testing.T) {
	// A path parameter without a matching placeholder is declared but not
	// part of the signature.
	op := &schema.Operation{Method: "delete", Parameters: []schema.Parameter{
		{Name: "id", In: "path", Required: true, Schema: prim("string")},
	}}
	g := mustGetter(t, "delete", "items")
	req, err := BuildRequest(newEngine(), g, "delete", op)
	require.NoError(t, err)

	_, ok := req.Type(FacetPath)
	assert.True(t, ok)
	assert.Empty(t, req.Params)
}

func TestBuildRequest_FieldNamesStripNonWord(t *testing.T) {
	op := &schema.Operation{Method: "get", Parameters: []schema.Parameter{
		{Name: "sort-by", In: "query", Schema: &schema.Node{Enum: []string{"name", "age"}}},
		{Name: "page[size]", In: "query", Required: true, Schema: prim("integer")},
	}}
	g := mustGetter(t, "get", "items")
	req, err := BuildRequest(newEngine(), g, "get", op)
	require.NoError(t, err)

	q, _ := req.Type(FacetQuery)
	assert.Equal(t, "export type GetItemsQueryParams = {\nsortby?: 'name'|'age',pagesize: number\n};", q.Declaration)
}

func TestBuildRequest_ParameterOverrides(t *testing.T) {
	e := typegen.NewEngine(nil, typegen.Overrides{
		Fields: map[string]string{"id": "UserId"},
		Paths:  map[string]string{"getItemsById.query.q": "'a'|'b'"},
	}, typegen.DefaultOptions())
	g := mustGetter(t, "get", "items", "{id}")
	req, err := BuildRequest(e, g, "get", withQueryAndPath("get"))
	require.NoError(t, err)

	q, _ := req.Type(FacetQuery)
	assert.Contains(t, q.Declaration, "q?: 'a'|'b'")
	u, _ := req.Type(FacetPath)
	assert.Contains(t, u.Declaration, "id: UserId")
}

func TestBuildRequest_Errors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		op     *schema.Operation
		want   error
	}{
		{
			name:   "unsupported method",
			method: "head",
			op:     &schema.Operation{Method: "head"},
			want:   ErrUnsupportedMethod,
		},
		{
			name:   "header parameter",
			method: "get",
			op: &schema.Operation{Method: "get", Parameters: []schema.Parameter{
				{Name: "X-Trace", In: "header", Schema: prim("string")},
			}},
			want: ErrUnsupportedLocation,
		},
		{
			name:   "body without json",
			method: "post",
			op: &schema.Operation{Method: "post", RequestBody: &schema.RequestBody{Content: []schema.MediaType{
				{Type: "text/plain", Schema: prim("string")},
			}}},
			want: ErrMissingJSONBody,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGetter(t, tt.method, "items")
			_, err := BuildRequest(newEngine(), g, tt.method, tt.op)
			require.ErrorIs(t, err, tt.want)
		})
	}
}
