package endpoint

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/tsgonest/swagts/internal/schema"
	"github.com/tsgonest/swagts/internal/typegen"
)

func loadUsers(t *testing.T) *schema.Document {
	t.Helper()
	doc, err := schema.Load(filepath.Join("..", "..", "testdata", "openapi", "users.yaml"))
	require.NoError(t, err)
	return doc
}

func TestCollect_UsersFixture(t *testing.T) {
	log, hook := test.NewNullLogger()
	res := Collect(loadUsers(t), newEngine(), Options{PrefixSegments: 2}, log)

	require.NoError(t, res.Err())
	assert.Empty(t, hook.AllEntries())
	assert.Equal(t, "/api/v1", res.PathPrefix)
	assert.Empty(t, res.PrefixMismatches)
	require.Len(t, res.Endpoints, 4)

	var names []string
	for _, ep := range res.Endpoints {
		names = append(names, ep.URLGetter.Name)
	}
	assert.Equal(t, []string{"getUsers", "postUsers", "getUsersById", "deleteUsersById"}, names)

	list := res.Endpoints[0]
	assert.Equal(t, "export const getUsers = () => `/api/v1/users`", list.URLGetter.Code)
	assert.Equal(t, "{query}: GetUsersParams", list.Request.ParamsWithTypeCode)
	q, _ := list.Request.Type(FacetQuery)
	assert.Equal(t, "export type GetUsersQueryParams = {\nlimit?: number,sortby?: 'name'|'createdAt'\n};", q.Declaration)
	r, _ := list.Request.Type(FacetResult)
	assert.Equal(t, "export type GetUsersResult = Array<User>", r.Declaration)

	create := res.Endpoints[1]
	assert.Equal(t, []Facet{FacetData, FacetResult, FacetParams}, facets(create.Request))
	d, _ := create.Request.Type(FacetData)
	assert.Equal(t, "export type PostUsersDataParams = NewUser", d.Declaration)
	assert.Equal(t, "{data}: PostUsersParams", create.Request.ParamsWithTypeCode)

	get := res.Endpoints[2]
	assert.Equal(t, "/api/v1/users/{id}", get.Path)
	assert.True(t, get.Operation.Deprecated)
	assert.Equal(t, "export const getUsersById = ({id}) => `/api/v1/users/${id}`", get.URLGetter.Code)
	assert.Equal(t, "{urlParams}: GetUsersByIdParams", get.Request.ParamsWithTypeCode)

	del := res.Endpoints[3]
	_, ok := del.Request.Type(FacetResult)
	assert.False(t, ok)
	assert.Equal(t, []string{"urlParams"}, del.Request.Params)
}

func TestCollect_ZeroPrefix(t *testing.T) {
	res := Collect(loadUsers(t), newEngine(), Options{}, nil)
	require.NoError(t, res.Err())
	assert.Empty(t, res.PathPrefix)
	assert.Equal(t, "getApiV1UsersById", res.Endpoints[2].URLGetter.Name)
	assert.Equal(t, "export const getApiV1UsersById = ({id}) => `/api/v1/users/${id}`", res.Endpoints[2].URLGetter.Code)
}

func TestCollect_PrefixComesFromFirstPath(t *testing.T) {
	doc := &schema.Document{Paths: []schema.PathItem{
		{Path: "/api/v1/users", Operations: []schema.Operation{{Method: "get"}}},
		{Path: "/other/v2/things/{id}", Operations: []schema.Operation{{Method: "get"}}},
	}}
	log, hook := test.NewNullLogger()
	res := Collect(doc, newEngine(), Options{PrefixSegments: 2}, log)

	require.NoError(t, res.Err())
	require.Len(t, res.Endpoints, 2)
	assert.Equal(t, "export const getThingsById = ({id}) => `/api/v1/things/${id}`", res.Endpoints[1].URLGetter.Code)
	assert.Equal(t, []string{"/other/v2/things/{id}"}, res.PrefixMismatches)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "/other/v2/things/{id}", entry.Data["path"])
	assert.Equal(t, "/api/v1", entry.Data["prefix"])
}

func TestCollect_ShortPath(t *testing.T) {
	doc := &schema.Document{Paths: []schema.PathItem{
		{Path: "/health", Operations: []schema.Operation{{Method: "get"}}},
	}}
	res := Collect(doc, newEngine(), Options{PrefixSegments: 5}, nil)
	require.NoError(t, res.Err())
	assert.Equal(t, "/health", res.PathPrefix)
	assert.Equal(t, "export const get = () => `/health`", res.Endpoints[0].URLGetter.Code)
}

func failingDoc() *schema.Document {
	return &schema.Document{Paths: []schema.PathItem{
		{Path: "/a", Operations: []schema.Operation{{Method: "get"}, {Method: "head"}}},
		{Path: "/b/{id}/c/{id}", Operations: []schema.Operation{{Method: "get"}}},
		{Path: "/d", Operations: []schema.Operation{{Method: "post"}}},
	}}
}

func TestCollect_IsolatesFailures(t *testing.T) {
	log, hook := test.NewNullLogger()
	res := Collect(failingDoc(), newEngine(), Options{}, log)

	assert.False(t, res.Aborted)
	require.Len(t, res.Endpoints, 2)
	assert.Equal(t, "getA", res.Endpoints[0].URLGetter.Name)
	assert.Equal(t, "postD", res.Endpoints[1].URLGetter.Name)

	require.Len(t, res.Failures, 2)
	assert.Equal(t, "head", res.Failures[0].Method)
	assert.ErrorIs(t, res.Failures[0], ErrUnsupportedMethod)
	assert.Equal(t, "/b/{id}/c/{id}", res.Failures[1].Path)
	assert.ErrorIs(t, res.Failures[1], ErrDuplicatePathParam)

	err := res.Err()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.True(t, errors.Is(err, ErrDuplicatePathParam))

	var errorEntries int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			errorEntries++
			assert.Equal(t, "failed to create endpoint", e.Message)
			assert.Contains(t, e.Data, logrus.ErrorKey)
		}
	}
	assert.Equal(t, 2, errorEntries)
}

func TestCollect_FailFast(t *testing.T) {
	res := Collect(failingDoc(), newEngine(), Options{FailFast: true}, nil)

	assert.True(t, res.Aborted)
	require.Len(t, res.Endpoints, 1)
	require.Len(t, res.Failures, 1)
	assert.ErrorIs(t, res.Err(), ErrUnsupportedMethod)
}

func TestCollect_NilDocument(t *testing.T) {
	res := Collect(nil, newEngine(), Options{}, nil)
	assert.Empty(t, res.Endpoints)
	assert.NoError(t, res.Err())
}

func TestFailure_Error(t *testing.T) {
	f := Failure{Path: "/a", Method: "head", Err: ErrUnsupportedMethod}
	assert.Equal(t, "head /a: unsupported method", f.Error())
}

func TestCollectEndpoints(t *testing.T) {
	res := CollectEndpoints(loadUsers(t), nil, typegen.Overrides{Fields: map[string]string{"limit": "PageSize"}}, 2, nil)
	require.NoError(t, res.Err())
	q, _ := res.Endpoints[0].Request.Type(FacetQuery)
	assert.Contains(t, q.Declaration, "limit?: PageSize")
}
