package emit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsgonest/swagts/internal/endpoint"
	"github.com/tsgonest/swagts/internal/schema"
	"github.com/tsgonest/swagts/internal/typegen"
)

func loadUsers(t *testing.T) *schema.Document {
	t.Helper()
	doc, err := schema.Load(filepath.Join("..", "..", "testdata", "openapi", "users.yaml"))
	require.NoError(t, err)
	return doc
}

func TestEmitter_Doc(t *testing.T) {
	e := NewEmitter()
	e.Doc(nil)
	e.Doc([]string{"one"})
	e.Doc([]string{"first", "", "second"})
	assert.Equal(t, "/** one */\n/**\n * first\n *\n * second\n */\n", e.String())
}

func TestEmitter_Indent(t *testing.T) {
	e := NewEmitter()
	e.Line("a")
	e.Indent()
	e.Line("b")
	e.Line("")
	e.Dedent()
	e.Dedent()
	e.Line("c")
	assert.Equal(t, "a\n  b\n\nc\n", e.String())
}

func TestDocLines(t *testing.T) {
	assert.Nil(t, docLines("  \n "))
	assert.Equal(t, []string{"ends *\\/ early"}, docLines("ends */ early"))
	assert.Equal(t, []string{"x", "", "y"}, docLines("\nx  \n\ny\n"))
}

func TestTypesFile(t *testing.T) {
	doc := loadUsers(t)
	decls := typegen.TranslateSchemas(doc, nil, typegen.Overrides{}, typegen.DefaultOptions())

	want := Header + "\n" +
		"\n/** A registered user */\n" +
		"export type User = {\nid: number,\nname: string,\nemail: string| null,\nrole: Role\n}\n" +
		"\nexport type Role = 'admin'|'member'\n" +
		"\nexport type NewUser = User&{password: string}\n"
	assert.Equal(t, want, TypesFile(doc, decls))
}

func TestEndpointsFile(t *testing.T) {
	doc := loadUsers(t)
	decls := typegen.TranslateSchemas(doc, nil, typegen.Overrides{}, typegen.DefaultOptions())
	e := typegen.NewEngine(nil, typegen.Overrides{}, typegen.DefaultOptions())
	res := endpoint.Collect(doc, e, endpoint.Options{PrefixSegments: 2}, nil)
	require.NoError(t, res.Err())

	out := EndpointsFile(res, "./types", decls.Names)

	assert.Contains(t, out, Header+"\n\nimport type {\n  User,\n  Role,\n  NewUser,\n} from './types';\n")
	assert.Contains(t, out, "export const PATH_PREFIX = '/api/v1';\n")
	assert.Contains(t, out, "/**\n * List users\n * GET /api/v1/users\n */\nexport const getUsers = () => `/api/v1/users`\n")
	assert.Contains(t, out, "export type GetUsersRequest = ({query}: GetUsersParams) => Promise<GetUsersResult|void>;\n")
	assert.Contains(t, out, "export type PostUsersRequest = ({data}: PostUsersParams) => Promise<PostUsersResult|void>;\n")
	assert.Contains(t, out, "/**\n * GET /api/v1/users/{id}\n * @deprecated\n */\n")
	assert.Contains(t, out, "export const getUsersById = ({id}) => `/api/v1/users/${id}`\n")
	assert.Contains(t, out, "export type DeleteUsersByIdRequest = ({urlParams}: DeleteUsersByIdParams) => Promise<void>;\n")
	assert.NotContains(t, out, "PostUsersQueryParams")
}

func TestEndpointsFile_NoTypes(t *testing.T) {
	res := endpoint.Result{}
	out := EndpointsFile(res, "./types", nil)
	assert.Equal(t, Header+"\n\nexport const PATH_PREFIX = '';\n", out)
}

func TestRequestType_NoParams(t *testing.T) {
	ep := endpoint.Endpoint{URLGetter: endpoint.URLGetter{Name: "getHealth"}}
	assert.Equal(t, "export type GetHealthRequest = () => Promise<void>;", RequestType(ep))
}

func TestOperationDoc_DescriptionDeduped(t *testing.T) {
	ep := endpoint.Endpoint{
		Path:      "/items",
		Method:    "get",
		Operation: &schema.Operation{Summary: "List items", Description: "List items"},
	}
	assert.Equal(t, []string{"List items", "GET /items"}, operationDoc(ep))

	ep.Operation.Description = "Paginated."
	assert.Equal(t, []string{"List items", "", "Paginated.", "GET /items"}, operationDoc(ep))
}

func TestModulePath(t *testing.T) {
	assert.Equal(t, "./types", ModulePath("types.ts"))
	assert.Equal(t, "./models", ModulePath(filepath.Join("out", "models.ts")))
}

func TestWriteFile_WriteIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "types.ts")

	changed, err := WriteFile(path, "a")
	require.NoError(t, err)
	assert.True(t, changed)

	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, old, old))

	changed, err = WriteFile(path, "a")
	require.NoError(t, err)
	assert.False(t, changed)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "unchanged content must not touch the file")

	changed, err = WriteFile(path, "b")
	require.NoError(t, err)
	assert.True(t, changed)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
}
