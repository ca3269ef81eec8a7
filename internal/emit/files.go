package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsgonest/swagts/internal/endpoint"
	"github.com/tsgonest/swagts/internal/naming"
	"github.com/tsgonest/swagts/internal/schema"
	"github.com/tsgonest/swagts/internal/typegen"
)

// Header is the first line of every generated file.
const Header = "// Code generated by swagts. DO NOT EDIT."

// TypesFile renders the schema declarations of doc, each preceded by the
// schema description as JSDoc when it has one.
func TypesFile(doc *schema.Document, decls typegen.Declarations) string {
	desc := make(map[string]string)
	if doc != nil {
		for _, s := range doc.Schemas {
			if s.Schema != nil {
				desc[s.Name] = s.Schema.Description
			}
		}
	}

	e := NewEmitter()
	e.Line(Header)
	for i, d := range decls.Declarations {
		e.Blank()
		if i < len(decls.Names) {
			e.Doc(docLines(desc[decls.Names[i]]))
		}
		e.Raw(d)
	}
	return e.String()
}

// EndpointsFile renders the endpoint bindings of res. typeNames are imported
// as types from typesModule (e.g. "./types") so facet declarations can refer
// to them.
func EndpointsFile(res endpoint.Result, typesModule string, typeNames []string) string {
	e := NewEmitter()
	e.Line(Header)
	e.Blank()

	if len(typeNames) > 0 {
		e.Line("import type {")
		e.Indent()
		for _, n := range typeNames {
			e.Line("%s,", n)
		}
		e.Dedent()
		e.Line("} from '%s';", typesModule)
		e.Blank()
	}

	e.Line("export const PATH_PREFIX = '%s';", res.PathPrefix)

	for _, ep := range res.Endpoints {
		e.Blank()
		e.Doc(operationDoc(ep))
		e.Raw(ep.URLGetter.Code)
		for _, t := range ep.Request.Types {
			e.Raw(t.Declaration)
		}
		e.Raw(RequestType(ep))
	}
	return e.String()
}

// RequestType renders the call-signature type of ep, e.g.
//
//	export type GetUsersByIdRequest = ({urlParams}: GetUsersByIdParams) => Promise<GetUsersByIdResult|void>;
func RequestType(ep endpoint.Endpoint) string {
	result := "void"
	if t, ok := ep.Request.Type(endpoint.FacetResult); ok {
		result = t.Name + "|void"
	}
	return fmt.Sprintf("export type %s = (%s) => Promise<%s>;",
		naming.PascalCase(ep.URLGetter.Name, "request"), ep.Request.ParamsWithTypeCode, result)
}

func operationDoc(ep endpoint.Endpoint) []string {
	var lines []string
	if ep.Operation != nil {
		summary := docLines(ep.Operation.Summary)
		lines = append(lines, summary...)
		if d := docLines(ep.Operation.Description); len(d) > 0 && strings.Join(d, "\n") != strings.Join(summary, "\n") {
			if len(lines) > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, d...)
		}
	}
	lines = append(lines, fmt.Sprintf("%s %s", strings.ToUpper(ep.Method), ep.Path))
	if ep.Operation != nil && ep.Operation.Deprecated {
		lines = append(lines, "@deprecated")
	}
	return lines
}

// ModulePath returns the relative import specifier of a sibling .ts file.
func ModulePath(file string) string {
	return "./" + strings.TrimSuffix(filepath.Base(file), ".ts")
}

// WriteFile writes content to path, creating parent directories. It skips
// the write when the file already holds identical content and reports
// whether anything was written.
func WriteFile(path, content string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && string(existing) == content {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
