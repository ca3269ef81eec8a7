// Package endpoint derives URL getters, parameter types and call signatures
// for every operation of an OpenAPI document.
package endpoint

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/tsgonest/swagts/internal/schema"
	"github.com/tsgonest/swagts/internal/typegen"
)

// Options control a collection pass.
type Options struct {
	// PrefixSegments is the number of leading path segments taken from the
	// first path as the shared URL prefix.
	PrefixSegments int

	// FailFast stops the pass at the first failing endpoint. By default the
	// endpoint is recorded in Result.Failures and the pass continues.
	FailFast bool
}

// Endpoint is the generated binding of one path/method pair.
type Endpoint struct {
	Path      string
	Method    string
	Operation *schema.Operation
	URLGetter URLGetter
	Request   Request
}

// Failure records an endpoint that could not be generated.
type Failure struct {
	Path   string
	Method string
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Method, f.Path, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Result is the outcome of a collection pass.
type Result struct {
	Endpoints  []Endpoint
	PathPrefix string
	Failures   []Failure

	// PrefixMismatches lists paths whose own leading segments differ from
	// PathPrefix. They are generated with PathPrefix regardless.
	PrefixMismatches []string

	// Aborted is set when FailFast stopped the pass early.
	Aborted bool
}

// Err combines all failures, or returns nil.
func (r Result) Err() error {
	var err error
	for _, f := range r.Failures {
		err = multierr.Append(err, f)
	}
	return err
}

// Collect generates endpoints for every path and method of doc in document
// order. The URL prefix is taken from the first path only and reused for
// every later path. Failures and prefix mismatches are reported to log.
func Collect(doc *schema.Document, e *typegen.Engine, opts Options, log logrus.FieldLogger) Result {
	if log == nil {
		log = logrus.StandardLogger()
	}
	var res Result
	if doc == nil {
		return res
	}

	cut := opts.PrefixSegments + 1
	if cut < 1 {
		cut = 1
	}

	for i, item := range doc.Paths {
		segments := strings.Split(item.Path, "/")
		n := min(cut, len(segments))
		own := strings.Join(segments[:n], "/")
		if i == 0 {
			res.PathPrefix = own
		} else if own != res.PathPrefix {
			res.PrefixMismatches = append(res.PrefixMismatches, item.Path)
			log.WithFields(logrus.Fields{
				"path":   item.Path,
				"prefix": res.PathPrefix,
			}).Warn("path does not share the prefix of the first path")
		}
		location := segments[n:]

		for j := range item.Operations {
			op := &item.Operations[j]
			ep, err := buildEndpoint(e, item.Path, op, location, res.PathPrefix)
			if err != nil {
				res.Failures = append(res.Failures, Failure{Path: item.Path, Method: op.Method, Err: err})
				log.WithFields(logrus.Fields{
					"path":   item.Path,
					"method": op.Method,
				}).WithError(err).Error("failed to create endpoint")
				if opts.FailFast {
					res.Aborted = true
					return res
				}
				continue
			}
			res.Endpoints = append(res.Endpoints, ep)
		}
	}
	return res
}

// CollectEndpoints runs Collect with default rendering options.
func CollectEndpoints(doc *schema.Document, types typegen.TypeMap, overrides typegen.Overrides, prefixSegments int, log logrus.FieldLogger) Result {
	e := typegen.NewEngine(types, overrides, typegen.DefaultOptions())
	return Collect(doc, e, Options{PrefixSegments: prefixSegments}, log)
}

func buildEndpoint(e *typegen.Engine, path string, op *schema.Operation, location []string, prefix string) (ep Endpoint, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	getter, err := DeriveURLGetter(op.Method, location, prefix)
	if err != nil {
		return Endpoint{}, err
	}
	req, err := BuildRequest(e, getter, op.Method, op)
	if err != nil {
		return Endpoint{}, err
	}
	return Endpoint{
		Path:      path,
		Method:    op.Method,
		Operation: op,
		URLGetter: getter,
		Request:   req,
	}, nil
}
