package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"

	"github.com/tsgonest/swagts/internal/endpoint"
)

// endpointsDump is the JSON output structure of the endpoints command.
type endpointsDump struct {
	Inputs []inputDump `json:"inputs"`
}

type inputDump struct {
	Input      string           `json:"input"`
	PathPrefix string           `json:"pathPrefix"`
	Endpoints  []endpointRecord `json:"endpoints"`
	Failures   []failureRecord  `json:"failures,omitempty"`
	Mismatches []string         `json:"prefixMismatches,omitempty"`
	Error      string           `json:"error,omitempty"`
}

type endpointRecord struct {
	Path       string       `json:"path"`
	Method     string       `json:"method"`
	Getter     string       `json:"getter"`
	URLParams  []string     `json:"urlParams,omitempty"`
	Signature  string       `json:"signature,omitempty"`
	Deprecated bool         `json:"deprecated,omitempty"`
	Types      []typeRecord `json:"types"`
}

type typeRecord struct {
	Facet string `json:"facet"`
	Name  string `json:"name"`
}

type failureRecord struct {
	Path   string `json:"path"`
	Method string `json:"method"`
	Error  string `json:"error"`
}

func newEndpointRecord(ep endpoint.Endpoint) endpointRecord {
	rec := endpointRecord{
		Path:      ep.Path,
		Method:    ep.Method,
		Getter:    ep.URLGetter.Name,
		URLParams: ep.URLGetter.Params,
		Signature: ep.Request.ParamsWithTypeCode,
		Types:     make([]typeRecord, 0, len(ep.Request.Types)),
	}
	if ep.Operation != nil {
		rec.Deprecated = ep.Operation.Deprecated
	}
	for _, t := range ep.Request.Types {
		rec.Types = append(rec.Types, typeRecord{Facet: string(t.Facet), Name: t.Name})
	}
	return rec
}

// runEndpoints prints the endpoint records of every input without writing
// any files.
func runEndpoints(c *cli.Context, stdout, stderr io.Writer) error {
	cr, log, err := setup(c, stderr)
	if err != nil {
		return err
	}

	var dump endpointsDump
	var failed bool
	for _, input := range cr.Config.Input {
		r := buildInput(cr.Config, cr.Dir, input, log)
		d := inputDump{
			Input:      input,
			PathPrefix: r.Result.PathPrefix,
			Endpoints:  make([]endpointRecord, 0, len(r.Result.Endpoints)),
			Mismatches: r.Result.PrefixMismatches,
		}
		if r.Err != nil {
			d.Error = r.Err.Error()
			failed = true
		}
		for _, ep := range r.Result.Endpoints {
			d.Endpoints = append(d.Endpoints, newEndpointRecord(ep))
		}
		for _, f := range r.Result.Failures {
			d.Failures = append(d.Failures, failureRecord{Path: f.Path, Method: f.Method, Error: f.Err.Error()})
		}
		dump.Inputs = append(dump.Inputs, d)
	}

	out, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding endpoints: %w", err)
	}
	fmt.Fprintln(stdout, string(out))
	if failed {
		return fmt.Errorf("some inputs could not be processed")
	}
	return nil
}
