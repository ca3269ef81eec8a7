package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/tsgonest/swagts/internal/buildcache"
	"github.com/tsgonest/swagts/internal/config"
	"github.com/tsgonest/swagts/internal/diagnostic"
	"github.com/tsgonest/swagts/internal/emit"
	"github.com/tsgonest/swagts/internal/endpoint"
	"github.com/tsgonest/swagts/internal/schema"
	"github.com/tsgonest/swagts/internal/typegen"
)

// errAborted is returned when fail-fast stopped the collection of an input.
var errAborted = errors.New("endpoint generation aborted")

// ConfigResult holds the result of loading a swagts config file.
type ConfigResult struct {
	Config *config.Config
	Path   string // resolved absolute path to config file (empty if none found)
	Dir    string // directory relative paths are resolved against (defaults to cwd)
}

// loadOrDiscoverConfig loads a swagts config from the given path, or
// auto-discovers one in the working directory if configPath is empty. With
// no config file the defaults apply.
func loadOrDiscoverConfig(configPath, cwd string) (*ConfigResult, error) {
	result := &ConfigResult{Dir: cwd}

	if configPath == "" {
		configPath = config.Discover(cwd)
	}
	if configPath == "" {
		cfg := config.DefaultConfig()
		result.Config = &cfg
		return result, nil
	}

	resolved := configPath
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(cwd, resolved)
	}
	cfg, err := config.Load(resolved)
	if err != nil {
		return nil, err
	}
	result.Config = cfg
	result.Path = resolved
	result.Dir = filepath.Dir(resolved)
	return result, nil
}

// setup resolves the configuration for a command: config file, then flags,
// then validation. It returns the logger tagged with the run id.
func setup(c *cli.Context, stderr io.Writer) (*ConfigResult, *logrus.Entry, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("could not get working directory: %w", err)
	}
	cr, err := loadOrDiscoverConfig(flagString(c, "config"), cwd)
	if err != nil {
		return nil, nil, err
	}
	applyFlags(c, cr.Config)

	log, err := newLogger(cr.Config, stderr)
	if err != nil {
		return nil, nil, err
	}

	vr := cr.Config.ValidateDetailed()
	for _, w := range vr.Warnings {
		log.WithField("category", string(diagnostic.CategoryConfigInvalid)).Warn(w)
	}
	if !vr.IsValid() {
		return nil, nil, fmt.Errorf("invalid configuration: %s", strings.Join(vr.Errors, "; "))
	}
	return cr, log, nil
}

// newLogger builds the run logger. Every entry carries a "run" id.
func newLogger(cfg *config.Config, w io.Writer) (*logrus.Entry, error) {
	l := logrus.New()
	l.SetOutput(w)

	level := logrus.InfoLevel
	if cfg.LogLevel != "" {
		lvl, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("logLevel: %w", err)
		}
		level = lvl
	}
	l.SetLevel(level)

	switch cfg.LogFormat {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return l.WithField("run", uuid.NewString()), nil
}

// inputResult is the outcome of generating one input document.
type inputResult struct {
	Input   string
	OutDir  string
	Doc     *schema.Document
	Decls   typegen.Declarations
	Result  endpoint.Result
	Diags   *diagnostic.Collector
	Written []string
	Cached  bool // skipped, outputs already up to date
	Err     error
}

// resolve makes p absolute against dir.
func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// outputDir returns the directory an input is written to. A single input
// goes to the output directory itself, several inputs each get a
// subdirectory named after the document.
func outputDir(cfg *config.Config, baseDir, input string) string {
	out := resolve(baseDir, cfg.Output)
	if len(cfg.Input) <= 1 {
		return out
	}
	base := filepath.Base(input)
	return filepath.Join(out, strings.TrimSuffix(base, filepath.Ext(base)))
}

// buildInput loads one input and runs the type and endpoint passes on it.
func buildInput(cfg *config.Config, baseDir, input string, log logrus.FieldLogger) *inputResult {
	r := &inputResult{
		Input:  input,
		OutDir: outputDir(cfg, baseDir, input),
		Diags:  diagnostic.NewCollector(cfg.Strict, false),
	}
	log = log.WithField("input", input)

	doc, err := schema.Load(resolve(baseDir, input))
	if err != nil {
		r.Diags.Error(diagnostic.CategoryDocumentInvalid, input, "", err.Error())
		r.Err = err
		return r
	}
	r.Doc = doc

	e := cfg.Engine()
	r.Decls = e.TranslateSchemas(doc)
	r.Result = endpoint.Collect(doc, e, cfg.CollectOptions(), log)

	for _, f := range r.Result.Failures {
		r.Diags.Error(diagnostic.CategoryEndpointFailed, input, f.Method+" "+f.Path, f.Err.Error())
	}
	for _, p := range r.Result.PrefixMismatches {
		r.Diags.WarnWithHint(diagnostic.CategoryPrefixMismatch, input, p,
			fmt.Sprintf("path does not start with %q, the prefix of the first path", r.Result.PathPrefix),
			"its URL getter uses the first path's prefix; lower prefixSegments if that is wrong")
	}
	for _, ep := range r.Result.Endpoints {
		if ep.Operation != nil && ep.Operation.Deprecated {
			r.Diags.Info(diagnostic.CategoryDeprecated, input, ep.Method+" "+ep.Path, "operation is deprecated")
		}
	}
	if r.Result.Aborted {
		r.Err = fmt.Errorf("%s: %w", input, errAborted)
	}
	return r
}

// writeInput renders and writes the files of a built input.
func writeInput(cfg *config.Config, r *inputResult, log logrus.FieldLogger) error {
	typesPath, endpointsPath := cfg.OutputPaths(r.OutDir)
	files := []struct{ path, content string }{
		{typesPath, emit.TypesFile(r.Doc, r.Decls)},
		{endpointsPath, emit.EndpointsFile(r.Result, emit.ModulePath(typesPath), r.Decls.Names)},
	}
	for _, f := range files {
		changed, err := emit.WriteFile(f.path, f.content)
		if err != nil {
			return err
		}
		if changed {
			r.Written = append(r.Written, f.path)
			log.WithField("file", f.path).Debug("wrote file")
		}
	}
	return nil
}

// generateAll builds and writes every configured input, running up to
// cfg.Concurrency inputs at once. Results keep the input order. Inputs whose
// cache entry is still valid are skipped unless force is set.
func generateAll(ctx context.Context, cfg *config.Config, baseDir string, force bool, log logrus.FieldLogger) []*inputResult {
	results := make([]*inputResult, len(cfg.Input))
	n := cfg.Concurrency
	if n < 1 {
		n = 1
	}
	configHash, err := buildcache.HashValue(cfg)
	if err != nil {
		log.WithError(err).Warn("generation cache disabled")
		force = true
	}

	p := pool.New().WithMaxGoroutines(n)
	for i, input := range cfg.Input {
		p.Go(func() {
			if err := ctx.Err(); err != nil {
				results[i] = &inputResult{Input: input, Diags: diagnostic.NewCollector(cfg.Strict, false), Err: err}
				return
			}
			results[i] = generateInput(cfg, baseDir, input, configHash, force, log)
		})
	}
	p.Wait()
	return results
}

// generateInput builds and writes one input. A clean result (no errors or
// warnings) is recorded in the output directory's cache.
func generateInput(cfg *config.Config, baseDir, input, configHash string, force bool, log logrus.FieldLogger) *inputResult {
	inputHash := buildcache.HashFile(resolve(baseDir, input))
	cachePath := buildcache.CachePath(outputDir(cfg, baseDir, input))
	if !force && buildcache.Load(cachePath).IsValid(inputHash, configHash) {
		log.WithField("input", input).Debug("outputs up to date")
		return &inputResult{
			Input:  input,
			OutDir: outputDir(cfg, baseDir, input),
			Diags:  diagnostic.NewCollector(cfg.Strict, false),
			Cached: true,
		}
	}

	r := buildInput(cfg, baseDir, input, log)
	if r.Err != nil {
		return r
	}
	if r.Err = writeInput(cfg, r, log); r.Err != nil {
		return r
	}

	if r.Diags.ErrorCount()+r.Diags.WarningCount() > 0 {
		buildcache.Delete(cachePath)
		return r
	}
	typesPath, endpointsPath := cfg.OutputPaths(r.OutDir)
	if err := buildcache.Save(cachePath, buildcache.New(inputHash, configHash, []string{typesPath, endpointsPath})); err != nil {
		log.WithError(err).WithField("input", input).Warn("could not save generation cache")
	}
	return r
}

// summarize merges the diagnostics of all results, logs them and returns
// the combined error of the run.
func summarize(cfg *config.Config, results []*inputResult, log logrus.FieldLogger) error {
	diags := diagnostic.NewCollector(cfg.Strict, false)
	var err error
	written, cached, endpoints := 0, 0, 0
	for _, r := range results {
		diags.Merge(r.Diags)
		err = multierr.Append(err, r.Err)
		written += len(r.Written)
		endpoints += len(r.Result.Endpoints)
		if r.Cached {
			cached++
		}
	}
	diags.Log(log)
	log.WithFields(logrus.Fields{
		"inputs":    len(results),
		"cached":    cached,
		"endpoints": endpoints,
		"written":   written,
	}).Info(diags.Summary())

	if err != nil {
		return err
	}
	if cfg.Strict && diags.HasErrors() {
		return fmt.Errorf("strict mode: %s", diags.Summary())
	}
	return nil
}

func runGenerate(c *cli.Context, stderr io.Writer) error {
	cr, log, err := setup(c, stderr)
	if err != nil {
		return err
	}
	return generate(c.Context, cr, flagBool(c, "force"), log)
}

func generate(ctx context.Context, cr *ConfigResult, force bool, log logrus.FieldLogger) error {
	results := generateAll(ctx, cr.Config, cr.Dir, force, log)
	return summarize(cr.Config, results, log)
}
