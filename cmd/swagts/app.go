package main

import (
	"io"

	"github.com/urfave/cli/v2"

	"github.com/tsgonest/swagts/internal/config"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to swagts config file (default: discovered in the working directory)"},
		&cli.StringSliceFlag{Name: "input", Aliases: []string{"i"}, Usage: "OpenAPI document, JSON or YAML (repeatable)"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output directory"},
		&cli.IntFlag{Name: "prefix-segments", Usage: "leading path segments shared as the URL prefix"},
		&cli.IntFlag{Name: "line-break", Usage: "break object types with more properties than this over lines (0: never)"},
		&cli.BoolFlag{Name: "fail-fast", Usage: "stop at the first endpoint that cannot be generated"},
		&cli.BoolFlag{Name: "strict", Usage: "treat warnings and endpoint failures as fatal"},
		&cli.StringFlag{Name: "log-level", Usage: "panic, fatal, error, warn, info, debug or trace"},
		&cli.StringFlag{Name: "log-format", Usage: "text or json"},
		&cli.IntFlag{Name: "concurrency", Usage: "documents generated in parallel"},
		&cli.BoolFlag{Name: "force", Usage: "regenerate even when the outputs are up to date"},
	}
}

func buildApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "swagts",
		Usage:     "generate TypeScript types and endpoint helpers from OpenAPI documents",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags(),
		Action: func(c *cli.Context) error {
			return runGenerate(c, stderr)
		},
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "write types and endpoint files (default)",
				Flags:  globalFlags(),
				Action: func(c *cli.Context) error { return runGenerate(c, stderr) },
			},
			{
				Name:   "watch",
				Usage:  "generate, then regenerate whenever an input changes",
				Flags:  globalFlags(),
				Action: func(c *cli.Context) error { return runWatch(c, stderr) },
			},
			{
				Name:   "endpoints",
				Usage:  "print the endpoint records of every input as JSON",
				Flags:  globalFlags(),
				Action: func(c *cli.Context) error { return runEndpoints(c, stdout, stderr) },
			},
		},
	}
}

// flagContext returns the innermost context in which name was set, or nil.
// Global flags may be given before or after the subcommand, and each command
// level parses its own copy of them.
func flagContext(c *cli.Context, name string) *cli.Context {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(name) {
			return ctx
		}
	}
	return nil
}

func flagString(c *cli.Context, name string) string {
	if ctx := flagContext(c, name); ctx != nil {
		return ctx.String(name)
	}
	return ""
}

func flagBool(c *cli.Context, name string) bool {
	if ctx := flagContext(c, name); ctx != nil {
		return ctx.Bool(name)
	}
	return false
}

// applyFlags overrides cfg with every flag set on the command line.
func applyFlags(c *cli.Context, cfg *config.Config) {
	if ctx := flagContext(c, "input"); ctx != nil {
		cfg.Input = ctx.StringSlice("input")
	}
	if ctx := flagContext(c, "output"); ctx != nil {
		cfg.Output = ctx.String("output")
	}
	if ctx := flagContext(c, "prefix-segments"); ctx != nil {
		cfg.PrefixSegments = ctx.Int("prefix-segments")
	}
	if ctx := flagContext(c, "line-break"); ctx != nil {
		cfg.PropLineBreak = ctx.Int("line-break")
	}
	if ctx := flagContext(c, "fail-fast"); ctx != nil {
		cfg.FailFast = ctx.Bool("fail-fast")
	}
	if ctx := flagContext(c, "strict"); ctx != nil {
		cfg.Strict = ctx.Bool("strict")
	}
	if ctx := flagContext(c, "log-level"); ctx != nil {
		cfg.LogLevel = ctx.String("log-level")
	}
	if ctx := flagContext(c, "log-format"); ctx != nil {
		cfg.LogFormat = ctx.String("log-format")
	}
	if ctx := flagContext(c, "concurrency"); ctx != nil {
		cfg.Concurrency = ctx.Int("concurrency")
	}
}
