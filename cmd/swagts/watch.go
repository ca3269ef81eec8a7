package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/tsgonest/swagts/internal/watcher"
)

// runWatch generates once, then regenerates on every change to an input
// until interrupted. Generation errors are logged and do not stop watching.
func runWatch(c *cli.Context, stderr io.Writer) error {
	cr, log, err := setup(c, stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watch(ctx, cr, flagBool(c, "force"), log)
}

func watch(ctx context.Context, cr *ConfigResult, force bool, log logrus.FieldLogger) error {
	regenerate := func(force bool) {
		if err := generate(ctx, cr, force, log); err != nil {
			log.WithError(err).Error("generation failed")
		}
	}
	regenerate(force)

	files := make([]string, 0, len(cr.Config.Input))
	for _, in := range cr.Config.Input {
		files = append(files, resolve(cr.Dir, in))
	}
	w, err := watcher.New(files, watcher.DefaultDebounce, func(events []watcher.Event) {
		for _, e := range events {
			log.WithFields(logrus.Fields{"file": e.Path, "op": e.Op}).Debug("input changed")
		}
		regenerate(false)
	})
	if err != nil {
		return err
	}
	w.SetLogger(log)

	log.WithField("inputs", len(files)).Info("watching for changes")
	return w.Watch(ctx)
}
