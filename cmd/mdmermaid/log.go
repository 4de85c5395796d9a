package main

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a stderr logger. Verbose enables debug output; quiet
// keeps only errors and wins over verbose.
func newLogger(w io.Writer, verbose, quiet bool) *log.Logger {
	level := log.InfoLevel
	switch {
	case quiet:
		level = log.ErrorLevel
	case verbose:
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs an operation's completion with the elapsed time.
type progress struct {
	logger *log.Logger
	now    func() time.Time
	start  time.Time
}

// newProgress starts timing an operation.
func newProgress(l *log.Logger, now func() time.Time) *progress {
	return &progress{logger: l, now: now, start: now()}
}

// done logs msg with the elapsed duration rounded to the millisecond.
func (p *progress) done(msg string, keyvals ...interface{}) {
	elapsed := p.now().Sub(p.start).Round(time.Millisecond)
	p.logger.Info(msg, append(keyvals, "elapsed", elapsed)...)
}
