// Package compile ties the pipeline's components together: parse,
// annotate, and build the IR, reporting every diagnostic through one
// shared *diag.Reporter. It is the single entry point cmd/flatwire calls,
// both directly and from the callback it hands to internal/watch, so the
// CLI and the watch loop never duplicate the phase-ordering logic.
package compile

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aledsdavies/flatwire/internal/diag"
	"github.com/aledsdavies/flatwire/internal/ir"
	"github.com/aledsdavies/flatwire/internal/parser"
	"github.com/aledsdavies/flatwire/internal/sema"
)

// Result is the outcome of one compile pass.
type Result struct {
	Reporter *diag.Reporter
	IR       *ir.IR // nil if Reporter.OK() is false
}

// Schema runs tokenize→parse→annotate→IR-build over src, logging
// per-phase timings at slog.LevelDebug when log is non-nil (SPEC_FULL.md
// §6.1's `--timing` behavior). opts carries the project's casing-strictness
// preference (.flatwire.yaml, SPEC_FULL.md §6.1) into the annotator.
func Schema(file string, src []byte, log *slog.Logger, opts sema.Options) Result {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	rep := diag.New(file, src)

	t0 := timeNow()
	doc := parser.Parse(src, rep)
	logTiming(log, "parse", t0)

	if !rep.OK() {
		return Result{Reporter: rep}
	}

	t1 := timeNow()
	ann := sema.Annotate(doc, src, rep, opts)
	logTiming(log, "annotate", t1)

	if !rep.OK() {
		return Result{Reporter: rep}
	}

	t2 := timeNow()
	m := ir.Build(doc, ann, src)
	logTiming(log, "ir-build", t2)

	return Result{Reporter: rep, IR: m}
}

// timeNow and logTiming are indirected through a tiny helper pair so the
// one real-clock read in this package is easy to spot; nothing else in
// the compiler touches wall-clock time.
func timeNow() time.Time { return time.Now() }

func logTiming(log *slog.Logger, phase string, start time.Time) {
	log.Debug("phase timing", "phase", phase, "elapsed", time.Since(start).String())
}

// FormatError renders a Result's diagnostics for display; callers check
// Result.Reporter.OK() before deciding whether to proceed.
func FormatError(r Result) error {
	if r.Reporter.OK() {
		return nil
	}
	return fmt.Errorf("%s", r.Reporter.Format())
}
