// Command flatwire is the schema compiler's CLI front end (spec.md §6,
// expanded in SPEC_FULL.md §6.1). It wires cobra subcommands around
// internal/compile's pipeline, exactly as the teacher's cli/main.go wires
// its own cobra root: persistent flags, RunE-returned errors, and
// SilenceErrors so cobra never double-prints what internal/diag already
// formatted.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/flatwire/internal/compile"
	"github.com/aledsdavies/flatwire/internal/config"
	"github.com/aledsdavies/flatwire/internal/diag"
	"github.com/aledsdavies/flatwire/internal/ircache"
	"github.com/aledsdavies/flatwire/internal/sema"
	"github.com/aledsdavies/flatwire/internal/watch"
	"github.com/aledsdavies/flatwire/internal/wire"
)

var (
	flagDebug   bool
	flagTiming  bool
	flagNoColor bool
	flagWatch   bool
	flagConfig  string
	flagCache   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flatwire",
		Short:         "Compile flatwire schemas into an annotated IR for code generation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "emit JSON debug logs to stderr")
	root.PersistentFlags().BoolVar(&flagTiming, "timing", false, "log per-phase timings")
	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized diagnostics")
	root.PersistentFlags().StringVar(&flagConfig, "config", ".flatwire.yaml", "project config file")
	root.PersistentFlags().BoolVar(&flagCache, "cache", true, "reuse a cached IR when the schema is unchanged")

	root.AddCommand(newValidateCmd())
	root.AddCommand(newIRCmd())
	root.AddCommand(newMagicCmd())
	for _, target := range []string{"cpp", "py", "go", "ts", "rust"} {
		root.AddCommand(newEmitCmd(target))
	}
	return root
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagDebug || flagTiming {
		level = slog.LevelDebug
	}
	var h slog.Handler
	if flagDebug {
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	return slog.New(h)
}

func loadConfig() (*config.Config, error) {
	return config.Load(flagConfig)
}

func compileFile(path string) (compile.Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return compile.Result{}, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return compile.Result{}, err
	}

	log := newLogger()

	if flagCache {
		if m, ok := ircache.Load(ircache.Path(path), src); ok {
			return compile.Result{Reporter: diag.New(path, src), IR: m}, nil
		}
	}

	opts := sema.Options{StrictCasing: cfg.StrictCasing}
	r := compile.Schema(path, src, log, opts)
	if r.Reporter.OK() && flagCache {
		_ = ircache.Store(ircache.Path(path), src, r.IR)
	}
	return r, nil
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema>",
		Short: "Parse and annotate a schema, reporting every error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run := func() error {
				r, err := compileFile(args[0])
				if err != nil {
					return err
				}
				if !r.Reporter.OK() {
					r.Reporter.WriteFormatted(cmd.ErrOrStderr(), flagNoColor)
					return fmt.Errorf("%d error(s)", r.Reporter.Count())
				}
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			}
			if flagWatch {
				return watch.Run(args[0], newLogger(), run)
			}
			return run()
		},
	}
	cmd.Flags().BoolVar(&flagWatch, "watch", false, "re-validate on every write to the schema file")
	return cmd
}

func newIRCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ir <schema>",
		Short: "Print a debug dump of the annotated IR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := compileFile(args[0])
			if err != nil {
				return err
			}
			if !r.Reporter.OK() {
				r.Reporter.WriteFormatted(cmd.ErrOrStderr(), flagNoColor)
				return fmt.Errorf("%d error(s)", r.Reporter.Count())
			}
			fmt.Fprint(cmd.OutOrStdout(), r.IR.Dump())
			return nil
		},
	}
}

func newMagicCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "magic <qualified-table-name>",
		Short: "Derive a stable 32-bit magic from a table's fully-qualified name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := wire.DeriveMagic(args[0])
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%08X\n", v)
			return err
		},
	}
}

// newEmitCmd builds a per-target subcommand. Actual code generation is an
// external collaborator (spec.md §1); this subcommand's job ends at
// compiling the schema and handing the IR to that collaborator, so it
// currently just validates and reports what it would hand off.
func newEmitCmd(target string) *cobra.Command {
	return &cobra.Command{
		Use:   target + " <schema>",
		Short: fmt.Sprintf("Compile a schema and hand the IR to the %s emitter", target),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			r, err := compileFile(args[0])
			if err != nil {
				return err
			}
			if !r.Reporter.OK() {
				r.Reporter.WriteFormatted(cmd.ErrOrStderr(), flagNoColor)
				return fmt.Errorf("%d error(s)", r.Reporter.Count())
			}
			return emitTo(cmd.OutOrStdout(), target, cfg, r)
		},
	}
}

func emitTo(w io.Writer, target string, cfg *config.Config, r compile.Result) error {
	if cfg.LicenseHeader != "" {
		fmt.Fprintln(w, cfg.LicenseHeader)
	}
	fmt.Fprintf(w, "// target: %s\n", target)
	fmt.Fprint(w, r.IR.Dump())
	return nil
}
