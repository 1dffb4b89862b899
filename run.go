// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/z5labs/strata/cli"
	"github.com/z5labs/strata/pkg/slogfield"

	"github.com/spf13/cobra"
)

// App represents the entry point for user specific code.
type App interface {
	Run(context.Context) error
}

// AppFunc is a func implementation of the [App] interface.
type AppFunc func(context.Context) error

// Run implements the [App] interface.
func (f AppFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// AppBuilder initializes an [App] from the resolved configuration.
type AppBuilder[T any] interface {
	Build(ctx context.Context, cfg T) (App, error)
}

// AppBuilderFunc is a func implementation of the [AppBuilder] interface.
type AppBuilderFunc[T any] func(context.Context, T) (App, error)

// Build implements the [AppBuilder] interface.
func (f AppBuilderFunc[T]) Build(ctx context.Context, cfg T) (App, error) {
	return f(ctx, cfg)
}

// Run resolves the configuration of info from args, which must not
// include the program name, and dispatches on the outcome. Terminal
// directives print their messages, --print-config prints the validated
// configuration and otherwise builder builds the program body, which is
// then run.
//
// The returned error is a [PhaseError] describing the single reason the
// pass failed.
func Run[T any](ctx context.Context, info ProgramInfo[T], builder AppBuilder[T], args []string, opts ...Option) error {
	o := newOptions(opts)
	r := newResolver(info, o)

	if args == nil {
		// cobra falls back to os.Args for nil
		args = []string{}
	}

	pass := func(ctx context.Context, args []string, out io.Writer) error {
		res, err := r.resolve(ctx, args)
		if err != nil {
			return err
		}
		return r.dispatch(ctx, res, builder, out)
	}

	// cobra answers shell completion requests itself without running
	// the command, which would bypass binding entirely.
	if isCompletionRequest(args) {
		return pass(ctx, args, o.stdout)
	}

	cmd := &cobra.Command{
		Use:                info.Title,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pass(cmd.Context(), args, cmd.OutOrStdout())
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(o.stdout)
	cmd.SetErr(o.stderr)

	return cmd.ExecuteContext(ctx)
}

func isCompletionRequest(args []string) bool {
	if len(args) == 0 {
		return false
	}
	return args[0] == cobra.ShellCompRequestCmd || args[0] == cobra.ShellCompNoDescRequestCmd
}

func (r *resolver[T]) dispatch(ctx context.Context, res Result[T], builder AppBuilder[T], out io.Writer) error {
	ctx, span := r.tracer.Start(ctx, "strata.Dispatch")
	defer span.End()

	if res.Directives.Terminal() {
		for _, d := range res.Directives.List() {
			if d == cli.PrintConfig {
				continue
			}
			msg, err := guard(func() (string, error) {
				return r.info.Binder.Message(d), nil
			})
			if err != nil {
				return DirectiveError{Directive: "show " + d.String(), Cause: err}
			}
			_, err = io.WriteString(out, msg)
			if err != nil {
				return DirectiveError{Directive: "show " + d.String(), Cause: err}
			}
		}
		return nil
	}

	if res.Directives.Has(cli.PrintConfig) {
		return r.printConfig(ctx, res.Config, out)
	}

	r.log.InfoContext(ctx, "running app", slogfield.Phase(Dispatching.String()))
	app, err := guard(func() (App, error) {
		return builder.Build(ctx, res.Config)
	})
	if err != nil {
		return AppBuildError{Cause: err}
	}
	if app == nil {
		return AppBuildError{Cause: ErrNilApp}
	}

	_, err = guard(func() (struct{}, error) {
		return struct{}{}, app.Run(ctx)
	})
	if err != nil {
		return AppRunError{Cause: err}
	}
	return nil
}

// ErrNilApp is the cause of an [AppBuildError] when a builder returns no App.
var ErrNilApp = errors.New("app builder returned a nil app")

func (r *resolver[T]) printConfig(ctx context.Context, cfg T, out io.Writer) error {
	r.log.DebugContext(ctx, "printing config", slogfield.Phase(Dispatching.String()))

	if r.info.Encoder == nil {
		return DirectiveError{Directive: "print config", Cause: ErrNoEncoder}
	}
	b, err := guard(func() ([]byte, error) {
		return r.info.Encoder.Encode(cfg)
	})
	if err != nil {
		return DirectiveError{Directive: "print config", Cause: err}
	}
	_, err = out.Write(b)
	if err != nil {
		return DirectiveError{Directive: "print config", Cause: err}
	}
	return nil
}

// ErrNoEncoder is the cause of a [DirectiveError] when --print-config is
// requested for a program without an encoder.
var ErrNoEncoder = errors.New("program has no config encoder")

// Main runs info with the process arguments, cancelling on interrupt or
// SIGTERM. On failure the error is printed to the diagnostic stream,
// followed by the usage text for command-line errors, and the process
// exits with status 1.
func Main[T any](info ProgramInfo[T], builder AppBuilder[T], opts ...Option) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, info, builder, os.Args[1:], opts...)
	cancel()
	if code != 0 {
		os.Exit(code)
	}
}

func run[T any](ctx context.Context, info ProgramInfo[T], builder AppBuilder[T], args []string, opts ...Option) int {
	err := Run(ctx, info, builder, args, opts...)
	if err == nil {
		return 0
	}

	o := options{stderr: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	report(o.stderr, info.Title, err)
	return 1
}

func report(w io.Writer, program string, err error) {
	fmt.Fprintf(w, "%s: %s\n", program, err)

	var pe ParseError
	if errors.As(err, &pe) && pe.Usage != "" {
		fmt.Fprintf(w, "\n%s", pe.Usage)
	}
}
