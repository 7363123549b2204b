// Command rmc4 is the compiler's CLI entry point: it reads a source file,
// drives the seven core phases (C1-C7) through a compileunit.Unit, writes
// the multi-section report, and optionally records the run to the history
// store (C8) and streams phase checkpoints over a websocket (C9). Grounded
// in sentra-language-sentra's cmd/sentra/main.go command-dispatch shape,
// narrowed from a multi-command CLI to this compiler's single fixed
// invocation (spec.md §6: `rmc4 <source-path> <output-path>`).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/rmkhurana28/RM-C-Compilor/internal/cfg"
	"github.com/rmkhurana28/RM-C-Compilor/internal/codegen"
	"github.com/rmkhurana28/RM-C-Compilor/internal/compileunit"
	cerrors "github.com/rmkhurana28/RM-C-Compilor/internal/errors"
	"github.com/rmkhurana28/RM-C-Compilor/internal/history"
	"github.com/rmkhurana28/RM-C-Compilor/internal/ir"
	"github.com/rmkhurana28/RM-C-Compilor/internal/lexer"
	"github.com/rmkhurana28/RM-C-Compilor/internal/optimize"
	"github.com/rmkhurana28/RM-C-Compilor/internal/parser"
	"github.com/rmkhurana28/RM-C-Compilor/internal/progress"
	"github.com/rmkhurana28/RM-C-Compilor/internal/report"
	"github.com/rmkhurana28/RM-C-Compilor/internal/sema"
)

// fixedOutputName is the only output path the report may ever be written
// to (spec.md §6); anything else is a usage error.
const fixedOutputName = "compiler_output.txt"

const defaultHistoryDSN = "file:rmc_history.db?_pragma=busy_timeout(5000)"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("rmc4", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	historyDSN := fs.String("history-dsn", defaultHistoryDSN, "compile-history database DSN")
	noHistory := fs.Bool("no-history", false, "skip recording this run to the history store")
	streamAddr := fs.String("stream-addr", "", "host:port to broadcast phase progress over websocket (disabled if empty)")
	noColor := fs.Bool("no-color", false, "disable ANSI diagnostics even on a TTY")
	debugDump := fs.Bool("debug-dump", false, "pretty-print the AST and TAC to stderr as they are produced")

	if err := fs.Parse(args); err != nil {
		return reportFailure(cerrors.NewUsageError("flag parse: %v", err), false)
	}
	positional := fs.Args()
	if len(positional) != 2 {
		fmt.Fprintln(os.Stderr, "usage: rmc4 <source-path> compiler_output.txt")
		return reportFailure(cerrors.NewUsageError("expected exactly two positional arguments"), false)
	}
	sourcePath, outputPath := positional[0], positional[1]
	if outputPath != fixedOutputName {
		return reportFailure(cerrors.NewUsageError("output path must be %q, got %q", fixedOutputName, outputPath), *debugDump)
	}

	colorEnabled := !*noColor && isatty.IsTerminal(os.Stderr.Fd())

	var stream *progress.Server
	if *streamAddr != "" {
		s, err := progress.Listen(*streamAddr)
		if err != nil {
			return reportFailure(cerrors.NewIOError("progress stream: %v", err), *debugDump)
		}
		stream = s
		defer func() {
			_ = stream.Shutdown(context.Background())
		}()
	}

	var store *history.Store
	if !*noHistory {
		s, err := history.Open(*historyDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: history store unavailable: %v\n", err)
		} else {
			store = s
			defer store.Close()
		}
	}

	u, compileErr := compile(sourcePath, outputPath, *debugDump, stream)

	if store != nil {
		var g errgroup.Group
		g.Go(func() error {
			return store.Insert(historyRecord(u, compileErr))
		})
		if err := g.Wait(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: history write failed: %v\n", err)
		}
	}

	if compileErr != nil {
		return reportFailure(compileErr, *debugDump)
	}

	if err := os.WriteFile(u.OutputPath, []byte(report.Render(u)), 0o644); err != nil {
		return reportFailure(cerrors.NewIOError("write %s: %v", u.OutputPath, err), *debugDump)
	}

	fmt.Fprintln(os.Stdout, successLine(sourcePath, u.OutputPath, colorEnabled))
	return 0
}

// successLine reports the written report path, in green when colorEnabled
// (a capable, non -no-color stderr per SPEC_FULL.md §6) and plain otherwise.
func successLine(sourcePath, outputPath string, colorEnabled bool) string {
	msg := fmt.Sprintf("compiled %s -> %s", sourcePath, outputPath)
	if !colorEnabled {
		return msg
	}
	const green = "\x1b[32m"
	const reset = "\x1b[0m"
	return green + msg + reset
}

// compile drives C1 through C7 in order, returning as soon as any phase
// fails. u is always non-nil so the caller can still build a history record
// (and a partial report, for debugging) from whatever phases did complete.
func compile(sourcePath, outputPath string, debugDump bool, stream *progress.Server) (*compileunit.Unit, error) {
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return compileunit.New(sourcePath, outputPath, ""), cerrors.NewIOError("read %s: %v", sourcePath, err)
	}
	u := compileunit.New(sourcePath, outputPath, string(source))

	toks, err := lexer.New(u.Source).Scan()
	if err != nil {
		return u, err
	}
	u.Tokens = toks
	checkpoint(stream, u, "C1", "lexed")

	prog, err := parser.New(toks).Parse()
	if err != nil {
		return u, err
	}
	u.Program = prog
	checkpoint(stream, u, "C2", "parsed")
	if debugDump {
		fmt.Fprintf(os.Stderr, "AST:\n%# v\n", pretty.Formatter(prog))
	}

	table, warnings, err := sema.Check(prog)
	if err != nil {
		return u, err
	}
	u.Table, u.Warnings = table, warnings
	checkpoint(stream, u, "C3", "checked")

	u.TAC = ir.Lower(prog)
	checkpoint(stream, u, "C4", "lowered")
	if debugDump {
		fmt.Fprintf(os.Stderr, "TAC:\n%# v\n", pretty.Formatter(u.TAC))
	}

	u.Graph = cfg.Build(u.TAC)
	if err := cfg.ReachingDefinitions(u.Graph); err != nil {
		return u, err
	}
	if err := cfg.LiveVariables(u.Graph, cfg.NewSet[string]()); err != nil {
		return u, err
	}
	checkpoint(stream, u, "C5", "built CFG")

	opt, err := optimize.Optimize(u.TAC)
	if err != nil {
		return u, err
	}
	u.Opt = opt
	checkpoint(stream, u, "C6", "optimized")

	code, err := codegen.Generate(table, opt.Optimized)
	if err != nil {
		return u, err
	}
	u.Code = code
	checkpoint(stream, u, "C7", "generated code")

	u.Finish()
	return u, nil
}

func checkpoint(s *progress.Server, u *compileunit.Unit, phase, detail string) {
	if s == nil {
		return
	}
	s.Broadcast(progress.Event{RunID: u.RunID, Phase: phase, Detail: detail, Timestamp: u.StartedAt})
}

func historyRecord(u *compileunit.Unit, compileErr error) history.Record {
	r := history.Record{
		RunID:      u.RunID,
		SourcePath: u.SourcePath,
		Success:    compileErr == nil,
		Timestamp:  u.StartedAt,
		Duration:   u.Duration(),
	}
	r.WarningCount = len(u.Warnings)
	r.TACBefore = len(u.TAC)
	if u.Opt != nil {
		r.TACAfter = u.Opt.After
	}
	if ce, ok := compileErr.(*cerrors.CompilerError); ok {
		r.FailedPhase = string(ce.Kind)
	}
	return r
}

func reportFailure(err error, debugDump bool) int {
	fmt.Fprintln(os.Stderr, err.Error())
	if debugDump {
		if trace := cerrors.StackTrace(err); trace != "" {
			fmt.Fprintln(os.Stderr, trace)
		}
	}
	if ce, ok := err.(*cerrors.CompilerError); ok {
		return ce.ExitCode()
	}
	return 1
}
