// Package compileunit holds the single mutable CompilationUnit threaded by
// reference through every phase of one compiler run, per spec.md §9's
// design note: rather than each phase returning into the next phase's
// constructor, a single struct accumulates the run's state so the report
// writer and the optional telemetry/progress components (SPEC_FULL.md §4.8-4.9)
// can read back any earlier phase's output after the fact.
package compileunit

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmkhurana28/RM-C-Compilor/internal/ast"
	"github.com/rmkhurana28/RM-C-Compilor/internal/cfg"
	"github.com/rmkhurana28/RM-C-Compilor/internal/codegen"
	cerrors "github.com/rmkhurana28/RM-C-Compilor/internal/errors"
	"github.com/rmkhurana28/RM-C-Compilor/internal/ir"
	"github.com/rmkhurana28/RM-C-Compilor/internal/optimize"
	"github.com/rmkhurana28/RM-C-Compilor/internal/sema"
	"github.com/rmkhurana28/RM-C-Compilor/internal/token"
)

// Unit is the single per-run state object. Phases populate it in order;
// nothing downstream ever mutates a field an earlier phase already set.
type Unit struct {
	RunID      string
	SourcePath string
	OutputPath string
	Source     string
	StartedAt  time.Time

	Tokens   []token.Token
	Program  *ast.Program
	Table    *sema.Table
	Warnings []cerrors.Warning
	TAC      []ir.Instr
	Graph    *cfg.Graph
	Opt      *optimize.Result
	Code     *codegen.Result

	FinishedAt time.Time
}

// New starts a run: allocates a fresh RunID (google/uuid, SPEC_FULL.md §4.8)
// and records the wall-clock start time for the report's summary section.
func New(sourcePath, outputPath, source string) *Unit {
	return &Unit{
		RunID:      uuid.NewString(),
		SourcePath: sourcePath,
		OutputPath: outputPath,
		Source:     source,
		StartedAt:  time.Now(),
	}
}

// Finish stamps the completion time; called once codegen succeeds.
func (u *Unit) Finish() { u.FinishedAt = time.Now() }

// Duration is the wall-clock time the whole pipeline took, for the
// COMPILATION SUMMARY report section and the optional history store.
func (u *Unit) Duration() time.Duration {
	if u.FinishedAt.IsZero() {
		return time.Since(u.StartedAt)
	}
	return u.FinishedAt.Sub(u.StartedAt)
}
