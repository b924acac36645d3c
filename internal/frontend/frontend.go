// Package frontend drives source text through lexing, parsing and lowering.
package frontend

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/olix3001/ccash/internal/ast"
	"github.com/olix3001/ccash/internal/lexer"
	"github.com/olix3001/ccash/internal/logger"
	"github.com/olix3001/ccash/internal/lower"
	"github.com/olix3001/ccash/internal/parser"
)

// Unit is one compilation unit.
type Unit struct {
	ID       uuid.UUID
	Filename string
	Source   string
}

// NewUnit wraps source text in a unit with a fresh ID.
func NewUnit(filename, src string) Unit {
	return Unit{ID: uuid.New(), Filename: filename, Source: src}
}

// Options configures the pipeline.
type Options struct {
	// Workers bounds the number of units lowered at once. Zero or less
	// means runtime.GOMAXPROCS(0).
	Workers int
	Logger  *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithWorkers sets the worker pool size for LowerUnits.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithLogger sets the logger used for phase tracing.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func buildOptions(opts []Option) Options {
	o := Options{Logger: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}

// Result is the outcome of lowering one unit.
type Result struct {
	Unit     Unit
	Module   *ast.Module
	Err      error
	Duration time.Duration
}

// LowerUnit parses and lowers unit. Lexer and parser failures are returned
// through lower.Delegate and the CST is not lowered.
func LowerUnit(ctx context.Context, unit Unit, opts ...Option) (*ast.Module, error) {
	return lowerUnit(ctx, unit, buildOptions(opts))
}

func lowerUnit(ctx context.Context, unit Unit, o Options) (*ast.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := o.Logger.With("unit", unit.ID.String(), "file", unit.Filename)

	logger.LogPhase(log, "parse", unit.Filename)
	p := parser.New(unit.Source, parser.WithFilename(unit.Filename))
	file := p.ParseFile()

	var syntax []error
	for _, e := range p.LexerErrors() {
		syntax = append(syntax, e)
	}
	for _, e := range p.Errors() {
		syntax = append(syntax, e)
	}
	logger.LogPhaseComplete(log, "parse", unit.Filename, len(syntax))
	if len(syntax) > 0 {
		return nil, lower.Delegate(syntax...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.LogPhase(log, "lower", unit.Filename)
	m, err := lower.Lower(file, lower.WithLogger(log))
	logger.LogPhaseComplete(log, "lower", unit.Filename, len(lower.Diagnostics(err)))
	return m, err
}

// LowerUnits lowers units concurrently on a bounded pool of workers. The
// results are in input order. Units not started before ctx is done report
// ctx.Err().
func LowerUnits(ctx context.Context, units []Unit, opts ...Option) []Result {
	o := buildOptions(opts)
	results := make([]Result, len(units))

	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := min(o.Workers, len(units))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				start := time.Now()
				m, err := lowerUnit(ctx, units[i], o)
				results[i] = Result{Unit: units[i], Module: m, Err: err, Duration: time.Since(start)}
			}
		}()
	}

	next := 0
feed:
	for ; next < len(units); next++ {
		select {
		case jobs <- next:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(units); i++ {
		results[i] = Result{Unit: units[i], Err: ctx.Err()}
	}

	o.Logger.Debug("lowered units", "units", len(units), "workers", workers)
	return results
}

// Tokens lexes unit. Lexer failures are returned through lower.Delegate
// alongside the full token stream.
func Tokens(unit Unit) ([]lexer.Token, error) {
	lx := lexer.New(unit.Source)
	if unit.Filename != "" {
		lx.SetFilename(unit.Filename)
	}
	toks := lx.Tokenize()

	if len(lx.Errors) == 0 {
		return toks, nil
	}
	errs := make([]error, len(lx.Errors))
	for i, e := range lx.Errors {
		errs[i] = e
	}
	return toks, lower.Delegate(errs...)
}
