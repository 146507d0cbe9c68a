// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/compiler/polyglot"
	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/idl"
	"gopkg.microglot.org/polyglot.go/internal/target"
)

const (
	envTrace    = "POLYGLOT_TRACE"
	envMaxSteps = "POLYGLOT_MAX_STEPS"
)

// Compiler turns a set of targets into parsed programs.
type Compiler interface {
	Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error)
}

type CompileRequest struct {
	// Files are paths or URIs. Directories expand to every known file kind
	// they contain.
	Files []string
	// DumpTokens writes each token stream to the configured output.
	DumpTokens bool
	// DumpTree writes an outline of each program to the configured output.
	DumpTree bool
}

type CompileResponse struct {
	// Programs are ordered by file path. A unit abandoned by a fatal error
	// still contributes whatever was parsed before the failure.
	Programs []*ast.Program
	Symbols  *SymbolTable
}

type Option func(c *compiler) error

func OptionWithFS(fs idl.FileSystem) Option {
	return func(c *compiler) error {
		c.FS = fs
		return nil
	}
}

func OptionWithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(c *compiler) error {
		c.LookupENV = lookupEnv
		return nil
	}
}

func OptionWithExcReporter(reporter exc.Reporter) Option {
	return func(c *compiler) error {
		c.Reporter = reporter
		return nil
	}
}

// OptionWithTracer installs a parser tracer for every unit. It takes
// precedence over POLYGLOT_TRACE.
func OptionWithTracer(tracer polyglot.Tracer) Option {
	return func(c *compiler) error {
		c.Tracer = tracer
		return nil
	}
}

// OptionWithOutput sets the destination of token and tree dumps.
func OptionWithOutput(w io.Writer) Option {
	return func(c *compiler) error {
		c.Output = w
		return nil
	}
}

func OptionWithParserOptions(opts ...polyglot.ParserOption) Option {
	return func(c *compiler) error {
		c.ParserOptions = append(c.ParserOptions, opts...)
		return nil
	}
}

// OptionWithMaxConcurrency bounds the units parsed at once. Zero selects
// the number of usable CPUs.
func OptionWithMaxConcurrency(n int) Option {
	return func(c *compiler) error {
		if n < 0 {
			return fmt.Errorf("invalid concurrency %d", n)
		}
		c.MaxConcurrency = n
		return nil
	}
}

func New(opts ...Option) (Compiler, error) {
	c := &compiler{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if err := c.fillDefaults(); err != nil {
		return nil, err
	}
	envOpts, err := c.parserOptionsFromEnv()
	if err != nil {
		return nil, err
	}
	// Explicit options are applied last so they win over the environment.
	c.ParserOptions = append(envOpts, c.ParserOptions...)
	if c.Tracer != nil {
		c.ParserOptions = append(c.ParserOptions, polyglot.ParserOptionTracer(c.Tracer))
	}
	if c.SubCompilers == nil {
		c.SubCompilers = DefaultSubCompilers(c.ParserOptions...)
	}
	return c, nil
}

func (self *compiler) fillDefaults() error {
	if self.LookupENV == nil {
		self.LookupENV = os.LookupEnv
	}
	if self.FS == nil {
		dfs, err := NewDefaultFS(self.LookupENV)
		if err != nil {
			return err
		}
		self.FS = dfs
	}
	if self.MaxConcurrency <= 0 {
		self.MaxConcurrency = min(runtime.GOMAXPROCS(0), runtime.NumCPU())
	}
	if self.Semaphore == nil {
		self.Semaphore = newSemaphore(self.MaxConcurrency)
	}
	if self.Reporter == nil {
		self.Reporter = exc.NewReporter(nil)
	}
	if self.Output == nil {
		self.Output = io.Discard
	}
	return nil
}

type compiler struct {
	LookupENV      func(string) (string, bool)
	FS             idl.FileSystem
	MaxConcurrency int
	Semaphore      semaphore
	Reporter       exc.Reporter
	Tracer         polyglot.Tracer
	Output         io.Writer
	ParserOptions  []polyglot.ParserOption
	SubCompilers   map[idl.FileKind]SubCompiler

	outputLock sync.Mutex
}

func (self *compiler) parserOptionsFromEnv() ([]polyglot.ParserOption, error) {
	var opts []polyglot.ParserOption
	if v, ok := self.LookupENV(envTrace); ok && v != "" && v != "0" {
		opts = append(opts, polyglot.ParserOptionTracer(polyglot.NewLogTracer(commonlog.GetLogger("polyglot.parser"))))
	}
	if v, ok := self.LookupENV(envMaxSteps); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, exc.New(exc.Location{URI: envMaxSteps}, exc.CodeUnknownFatal, "invalid step budget "+strconv.Quote(v))
		}
		opts = append(opts, polyglot.ParserOptionMaxSteps(n))
	}
	return opts, nil
}

func (self *compiler) Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error) {
	log := commonlog.GetLogger("polyglot.compiler")
	files := make([]idl.File, 0, len(req.Files))
	for _, f := range req.Files {
		uri := target.Normalize(f)
		in, err := self.FS.Open(ctx, uri)
		if err != nil {
			var e exc.Exception
			if !errors.As(err, &e) {
				e = exc.WrapUnknown(exc.Location{URI: uri}, err)
			}
			if ferr := self.Reporter.Report(e); ferr != nil {
				return nil, MultiException(self.Reporter.Reported())
			}
			continue
		}
		for _, inf := range in {
			if inf.Kind(ctx) == idl.FileKindNone {
				continue
			}
			files = append(files, inf)
		}
	}
	log.Debugf("compiling %d files with concurrency %d", len(files), self.MaxConcurrency)

	symbols := &SymbolTable{}
	programs := make([]*ast.Program, 0, len(files))
	loaded := &sync.Map{}
	results := make(chan fileResult, len(files))
	expectedResults := len(files)

	for _, file := range files {
		go func(file idl.File) {
			prog, err := self.compileFile(ctx, file, loaded, req)
			results <- fileResult{prog, err}
		}(file)
	}

	for x := 0; x < expectedResults; x = x + 1 {
		select {
		case <-ctx.Done():
			return nil, exc.Wrap(exc.Location{}, exc.CodeBudgetExceeded, ctx.Err())
		case result := <-results:
			if result.err != nil {
				log.Debugf("unit abandoned: %s", result.err)
			}
			if result.program == nil {
				continue
			}
			symbols.collect(result.program)
			programs = append(programs, result.program)
		}
	}
	slices.SortFunc(programs, func(a *ast.Program, b *ast.Program) int {
		return strings.Compare(a.File, b.File)
	})

	resp := &CompileResponse{
		Programs: programs,
		Symbols:  symbols,
	}
	caught := self.Reporter.Reported()
	if len(caught) > 0 {
		exc.Sort(caught)
		return resp, MultiException(caught)
	}
	return resp, nil
}

func (self *compiler) compileFile(ctx context.Context, file idl.File, loaded *sync.Map, req *CompileRequest) (*ast.Program, error) {
	if err := self.Semaphore.Acquire(ctx); err != nil {
		return nil, self.Reporter.Report(exc.Wrap(exc.Location{URI: file.Path(ctx)}, exc.CodeBudgetExceeded, err))
	}
	defer self.Semaphore.Release()
	if _, ok := loaded.LoadOrStore(file.Path(ctx), true); ok {
		return nil, nil
	}
	sc := self.SubCompilers[file.Kind(ctx)]
	if sc == nil {
		e := exc.New(exc.Location{URI: file.Path(ctx)}, exc.CodeUnsupportedFileFormat, "Unsupported file format")
		return nil, self.Reporter.Report(e)
	}
	dump := &dumper{lock: &self.outputLock, w: self.Output, tokens: req.DumpTokens, tree: req.DumpTree}
	prog, err := sc.CompileFile(ctx, self.Reporter, file, dump)
	if prog == nil {
		return nil, err
	}
	if verr := verify(prog, self.Reporter); verr != nil && err == nil {
		err = verr
	}
	return prog, err
}

type fileResult struct {
	program *ast.Program
	err     error
}

// MultiException is every problem reported during one compile, in source
// order.
type MultiException []exc.Exception

func (self MultiException) Error() string {
	msgs := make([]string, len(self))
	for i, e := range self {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is and errors.As see each member.
func (self MultiException) Unwrap() []error {
	out := make([]error, len(self))
	for i, e := range self {
		out[i] = e
	}
	return out
}

// Fatal reports whether any member would abort a unit.
func (self MultiException) Fatal() bool {
	return exc.HasFatal(self)
}
