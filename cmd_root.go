package main

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"gopkg.microglot.org/polyglot.go/internal/compiler"
	"gopkg.microglot.org/polyglot.go/internal/compiler/polyglot"
	"gopkg.microglot.org/polyglot.go/internal/fs"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

const levelAuto = "auto"

// globalOptions are the flags every command shares.
type globalOptions struct {
	Roots    []string
	Level    string
	Strict   bool
	MaxSteps int
	Trace    bool
	Verbose  int
}

func (o *globalOptions) bind(flags *pflag.FlagSet) {
	flags.StringSliceVar(&o.Roots, "root", []string{"."}, "Root search paths for targets.")
	flags.StringVar(&o.Level, "level", levelAuto, "Syntax level: auto, high, medium or low.")
	flags.BoolVar(&o.Strict, "strict", true, "Require type annotations in low syntax.")
	flags.IntVar(&o.MaxSteps, "max-steps", 0, "Abandon a file after this many parser steps. Zero is unlimited.")
	flags.BoolVar(&o.Trace, "trace", false, "Log every grammar rule the parser enters.")
	flags.CountVarP(&o.Verbose, "verbose", "v", "Increase log verbosity.")
}

func (o *globalOptions) configureLogging() {
	verbosity := o.Verbose
	if o.Trace && verbosity < 2 {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)
}

func (o *globalOptions) parserOptions() ([]polyglot.ParserOption, error) {
	opts := []polyglot.ParserOption{polyglot.ParserOptionStrict(o.Strict)}
	if o.Level != "" && o.Level != levelAuto {
		level, ok := idl.ParseSyntaxLevel(o.Level)
		if !ok {
			return nil, fmt.Errorf("unknown syntax level %q", o.Level)
		}
		opts = append(opts, polyglot.ParserOptionLevel(level))
	}
	if o.MaxSteps < 0 {
		return nil, fmt.Errorf("invalid step budget %d", o.MaxSteps)
	}
	if o.MaxSteps > 0 {
		opts = append(opts, polyglot.ParserOptionMaxSteps(o.MaxSteps))
	}
	if o.Trace {
		opts = append(opts, polyglot.ParserOptionTracer(polyglot.NewLogTracer(commonlog.GetLogger("polyglot.parser"))))
	}
	return opts, nil
}

// fileSystem searches the configured roots, then the file system root so
// absolute targets resolve, then the platform defaults.
func (o *globalOptions) fileSystem(lookup func(string) (string, bool)) (idl.FileSystem, error) {
	roots, err := compiler.NewRootsFS(append(append([]string{}, o.Roots...), "/")...)
	if err != nil {
		return nil, err
	}
	defaults, err := compiler.NewDefaultFS(lookup)
	if err != nil {
		return nil, err
	}
	return fs.FileSystemMulti{roots, defaults}, nil
}

func (o *globalOptions) newCompiler(lookup func(string) (string, bool), out io.Writer) (compiler.Compiler, error) {
	popts, err := o.parserOptions()
	if err != nil {
		return nil, err
	}
	files, err := o.fileSystem(lookup)
	if err != nil {
		return nil, err
	}
	return compiler.New(
		compiler.OptionWithLookupEnv(lookup),
		compiler.OptionWithFS(files),
		compiler.OptionWithOutput(out),
		compiler.OptionWithParserOptions(popts...),
	)
}

// printErrors writes one line per error. Lists such as MultiException and
// the grammar verifier's error list are expanded.
func printErrors(w io.Writer, err error) {
	var me compiler.MultiException
	if errors.As(err, &me) {
		for _, e := range me {
			fmt.Fprintln(w, e.Error())
		}
		return
	}
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(w, v.Index(i).Interface())
		}
		return
	}
	fmt.Fprintln(w, strings.TrimSpace(err.Error()))
}
