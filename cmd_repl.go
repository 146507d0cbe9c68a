package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"gopkg.microglot.org/polyglot.go/internal/ast"
	"gopkg.microglot.org/polyglot.go/internal/compiler"
	"gopkg.microglot.org/polyglot.go/internal/compiler/polyglot"
	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/fs"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

const (
	historyFile = ".polyglot_history"
	promptMain  = "pg> "
	promptCont  = "... "
	replURI     = "<repl>"
)

func newReplCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "repl",
		Short:         "Parse input interactively and print each tree",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := global.parserOptions()
			if err != nil {
				return err
			}
			s := newSession(opts)
			if global.Level != "" && global.Level != levelAuto {
				s.level, _ = idl.ParseSyntaxLevel(global.Level)
				s.fixed = true
			}
			return runRepl(cmd.Context(), s, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runRepl(ctx context.Context, s *session, out io.Writer, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintln(out, "polyglot "+version+". Type :help for commands.")
	for {
		src, ok := s.read(ctx, ln)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if s.command(strings.TrimSpace(src), out) {
			if s.quit {
				return nil
			}
			continue
		}
		prog, reported := s.parse(ctx, src)
		for _, e := range reported {
			fmt.Fprintln(errOut, e.Error())
		}
		if prog != nil {
			if err := s.write(out, prog); err != nil {
				return err
			}
		}
	}
}

// session is the state kept between inputs. The level of the first input
// that names or implies one is kept for the rest of the session.
type session struct {
	options []polyglot.ParserOption
	level   idl.SyntaxLevel
	fixed   bool
	format  string
	quit    bool
}

func newSession(opts []polyglot.ParserOption) *session {
	return &session{options: opts, format: formatTree}
}

type prompter interface {
	Prompt(prompt string) (string, error)
}

// read collects lines until they form input that is not merely cut short.
func (s *session) read(ctx context.Context, p prompter) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := p.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl-C drops the pending input.
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		_, reported := s.probe(ctx, src)
		if !incomplete(reported) {
			return src, true
		}
	}
}

// incomplete reports whether every problem is running out of input.
func incomplete(reported []exc.Exception) bool {
	if len(reported) == 0 {
		return false
	}
	for _, e := range reported {
		if e.Code() != exc.CodeUnexpectedEOF {
			return false
		}
	}
	return true
}

func (s *session) probe(ctx context.Context, src string) (*ast.Program, []exc.Exception) {
	opts := s.options
	if s.fixed {
		opts = append(append([]polyglot.ParserOption{}, opts...), polyglot.ParserOptionLevel(s.level))
	}
	reporter := exc.NewReporter(nil)
	sc := &compiler.SubCompilerPolyglot{Options: opts}
	prog, err := sc.CompileFile(ctx, reporter, fs.NewFileString(replURI, src, idl.FileKindPolyglot), nil)
	reported := reporter.Reported()
	if err != nil && len(reported) == 0 {
		reported = []exc.Exception{exc.WrapUnknown(exc.Location{URI: replURI}, err)}
	}
	exc.Sort(reported)
	return prog, reported
}

func (s *session) parse(ctx context.Context, src string) (*ast.Program, []exc.Exception) {
	prog, reported := s.probe(ctx, src)
	if prog != nil && !s.fixed {
		s.level = prog.Level
		s.fixed = true
	}
	return prog, reported
}

func (s *session) write(w io.Writer, prog *ast.Program) error {
	switch s.format {
	case formatMedium:
		_, err := io.WriteString(w, ast.Format(prog))
		return err
	case formatSymbols:
		return writeSymbols(w, compiler.CollectSymbols(prog), 0)
	case formatNone:
		return nil
	}
	return ast.Dump(w, prog)
}

// command runs a line starting with ':'. It reports whether the line was
// a command.
func (s *session) command(line string, w io.Writer) bool {
	if !strings.HasPrefix(line, ":") {
		return false
	}
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ":quit", ":q":
		s.quit = true
	case ":level":
		if len(fields) == 1 {
			if s.fixed {
				fmt.Fprintln(w, s.level)
			} else {
				fmt.Fprintln(w, levelAuto)
			}
			break
		}
		if strings.EqualFold(fields[1], levelAuto) {
			s.fixed = false
			break
		}
		level, ok := idl.ParseSyntaxLevel(fields[1])
		if !ok {
			fmt.Fprintf(w, "unknown syntax level %q\n", fields[1])
			break
		}
		s.level = level
		s.fixed = true
	case ":format":
		if len(fields) == 2 {
			switch fields[1] {
			case formatTree, formatMedium, formatSymbols, formatNone:
				s.format = fields[1]
				return true
			}
		}
		fmt.Fprintln(w, "usage: :format tree|medium|symbols|none")
	case ":help":
		fmt.Fprintln(w, ":level [auto|high|medium|low]  show or set the syntax level")
		fmt.Fprintln(w, ":format tree|medium|symbols|none  choose how trees are printed")
		fmt.Fprintln(w, ":quit  leave")
	default:
		fmt.Fprintf(w, "unknown command %s. Type :help for commands.\n", fields[0])
	}
	return true
}
