package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/polyglot.go/internal/compiler"
	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/fs"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

func noEnv(string) (string, bool) {
	return "", false
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestRunParse(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"main.pg": "@medium\nclass A { int x; }",
	})

	testCases := []struct {
		format   string
		expected []string
	}{
		{format: formatTree, expected: []string{"# /main.pg (medium)", "ClassDeclaration"}},
		{format: formatMedium, expected: []string{"// /main.pg", "@medium", "class A"}},
		{format: formatSymbols, expected: []string{"# /main.pg", "class A", "  field x int"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.format, func(t *testing.T) {
			t.Parallel()
			global := &globalOptions{Roots: []string{dir}, Level: levelAuto, Strict: true}
			out := &bytes.Buffer{}
			err := runParse(context.Background(), global, &parseOptions{Format: testCase.format}, []string{"main.pg"}, noEnv, out)
			require.NoError(t, err)
			for _, s := range testCase.expected {
				require.Contains(t, out.String(), s)
			}
		})
	}
}

func TestRunParseReportsProblems(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"bad.pg": "print )\nprint 1",
	})
	global := &globalOptions{Roots: []string{dir}, Level: levelAuto, Strict: true}
	out := &bytes.Buffer{}
	err := runParse(context.Background(), global, &parseOptions{Format: formatMedium}, []string{"bad.pg"}, noEnv, out)
	var me compiler.MultiException
	require.True(t, errors.As(err, &me))
	require.Len(t, me, 1)
	require.Equal(t, exc.CodeUnexpectedToken, me[0].Code())
	require.Contains(t, out.String(), "print(1);")

	errOut := &bytes.Buffer{}
	printErrors(errOut, err)
	require.Contains(t, errOut.String(), "P0008")
}

func TestRunParseOptions(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"main.pg": "var x = 1;"})

	testCases := []struct {
		name   string
		global globalOptions
		format string
		err    string
	}{
		{name: "unknown format", global: globalOptions{Level: levelAuto}, format: "xml", err: "unknown format"},
		{name: "unknown level", global: globalOptions{Level: "lowest"}, format: formatTree, err: "unknown syntax level"},
		{name: "negative budget", global: globalOptions{Level: levelAuto, MaxSteps: -1}, format: formatTree, err: "invalid step budget"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			global := testCase.global
			global.Roots = []string{dir}
			err := runParse(context.Background(), &global, &parseOptions{Format: testCase.format}, []string{"main.pg"}, noEnv, io.Discard)
			require.ErrorContains(t, err, testCase.err)
		})
	}
}

func TestRunParseForcedLevel(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"main.pg": "var x = 1;"})
	global := &globalOptions{Roots: []string{dir}, Level: "low", Strict: true}
	err := runParse(context.Background(), global, &parseOptions{Format: formatNone}, []string{"main.pg"}, noEnv, io.Discard)
	var me compiler.MultiException
	require.True(t, errors.As(err, &me))
	require.Equal(t, exc.CodeMissingTypeAnnotation, me[0].Code())

	global.Strict = false
	require.NoError(t, runParse(context.Background(), global, &parseOptions{Format: formatNone}, []string{"main.pg"}, noEnv, io.Discard))
}

func TestRunTokens(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"main.pg":  "print 1 // one",
		"notes.md": "ignored",
	})
	files, err := fs.NewFileSystemLocal(dir)
	require.NoError(t, err)
	outDir := t.TempDir()
	outFS, err := fs.NewFileSystemLocal(outDir)
	require.NoError(t, err)

	require.NoError(t, runTokens(context.Background(), files, outFS, []string{"."}, io.Discard))

	content, err := os.ReadFile(filepath.Join(outDir, "main.pgtok"))
	require.NoError(t, err)
	tokens, err := compiler.DecodeTokens("main.pgtok", content)
	require.NoError(t, err)
	types := make([]idl.TokenType, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	require.Equal(t, []idl.TokenType{
		idl.TokenTypeKeywordPrint,
		idl.TokenTypeIntegerDecimal,
		idl.TokenTypeComment,
		idl.TokenTypeEOF,
	}, types)

	_, err = os.Stat(filepath.Join(outDir, "notes.pgtok"))
	require.True(t, os.IsNotExist(err))
}

func TestRunTokensStdout(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{"main.pg": "\"open"})
	files, err := fs.NewFileSystemLocal(dir)
	require.NoError(t, err)
	out := &bytes.Buffer{}
	err = runTokens(context.Background(), files, nil, []string{"main.pg"}, out)
	var me compiler.MultiException
	require.True(t, errors.As(err, &me))
	require.Equal(t, exc.CodeUnexpectedEOF, me[0].Code())
	require.Contains(t, out.String(), `"type": "EOF"`)
}

func TestGrammarCommands(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	require.NoError(t, verifyGrammars(out, allLevels))
	require.Equal(t, "high: ok\nmedium: ok\nlow: ok\n", out.String())

	out.Reset()
	require.NoError(t, printGrammars(out, []idl.SyntaxLevel{idl.SyntaxLevelLow}))
	require.Contains(t, out.String(), "// low\n")
	require.Contains(t, out.String(), "Program = ")
	require.Contains(t, out.String(), `"fn"`)
}

type scriptedPrompter struct {
	lines   []string
	prompts []string
}

func (p *scriptedPrompter) Prompt(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func TestSessionRead(t *testing.T) {
	t.Parallel()

	s := newSession(nil)
	p := &scriptedPrompter{lines: []string{"if x then", "print x", "end if", "print 2"}}
	ctx := context.Background()

	src, ok := s.read(ctx, p)
	require.True(t, ok)
	require.Equal(t, "if x then\nprint x\nend if", src)
	require.Equal(t, []string{promptMain, promptCont, promptCont}, p.prompts)

	src, ok = s.read(ctx, p)
	require.True(t, ok)
	require.Equal(t, "print 2", src)

	_, ok = s.read(ctx, p)
	require.False(t, ok)
}

func TestSessionLevelSticks(t *testing.T) {
	t.Parallel()

	s := newSession(nil)
	ctx := context.Background()

	prog, reported := s.parse(ctx, "@medium\nx = 1;")
	require.Empty(t, reported)
	require.Equal(t, idl.SyntaxLevelMedium, prog.Level)

	prog, reported = s.parse(ctx, "y = 2;")
	require.Empty(t, reported)
	require.Equal(t, idl.SyntaxLevelMedium, prog.Level)
	require.Len(t, prog.Statements, 1)
}

func TestSessionCommands(t *testing.T) {
	t.Parallel()

	s := newSession(nil)
	out := &bytes.Buffer{}

	require.False(t, s.command("print 1", out))

	require.True(t, s.command(":level", out))
	require.Equal(t, "auto\n", out.String())

	out.Reset()
	require.True(t, s.command(":level low", out))
	require.True(t, s.fixed)
	require.Equal(t, idl.SyntaxLevelLow, s.level)
	require.True(t, s.command(":level", out))
	require.Equal(t, "low\n", out.String())

	require.True(t, s.command(":level auto", out))
	require.False(t, s.fixed)

	out.Reset()
	require.True(t, s.command(":format medium", out))
	require.Equal(t, formatMedium, s.format)
	require.Empty(t, out.String())

	require.True(t, s.command(":format xml", out))
	require.Contains(t, out.String(), "usage")

	require.True(t, s.command(":quit", out))
	require.True(t, s.quit)
}

func TestSessionWrite(t *testing.T) {
	t.Parallel()

	s := newSession(nil)
	prog, reported := s.parse(context.Background(), "@medium\nclass A { }")
	require.Empty(t, reported)

	out := &bytes.Buffer{}
	require.NoError(t, s.write(out, prog))
	require.Contains(t, out.String(), "ClassDeclaration A")

	s.format = formatSymbols
	out.Reset()
	require.NoError(t, s.write(out, prog))
	require.Contains(t, out.String(), "class A")
}

func TestIncomplete(t *testing.T) {
	t.Parallel()

	eof := exc.New(exc.Location{}, exc.CodeUnexpectedEOF, "end")
	other := exc.New(exc.Location{}, exc.CodeUnexpectedToken, "x")
	require.False(t, incomplete(nil))
	require.True(t, incomplete([]exc.Exception{eof, eof}))
	require.False(t, incomplete([]exc.Exception{eof, other}))
}
