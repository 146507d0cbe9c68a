package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/polyglot.go/internal/exc"
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, idl.FileKindPolyglot, KindOf("/src/main.pg"))
	require.Equal(t, idl.FileKindPolyglotTokens, KindOf("main.pgtok"))
	require.Equal(t, idl.FileKindNone, KindOf("main.go"))
}

func TestFileSystemLocal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.pg"), []byte("print 1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.pgtok"), []byte("[]"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("skip"), 0o644))

	local, err := NewFileSystemLocal(root)
	require.NoError(t, err)

	files, err := local.Open(ctx, "/")
	require.NoError(t, err)
	require.Len(t, files, 2)

	single, err := local.Open(ctx, "/a.pg")
	require.NoError(t, err)
	require.Len(t, single, 1)
	require.Equal(t, idl.FileKindPolyglot, single[0].Kind(ctx))
	content, err := ReadAll(ctx, single[0])
	require.NoError(t, err)
	require.Equal(t, "print 1", string(content))

	_, err = local.Open(ctx, "/missing.pg")
	var e exc.Exception
	require.ErrorAs(t, err, &e)
	require.Equal(t, exc.CodeFileNotFound, e.Code())

	require.NoError(t, local.Write(ctx, "/out/c.pg", "x := 1"))
	written, err := os.ReadFile(filepath.Join(root, "out", "c.pg"))
	require.NoError(t, err)
	require.Equal(t, "x := 1", string(written))
}

func TestFileSystemMulti(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	first, err := NewFileSystemLocal(t.TempDir())
	require.NoError(t, err)
	secondRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(secondRoot, "x.pg"), []byte("@low"), 0o644))
	second, err := NewFileSystemLocal(secondRoot)
	require.NoError(t, err)

	multi := FileSystemMulti{first, second}
	files, err := multi.Open(ctx, "/x.pg")
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Error(t, multi.Write(ctx, "/x.pg", ""))
}

func TestFileString(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := NewFileString("/mem.pg", "int x = 1;", idl.FileKindPolyglot)
	require.Equal(t, "/mem.pg", f.Path(ctx))
	b, err := ReadAll(ctx, f)
	require.NoError(t, err)
	require.Equal(t, "int x = 1;", string(b))
}

func TestFileBodyChunks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	body, err := NewFileString("/mem.pg", "abcde", idl.FileKindPolyglot).Body(ctx)
	require.NoError(t, err)

	var got []string
	for {
		chunk, err := body.Read(ctx, 2)
		if len(chunk) > 0 {
			got = append(got, string(chunk))
		}
		if err != nil {
			var e exc.Exception
			require.ErrorAs(t, err, &e)
			require.Equal(t, exc.CodeEOF, e.Code())
			require.ErrorIs(t, err, io.EOF)
			break
		}
	}
	require.Equal(t, []string{"ab", "cd", "e"}, got)
	require.NoError(t, body.Close(ctx))
}
