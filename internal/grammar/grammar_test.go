package grammar

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/polyglot.go/internal/idl"
)

func TestVerify(t *testing.T) {
	t.Parallel()

	for _, level := range []idl.SyntaxLevel{idl.SyntaxLevelHigh, idl.SyntaxLevelMedium, idl.SyntaxLevelLow} {
		t.Run(level.String(), func(t *testing.T) {
			t.Parallel()
			require.NoError(t, Verify(level))
		})
	}
}

func TestUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := Source(idl.SyntaxLevel(9))
	require.Error(t, err)
	require.Error(t, Verify(idl.SyntaxLevel(9)))
}

func TestWords(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		level   idl.SyntaxLevel
		present []string
		absent  []string
	}{
		{
			level:   idl.SyntaxLevelHigh,
			present: []string{"otherwise", "iterate", "multiplied", "match", "taking"},
			absent:  []string{"fn", "class", "namespace", "foreach"},
		},
		{
			level:   idl.SyntaxLevelMedium,
			present: []string{"class", "namespace", "foreach", "match", "using"},
			absent:  []string{"fn", "otherwise", "plus"},
		},
		{
			level:   idl.SyntaxLevelLow,
			present: []string{"fn", "struct", "union", "class"},
			absent:  []string{"otherwise", "define"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.level.String(), func(t *testing.T) {
			t.Parallel()
			g, err := Load(testCase.level)
			require.NoError(t, err)
			words := Words(g)
			require.IsIncreasing(t, words)
			for _, w := range testCase.present {
				require.Contains(t, words, w)
			}
			for _, w := range testCase.absent {
				require.NotContains(t, words, w)
			}
		})
	}
}

func TestSourceSharesCore(t *testing.T) {
	t.Parallel()

	g, err := Load(idl.SyntaxLevelMedium)
	require.NoError(t, err)
	require.Contains(t, g, "Program")
	require.Contains(t, g, "Pattern")
	require.Contains(t, g, "Cast")
	require.Nil(t, g["PointerSuffix"].Expr)

	g, err = Load(idl.SyntaxLevelHigh)
	require.NoError(t, err)
	require.NotContains(t, g, "Cast")
	require.Contains(t, g, "Aggregate")
}
