package target

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "relative", input: "src/main.pg", expected: "/src/main.pg"},
		{name: "dot relative", input: "./src/../main.pg", expected: "/main.pg"},
		{name: "absolute", input: "/abs/main.pg", expected: "/abs/main.pg"},
		{name: "file uri", input: "file:///abs/main.pg", expected: "/abs/main.pg"},
		{name: "working directory", input: ".", expected: "/"},
		{name: "other scheme", input: "https://example.com/main.pg", expected: "https://example.com/main.pg"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, testCase.expected, Normalize(testCase.input))
		})
	}
}
