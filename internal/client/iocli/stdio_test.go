package iocli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withStdin swaps os.Stdin for a pipe fed with the given input
func withStdin(t *testing.T, input string) {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	go func() {
		_, _ = w.Write([]byte(input))
		_ = w.Close()
	}()

	oldStdin := os.Stdin
	t.Cleanup(func() { os.Stdin = oldStdin })
	os.Stdin = r
}

func TestNewStdio(t *testing.T) {
	assert.NotNil(t, NewStdio())
}

func TestPrintlnAndPrintf(t *testing.T) {
	stdio := NewStdio()

	assert.NotPanics(t, func() {
		stdio.Println("hello", "world")
	})
	assert.NotPanics(t, func() {
		stdio.Printf("test %d %s", 1, "abc")
	})
}

func TestReadInput(t *testing.T) {
	withStdin(t, "user input\n")

	result, err := NewStdio().ReadInput("Prompt: ")
	require.NoError(t, err)
	assert.Equal(t, "user input", result)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"Y\n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"whatever\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			withStdin(t, tt.input)

			got, err := NewStdio().Confirm("Continue?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
