package main

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidledwards/ped/internal/keys"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	fn()
	os.Stdout = orig
	w.Close()
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestDescribeOpListsBoundKeySequencesAndDoc(t *testing.T) {
	trie := keys.NewTrie()
	trie.Bind([]keys.Key{keys.Ctrl('n')}, "move_down")
	trie.Bind([]keys.Key{keys.Ctrl('x'), keys.RuneKey('g')}, "move_down")

	out := captureStdout(t, func() {
		err := describeOp("move_down", trie)
		require.NoError(t, err)
	})

	assert.Contains(t, out, "move_down:")
	assert.Contains(t, out, "move the cursor one line down")
	assert.Contains(t, out, "C-n")
	assert.Contains(t, out, "C-x g")
}

func TestDescribeOpRejectsUnknownOperation(t *testing.T) {
	err := describeOp("not_a_real_op", keys.NewTrie())
	assert.Error(t, err)
}

func TestDescribeOpReportsUnboundOperation(t *testing.T) {
	out := captureStdout(t, func() {
		err := describeOp("redo", keys.NewTrie())
		require.NoError(t, err)
	})
	assert.Contains(t, out, "(unbound)")
}
