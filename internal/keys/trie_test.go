package keys_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davidledwards/ped/internal/keys"
)

func TestTrieResolvesSingleKeyBinding(t *testing.T) {
	tr := keys.NewTrie()
	assert.True(t, tr.Bind([]keys.Key{keys.Ctrl('x')}, "save"))

	res, op := tr.Resolve([]keys.Key{keys.Ctrl('x')})
	assert.Equal(t, keys.Bound, res)
	assert.Equal(t, "save", op)
}

func TestTrieIncompleteOnPrefix(t *testing.T) {
	tr := keys.NewTrie()
	tr.Bind([]keys.Key{keys.Ctrl('x'), keys.Ctrl('s')}, "save")

	res, _ := tr.Resolve([]keys.Key{keys.Ctrl('x')})
	assert.Equal(t, keys.Incomplete, res)

	res, op := tr.Resolve([]keys.Key{keys.Ctrl('x'), keys.Ctrl('s')})
	assert.Equal(t, keys.Bound, res)
	assert.Equal(t, "save", op)
}

func TestTrieUnboundOnUnknownSequence(t *testing.T) {
	tr := keys.NewTrie()
	tr.Bind([]keys.Key{keys.Ctrl('x')}, "save")

	res, _ := tr.Resolve([]keys.Key{keys.Ctrl('z')})
	assert.Equal(t, keys.Unbound, res)
}

func TestTrieRejectsReservedKeyBinding(t *testing.T) {
	tr := keys.NewTrie()
	assert.False(t, tr.Bind([]keys.Key{keys.Ctrl('g')}, "quit"))
	assert.False(t, tr.Bind([]keys.Key{keys.Ctrl('q')}, "cancel"))

	res, _ := tr.Resolve([]keys.Key{keys.Ctrl('g')})
	assert.Equal(t, keys.Unbound, res)
}

func TestIsReservedKey(t *testing.T) {
	assert.True(t, keys.IsReserved(keys.Ctrl('q')))
	assert.False(t, keys.IsReserved(keys.Ctrl('a')))
}

func TestTrieRejectsEscapeBinding(t *testing.T) {
	tr := keys.NewTrie()
	esc := keys.FuncKey(keys.FuncEscape, false, false, false)
	assert.False(t, tr.Bind([]keys.Key{esc}, "cancel"))

	res, _ := tr.Resolve([]keys.Key{esc})
	assert.Equal(t, keys.Unbound, res)
	assert.True(t, keys.IsReserved(esc))
}
