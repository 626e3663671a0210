package controller_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidledwards/ped/internal/controller"
	"github.com/davidledwards/ped/internal/editor"
	"github.com/davidledwards/ped/internal/keys"
	"github.com/davidledwards/ped/internal/syntax"
	"github.com/davidledwards/ped/internal/workspace"
)

func newController() (*controller.Controller, *workspace.Workspace) {
	ed := editor.New("buf", []rune("hello"), editor.OriginScratch)
	ws := workspace.New(24, 80, ed)
	trie := keys.NewTrie()
	trie.Bind([]keys.Key{keys.Ctrl('n')}, "move_right")
	trie.Bind([]keys.Key{keys.Ctrl('x'), keys.Ctrl('s')}, "quit")
	ops := controller.DefaultOps()
	rules := func(name string) (syntax.RuleSet, bool) { return syntax.RuleSet{}, false }
	return controller.New(ws, trie, ops, rules), ws
}

func TestTypedRuneInsertsIntoFocusedEditor(t *testing.T) {
	c, ws := newController()
	c.HandleKey(keys.RuneKey('x'))
	assert.Equal(t, "xhello", string(ws.Focus().Editor.Scalars()))
}

func TestBoundKeyDispatchesOperation(t *testing.T) {
	c, ws := newController()
	before := ws.Focus().Editor.CursorPos()
	c.HandleKey(keys.Ctrl('n'))
	assert.Equal(t, before+1, ws.Focus().Editor.CursorPos())
}

func TestMultiKeySequenceStaysIncompleteUntilComplete(t *testing.T) {
	c, _ := newController()
	c.HandleKey(keys.Ctrl('x'))
	assert.False(t, c.Quitting())
	c.HandleKey(keys.Ctrl('s'))
	assert.True(t, c.Quitting())
}

func TestUnboundSequenceSetsEchoMessage(t *testing.T) {
	c, _ := newController()
	c.HandleKey(keys.Ctrl('z'))
	assert.NotEmpty(t, c.EchoMessage())
}

func TestCtrlGCancelsPendingSequence(t *testing.T) {
	c, _ := newController()
	c.HandleKey(keys.Ctrl('x'))
	c.HandleKey(keys.Ctrl('g'))
	c.HandleKey(keys.Ctrl('s')) // alone, should not complete the C-x C-s quit binding
	assert.False(t, c.Quitting())
}

func TestDispatchUnknownOperationReturnsError(t *testing.T) {
	c, _ := newController()
	err := c.Dispatch("does_not_exist")
	require.Error(t, err)
}

func TestSearchStateRoutesRunesIntoSearchTerm(t *testing.T) {
	ed := editor.New("buf", []rune("xx foo xx foo"), editor.OriginScratch)
	ws := workspace.New(24, 80, ed)
	trie := keys.NewTrie()
	trie.Bind([]keys.Key{keys.Ctrl('s')}, "search_forward")
	ops := controller.DefaultOps()
	rules := func(name string) (syntax.RuleSet, bool) { return syntax.RuleSet{}, false }
	c := controller.New(ws, trie, ops, rules)

	c.HandleKey(keys.Ctrl('s'))
	c.HandleKey(keys.RuneKey('f'))
	c.HandleKey(keys.RuneKey('o'))
	c.HandleKey(keys.RuneKey('o'))
	assert.Equal(t, 3, ws.Focus().Editor.CursorPos())
}

func TestAskOpensQuestionAndRoutesKeys(t *testing.T) {
	c, ws := newController()
	ops := controller.DefaultOps()
	ops["ask_demo"] = func(e *controller.Environment) error {
		e.Ask("find: ", "", nil)
		return nil
	}
	trie := keys.NewTrie()
	trie.Bind([]keys.Key{keys.Ctrl('f')}, "ask_demo")
	rules := func(name string) (syntax.RuleSet, bool) { return syntax.RuleSet{}, false }
	c = controller.New(ws, trie, ops, rules)

	c.HandleKey(keys.Ctrl('f'))
	require.NotNil(t, c.Question())
	c.HandleKey(keys.RuneKey('f'))
	c.HandleKey(keys.RuneKey('o'))
	assert.Equal(t, "fo", c.Question().Value())
}

func TestGotoLineSubLoopMovesIncrementallyAndConfirms(t *testing.T) {
	var text []rune
	for i := 0; i < 200; i++ {
		text = append(text, []rune("x\n")...)
	}
	ed := editor.New("buf", text, editor.OriginScratch)
	ed.SetViewRows(24)
	ws := workspace.New(24, 80, ed)
	trie := keys.NewTrie()
	ops := controller.DefaultOps()
	rules := func(name string) (syntax.RuleSet, bool) { return syntax.RuleSet{}, false }
	c := controller.New(ws, trie, ops, rules)

	require.NoError(t, c.Dispatch("goto_line"))
	c.HandleKey(keys.RuneKey('5'))
	assert.Equal(t, 5, ed.CursorLine())
	c.HandleKey(keys.RuneKey('0'))
	assert.Equal(t, 50, ed.CursorLine())

	c.HandleKey(keys.FuncKey(keys.FuncEnter, false, false, false))
	assert.Equal(t, 50, ed.CursorLine())
}

func TestGotoLineSubLoopCancelRestoresOriginalLine(t *testing.T) {
	var text []rune
	for i := 0; i < 200; i++ {
		text = append(text, []rune("x\n")...)
	}
	ed := editor.New("buf", text, editor.OriginScratch)
	ed.SetViewRows(24)
	ws := workspace.New(24, 80, ed)
	trie := keys.NewTrie()
	ops := controller.DefaultOps()
	rules := func(name string) (syntax.RuleSet, bool) { return syntax.RuleSet{}, false }
	c := controller.New(ws, trie, ops, rules)

	before := ed.CursorLine()
	require.NoError(t, c.Dispatch("goto_line"))
	c.HandleKey(keys.RuneKey('9'))
	c.HandleKey(keys.RuneKey('9'))
	assert.Equal(t, 99, ed.CursorLine())

	c.HandleKey(keys.FuncKey(keys.FuncEscape, false, false, false))
	assert.Equal(t, before, ed.CursorLine())
}

// TestIdleTickRescansDirtyEditor drives the controller's background
// tokenization entirely through PollIdle, the same path the caller's
// read-timeout loop uses, confirming a dirty editor eventually gets
// its spans replaced without the caller ever touching internal scan
// state directly.
func TestIdleTickRescansDirtyEditor(t *testing.T) {
	ed := editor.New("buf.go", []rune("func main() {}"), editor.OriginScratch)
	ed.SetSyntax("go", 0)
	require.True(t, ed.NeedsRescan())

	ws := workspace.New(24, 80, ed)
	trie := keys.NewTrie()
	ruleSet := syntax.RuleSet{
		Name:         "go",
		DefaultColor: 0,
		Rules:        []syntax.Rule{{Pattern: regexp.MustCompile(`\bfunc\b`), Color: 2, Precedence: 1}},
	}
	rules := func(name string) (syntax.RuleSet, bool) {
		if name == "go" {
			return ruleSet, true
		}
		return syntax.RuleSet{}, false
	}
	c := controller.New(ws, trie, controller.DefaultOps(), rules)

	for i := 0; i < 1000 && ed.NeedsRescan(); i++ {
		c.PollIdle()
	}
	assert.False(t, ed.NeedsRescan())
	assert.Equal(t, 2, ed.ColorAt(0))
}
