package syntax_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/davidledwards/ped/internal/syntax"
)

func TestTokenizeEmptyBuffer(t *testing.T) {
	spans := syntax.Tokenize(nil, syntax.RuleSet{DefaultColor: 0})
	assert.Nil(t, spans)
}

func TestTokenizeSingleBlockComment(t *testing.T) {
	rules := syntax.RuleSet{
		DefaultColor: 0,
		Rules: []syntax.Rule{
			{Pattern: regexp.MustCompile(`(?s)/\*.*?\*/`), Color: 3, Precedence: 1},
		},
	}
	text := []rune(`/* hello */`)
	spans := syntax.Tokenize(text, rules)
	total := 0
	for _, s := range spans {
		total += s.Length
	}
	assert.Equal(t, len(text), total)
	assert.Len(t, spans, 1)
	assert.Equal(t, 3, spans[0].Color)
}

func TestTokenizeMixedDefaultAndMatch(t *testing.T) {
	rules := syntax.RuleSet{
		DefaultColor: 0,
		Rules: []syntax.Rule{
			{Pattern: regexp.MustCompile(`\bfunc\b`), Color: 2, Precedence: 1},
		},
	}
	text := []rune(`func main() func`)
	spans := syntax.Tokenize(text, rules)
	total := 0
	for _, s := range spans {
		total += s.Length
	}
	assert.Equal(t, len(text), total)
	assert.Equal(t, 2, spans[0].Color)
}

func TestTokenizePrecedenceBreaksTies(t *testing.T) {
	rules := syntax.RuleSet{
		DefaultColor: 0,
		Rules: []syntax.Rule{
			{Pattern: regexp.MustCompile(`ab`), Color: 1, Precedence: 2},
			{Pattern: regexp.MustCompile(`a`), Color: 2, Precedence: 1},
		},
	}
	text := []rune(`ab`)
	spans := syntax.Tokenize(text, rules)
	assert.Equal(t, 2, spans[0].Color)
}

// TestScannerResumesAcrossSteps drives a Scanner with a budget so small
// that no single Step call can finish, proving a rescan can span many
// calls and still converge on the same result as an unbounded Tokenize.
func TestScannerResumesAcrossSteps(t *testing.T) {
	rules := syntax.RuleSet{
		DefaultColor: 0,
		Rules: []syntax.Rule{
			{Pattern: regexp.MustCompile(`\d+`), Color: 4, Precedence: 1},
		},
	}
	var sb []rune
	for i := 0; i < 200; i++ {
		sb = append(sb, []rune("word 42 ")...)
	}

	sc := syntax.NewScanner(syntax.NewJob(), sb, rules)
	steps := 0
	for !sc.Step(time.Nanosecond) {
		steps++
		if steps > len(sb) {
			t.Fatal("scanner did not converge")
		}
	}
	assert.Greater(t, steps, 1)
	assert.Equal(t, syntax.Tokenize(sb, rules), sc.Spans())
}

func TestTokenizeIsDeterministic(t *testing.T) {
	rules := syntax.RuleSet{
		DefaultColor: 0,
		Rules: []syntax.Rule{
			{Pattern: regexp.MustCompile(`\d+`), Color: 4, Precedence: 1},
		},
	}
	text := []rune(`x = 42 + 7`)
	a := syntax.Tokenize(text, rules)
	b := syntax.Tokenize(text, rules)
	assert.Equal(t, a, b)
}
