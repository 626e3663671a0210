// Package inquire implements the modal question/completer prompt loop
// of §4.10: a cancellable, completion-backed line edit rendered in the
// workspace's echo row. Because the controller drives one keystroke at
// a time (§4.11), a Question is not a blocking call — the controller
// constructs one with Ask and feeds it keys via HandleKey until it
// reports Accepted or Cancelled.
package inquire

import (
	"github.com/davidledwards/ped/internal/keys"
)

// Outcome is the state of an in-progress or finished question.
type Outcome int

const (
	Pending Outcome = iota
	Accepted
	Cancelled
)

// Completer is the polymorphic capability set a question can be
// backed by (§4.10): candidate completion plus a short render hint
// shown alongside the prompt.
type Completer interface {
	Candidates(prefix string) []string
	RenderHint(prefix string) string
}

// Question is one modal prompt interaction.
type Question struct {
	Prompt    string
	completer Completer

	value   []rune
	cursor  int
	outcome Outcome

	candidates []string
	candIndex  int
}

// Ask starts a question with the given prompt text and initial value.
// completer may be nil, in which case TAB has no effect.
func Ask(prompt, initial string, completer Completer) *Question {
	v := []rune(initial)
	return &Question{
		Prompt:    prompt,
		completer: completer,
		value:     v,
		cursor:    len(v),
		outcome:   Pending,
	}
}

// Outcome returns the question's current state.
func (q *Question) Outcome() Outcome { return q.outcome }

// Value returns the accepted (or in-progress) value.
func (q *Question) Value() string { return string(q.value) }

// RenderHint returns the completer's hint for the current value, or ""
// if there is no completer.
func (q *Question) RenderHint() string {
	if q.completer == nil {
		return ""
	}
	return q.completer.RenderHint(string(q.value))
}

// HandleKey advances the question's state machine by one input key and
// returns the resulting outcome. Once Accepted or Cancelled is
// returned, further calls are no-ops.
func (q *Question) HandleKey(k keys.Key) Outcome {
	if q.outcome != Pending {
		return q.outcome
	}

	switch {
	case keys.IsReserved(k) && k.String() == "C-g":
		q.outcome = Cancelled
		return q.outcome
	case k.Kind == keys.KindFunction && k.Func == keys.FuncEnter:
		q.outcome = Accepted
		return q.outcome
	case k.Kind == keys.KindFunction && k.Func == keys.FuncEscape:
		q.outcome = Cancelled
		return q.outcome
	case k.Kind == keys.KindFunction && k.Func == keys.FuncBackspace:
		if q.cursor > 0 {
			q.value = append(q.value[:q.cursor-1], q.value[q.cursor:]...)
			q.cursor--
		}
		q.resetCandidates()
	case k.Kind == keys.KindFunction && k.Func == keys.FuncTab:
		q.cycleCandidate(1)
	case k.Kind == keys.KindFunction && k.Func == keys.FuncLeft:
		if q.cursor > 0 {
			q.cursor--
		}
	case k.Kind == keys.KindFunction && k.Func == keys.FuncRight:
		if q.cursor < len(q.value) {
			q.cursor++
		}
	case k.Kind == keys.KindRune && !k.Ctrl && !k.Meta:
		q.value = append(q.value[:q.cursor], append([]rune{k.Rune}, q.value[q.cursor:]...)...)
		q.cursor++
		q.resetCandidates()
	}
	return q.outcome
}

func (q *Question) resetCandidates() {
	q.candidates = nil
	q.candIndex = 0
}

func (q *Question) cycleCandidate(delta int) {
	if q.completer == nil {
		return
	}
	if q.candidates == nil {
		q.candidates = q.completer.Candidates(string(q.value))
		q.candIndex = -1
	}
	if len(q.candidates) == 0 {
		return
	}
	q.candIndex = (q.candIndex + delta + len(q.candidates)) % len(q.candidates)
	q.value = []rune(q.candidates[q.candIndex])
	q.cursor = len(q.value)
}
