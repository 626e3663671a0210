package keys

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// state is the decoder's position in the small DFA that recognizes
// ESC/CSI/SS3 sequences, mirroring the ground/escape/CSI states of a
// VTE-style parser (govte.State) scaled down to what a keyboard stream
// actually needs.
type state int

const (
	stateGround state = iota
	stateEscape
	stateCSI
)

// EscTimeout bounds how long the decoder waits after a bare ESC byte
// before deciding it was not the start of an M- sequence (§4.8).
const EscTimeout = 50 * time.Millisecond

// Decoder turns a byte stream into canonical keys. It is fed bytes as
// they arrive (e.g. from a raw-mode terminal read) and, once a
// complete or timed-out sequence is recognized, yields zero or more
// Keys. Malformed sequences are dropped rather than partially applied.
type Decoder struct {
	st      state
	buf     []byte
	escAt   time.Time
	nowFunc func() time.Time
}

// NewDecoder creates a decoder using the real clock for the ESC timer.
func NewDecoder() *Decoder {
	return &Decoder{nowFunc: time.Now}
}

// SetNowFunc overrides the clock used for the ESC timer; exercised by
// tests to make the timeout deterministic.
func (d *Decoder) SetNowFunc(f func() time.Time) { d.nowFunc = f }

func (d *Decoder) now() time.Time {
	if d.nowFunc != nil {
		return d.nowFunc()
	}
	return time.Now()
}

// Feed appends one input byte and returns any keys it completed.
func (d *Decoder) Feed(b byte) []Key {
	switch d.st {
	case stateGround:
		return d.feedGround(b)
	case stateEscape:
		return d.feedEscape(b)
	case stateCSI:
		return d.feedCSI(b)
	}
	return nil
}

// FeedBytes decodes a full read chunk, assembling multi-byte UTF-8
// scalars in ground state (Feed alone only sees one byte at a time and
// cannot reassemble a split rune) while still routing ESC/CSI/SS3
// sequences through the byte-at-a-time state machine.
func (d *Decoder) FeedBytes(data []byte) []Key {
	var keys []Key
	i := 0
	for i < len(data) {
		if d.st == stateGround && data[i] >= 0x80 {
			r, size := utf8.DecodeRune(data[i:])
			if r == utf8.RuneError && size <= 1 {
				i++
				continue
			}
			keys = append(keys, RuneKey(r))
			i += size
			continue
		}
		keys = append(keys, d.Feed(data[i])...)
		i++
	}
	return keys
}

func (d *Decoder) feedGround(b byte) []Key {
	if b == 0x1b {
		d.st = stateEscape
		d.escAt = d.now()
		d.buf = d.buf[:0]
		return nil
	}
	if b == 0x7f {
		return []Key{FuncKey(FuncBackspace, false, false, false)}
	}
	if b == '\r' || b == '\n' {
		return []Key{FuncKey(FuncEnter, false, false, false)}
	}
	if b == '\t' {
		return []Key{FuncKey(FuncTab, false, false, false)}
	}
	if b < 0x20 {
		if b >= 0x1c {
			// 0x1c..0x1f are C-\ C-] C-^ C-_.
			return []Key{Ctrl(rune(b) + '@')}
		}
		return []Key{Ctrl(rune(b) + 'a' - 1)}
	}
	if b < 0x80 {
		return []Key{RuneKey(rune(b))}
	}
	// UTF-8 continuation byte arriving outside a multi-byte decode
	// (stateless single-byte feed can't assemble multi-byte runes on
	// its own); the caller is expected to use FeedBytes for full
	// UTF-8 text. Treat defensively as replacement.
	return []Key{RuneKey(utf8.RuneError)}
}

func (d *Decoder) feedEscape(b byte) []Key {
	switch b {
	case '[':
		d.st = stateCSI
		d.buf = d.buf[:0]
		return nil
	case 'O': // SS3 (function keys on some terminals)
		d.st = stateCSI
		d.buf = append(d.buf[:0], 'O')
		return nil
	}
	d.st = stateGround
	// ESC followed immediately by a printable ASCII byte is an M- key.
	if b >= 0x20 && b < 0x7f {
		return []Key{Key{Kind: KindRune, Rune: rune(b), Meta: true}}
	}
	// Unrecognized follow-up: emit bare ESC, then reprocess b in ground.
	keys := []Key{FuncKey(FuncEscape, false, false, false)}
	return append(keys, d.feedGround(b)...)
}

func (d *Decoder) feedCSI(b byte) []Key {
	if (b >= '0' && b <= '9') || b == ';' || b == '<' {
		d.buf = append(d.buf, b)
		return nil
	}
	final := b
	seq := string(d.buf)
	d.st = stateGround

	if strings.HasPrefix(seq, "<") {
		return d.decodeMouse(seq[1:], final)
	}
	if len(d.buf) > 0 && d.buf[0] == 'O' {
		return d.decodeSS3(final)
	}
	return d.decodeCSI(seq, final)
}

// EscTimedOut is called by the controller's poll loop when EscTimeout
// elapses with the decoder parked in stateEscape and no further byte
// arrived: a bare ESC is emitted (§4.8).
func (d *Decoder) EscTimedOut() []Key {
	if d.st != stateEscape {
		return nil
	}
	if d.now().Sub(d.escAt) < EscTimeout {
		return nil
	}
	d.st = stateGround
	return []Key{FuncKey(FuncEscape, false, false, false)}
}

// Pending reports whether a partial sequence is being accumulated
// (ESC or CSI state), so the controller knows not to treat input as
// idle yet.
func (d *Decoder) Pending() bool { return d.st != stateGround }

func parseParams(seq string) []int {
	if seq == "" {
		return nil
	}
	fields := strings.Split(seq, ";")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			n = 0
		}
		out = append(out, n)
	}
	return out
}

// modifierBits decodes the CSI modifier parameter (1=none, 2=shift,
// 3=alt, 4=shift+alt, 5=ctrl, 6=shift+ctrl, 7=alt+ctrl, 8=shift+alt+ctrl).
func modifierBits(m int) (ctrl, meta, shift bool) {
	if m <= 0 {
		return false, false, false
	}
	v := m - 1
	shift = v&1 != 0
	meta = v&2 != 0
	ctrl = v&4 != 0
	return
}

func (d *Decoder) decodeCSI(seq string, final byte) []Key {
	params := parseParams(seq)
	mod := 0
	if len(params) >= 2 {
		mod = params[1]
	}
	ctrl, meta, shift := modifierBits(mod)

	switch final {
	case 'A':
		return []Key{FuncKey(FuncUp, ctrl, meta, shift)}
	case 'B':
		return []Key{FuncKey(FuncDown, ctrl, meta, shift)}
	case 'C':
		return []Key{FuncKey(FuncRight, ctrl, meta, shift)}
	case 'D':
		return []Key{FuncKey(FuncLeft, ctrl, meta, shift)}
	case 'H':
		return []Key{FuncKey(FuncHome, ctrl, meta, shift)}
	case 'F':
		return []Key{FuncKey(FuncEnd, ctrl, meta, shift)}
	case 'Z':
		return []Key{FuncKey(FuncTab, false, false, true)} // S-Tab
	case '~':
		if len(params) == 0 {
			return nil
		}
		if len(params) >= 2 {
			ctrl, meta, shift = modifierBits(params[1])
		}
		switch params[0] {
		case 1:
			return []Key{FuncKey(FuncHome, ctrl, meta, shift)}
		case 2:
			return []Key{FuncKey(FuncInsert, ctrl, meta, shift)}
		case 3:
			return []Key{FuncKey(FuncDelete, ctrl, meta, shift)}
		case 4:
			return []Key{FuncKey(FuncEnd, ctrl, meta, shift)}
		case 5:
			return []Key{FuncKey(FuncPageUp, ctrl, meta, shift)}
		case 6:
			return []Key{FuncKey(FuncPageDown, ctrl, meta, shift)}
		case 15:
			return []Key{FuncKey(FuncF5, ctrl, meta, shift)}
		case 17:
			return []Key{FuncKey(FuncF6, ctrl, meta, shift)}
		case 18:
			return []Key{FuncKey(FuncF7, ctrl, meta, shift)}
		case 19:
			return []Key{FuncKey(FuncF8, ctrl, meta, shift)}
		case 20:
			return []Key{FuncKey(FuncF9, ctrl, meta, shift)}
		case 21:
			return []Key{FuncKey(FuncF10, ctrl, meta, shift)}
		case 23:
			return []Key{FuncKey(FuncF11, ctrl, meta, shift)}
		case 24:
			return []Key{FuncKey(FuncF12, ctrl, meta, shift)}
		}
	}
	return nil // malformed / unrecognized: dropped, never partially applied
}

func (d *Decoder) decodeSS3(final byte) []Key {
	switch final {
	case 'A':
		return []Key{FuncKey(FuncUp, false, false, false)}
	case 'B':
		return []Key{FuncKey(FuncDown, false, false, false)}
	case 'C':
		return []Key{FuncKey(FuncRight, false, false, false)}
	case 'D':
		return []Key{FuncKey(FuncLeft, false, false, false)}
	case 'H':
		return []Key{FuncKey(FuncHome, false, false, false)}
	case 'F':
		return []Key{FuncKey(FuncEnd, false, false, false)}
	case 'P':
		return []Key{FuncKey(FuncF1, false, false, false)}
	case 'Q':
		return []Key{FuncKey(FuncF2, false, false, false)}
	case 'R':
		return []Key{FuncKey(FuncF3, false, false, false)}
	case 'S':
		return []Key{FuncKey(FuncF4, false, false, false)}
	}
	return nil
}

// decodeMouse parses an SGR mouse report body "b;x;y" plus the final
// byte ('M' press, 'm' release). Horizontal scroll-wheel events are
// always decoded; the controller drops them when track_lateral is
// disabled (§4.8/§6).
func (d *Decoder) decodeMouse(body string, final byte) []Key {
	parts := strings.Split(body, ";")
	if len(parts) != 3 {
		return nil
	}
	b, err1 := strconv.Atoi(parts[0])
	x, err2 := strconv.Atoi(parts[1])
	y, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return nil
	}

	k := Key{Kind: KindMouse, Row: y, Col: x}
	switch {
	case b&64 != 0:
		switch b & 3 {
		case 0:
			k.Mouse = MouseScrollUp
		case 1:
			k.Mouse = MouseScrollDown
		case 2:
			k.Mouse = MouseScrollLeft
		case 3:
			k.Mouse = MouseScrollRight
		}
	case final == 'm':
		k.Mouse = MouseRelease
	default:
		k.Mouse = MousePress
	}
	return []Key{k}
}

// IsLateral reports whether a mouse event is a lateral (left/right)
// scroll, used by the controller to suppress it when track_lateral is
// disabled.
func (k Key) IsLateral() bool {
	return k.Kind == KindMouse && (k.Mouse == MouseScrollLeft || k.Mouse == MouseScrollRight)
}
