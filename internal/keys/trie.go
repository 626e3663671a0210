package keys

// Resolution is the outcome of resolving a key sequence against the
// binding trie (§4.9).
type Resolution int

const (
	Incomplete Resolution = iota
	Bound
	Unbound
)

// reserved keys can never be remapped: C-q (quit), C-g (cancel), and
// the bare ESC prefix (always starts the M- timing window / cancel).
var reserved = map[string]bool{
	"C-q":    true,
	"C-g":    true,
	"ESCAPE": true,
}

type trieNode struct {
	op       string
	hasOp    bool
	children map[string]*trieNode
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[string]*trieNode)}
}

// Trie is a prefix tree over canonical-key sequences, mapping a full
// sequence to an operation id.
type Trie struct {
	root *trieNode
}

// NewTrie creates an empty binding trie.
func NewTrie() *Trie {
	return &Trie{root: newTrieNode()}
}

// Bind registers sequence -> op. Returns false without modifying the
// trie if any key in the sequence is reserved.
func (t *Trie) Bind(sequence []Key, op string) bool {
	for _, k := range sequence {
		if reserved[k.String()] {
			return false
		}
	}
	n := t.root
	for _, k := range sequence {
		s := k.String()
		child, ok := n.children[s]
		if !ok {
			child = newTrieNode()
			n.children[s] = child
		}
		n = child
	}
	n.op = op
	n.hasOp = true
	return true
}

// Resolve walks the trie with the accumulated pending sequence and
// reports Incomplete (keep accumulating), Bound(op), or Unbound (reset
// and optionally message the user).
func (t *Trie) Resolve(sequence []Key) (Resolution, string) {
	n := t.root
	for _, k := range sequence {
		child, ok := n.children[k.String()]
		if !ok {
			return Unbound, ""
		}
		n = child
	}
	if n.hasOp && len(n.children) == 0 {
		return Bound, n.op
	}
	if n.hasOp {
		// A complete binding exists at this node but longer sequences
		// extend it; still resolve eagerly since an extending byte may
		// never arrive (e.g. interactive editing has no notion of
		// "more input is coming").
		return Bound, n.op
	}
	return Incomplete, ""
}

// IsReserved reports whether a single key is one of the fixed,
// unremappable bindings (§4.9).
func IsReserved(k Key) bool { return reserved[k.String()] }

// Walk calls fn once for every complete bound sequence in the trie,
// passing its canonical key strings in order and the operation it
// resolves to. Used by CLI introspection (--describe) to list an
// operation's bound keys without exposing the trie's node structure.
func (t *Trie) Walk(fn func(sequence []string, op string)) {
	var visit func(n *trieNode, prefix []string)
	visit = func(n *trieNode, prefix []string) {
		if n.hasOp {
			fn(append([]string{}, prefix...), n.op)
		}
		for s, child := range n.children {
			visit(child, append(prefix, s))
		}
	}
	visit(t.root, nil)
}
