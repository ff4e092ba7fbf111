package level

import (
	"errors"

	"github.com/Simula-UiB/CRHS/gf2"
)

// Sentinel errors for level-level operations.
var (
	// ErrZeroLabel indicates an attempt to construct a Level with the zero form as its label.
	ErrZeroLabel = errors.New("level: label must be non-zero")

	// ErrNodeNotFound indicates an operation referenced a node index that is not live.
	ErrNodeNotFound = errors.New("level: node not found")

	// ErrBothDangling indicates a node would have both edges dangling on a non-terminal level.
	ErrBothDangling = errors.New("level: both edges dangling on a non-terminal level")
)

// EdgeKind classifies where a Node's edge points.
type EdgeKind uint8

const (
	// Dangling marks an edge as having no completion: the partial path through it is false.
	Dangling EdgeKind = iota
	// ToNext marks an edge as pointing at a node on the next Level.
	ToNext
	// ToSink marks an edge as pointing directly at the equation's sink.
	ToSink
)

// NodeIndex identifies a Node within the Level that owns it. It is
// only meaningful relative to that Level; passing it to a different
// Level is a programming error.
type NodeIndex int

// NodeRef is one outgoing edge of a Node.
type NodeRef struct {
	Kind   EdgeKind
	Target NodeIndex // valid only when Kind == ToNext
}

// DanglingRef is the canonical dangling edge.
func DanglingRef() NodeRef { return NodeRef{Kind: Dangling} }

// SinkRef is the canonical "reaches the sink" edge.
func SinkRef() NodeRef { return NodeRef{Kind: ToSink} }

// ToNextRef builds an edge pointing at node i on the next level.
func ToNextRef(i NodeIndex) NodeRef { return NodeRef{Kind: ToNext, Target: i} }

// Node is one vertex on a Level: exactly two outgoing edges, taken
// when the level's label evaluates to 0 or 1 respectively along a
// given path.
type Node struct {
	Edge0 NodeRef
	Edge1 NodeRef
}

// bothDangling reports whether both of n's edges are dangling.
func (n Node) bothDangling() bool {
	return n.Edge0.Kind == Dangling && n.Edge1.Kind == Dangling
}

// Level owns an unordered collection of Nodes sharing one non-zero
// label and a position index within its equation.
//
// Maximal sharing (no two live nodes with identical edge pairs) is
// maintained incrementally by InsertNode and can be re-established in
// bulk, after external edits change edge targets, via Rebuild.
type Level struct {
	position int
	label    gf2.Form
	nodes    []Node
	live     []bool                // live[i] is false once node i has been dropped
	index    map[Node]NodeIndex    // edge-pair -> live node index, for maximal sharing
	free     []NodeIndex           // reusable slots left behind by DropNode
}

// New returns an empty Level at position with the given non-zero label.
func New(position int, label gf2.Form) (*Level, error) {
	if label.IsZero() {
		return nil, ErrZeroLabel
	}
	return newUnchecked(position, label), nil
}

// NewTrivialSink builds the one documented exception to "labels are
// non-zero": the sole level of a trivial equation, whose
// zero-form label plays no discriminating role — every path through
// it takes the same edge regardless of any variable's value.
func NewTrivialSink(width int) *Level {
	return newUnchecked(0, gf2.NewForm(width))
}

func newUnchecked(position int, label gf2.Form) *Level {
	return &Level{
		position: position,
		label:    label,
		index:    make(map[Node]NodeIndex),
	}
}

// Position returns this level's index within its owning equation.
func (lv *Level) Position() int { return lv.position }

// SetPosition updates this level's recorded position; used by
// crhs.Equation when levels are reordered (swap) or removed (fix collapse).
func (lv *Level) SetPosition(p int) { lv.position = p }

// Label returns this level's linear form.
func (lv *Level) Label() gf2.Form { return lv.label }

// SetLabel replaces this level's label in place, e.g. after fix
// substitutes variables out of it. The caller is responsible for the
// zero-form collapse semantics described in crhs.Equation.Fix.
func (lv *Level) SetLabel(f gf2.Form) { lv.label = f }

// NodeCount returns the number of live nodes on this level.
func (lv *Level) NodeCount() int {
	n := 0
	for _, ok := range lv.live {
		if ok {
			n++
		}
	}
	return n
}

// Node returns the node at index i and whether it is live.
func (lv *Level) Node(i NodeIndex) (Node, bool) {
	if int(i) < 0 || int(i) >= len(lv.nodes) || !lv.live[i] {
		return Node{}, false
	}
	return lv.nodes[i], true
}

// Nodes returns the indices of all live nodes, in index order.
func (lv *Level) Nodes() []NodeIndex {
	out := make([]NodeIndex, 0, len(lv.nodes))
	for i, ok := range lv.live {
		if ok {
			out = append(out, NodeIndex(i))
		}
	}
	return out
}

// Clone returns an independent deep copy of lv, for the snapshot-and-
// restore rollback crhs.Equation.Clone performs around a transform.
func (lv *Level) Clone() *Level {
	out := &Level{
		position: lv.position,
		label:    lv.label.Clone(),
		nodes:    make([]Node, len(lv.nodes)),
		live:     make([]bool, len(lv.live)),
		free:     make([]NodeIndex, len(lv.free)),
		index:    make(map[Node]NodeIndex, len(lv.index)),
	}
	copy(out.nodes, lv.nodes)
	copy(out.live, lv.live)
	copy(out.free, lv.free)
	for k, v := range lv.index {
		out.index[k] = v
	}
	return out
}
