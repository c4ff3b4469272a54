package rowmatch

import (
	"github.com/sigrowio/sigindex"
	"github.com/sigrowio/sigindex/internal/assert"
)

// Builder accumulates children into a single And, Or, or Not node,
// applying the plan tree's algebraic rewrites as each child arrives
// rather than as a later normalization pass.
type Builder struct {
	nodeType  NodeType
	arena     Arena
	acc       *RowMatchNode
	notFilled bool
}

// NewBuilder starts a fresh builder targeting nodeType, which must be
// NodeAnd, NodeOr, or NodeNot.
func NewBuilder(nodeType NodeType, arena Arena) *Builder {
	assert.PanicIf(nodeType != NodeAnd && nodeType != NodeOr && nodeType != NodeNot,
		"rowmatch: builder target type must be And, Or, or Not, got %v", nodeType)
	return &Builder{nodeType: nodeType, arena: arena}
}

// NewBuilderFrom seeds a builder from an existing subtree. If parent is a
// Row node it becomes the accumulator and the builder defaults to
// And-type for subsequent children; for any other non-nil parent, the
// builder inherits parent's own type so further children extend the same
// kind of tree. A nil parent starts an empty And-type builder.
func NewBuilderFrom(parent *RowMatchNode, arena Arena) *Builder {
	b := &Builder{arena: arena, nodeType: NodeAnd}
	if parent == nil {
		return b
	}
	b.acc = parent
	if parent.nodeType != NodeRow {
		b.nodeType = parent.nodeType
		b.notFilled = parent.nodeType == NodeNot
	}
	return b
}

// AddChild folds node into the accumulator per the builder's target type.
// A nil node is dropped silently. Returns the builder for chaining.
func (b *Builder) AddChild(node *RowMatchNode) *Builder {
	if node == nil {
		return b
	}
	switch b.nodeType {
	case NodeAnd, NodeOr:
		b.addAndOr(node)
	case NodeNot:
		if b.notFilled {
			sigindex.LogErr("rowmatch: Not builder already has a child, rejecting a second one\n")
		}
		assert.PanicIf(b.notFilled, "rowmatch: Not accepts at most one child")
		b.notFilled = true
		b.addNot(node)
	default:
		assert.PanicIf(true, "rowmatch: builder has no target type")
	}
	return b
}

// addAndOr implements the right-leaning accumulation: the first child
// becomes the accumulator outright; each subsequent child c produces a
// fresh node of the builder's type with c on the left and the current
// accumulator on the right.
func (b *Builder) addAndOr(node *RowMatchNode) {
	if b.acc == nil {
		b.acc = node
		return
	}
	fresh := newNode(b.arena)
	fresh.nodeType = b.nodeType
	fresh.left = node
	fresh.right = b.acc
	b.acc = fresh
}

// addNot implements Not's three cases: double-negation elimination,
// Not-over-Row fusion into the row's Inverted flag, or a plain wrap.
func (b *Builder) addNot(child *RowMatchNode) {
	switch child.nodeType {
	case NodeNot:
		b.acc = child.child
	case NodeRow:
		fused := newNode(b.arena)
		fused.nodeType = NodeRow
		fused.row = AbstractRow{RowId: child.row.RowId, Inverted: !child.row.Inverted}
		b.acc = fused
	default:
		wrapper := newNode(b.arena)
		wrapper.nodeType = NodeNot
		wrapper.child = child
		b.acc = wrapper
	}
}

// Complete returns the accumulated node, or nil if no child was ever
// added.
func (b *Builder) Complete() *RowMatchNode {
	return b.acc
}
