package rowmatch

import (
	"encoding/json"
	"fmt"

	"github.com/sigrowio/sigindex"
	"github.com/sigrowio/sigindex/errs"
)

// ObjectCodec is the generic tagged-tree writer the plan tree's structure
// can be projected onto: open/close brackets for objects and lists, a
// type tag per object, nothing else. It is the external "object codec"
// collaborator the format layer is built against -- the plan tree itself
// is agnostic to the concrete syntax underneath.
type ObjectCodec interface {
	OpenObject() error
	CloseObject() error
	WriteTypeTag(tag string) error
	OpenObjectField(name string) error
	OpenList() error
	CloseList() error
	OpenListItem(i int) error
	OpenPrimitive() error
	ClosePrimitive() error
	NullValue() error
}

// DumpStructure walks node and emits its shape (node types and arity,
// not row payloads) through codec. It exists to exercise ObjectCodec's
// generic tagged-tree contract independently of Format/Parse's wire
// format.
func DumpStructure(node *RowMatchNode, codec ObjectCodec) error {
	if node == nil {
		return codec.NullValue()
	}
	if err := codec.OpenObject(); err != nil {
		return err
	}
	if err := codec.WriteTypeTag(node.nodeType.String()); err != nil {
		return err
	}
	switch node.nodeType {
	case NodeAnd, NodeOr:
		if err := codec.OpenObjectField("children"); err != nil {
			return err
		}
		if err := codec.OpenList(); err != nil {
			return err
		}
		children := []*RowMatchNode{node.left, node.right}
		for i, c := range children {
			if err := codec.OpenListItem(i); err != nil {
				return err
			}
			if err := DumpStructure(c, codec); err != nil {
				return err
			}
		}
		if err := codec.CloseList(); err != nil {
			return err
		}
	case NodeNot, NodeReport:
		if err := codec.OpenObjectField("child"); err != nil {
			return err
		}
		if err := DumpStructure(node.child, codec); err != nil {
			return err
		}
	case NodeRow:
		if err := codec.OpenObjectField("row"); err != nil {
			return err
		}
		if err := codec.OpenPrimitive(); err != nil {
			return err
		}
		if err := codec.ClosePrimitive(); err != nil {
			return err
		}
	}
	return codec.CloseObject()
}

// planWire is the on-the-wire shape used by Format/Parse, one level per
// RowMatchNode. Row payloads are flattened directly rather than routed
// through ObjectCodec's generic primitive bracket, since the row fields
// have a fixed, known shape.
type planWire struct {
	Type     string      `json:"type"`
	Children []*planWire `json:"children,omitempty"`
	Child    *planWire   `json:"child,omitempty"`
	Rank     *uint8      `json:"rank,omitempty"`
	RowIndex *uint32     `json:"row_index,omitempty"`
	Inverted bool        `json:"inverted,omitempty"`
}

func toWire(n *RowMatchNode) *planWire {
	if n == nil {
		return nil
	}
	w := &planWire{Type: n.nodeType.String()}
	switch n.nodeType {
	case NodeAnd, NodeOr:
		w.Children = []*planWire{toWire(n.left), toWire(n.right)}
	case NodeNot:
		w.Child = toWire(n.child)
	case NodeReport:
		w.Child = toWire(n.child)
	case NodeRow:
		rank := uint8(n.row.RowId.Rank)
		idx := n.row.RowId.RowIndex
		w.Rank = &rank
		w.RowIndex = &idx
		w.Inverted = n.row.Inverted
	}
	return w
}

func fromWire(w *planWire, arena Arena) (*RowMatchNode, error) {
	if w == nil {
		return nil, nil
	}
	switch w.Type {
	case "And", "Or":
		if len(w.Children) != 2 {
			return nil, fmt.Errorf("rowmatch: %s node needs exactly 2 children, got %d: %w",
				w.Type, len(w.Children), errs.ErrMalformedPlan)
		}
		left, err := fromWire(w.Children[0], arena)
		if err != nil {
			return nil, err
		}
		right, err := fromWire(w.Children[1], arena)
		if err != nil {
			return nil, err
		}
		n := newNode(arena)
		if w.Type == "And" {
			n.nodeType = NodeAnd
		} else {
			n.nodeType = NodeOr
		}
		n.left, n.right = left, right
		return n, nil
	case "Not":
		if w.Child == nil {
			return nil, fmt.Errorf("rowmatch: Not node requires a child: %w", errs.ErrMalformedPlan)
		}
		child, err := fromWire(w.Child, arena)
		if err != nil {
			return nil, err
		}
		if child.nodeType == NodeNot || child.nodeType == NodeRow {
			return nil, fmt.Errorf("rowmatch: Not node may not wrap a %v directly: %w", child.nodeType, errs.ErrMalformedPlan)
		}
		n := newNode(arena)
		n.nodeType = NodeNot
		n.child = child
		return n, nil
	case "Report":
		child, err := fromWire(w.Child, arena)
		if err != nil {
			return nil, err
		}
		n := newNode(arena)
		n.nodeType = NodeReport
		n.child = child
		return n, nil
	case "Row":
		if w.Rank == nil || w.RowIndex == nil {
			return nil, fmt.Errorf("rowmatch: Row node missing rank/row_index: %w", errs.ErrMalformedPlan)
		}
		n := newNode(arena)
		n.nodeType = NodeRow
		n.row = AbstractRow{
			RowId:    sigindex.RowId{Rank: sigindex.Rank(*w.Rank), RowIndex: *w.RowIndex},
			Inverted: w.Inverted,
		}
		return n, nil
	default:
		return nil, fmt.Errorf("rowmatch: unknown node type tag %q: %w", w.Type, errs.ErrMalformedPlan)
	}
}

// Format serializes node into a byte-exact JSON rendering of the plan
// tree. A nil node formats to JSON null.
func Format(node *RowMatchNode) ([]byte, error) {
	return json.Marshal(toWire(node))
}

// Parse reconstructs a RowMatchNode tree from Format's output, allocating
// every node into arena. It returns errs.ErrMalformedPlan (wrapped) for
// any structural violation: wrong And/Or arity, a missing required Not
// child, a Not directly wrapping a Not or a Row, or an unrecognized node
// type tag.
func Parse(data []byte, arena Arena) (*RowMatchNode, error) {
	var w *planWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("rowmatch: malformed plan JSON: %w", errs.ErrMalformedPlan)
	}
	return fromWire(w, arena)
}
