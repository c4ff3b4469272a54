package scan

import (
	"github.com/RoaringBitmap/roaring/roaring64"

	"github.com/sigrowio/sigindex/rowmatch"
)

// Eval walks node and returns the set of document IDs it matches against
// sigs. universe is the full document ID range, needed to complement a
// Not node or an inverted Row (roaring bitmaps have no built-in notion of
// "everything not in this set").
func Eval(node *rowmatch.RowMatchNode, sigs *RowSignatures, universe *roaring64.Bitmap) *roaring64.Bitmap {
	if node == nil {
		return roaring64.New()
	}

	switch node.Type() {
	case rowmatch.NodeAnd:
		result := Eval(node.Left(), sigs, universe)
		result.And(Eval(node.Right(), sigs, universe))
		return result

	case rowmatch.NodeOr:
		result := Eval(node.Left(), sigs, universe)
		result.Or(Eval(node.Right(), sigs, universe))
		return result

	case rowmatch.NodeNot:
		result := universe.Clone()
		result.AndNot(Eval(node.Child(), sigs, universe))
		return result

	case rowmatch.NodeRow:
		if node.Row().Inverted {
			result := universe.Clone()
			result.AndNot(sigs.Get(node.Row().RowId))
			return result
		}
		return sigs.Get(node.Row().RowId).Clone()

	case rowmatch.NodeReport:
		return Eval(node.Child(), sigs, universe)

	default:
		return roaring64.New()
	}
}
