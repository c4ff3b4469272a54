package scan

import (
	"testing"

	"github.com/RoaringBitmap/roaring/roaring64"
	"github.com/smartystreets/goconvey/convey"

	"github.com/sigrowio/sigindex"
	"github.com/sigrowio/sigindex/rowmatch"
)

func rowNode(arena rowmatch.Arena, row sigindex.RowId, inverted bool) *rowmatch.RowMatchNode {
	return rowmatch.CreateRowNode(rowmatch.AbstractRow{RowId: row, Inverted: inverted}, arena)
}

func bitmapOf(ids ...uint64) *roaring64.Bitmap {
	bm := roaring64.New()
	for _, id := range ids {
		bm.Add(id)
	}
	return bm
}

func TestEval_AndOr(t *testing.T) {
	convey.Convey("And intersects, Or unions", t, func() {
		arena := rowmatch.NewBumpArena(1024)
		rowA := sigindex.RowId{Rank: 0, RowIndex: 1}
		rowB := sigindex.RowId{Rank: 0, RowIndex: 2}

		sigs := NewRowSignatures()
		sigs.AddDocument(rowA, 1)
		sigs.AddDocument(rowA, 2)
		sigs.AddDocument(rowB, 2)
		sigs.AddDocument(rowB, 3)

		universe := bitmapOf(1, 2, 3)

		and := rowmatch.NewBuilder(rowmatch.NodeAnd, arena).
			AddChild(rowNode(arena, rowA, false)).
			AddChild(rowNode(arena, rowB, false)).
			Complete()
		convey.So(Eval(and, sigs, universe).ToArray(), convey.ShouldResemble, []uint64{2})

		or := rowmatch.NewBuilder(rowmatch.NodeOr, arena).
			AddChild(rowNode(arena, rowA, false)).
			AddChild(rowNode(arena, rowB, false)).
			Complete()
		convey.So(Eval(or, sigs, universe).ToArray(), convey.ShouldResemble, []uint64{1, 2, 3})
	})
}

func TestEval_InvertedRow(t *testing.T) {
	convey.Convey("an inverted Row matches documents missing the row's bit", t, func() {
		arena := rowmatch.NewBumpArena(256)
		row := sigindex.RowId{Rank: 0, RowIndex: 1}

		sigs := NewRowSignatures()
		sigs.AddDocument(row, 1)

		universe := bitmapOf(1, 2, 3)
		node := rowNode(arena, row, true)

		convey.So(Eval(node, sigs, universe).ToArray(), convey.ShouldResemble, []uint64{2, 3})
	})
}

func TestEval_Not(t *testing.T) {
	convey.Convey("a Not node complements its child against the universe", t, func() {
		arena := rowmatch.NewBumpArena(256)
		row := sigindex.RowId{Rank: 0, RowIndex: 1}

		sigs := NewRowSignatures()
		sigs.AddDocument(row, 1)
		sigs.AddDocument(row, 2)

		universe := bitmapOf(1, 2, 3)
		and := rowmatch.NewBuilder(rowmatch.NodeAnd, arena).
			AddChild(rowNode(arena, row, false)).
			AddChild(rowNode(arena, sigindex.RowId{Rank: 0, RowIndex: 2}, false)).
			Complete()
		not := rowmatch.NewBuilder(rowmatch.NodeNot, arena).AddChild(and).Complete()

		convey.So(Eval(not, sigs, universe).ToArray(), convey.ShouldResemble, []uint64{1, 2, 3})
	})
}

func TestEval_Report(t *testing.T) {
	convey.Convey("Report passes through its child's result", t, func() {
		arena := rowmatch.NewBumpArena(256)
		row := sigindex.RowId{Rank: 0, RowIndex: 1}
		sigs := NewRowSignatures()
		sigs.AddDocument(row, 5)
		universe := bitmapOf(5)

		report := rowmatch.CreateReportNode(rowNode(arena, row, false), arena)
		convey.So(Eval(report, sigs, universe).ToArray(), convey.ShouldResemble, []uint64{5})
	})
}

func TestEval_NilNode(t *testing.T) {
	convey.Convey("a nil node evaluates to the empty set", t, func() {
		convey.So(Eval(nil, NewRowSignatures(), roaring64.New()).IsEmpty(), convey.ShouldBeTrue)
	})
}
