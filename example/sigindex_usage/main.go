package main

import (
	"fmt"
	"hash/fnv"

	"github.com/RoaringBitmap/roaring/roaring64"

	"github.com/sigrowio/sigindex"
	"github.com/sigrowio/sigindex/internal/assert"
	"github.com/sigrowio/sigindex/rowmatch"
	"github.com/sigrowio/sigindex/scan"
)

func main() {
	treatment, err := sigindex.NewPrivateSharedRank0(0.1, 10)
	assert.PanicIfErr(err, "treatment config out of range")

	redTerm := sigindex.NewTerm(hash("red"), 5, 1)
	packetTerm := sigindex.NewTerm(hash("packet"), 5, 1)

	table := sigindex.NewTermTable()

	table.OpenTerm()
	table.AddRowId(sigindex.RowId{Rank: 0, RowIndex: 1})
	assert.PanicIfErr(table.CloseTerm(redTerm.Hash), "unexpected duplicate term")

	table.OpenTerm()
	table.AddRowId(sigindex.RowId{Rank: 0, RowIndex: 2})
	assert.PanicIfErr(table.CloseTerm(packetTerm.Hash), "unexpected duplicate term")

	table.SetFactRowCount(0)
	table.SetRowCounts(0, 10, 2, 0)
	_ = treatment // a real builder consults treatment.GetTreatment per term before allocating rows
	table.Seal()

	sigs := scan.NewRowSignatures()
	sigs.AddDocument(sigindex.RowId{Rank: 0, RowIndex: 1}, 100) // doc 100 mentions "red"
	sigs.AddDocument(sigindex.RowId{Rank: 0, RowIndex: 1}, 101)
	sigs.AddDocument(sigindex.RowId{Rank: 0, RowIndex: 2}, 101) // doc 101 mentions "packet" too
	universe := roaring64.BitmapOf(100, 101, 102)

	arena := rowmatch.NewBumpArena(1024)
	redSeq := table.GetRows(redTerm)
	packetSeq := table.GetRows(packetTerm)
	redRow := rowmatch.CreateRowNode(rowmatch.AbstractRow{
		RowId: table.GetRowIdExplicit(int(redSeq.Start)),
	}, arena)
	packetRow := rowmatch.CreateRowNode(rowmatch.AbstractRow{
		RowId: table.GetRowIdExplicit(int(packetSeq.Start)),
	}, arena)

	plan := rowmatch.NewBuilder(rowmatch.NodeAnd, arena).
		AddChild(redRow).
		AddChild(packetRow).
		Complete()
	report := rowmatch.CreateReportNode(plan, arena)

	formatted, err := rowmatch.Format(report)
	assert.PanicIfErr(err, "plan should always format")
	fmt.Println("plan:", string(formatted))

	matches := scan.Eval(report, sigs, universe)
	fmt.Println("documents matching \"red packet\":", matches.ToArray())
}

func hash(s string) uint64 {
	h := fnv.New64()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
