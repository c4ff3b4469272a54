package rowmatch

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/sigrowio/sigindex"
)

func TestCreateRowNode(t *testing.T) {
	convey.Convey("a Row node exposes its payload and nothing else", t, func() {
		arena := NewBumpArena(64)
		n := CreateRowNode(AbstractRow{RowId: sigindex.RowId{Rank: 2, RowIndex: 5}, Inverted: true}, arena)

		convey.So(n.Type(), convey.ShouldEqual, NodeRow)
		convey.So(n.Row().RowId, convey.ShouldResemble, sigindex.RowId{Rank: 2, RowIndex: 5})
		convey.So(n.Row().Inverted, convey.ShouldBeTrue)
		convey.So(n.Left(), convey.ShouldBeNil)
		convey.So(n.Right(), convey.ShouldBeNil)
		convey.So(n.Child(), convey.ShouldBeNil)
	})
}

func TestCreateReportNode(t *testing.T) {
	convey.Convey("a Report node may wrap a nil or non-nil child", t, func() {
		arena := NewBumpArena(64)
		leaf := CreateRowNode(AbstractRow{RowId: sigindex.RowId{Rank: 0, RowIndex: 1}}, arena)

		report := CreateReportNode(leaf, arena)
		convey.So(report.Type(), convey.ShouldEqual, NodeReport)
		convey.So(report.Child(), convey.ShouldEqual, leaf)

		empty := CreateReportNode(nil, arena)
		convey.So(empty.Child(), convey.ShouldBeNil)
	})
}

func TestNodeType_String(t *testing.T) {
	convey.Convey("every variant has a readable name", t, func() {
		convey.So(NodeAnd.String(), convey.ShouldEqual, "And")
		convey.So(NodeOr.String(), convey.ShouldEqual, "Or")
		convey.So(NodeNot.String(), convey.ShouldEqual, "Not")
		convey.So(NodeRow.String(), convey.ShouldEqual, "Row")
		convey.So(NodeReport.String(), convey.ShouldEqual, "Report")
	})
}
