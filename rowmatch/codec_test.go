package rowmatch

import (
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/sigrowio/sigindex"
	"github.com/sigrowio/sigindex/errs"
)

func buildSampleTree(arena Arena) *RowMatchNode {
	a := CreateRowNode(AbstractRow{RowId: sigindex.RowId{Rank: 0, RowIndex: 1}}, arena)
	b := CreateRowNode(AbstractRow{RowId: sigindex.RowId{Rank: 1, RowIndex: 2}, Inverted: true}, arena)
	and := NewBuilder(NodeAnd, arena).AddChild(a).AddChild(b).Complete()
	return CreateReportNode(and, arena)
}

// TestFormatParse_RoundTrip verifies that a parsed, re-formatted,
// re-parsed tree is structurally indistinguishable from the original.
func TestFormatParse_RoundTrip(t *testing.T) {
	convey.Convey("format then parse reconstructs an equivalent tree", t, func() {
		arena := NewBumpArena(1024)
		original := buildSampleTree(arena)

		data, err := Format(original)
		convey.So(err, convey.ShouldBeNil)

		parseArena := NewBumpArena(1024)
		reconstructed, err := Parse(data, parseArena)
		convey.So(err, convey.ShouldBeNil)

		convey.So(reconstructed.Type(), convey.ShouldEqual, NodeReport)
		convey.So(reconstructed.Child().Type(), convey.ShouldEqual, NodeAnd)
		convey.So(reconstructed.Child().Left().Row(), convey.ShouldResemble, original.Child().Left().Row())
		convey.So(reconstructed.Child().Right().Row(), convey.ShouldResemble, original.Child().Right().Row())

		reformatted, err := Format(reconstructed)
		convey.So(err, convey.ShouldBeNil)
		convey.So(string(reformatted), convey.ShouldEqual, string(data))
	})

	convey.Convey("a nil tree formats to and parses from JSON null", t, func() {
		data, err := Format(nil)
		convey.So(err, convey.ShouldBeNil)
		convey.So(string(data), convey.ShouldEqual, "null")

		arena := NewBumpArena(64)
		n, err := Parse(data, arena)
		convey.So(err, convey.ShouldBeNil)
		convey.So(n, convey.ShouldBeNil)
	})
}

func TestParse_MalformedPlan(t *testing.T) {
	convey.Convey("wrong And/Or child arity is rejected", t, func() {
		arena := NewBumpArena(64)
		_, err := Parse([]byte(`{"type":"And","children":[{"type":"Row","rank":0,"row_index":1}]}`), arena)
		convey.So(errors.Is(err, errs.ErrMalformedPlan), convey.ShouldBeTrue)
	})

	convey.Convey("a Not node missing its child is rejected", t, func() {
		arena := NewBumpArena(64)
		_, err := Parse([]byte(`{"type":"Not"}`), arena)
		convey.So(errors.Is(err, errs.ErrMalformedPlan), convey.ShouldBeTrue)
	})

	convey.Convey("a Not directly wrapping a Row is rejected", t, func() {
		arena := NewBumpArena(64)
		_, err := Parse([]byte(`{"type":"Not","child":{"type":"Row","rank":0,"row_index":1}}`), arena)
		convey.So(errors.Is(err, errs.ErrMalformedPlan), convey.ShouldBeTrue)
	})

	convey.Convey("an unknown node type tag is rejected", t, func() {
		arena := NewBumpArena(64)
		_, err := Parse([]byte(`{"type":"Xor"}`), arena)
		convey.So(errors.Is(err, errs.ErrMalformedPlan), convey.ShouldBeTrue)
	})
}

func TestDumpStructure(t *testing.T) {
	convey.Convey("DumpStructure exercises the ObjectCodec contract without erroring", t, func() {
		arena := NewBumpArena(1024)
		tree := buildSampleTree(arena)

		codec := NewJSONDumpCodec()
		convey.So(DumpStructure(tree, codec), convey.ShouldBeNil)
		convey.So(codec.String(), convey.ShouldContainSubstring, `"type": "Report"`)
		convey.So(codec.String(), convey.ShouldContainSubstring, `"type": "And"`)
	})
}
