package sigindex

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestTerm_ClampedIdfX10(t *testing.T) {
	convey.Convey("clamped idf stays inside [0, MaxIdfX10Value]", t, func() {
		convey.So(NewTerm(1, -5, 1).ClampedIdfX10(), convey.ShouldEqual, 0)
		convey.So(NewTerm(1, 30, 1).ClampedIdfX10(), convey.ShouldEqual, 30)
		convey.So(NewTerm(1, MaxIdfX10Value, 1).ClampedIdfX10(), convey.ShouldEqual, MaxIdfX10Value)
		convey.So(NewTerm(1, MaxIdfX10Value+5, 1).ClampedIdfX10(), convey.ShouldEqual, MaxIdfX10Value)
	})
}

func TestTerm_ClampedGramSize(t *testing.T) {
	convey.Convey("clamped gram size stays inside [1, MaxGramSize]", t, func() {
		convey.So(NewTerm(1, 0, 0).ClampedGramSize(), convey.ShouldEqual, 1)
		convey.So(NewTerm(1, 0, 2).ClampedGramSize(), convey.ShouldEqual, 2)
		convey.So(NewTerm(1, 0, MaxGramSize+10).ClampedGramSize(), convey.ShouldEqual, MaxGramSize)
	})
}

func TestIdfX10ToFrequency(t *testing.T) {
	convey.Convey("idf converts to frequency as a power of ten", t, func() {
		convey.So(IdfX10ToFrequency(0), convey.ShouldEqual, 1)
		convey.So(IdfX10ToFrequency(10), convey.ShouldAlmostEqual, 0.1, 1e-9)
		convey.So(IdfX10ToFrequency(30), convey.ShouldAlmostEqual, 0.001, 1e-9)
	})
}
