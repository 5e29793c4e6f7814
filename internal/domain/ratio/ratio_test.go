package ratio_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/okian/creatorscore/internal/domain/ratio"
	. "github.com/smartystreets/goconvey/convey"
)

func TestComputeRatio(t *testing.T) {
	Convey("Given a valuation and a score", t, func() {
		Convey("When the score is positive", func() {
			Convey("Then the ratio is valuation divided by score without rounding", func() {
				So(ratio.ComputeRatio(1000, 100), ShouldEqual, 10)
				So(ratio.ComputeRatio(1, 3), ShouldEqual, 1.0/3.0)
				So(ratio.ComputeRatio(0, 42), ShouldEqual, 0)
			})
		})

		Convey("When the score is zero", func() {
			Convey("Then the ratio is positive infinity for any valuation", func() {
				for _, v := range []float64{0, 1, 500_000, 1e12} {
					So(math.IsInf(ratio.ComputeRatio(v, 0), 1), ShouldBeTrue)
				}
			})
		})

		Convey("When valuation grows with a fixed score", func() {
			Convey("Then the ratio never decreases", func() {
				prev := ratio.ComputeRatio(0, 155)
				for v := 1.0; v < 1e9; v *= 3.7 {
					cur := ratio.ComputeRatio(v, 155)
					So(cur, ShouldBeGreaterThanOrEqualTo, prev)
					prev = cur
				}
			})
		})

		Convey("When score grows with a fixed valuation", func() {
			Convey("Then the ratio never increases", func() {
				prev := ratio.ComputeRatio(2_500_000, 0)
				for s := 0.5; s < 1e6; s *= 2.3 {
					cur := ratio.ComputeRatio(2_500_000, s)
					So(cur, ShouldBeLessThanOrEqualTo, prev)
					prev = cur
				}
			})
		})
	})
}

func TestThresholds_Classify(t *testing.T) {
	Convey("Given the default thresholds", t, func() {
		th := ratio.DefaultThresholds()

		Convey("Then ratios below low are undervalued", func() {
			So(th.Classify(0), ShouldEqual, ratio.Undervalued)
			So(th.Classify(999.99), ShouldEqual, ratio.Undervalued)
			So(th.Classify(math.Nextafter(th.Low, 0)), ShouldEqual, ratio.Undervalued)
		})

		Convey("Then both boundaries are balanced", func() {
			So(th.Classify(th.Low), ShouldEqual, ratio.Balanced)
			So(th.Classify(th.High), ShouldEqual, ratio.Balanced)
			So(th.Classify(3_000), ShouldEqual, ratio.Balanced)
		})

		Convey("Then ratios above high are overvalued", func() {
			So(th.Classify(math.Nextafter(th.High, math.Inf(1))), ShouldEqual, ratio.Overvalued)
			So(th.Classify(1e12), ShouldEqual, ratio.Overvalued)
		})

		Convey("Then an infinite ratio is overvalued", func() {
			So(th.Classify(math.Inf(1)), ShouldEqual, ratio.Overvalued)
		})

		Convey("Then every ratio maps to a known category", func() {
			for r := 0.0; r < 1e7; r = r*1.5 + 1 {
				So(th.Classify(r).Valid(), ShouldBeTrue)
			}
		})
	})

	Convey("Given custom thresholds", t, func() {
		th := ratio.Thresholds{Version: "test", Low: 0.5, High: 2}

		Convey("Then the boundaries follow the override", func() {
			So(th.Classify(0.49), ShouldEqual, ratio.Undervalued)
			So(th.Classify(0.5), ShouldEqual, ratio.Balanced)
			So(th.Classify(2), ShouldEqual, ratio.Balanced)
			So(th.Classify(2.01), ShouldEqual, ratio.Overvalued)
		})
	})
}

func TestThresholds_Validate(t *testing.T) {
	Convey("Given threshold candidates", t, func() {
		Convey("Then the default calibration is valid", func() {
			So(ratio.DefaultThresholds().Validate(), ShouldBeNil)
		})

		Convey("Then broken calibrations are rejected", func() {
			cases := []ratio.Thresholds{
				{Low: 5, High: 5},
				{Low: 10, High: 1},
				{Low: -1, High: 1},
				{Low: math.NaN(), High: 1},
				{Low: 0, High: math.Inf(1)},
			}
			for _, c := range cases {
				err := c.Validate()
				So(err, ShouldNotBeNil)
				So(errors.Is(err, ratio.ErrInvalidThresholds), ShouldBeTrue)
			}
		})
	})
}

func TestThresholds_Position(t *testing.T) {
	Convey("Given the default thresholds", t, func() {
		th := ratio.DefaultThresholds()

		Convey("Then the meter is clamped to [0, 100]", func() {
			So(th.Position(0), ShouldEqual, 0)
			So(th.Position(th.Low), ShouldEqual, 0)
			So(th.Position(3_000), ShouldEqual, 50)
			So(th.Position(th.High), ShouldEqual, 100)
			So(th.Position(math.Inf(1)), ShouldEqual, 100)
		})
	})
}

func TestCategory_Lookup(t *testing.T) {
	Convey("Given the known categories", t, func() {
		Convey("Then each carries a label, glyph and description", func() {
			for _, c := range ratio.Categories() {
				So(c.Label(), ShouldNotBeEmpty)
				So(c.Glyph(), ShouldNotBeEmpty)
				So(c.Description(), ShouldNotBeEmpty)
			}
			So(ratio.Balanced.Label(), ShouldEqual, "Balanced")
			So(ratio.Undervalued.Glyph(), ShouldEqual, "📈")
			So(ratio.Overvalued.Glyph(), ShouldEqual, "📉")
		})

		Convey("Then an unknown category is not valid", func() {
			So(ratio.Category("fair").Valid(), ShouldBeFalse)
		})
	})
}

func TestRatio_JSON(t *testing.T) {
	Convey("Given an analysis with an infinite ratio", t, func() {
		a := ratio.NewEngine().AnalyzeRatio(math.Inf(1))

		Convey("When it is encoded", func() {
			b, err := json.Marshal(a)
			So(err, ShouldBeNil)

			Convey("Then the ratio is the Infinity string and the display is the glyph", func() {
				So(string(b), ShouldContainSubstring, `"ratio":"Infinity"`)
				So(string(b), ShouldContainSubstring, `"ratio_display":"∞"`)
			})

			Convey("And decoding restores +Inf", func() {
				var back ratio.Analysis
				So(json.Unmarshal(b, &back), ShouldBeNil)
				So(back.Ratio.IsInf(), ShouldBeTrue)
				So(back.Category, ShouldEqual, ratio.Overvalued)
			})
		})
	})

	Convey("Given a finite ratio", t, func() {
		b, err := json.Marshal(ratio.Ratio(12.5))
		So(err, ShouldBeNil)
		So(string(b), ShouldEqual, "12.5")

		var r ratio.Ratio
		So(json.Unmarshal([]byte(`"twelve"`), &r), ShouldNotBeNil)
	})
}
