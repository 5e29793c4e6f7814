package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "creatorscore")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
			})

			Convey("And metrics carry the constant labels", func() {
				manager.analyses.WithLabelValues("balanced").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeEmpty)
				found := false
				for _, mf := range families {
					for _, metric := range mf.GetMetric() {
						for _, lp := range metric.GetLabel() {
							if lp.GetName() == "env" && lp.GetValue() == "test" {
								found = true
							}
						}
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty options are passed", func() {
			manager := NewManager(WithNamespace(""), WithHistogramBuckets(nil), WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "creatorscore")
				So(manager.histogramBuckets, ShouldResemble, defaultBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording analyses and simulations", func() {
			before := testutil.ToFloat64(globalManager.analyses.WithLabelValues("overvalued"))
			RecordAnalysis("overvalued")
			RecordAnalysis("overvalued")
			RecordSimulation("improved")
			RecordSweep()
			RecordIncompleteReport("valuation")

			Convey("Then the counters move", func() {
				So(testutil.ToFloat64(globalManager.analyses.WithLabelValues("overvalued")), ShouldEqual, before+2)
				So(testutil.ToFloat64(globalManager.simulations.WithLabelValues("improved")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording upstream and HTTP metrics", func() {
			So(func() {
				RecordUpstreamRequest("talent", "success", 120)
				UpdateBreakerState("talent", 2)
				RecordLookupStrategy("valuation", "zora", "not_found")
				RecordHTTPRequest("analysis", "GET", "200")
				RecordHTTPRequestDuration("analysis", "GET", "200", 15.0)
				RecordErrorByType("server_error", "high")
				RecordErrorByEndpoint("analysis", "GET", "server_error")
				RecordErrorLatency("http", "server_error", 3)
			}, ShouldNotPanic)

			Convey("Then the breaker gauge reflects the last state", func() {
				So(testutil.ToFloat64(globalManager.breakerState.WithLabelValues("talent")), ShouldEqual, 2)
			})
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry is exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
			count, err := testutil.GatherAndCount(GetRegistry(), "creatorscore_api_analyses_total")
			So(err, ShouldBeNil)
			So(count, ShouldBeGreaterThan, 0)
		})
	})
}
