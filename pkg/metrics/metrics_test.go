package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

// gather returns the metric family with the given name, or nil.
func gather(reg *prometheus.Registry, name string) *dto.MetricFamily {
	families, err := reg.Gather()
	So(err, ShouldBeNil)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func TestManagerCreation(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		reg := prometheus.NewRegistry()
		m := NewManager(
			WithPrometheusRegistry(reg),
			WithNamespace("test"),
			WithSubsystem("client"),
			WithHistogramBuckets([]float64{1, 10, 100}),
			WithConstLabels(map[string]string{"env": "test"}),
		)

		Convey("Then it is created with the custom options", func() {
			So(m, ShouldNotBeNil)
			So(m.namespace, ShouldEqual, "test")
			So(m.subsystem, ShouldEqual, "client")
			So(m.histogramBuckets, ShouldResemble, []float64{1, 10, 100})
		})

		Convey("Then empty options keep defaults", func() {
			d := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithNamespace(""), WithHistogramBuckets(nil))
			So(d.namespace, ShouldEqual, "fetchkit")
			So(len(d.histogramBuckets), ShouldBeGreaterThan, 0)
		})
	})
}

func TestClientMetrics(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		reg := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(reg))

		Convey("When a request starts and finishes", func() {
			m.ClientRequestStarted()
			m.ClientRequestFinished("nuxt_beers", "GET", "200", 12)

			Convey("Then the counter and histogram observe it and in-flight returns to zero", func() {
				req := gather(reg, "fetchkit_client_requests_total")
				So(req, ShouldNotBeNil)
				So(req.GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 1)

				dur := gather(reg, "fetchkit_client_request_duration_milliseconds")
				So(dur.GetMetric()[0].GetHistogram().GetSampleCount(), ShouldEqual, 1)

				inflight := gather(reg, "fetchkit_client_requests_in_flight")
				So(inflight.GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 0)
			})
		})

		Convey("When errors are recorded", func() {
			m.ClientError("network")
			m.ClientError("network")
			m.ClientError("status")

			Convey("Then they are split by type", func() {
				errs := gather(reg, "fetchkit_client_errors_total")
				So(errs, ShouldNotBeNil)
				So(len(errs.GetMetric()), ShouldEqual, 2)
			})
		})
	})
}

func TestDisabledAndNilManager(t *testing.T) {
	Convey("Given a disabled manager", t, func() {
		reg := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(reg), WithMetricsEnabled(false))

		Convey("When recording", func() {
			m.ClientRequestStarted()
			m.ClientRequestFinished("x", "GET", "200", 1)
			m.HTTPRequest("beers", "GET", "200", 1)

			Convey("Then no samples are produced", func() {
				So(gather(reg, "fetchkit_client_requests_total"), ShouldBeNil)
				So(gather(reg, "fetchkit_http_requests_total"), ShouldBeNil)
			})
		})

		Convey("Then a nil manager is safe to call", func() {
			var nilManager *Manager
			So(func() {
				nilManager.ClientRequestStarted()
				nilManager.ClientError("network")
				nilManager.HTTPRequest("beers", "GET", "200", 1)
			}, ShouldNotPanic)
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		So(Default(), ShouldNotBeNil)
		So(GetRegistry(), ShouldNotBeNil)

		Convey("When a sandbox request is recorded", func() {
			RecordHTTPRequest("healthz", "GET", "200", 1)

			Convey("Then the global registry exposes it", func() {
				So(gather(GetRegistry(), "fetchkit_http_requests_total"), ShouldNotBeNil)
			})
		})
	})
}
