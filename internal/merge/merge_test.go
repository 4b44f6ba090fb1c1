package merge_test

import (
	"testing"

	"github.com/okian/fetchkit/internal/merge"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDeep(t *testing.T) {
	Convey("Given default and override trees", t, func() {
		defaults := map[string]any{
			"baseURL": "https://api.nuxtjs.dev",
			"retry":   0,
			"headers": map[string]any{
				"Authorization": "Bearer default",
				"Content-Type":  "application/json",
			},
		}
		overrides := map[string]any{
			"retry": 2,
			"headers": map[string]any{
				"Authorization": "Bearer caller",
				"X-Trace":       "abc",
			},
		}

		Convey("When merged", func() {
			out := merge.Deep(defaults, overrides)
			headers := out["headers"].(map[string]any)

			Convey("Then override leaves win", func() {
				So(out["retry"], ShouldEqual, 2)
				So(headers["Authorization"], ShouldEqual, "Bearer caller")
			})

			Convey("Then nested maps are merged key-wise", func() {
				So(headers["Content-Type"], ShouldEqual, "application/json")
				So(headers["X-Trace"], ShouldEqual, "abc")
				So(out["baseURL"], ShouldEqual, "https://api.nuxtjs.dev")
			})

			Convey("Then neither input is mutated", func() {
				headers["Content-Type"] = "text/plain"
				So(defaults["headers"].(map[string]any)["Content-Type"], ShouldEqual, "application/json")
				So(overrides["headers"].(map[string]any), ShouldNotContainKey, "Content-Type")
			})
		})

		Convey("When an override value is nil", func() {
			out := merge.Deep(defaults, map[string]any{"baseURL": nil})

			Convey("Then the default survives", func() {
				So(out["baseURL"], ShouldEqual, "https://api.nuxtjs.dev")
			})
		})

		Convey("When an override replaces a map with a scalar", func() {
			out := merge.Deep(defaults, map[string]any{"headers": "none"})

			Convey("Then the scalar wins", func() {
				So(out["headers"], ShouldEqual, "none")
			})
		})

		Convey("Then two nil trees merge to nil", func() {
			So(merge.Deep(nil, nil), ShouldBeNil)
		})
	})
}

func TestHeaders(t *testing.T) {
	Convey("Given default and caller headers", t, func() {
		defaults := map[string]string{"Authorization": "Bearer a", "Content-Type": "application/json"}
		caller := map[string]string{"Authorization": "Bearer b", "Accept": "text/csv"}

		out := merge.Headers(defaults, caller)

		Convey("Then caller keys win and unrelated keys are additive", func() {
			So(out, ShouldResemble, map[string]string{
				"Authorization": "Bearer b",
				"Content-Type":  "application/json",
				"Accept":        "text/csv",
			})
			So(defaults["Authorization"], ShouldEqual, "Bearer a")
		})

		Convey("Then nil inputs yield nil", func() {
			So(merge.Headers(nil, nil), ShouldBeNil)
		})
	})
}
