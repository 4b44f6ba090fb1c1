package fetch

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEncodeQuery(t *testing.T) {
	Convey("Given query params", t, func() {
		Convey("Then keys are sorted and values escaped", func() {
			So(EncodeQuery(Params{"q": "pale ale", "page": 2}), ShouldEqual, "page=2&q=pale+ale")
		})

		Convey("Then slices repeat the key", func() {
			So(EncodeQuery(Params{"tag": []string{"ipa", "stout"}}), ShouldEqual, "tag=ipa&tag=stout")
			So(EncodeQuery(Params{"id": []int{1, 2}}), ShouldEqual, "id=1&id=2")
		})

		Convey("Then nil values become bare keys", func() {
			So(EncodeQuery(Params{"draft": nil}), ShouldEqual, "draft")
		})

		Convey("Then empty params encode to nothing", func() {
			So(EncodeQuery(nil), ShouldEqual, "")
			So(withQuery("/beers", Params{}), ShouldEqual, "/beers")
		})
	})
}
