package layout

import (
	"math"
	"testing"

	"github.com/ByLCY/folio/content"
)

func TestDefaultGeometry(t *testing.T) {
	g := DefaultGeometry()
	if math.Abs(g.Padding-10.583) > 1e-3 || math.Abs(g.Spacing-3.175) > 1e-3 {
		t.Fatalf("unexpected defaults %+v", g)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("default geometry invalid: %v", err)
	}
}

func TestGeometryFromSpec(t *testing.T) {
	g, err := GeometryFromSpec(content.PageSpec{Size: "a5", Padding: "10mm", Spacing: "2mm", Landscape: true}, DefaultGeometry())
	if err != nil {
		t.Fatalf("GeometryFromSpec: %v", err)
	}
	want := Geometry{Width: 210, Height: 148, Padding: 10, Spacing: 2}
	if g != want {
		t.Fatalf("got %+v, want %+v", g, want)
	}

	if _, err := GeometryFromSpec(content.PageSpec{Size: "B7"}, DefaultGeometry()); err == nil {
		t.Fatalf("unknown page size must fail")
	}
	if _, err := GeometryFromSpec(content.PageSpec{Padding: "120mm"}, DefaultGeometry()); err == nil {
		t.Fatalf("padding larger than the page must fail")
	}
}
