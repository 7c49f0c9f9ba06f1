package units

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度。
func TestPtMmRoundTrip(t *testing.T) {
	for _, pt := range []float64{0, 0.001, 1, 12, 14.4, 72, 1000} {
		back := PT(pt).ToMM() * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

// TestParseUnits 覆盖常见单位到 mm 的转换。
func TestParseUnits(t *testing.T) {
	cases := map[string]float64{
		"1in":    25.4,
		"2.54cm": 25.4,
		"72pt":   25.4,
		"96px":   25.4,
		"10mm":   10,
		"7":      7,
		" 40PX ": 40 * PxToMm,
	}
	for in, want := range cases {
		l, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got := l.ToMM(); math.Abs(got-want) > 1e-9 {
			t.Fatalf("Parse(%q).ToMM() = %g, want %g", in, got, want)
		}
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "-3mm", "mm"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q) should fail", in)
		}
	}
}

// TestA4InPixels 检查 794×1123 px 与 A4 毫米尺寸一致（±0.2mm）。
func TestA4InPixels(t *testing.T) {
	if w := PX(794).ToMM(); math.Abs(w-210) > 0.2 {
		t.Fatalf("794px = %gmm", w)
	}
	if h := PX(1123).ToMM(); math.Abs(h-297) > 0.2 {
		t.Fatalf("1123px = %gmm", h)
	}
}

// TestLineHeightResolve 验证倍数与绝对值两种行高语义。
func TestLineHeightResolve(t *testing.T) {
	size := PT(12)
	if got, want := (LineHeightSpec{Kind: LineHeightFactor, Factor: 1.2}).ResolveMM(size), 12*1.2*PtToMm; math.Abs(got-want) > 1e-9 {
		t.Fatalf("1.2x: got=%g want=%g", got, want)
	}
	if got := (LineHeightSpec{Kind: LineHeightAbsolute, Len: MM(6)}).ResolveMM(size); got != 6 {
		t.Fatalf("6mm: got=%g", got)
	}
	if got, want := (LineHeightSpec{}).ResolveMM(size), 12*PtToMm*1.4; math.Abs(got-want) > 1e-9 {
		t.Fatalf("default: got=%g want=%g", got, want)
	}
}
