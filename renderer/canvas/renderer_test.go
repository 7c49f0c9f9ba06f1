package canvasrenderer

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/ByLCY/folio/content"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/paginate"
	"github.com/ByLCY/folio/units"
)

var bodyFont = layout.DefaultFonts()[layout.FontBody]

func TestLayoutLinesGreedyWrapsText(t *testing.T) {
	r := NewRenderer(".")

	// 这里的宽度/字号/行高均为 mm
	fontSizeMM := 12 * units.PtToMm
	lineHeightMM := fontSizeMM * 1.2

	lines, err := r.LayoutLines("hello world again", 10, bodyFont, fontSizeMM, lineHeightMM, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(lines))
	}
}

func TestGreedyWrapHonorsNewlines(t *testing.T) {
	r := NewRenderer(".")
	fontSizeMM := 12 * units.PtToMm

	lines, err := r.LayoutLines("foo\n\nbar", 100, bodyFont, fontSizeMM, fontSizeMM*1.2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines including blank, got %d", len(lines))
	}
	if lines[1].Content != "" {
		t.Fatalf("expected middle line to be blank, got %q", lines[1].Content)
	}
}

// TestLineHeightsInvariant 验证：
// 1) 首行 GapBefore == 0；
// 2) 其余行 GapBefore ≈ max(lineHeight - textHeight, 0)；
// 3) 各行的 Height 与 textHeight 一致（渲染器会用字体度量回填）。
func TestLineHeightsInvariant(t *testing.T) {
	r := NewRenderer(".")
	fontSizeMM := 12 * units.PtToMm
	lineHeightMM := fontSizeMM * 1.3

	text := "longlonglong longlonglong longlonglong longlonglong longlonglong"
	lines, err := r.LayoutLines(text, 40, bodyFont, fontSizeMM, lineHeightMM, "")
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected multiple lines for invariant test, got %d", len(lines))
	}

	textHeight := lines[0].Height
	if textHeight <= 0 {
		t.Fatalf("invalid text height: %g", textHeight)
	}
	wantLeading := math.Max(lineHeightMM-textHeight, 0)

	if lines[0].GapBefore != 0 {
		t.Fatalf("first line GapBefore must be 0, got %g", lines[0].GapBefore)
	}
	const eps = 1e-6
	for i := 1; i < len(lines); i++ {
		if diff := math.Abs(lines[i].GapBefore - wantLeading); diff > eps {
			t.Fatalf("line %d GapBefore mismatch: got=%g want=%g diff=%g", i, lines[i].GapBefore, wantLeading, diff)
		}
		if diff := math.Abs(lines[i].Height - textHeight); diff > eps {
			t.Fatalf("line %d Height mismatch: got=%g want=%g diff=%g", i, lines[i].Height, textHeight, diff)
		}
	}
}

// TestGreedyWrapWidthLimit 验证每行宽度不超过限制（mm）。
func TestGreedyWrapWidthLimit(t *testing.T) {
	r := NewRenderer(".")
	fontSizeMM := 12 * units.PtToMm

	limit := 30.0 // mm
	lines, err := r.LayoutLines(strings.Repeat("a", 53), limit, bodyFont, fontSizeMM, fontSizeMM*1.2, "")
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if len(lines) == 0 {
		t.Fatalf("expected at least one line")
	}
	for i, ln := range lines {
		if ln.Width-limit > 1e-6 { // 允许极小的数值误差
			t.Fatalf("line %d width exceeds limit: width=%g limit=%g", i, ln.Width, limit)
		}
	}
}

func TestBoldIsWiderThanRegular(t *testing.T) {
	r := NewRenderer(".")
	size := 12 * units.PtToMm
	regular, err := r.LayoutLines("Gegevens werknemer", 1e6, bodyFont, size, size, "")
	if err != nil {
		t.Fatalf("regular: %v", err)
	}
	bold, err := r.LayoutLines("Gegevens werknemer", 1e6, layout.DefaultFonts()[layout.FontBold], size, size, "")
	if err != nil {
		t.Fatalf("bold: %v", err)
	}
	if bold[0].Width <= regular[0].Width {
		t.Fatalf("bold width %g should exceed regular %g", bold[0].Width, regular[0].Width)
	}
}

func TestRenderPaginatedResult(t *testing.T) {
	r := NewRenderer(".")
	geom := layout.DefaultGeometry()
	var blocks []content.Block
	blocks = append(blocks, content.Block{Key: content.HeaderFirstKey, Variant: content.VariantBlock,
		Elements: []content.Element{{Kind: content.KindHeading, Text: "Trajectplan"}}})
	for _, k := range []string{"a", "b", "c", "d"} {
		blocks = append(blocks, content.Block{Key: k, Variant: content.VariantBlock, Title: "Blok " + k,
			Elements: []content.Element{
				{Kind: content.KindText, Text: strings.Repeat("Lorem ipsum dolor sit amet. ", 60)},
				{Kind: content.KindTable, Rows: []content.Row{{Label: "Naam", Value: "Anna"}}},
			}})
	}
	blocks = append(blocks, content.Block{Key: "avg", Variant: content.VariantSubtle,
		Elements: []content.Element{{Kind: content.KindText, Style: content.StyleSmall, Text: "NB"}}})
	blocks = append(blocks, content.Block{Key: content.HeaderRestKey, Variant: content.VariantBlock})
	seq := content.Sequence{Blocks: blocks}

	m, err := layout.Measure(seq, geom, r)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	part, err := paginate.Pack(m.Heights, m.Capacities(geom), geom.Spacing)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	res, err := layout.Assemble(seq, m, part, geom, r)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	res.Meta = layout.DocumentMeta{Title: "Trajectplan", Creator: "Folio"}
	out, err := r.Render(res)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	if _, err := NewRenderer(".").Render(&layout.Result{}); err == nil {
		t.Fatalf("expected error for a result without pages")
	}
}

func TestLoadImageResolvesAgainstBaseDir(t *testing.T) {
	r := NewRenderer("../../examples")
	img, err := r.loadImage("logo.png")
	if err != nil {
		t.Fatalf("load logo: %v", err)
	}
	again, err := r.loadImage("logo.png")
	if err != nil || again != img {
		t.Fatalf("second load should hit the cache")
	}
	if _, err := NewRenderer("").loadImage("logo.png"); err == nil {
		t.Fatalf("relative path without base dir must fail")
	}
	if _, err := r.loadImage("missing.png"); err == nil {
		t.Fatalf("missing file must fail")
	}
}
