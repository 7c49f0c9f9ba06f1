package canvasrenderer

import (
	"strings"
	"testing"

	"github.com/ByLCY/folio/content"
	"github.com/ByLCY/folio/layout"
)

// 用真实字体度量时，不可见绘制面与页面上的组合高度必须一致。
func TestOffSurfaceHeightMatchesPage(t *testing.T) {
	r := NewRenderer(".")
	geom := layout.DefaultGeometry()
	blocks := []content.Block{
		{Key: "werknemer", Variant: content.VariantBlock, Title: "Gegevens werknemer", Elements: []content.Element{
			{Kind: content.KindTable, Rows: []content.Row{
				{Label: "Naam", Value: "Anna de Vries"},
				{Label: "Adres", Value: strings.Repeat("Lange Voorhout ", 12)},
			}},
		}},
		{Key: "avg", Variant: content.VariantSubtle, Elements: []content.Element{
			{Kind: content.KindText, Style: content.StyleSmall, Text: strings.Repeat("Geen medische termen. ", 30)},
		}},
		{Key: "leeg", Variant: content.VariantBlock},
	}
	onPage := layout.Surface{Origin: layout.Point{X: geom.Padding, Y: geom.Padding + 37.5}, Visible: true}
	for _, b := range blocks {
		off, err := layout.ComposeBlock(b, layout.OffSurface(geom), r, geom)
		if err != nil {
			t.Fatalf("%s off-surface: %v", b.Key, err)
		}
		on, err := layout.ComposeBlock(b, onPage, r, geom)
		if err != nil {
			t.Fatalf("%s on page: %v", b.Key, err)
		}
		if off.Height != on.Height {
			t.Fatalf("%s: off-surface %.6f != page %.6f", b.Key, off.Height, on.Height)
		}
		if off.Height <= 0 {
			t.Fatalf("%s: expected positive height", b.Key)
		}
		if len(off.Texts) != 0 || len(off.Rects) != 0 {
			t.Fatalf("%s: invisible surface must not collect drawing primitives", b.Key)
		}
	}
}
