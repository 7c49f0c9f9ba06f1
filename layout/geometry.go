package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/ByLCY/folio/content"
	"github.com/ByLCY/folio/units"
)

// Geometry 描述固定的物理页面（全部单位为 mm）。
type Geometry struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
	Spacing float64 `json:"spacing"`
}

// 预设纸张尺寸（竖向，mm）。
var pageSizes = map[string][2]float64{
	"A3":     {297, 420},
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
}

// DefaultGeometry 返回 A4、40px 内边距与 12px 块间距（96dpi）。
func DefaultGeometry() Geometry {
	return Geometry{
		Width:   210,
		Height:  297,
		Padding: units.PX(40).ToMM(),
		Spacing: units.PX(12).ToMM(),
	}
}

// ContentWidth 是块包装器可用的宽度 W − 2P。
func (g Geometry) ContentWidth() float64 { return g.Width - 2*g.Padding }

// UsableHeight 是扣除上下内边距后的高度 H − 2P。
func (g Geometry) UsableHeight() float64 { return g.Height - 2*g.Padding }

// Validate 检查尺寸为有限正数且内边距不会吞掉整页。
func (g Geometry) Validate() error {
	for name, v := range map[string]float64{"width": g.Width, "height": g.Height, "padding": g.Padding, "spacing": g.Spacing} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("layout: invalid geometry %s %g", name, v)
		}
	}
	if g.ContentWidth() <= 0 || g.UsableHeight() <= 0 {
		return fmt.Errorf("layout: padding %gmm leaves no room on a %gx%gmm page", g.Padding, g.Width, g.Height)
	}
	return nil
}

// GeometryFromSpec 在 base 的基础上应用 page 段落中的覆盖值。
func GeometryFromSpec(spec content.PageSpec, base Geometry) (Geometry, error) {
	g := base
	if name := strings.ToUpper(strings.TrimSpace(spec.Size)); name != "" {
		size, ok := pageSizes[name]
		if !ok {
			return Geometry{}, fmt.Errorf("layout: unknown page size %q", spec.Size)
		}
		g.Width, g.Height = size[0], size[1]
	}
	set := func(raw string, dst *float64, what string) error {
		if strings.TrimSpace(raw) == "" {
			return nil
		}
		l, err := units.Parse(raw)
		if err != nil {
			return fmt.Errorf("layout: page %s: %w", what, err)
		}
		*dst = l.ToMM()
		return nil
	}
	if err := set(spec.Width, &g.Width, "width"); err != nil {
		return Geometry{}, err
	}
	if err := set(spec.Height, &g.Height, "height"); err != nil {
		return Geometry{}, err
	}
	if err := set(spec.Padding, &g.Padding, "padding"); err != nil {
		return Geometry{}, err
	}
	if err := set(spec.Spacing, &g.Spacing, "spacing"); err != nil {
		return Geometry{}, err
	}
	if spec.Landscape && g.Width < g.Height {
		g.Width, g.Height = g.Height, g.Width
	}
	return g, g.Validate()
}
