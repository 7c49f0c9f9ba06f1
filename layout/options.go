package layout

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// 约定：width/fontSize/lineHeight 均为 mm。
// 测量与最终渲染必须使用同一个 Typesetter，否则测得的高度没有意义。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error)
}

// Point 是页面坐标（mm，左上角为原点）。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Surface 是块包装器的绘制目标：Origin 为块左上角，Visible 为 false 时只计算几何。
type Surface struct {
	Origin  Point
	Visible bool
}

// OffSurface 返回远离页面的不可见绘制面，宽度与页面内容宽度一致。
func OffSurface(geom Geometry) Surface {
	return Surface{Origin: Point{X: -10 * geom.Width, Y: -10 * geom.Height}}
}
