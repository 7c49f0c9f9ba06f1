package layout

import "github.com/ByLCY/folio/paginate"

// 该文件定义组合与分页结果，供测量、渲染与调试 JSON 共用。所有坐标与尺寸单位为 mm。

// Result 保存分页后的页面与资源信息。
type Result struct {
	Geometry    Geometry            `json:"geometry"`
	Pages       []Page              `json:"pages"`
	Resources   ResourceSet         `json:"resources"`
	Meta        DocumentMeta        `json:"meta"`
	Measurement *Measurement        `json:"measurement,omitempty"`
	Partition   *paginate.Partition `json:"partition,omitempty"`
	Signature   string              `json:"signature,omitempty"`
}

// Overflowing 返回被单个超高块撑破的页码。
func (r *Result) Overflowing() []int {
	if r == nil {
		return nil
	}
	var out []int
	for _, p := range r.Pages {
		if p.Overflow {
			out = append(out, p.Index)
		}
	}
	return out
}

// ResourceSet 记录渲染时需要解析的字体。
type ResourceSet struct {
	Fonts map[string]FontResource `json:"fonts"`
}

// FontResource 描述字体资源；Src 为 embed:<name> 时由 fonts 包提供字节。
type FontResource struct {
	Name   string `json:"name"`
	Src    string `json:"src"`
	Style  string `json:"style"`
	Family string `json:"family"`
}

// 块包装器使用的逻辑字体名。
const (
	FontBody       = "Body"
	FontBold       = "Bold"
	FontItalic     = "Italic"
	FontBoldItalic = "BoldItalic"
)

// DefaultFonts 返回逻辑字体到内置 Go 字体的映射。
func DefaultFonts() map[string]FontResource {
	return map[string]FontResource{
		FontBody:       {Name: FontBody, Src: "embed:goregular", Style: "regular", Family: "Go"},
		FontBold:       {Name: FontBold, Src: "embed:gobold", Style: "bold", Family: "Go"},
		FontItalic:     {Name: FontItalic, Src: "embed:goitalic", Style: "italic", Family: "Go"},
		FontBoldItalic: {Name: FontBoldItalic, Src: "embed:gobolditalic", Style: "bold italic", Family: "Go"},
	}
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Page 是一页最终可以直接渲染的内容：页眉加上按分页顺序堆叠的块。
type Page struct {
	Index    int        `json:"index"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Capacity float64    `json:"capacity"`
	Used     float64    `json:"used"`
	Overflow bool       `json:"overflow,omitempty"`
	Keys     []string   `json:"keys"`
	Header   BlockBox   `json:"header"`
	Blocks   []BlockBox `json:"blocks"`
}

// BlockBox 是一个块经过包装器组合后的几何与绘制元素。
// 测量时（Surface.Visible 为 false）只保留几何，绘制元素为空。
type BlockBox struct {
	Key    string     `json:"key"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Rects  []Rect     `json:"rects,omitempty"`
	Texts  []TextBox  `json:"texts,omitempty"`
	Tables []TableBox `json:"tables,omitempty"`
	Images []ImageBox `json:"images,omitempty"`
}

// TextBox 表示一个已经排好坐标的文本块。
type TextBox struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	LineHeight float64    `json:"lineHeight"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"`
	Color      Color      `json:"color"`
	Lines      []TextLine `json:"lines"`
	Height     float64    `json:"height"`
	Align      string     `json:"align,omitempty"` // left/center/right，默认 left
	Wrap       string     `json:"wrap,omitempty"`
}

// TextLine 表示排版后的一行文本内容及其宽高。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// ImageBox 用于描述图片位置与尺寸。
type ImageBox struct {
	Path   string  `json:"path"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TableBox 保存标签/值两列表格的布局信息。
type TableBox struct {
	X            float64    `json:"x"`
	Y            float64    `json:"y"`
	Width        float64    `json:"width"`
	ColumnWidths []float64  `json:"columnWidths"`
	Rows         []TableRow `json:"rows"`
	BorderColor  Color      `json:"borderColor"`
}

// TableRow 记录每一行的高度与单元格。
type TableRow struct {
	Y      float64     `json:"y"`
	Height float64     `json:"height"`
	Cells  []TableCell `json:"cells"`
}

// TableCell 复用 TextBox 作为单元格内容。
type TableCell struct {
	Text TextBox `json:"text"`
}

// Rect 表示一个矩形（不包含圆角）。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`         // mm，0 表示不描边
	FillColor   *Color  `json:"fillColor,omitempty"` // 为空表示不填充
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
