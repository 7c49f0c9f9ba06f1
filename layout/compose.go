package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/ByLCY/folio/content"
	"github.com/ByLCY/folio/units"
)

// 块包装器的样式常量（mm / pt）。测量与最终渲染共用，任何改动都会同时影响两者。
const (
	bodyPadding  = 3.0
	titlePadX    = 3.0
	titlePadY    = 1.5
	elementGap   = 2.0
	cellPadding  = 1.0
	borderWidth  = 0.2
	labelShare   = 0.4
	defaultImage = 30.0

	bodySizePt    = 9.0
	smallSizePt   = 7.5
	titleSizePt   = 9.75
	headingSizePt = 13.5

	bodyLineFactor    = 1.625
	headingLineFactor = 1.3
)

var (
	colorText   = Color{R: 17, G: 24, B: 39}
	colorMuted  = Color{R: 75, G: 85, B: 99}
	colorBorder = Color{R: 229, G: 231, B: 235}
	colorTitle  = Color{R: 243, G: 244, B: 246}
	colorSubtle = Color{R: 249, G: 250, B: 251}
)

// ComposeBlock 是唯一的块包装器：测量（不可见绘制面）与最终渲染都调用它，
// 因此两次组合得到的高度必然一致。
func ComposeBlock(b content.Block, s Surface, ts Typesetter, geom Geometry) (BlockBox, error) {
	return compose(b, s, ts, geom, false)
}

// ComposeHeader 组合页眉标记：不加边框与内边距，非空页眉底部带一个块间距，空页眉高度为 0。
func ComposeHeader(b content.Block, s Surface, ts Typesetter, geom Geometry) (BlockBox, error) {
	return compose(b, s, ts, geom, true)
}

type composer struct {
	ts      Typesetter
	geom    Geometry
	visible bool
	subtle  bool
	box     *BlockBox
}

func compose(b content.Block, s Surface, ts Typesetter, geom Geometry, header bool) (BlockBox, error) {
	if ts == nil {
		return BlockBox{}, fmt.Errorf("layout: typesetter is nil")
	}
	box := BlockBox{Key: b.Key, X: s.Origin.X, Y: s.Origin.Y, Width: geom.ContentWidth()}
	c := &composer{ts: ts, geom: geom, visible: s.Visible, subtle: b.Variant == content.VariantSubtle, box: &box}

	x, width := box.X, box.Width
	if !header {
		x, width = box.X+bodyPadding, box.Width-2*bodyPadding
	}
	h := 0.0
	if !header && b.Variant == content.VariantBlock && strings.TrimSpace(b.Title) != "" {
		tb, err := c.text(b.Title, FontBold, titleSizePt, bodyLineFactor, colorText, "", box.X+titlePadX, box.Y+titlePadY, box.Width-2*titlePadX)
		if err != nil {
			return BlockBox{}, fmt.Errorf("title: %w", err)
		}
		bar := tb.Height + 2*titlePadY
		fill := colorTitle
		c.rect(Rect{X: box.X, Y: box.Y, Width: box.Width, Height: bar, StrokeColor: colorTitle, FillColor: &fill})
		c.addText(tb)
		h += bar
	}
	if !header {
		h += bodyPadding
	}
	for i, el := range b.Elements {
		if i > 0 {
			h += elementGap
		}
		eh, err := c.element(el, x, box.Y+h, width)
		if err != nil {
			return BlockBox{}, fmt.Errorf("element %d (%s): %w", i, el.Kind, err)
		}
		h += eh
	}
	switch {
	case !header:
		h += bodyPadding
	case len(b.Elements) > 0:
		// 页眉与第一个块之间的间距计入页眉本身
		h += geom.Spacing
	}
	box.Height = h

	if !header {
		// 外框最先绘制，作为背景
		frame := Rect{X: box.X, Y: box.Y, Width: box.Width, Height: h, StrokeColor: colorBorder, StrokeWidth: borderWidth}
		if c.subtle {
			fill := colorSubtle
			frame.FillColor = &fill
			frame.StrokeColor = colorSubtle
			frame.StrokeWidth = 0
		}
		if c.visible {
			box.Rects = append([]Rect{frame}, box.Rects...)
		}
	}
	if math.IsNaN(box.Height) || math.IsInf(box.Height, 0) || box.Height < 0 {
		return BlockBox{}, fmt.Errorf("layout: block %q composed to invalid height %g", b.Key, box.Height)
	}
	return box, nil
}

func (c *composer) element(el content.Element, x, y, width float64) (float64, error) {
	switch el.Kind {
	case content.KindText:
		size, col := bodySizePt, colorText
		if el.Style == content.StyleSmall {
			size, col = smallSizePt, colorMuted
		}
		font := FontBody
		if c.subtle {
			font = FontItalic
		}
		tb, err := c.text(el.Text, font, size, bodyLineFactor, col, el.Align, x, y, width)
		if err != nil {
			return 0, err
		}
		c.addText(tb)
		return tb.Height, nil
	case content.KindHeading:
		tb, err := c.text(el.Text, FontBold, headingSizePt, headingLineFactor, colorText, el.Align, x, y, width)
		if err != nil {
			return 0, err
		}
		c.addText(tb)
		return tb.Height, nil
	case content.KindTable:
		return c.table(el, x, y, width)
	case content.KindImage:
		if el.Image == nil {
			return 0, fmt.Errorf("image without source")
		}
		w, h := el.Image.Width, el.Image.Height
		if w <= 0 {
			w = defaultImage
		}
		if h <= 0 {
			h = w / 2
		}
		if w > width {
			h *= width / w
			w = width
		}
		if c.visible {
			c.box.Images = append(c.box.Images, ImageBox{Path: el.Image.Src, X: x + alignOffset(width, w, el.Align), Y: y, Width: w, Height: h})
		}
		return h, nil
	case content.KindSpacer:
		if el.Height > 0 {
			return el.Height, nil
		}
		return c.geom.Spacing, nil
	}
	return 0, fmt.Errorf("unknown element kind %q", el.Kind)
}

func (c *composer) table(el content.Element, x, y, width float64) (float64, error) {
	size := bodySizePt
	if el.Style == content.StyleSmall {
		size = smallSizePt
	}
	labelW := width * labelShare
	table := TableBox{X: x, Y: y, Width: width, ColumnWidths: []float64{labelW, width - labelW}, BorderColor: colorBorder}
	rowY := y
	for i, row := range el.Rows {
		label, err := c.text(row.Label, FontBody, size, bodyLineFactor, colorMuted, "", x+cellPadding, rowY+cellPadding, labelW-2*cellPadding)
		if err != nil {
			return 0, fmt.Errorf("row %d label: %w", i, err)
		}
		value, err := c.text(row.Value, FontBody, size, bodyLineFactor, colorText, "", x+labelW+cellPadding, rowY+cellPadding, width-labelW-2*cellPadding)
		if err != nil {
			return 0, fmt.Errorf("row %d value: %w", i, err)
		}
		rh := math.Max(label.Height, value.Height) + 2*cellPadding
		table.Rows = append(table.Rows, TableRow{Y: rowY, Height: rh, Cells: []TableCell{{Text: label}, {Text: value}}})
		rowY += rh
	}
	if c.visible && len(table.Rows) > 0 {
		c.box.Tables = append(c.box.Tables, table)
	}
	return rowY - y, nil
}

// text 排版一段文本，规则与 TextBox.Height == Σ(GapBefore + Height) 一致。
func (c *composer) text(s, font string, sizePt, factor float64, col Color, align string, x, y, width float64) (TextBox, error) {
	fontSize := units.PT(sizePt).ToMM()
	lineHeight := fontSize * factor
	fonts := DefaultFonts()
	lines, err := c.ts.LayoutLines(s, width, fonts[font], fontSize, lineHeight, WrapAnywhere)
	if err != nil {
		return TextBox{}, err
	}
	if len(lines) == 0 {
		lines = []TextLine{{Content: "", Height: fontSize}}
	}
	defaultLeading := math.Max(lineHeight-fontSize, 0)
	total := 0.0
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = fontSize
		}
		if i == 0 {
			lines[i].GapBefore = 0
		} else if lines[i].GapBefore <= 0 {
			lines[i].GapBefore = defaultLeading
		}
		total += lines[i].GapBefore + lines[i].Height
	}
	tb := TextBox{
		Content:    s,
		X:          x,
		Y:          y,
		Width:      width,
		LineHeight: lineHeight,
		Font:       font,
		FontSize:   fontSize,
		Color:      col,
		Lines:      lines,
		Height:     total,
		Wrap:       WrapAnywhere,
	}
	switch v := strings.ToLower(strings.TrimSpace(align)); v {
	case "start":
		tb.Align = "left"
	case "end":
		tb.Align = "right"
	case "left", "center", "right":
		tb.Align = v
	}
	return tb, nil
}

func (c *composer) addText(tb TextBox) {
	if c.visible {
		c.box.Texts = append(c.box.Texts, tb)
	}
}

func (c *composer) rect(r Rect) {
	if c.visible {
		c.box.Rects = append(c.box.Rects, r)
	}
}

func alignOffset(container, width float64, align string) float64 {
	if container <= width {
		return 0
	}
	switch strings.ToLower(align) {
	case "center", "middle":
		return (container - width) / 2
	case "right", "end":
		return container - width
	default:
		return 0
	}
}
