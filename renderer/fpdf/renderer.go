// Package fpdfrenderer renders paginated results with the PDF core fonts
// through codeberg.org/go-pdf/fpdf.
package fpdfrenderer

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"

	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
	"github.com/ByLCY/folio/units"
)

const (
	tableBorderWidth = 0.2
	// 核心字体没有可读的行高度量，按字号比例近似：行框 1.15em，基线 0.8em。
	lineBoxRatio  = 1.15
	ascenderRatio = 0.8
)

// Renderer 使用核心字体（默认 Helvetica）排版与输出。测量在一个不输出的 Fpdf 实例上完成。
type Renderer struct {
	baseDir string
	family  string

	mu      sync.Mutex
	measure *fpdf.Fpdf
	tr      func(string) string
}

var _ renderer.Backend = (*Renderer)(nil)

// NewRenderer 创建渲染器，图片路径相对 baseDir 解析。
func NewRenderer(baseDir string) *Renderer {
	m := fpdf.New("P", "mm", "A4", "")
	m.SetFont("Helvetica", "", 12)
	return &Renderer{
		baseDir: baseDir,
		family:  "Helvetica",
		measure: m,
		// 核心字体只覆盖 cp1252，其余字符替换为 "."
		tr: m.UnicodeTranslatorFromDescriptor(""),
	}
}

// widthFunc 将 fpdf 的字符串宽度适配为 layout.TextMeasurer。
type widthFunc func(string) float64

func (f widthFunc) TextWidth(s string) float64 { return f(s) }

// LayoutLines 实现 layout.Typesetter；fontSize/lineHeight 为 mm。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.measure.SetFont(r.family, fontStyle(font.Style), fontSize*units.MmToPt)
	if r.measure.Err() {
		err := r.measure.Error()
		r.measure.ClearError()
		return nil, fmt.Errorf("fpdf: set font %s: %w", font.Name, err)
	}
	if wrap == "" {
		wrap = layout.WrapAnywhere
	}
	lines := layout.WrapText(content, width, widthFunc(func(s string) float64 {
		return r.measure.GetStringWidth(r.tr(s))
	}), wrap)

	textHeight := fontSize * lineBoxRatio
	leading := math.Max(lineHeight-textHeight, 0)
	if len(lines) == 0 {
		lines = []layout.TextLine{{Height: textHeight}}
	}
	for i := range lines {
		lines[i].Height = textHeight
		if i > 0 {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

// Render 输出 PDF 字节。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	first := result.Pages[0]
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: first.Width, Ht: first.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	meta := result.Meta
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetCreator(meta.Creator, true)
	pdf.SetKeywords(strings.Join(meta.Keywords, ", "), true)

	fonts := result.Resources.Fonts
	if len(fonts) == 0 {
		fonts = layout.DefaultFonts()
	}
	for _, page := range result.Pages {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})
		if err := r.drawBox(pdf, page.Header, fonts); err != nil {
			return nil, fmt.Errorf("第 %d 页页眉: %w", page.Index+1, err)
		}
		for _, box := range page.Blocks {
			if err := r.drawBox(pdf, box, fonts); err != nil {
				return nil, fmt.Errorf("第 %d 页块 %s: %w", page.Index+1, box.Key, err)
			}
		}
		if pdf.Err() {
			return nil, fmt.Errorf("第 %d 页: %w", page.Index+1, pdf.Error())
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawBox(pdf *fpdf.Fpdf, box layout.BlockBox, fonts map[string]layout.FontResource) error {
	for _, rc := range box.Rects {
		style := ""
		if rc.FillColor != nil {
			pdf.SetFillColor(rc.FillColor.R, rc.FillColor.G, rc.FillColor.B)
			style += "F"
		}
		if rc.StrokeWidth > 0 {
			pdf.SetDrawColor(rc.StrokeColor.R, rc.StrokeColor.G, rc.StrokeColor.B)
			pdf.SetLineWidth(rc.StrokeWidth)
			style += "D"
		}
		if style != "" {
			pdf.Rect(rc.X, rc.Y, rc.Width, rc.Height, style)
		}
	}
	for _, table := range box.Tables {
		pdf.SetDrawColor(table.BorderColor.R, table.BorderColor.G, table.BorderColor.B)
		pdf.SetLineWidth(tableBorderWidth)
		for _, row := range table.Rows {
			x := table.X
			for idx, cell := range row.Cells {
				col := table.ColumnWidths[min(idx, len(table.ColumnWidths)-1)]
				pdf.Rect(x, row.Y, col, row.Height, "D")
				r.drawText(pdf, cell.Text, fonts)
				x += col
			}
		}
	}
	for _, tb := range box.Texts {
		r.drawText(pdf, tb, fonts)
	}
	for _, img := range box.Images {
		if err := r.drawImage(pdf, img); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawText(pdf *fpdf.Fpdf, tb layout.TextBox, fonts map[string]layout.FontResource) {
	pdf.SetFont(r.family, fontStyle(fonts[tb.Font].Style), tb.FontSize*units.MmToPt)
	pdf.SetTextColor(tb.Color.R, tb.Color.G, tb.Color.B)
	y := tb.Y
	for _, line := range tb.Lines {
		y += line.GapBefore
		text := r.tr(line.Content)
		x := tb.X
		switch tb.Align {
		case "center":
			x += (tb.Width - pdf.GetStringWidth(text)) / 2
		case "right":
			x += tb.Width - pdf.GetStringWidth(text)
		}
		pdf.Text(x, y+tb.FontSize*ascenderRatio, text)
		y += line.Height
	}
}

func (r *Renderer) drawImage(pdf *fpdf.Fpdf, img layout.ImageBox) error {
	path := img.Path
	if !filepath.IsAbs(path) {
		if r.baseDir == "" {
			return fmt.Errorf("未指定资源目录时不允许直接使用路径：%s", img.Path)
		}
		path = filepath.Join(r.baseDir, path)
	}
	opts := fpdf.ImageOptions{ImageType: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")}
	if pdf.GetImageInfo(img.Path) == nil {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("读取图片 %s 失败: %w", img.Path, err)
		}
		pdf.RegisterImageOptionsReader(img.Path, opts, f)
		f.Close()
		if pdf.Err() {
			return fmt.Errorf("解码图片 %s 失败: %w", img.Path, pdf.Error())
		}
	}
	pdf.ImageOptions(img.Path, img.X, img.Y, img.Width, img.Height, false, opts, 0, "")
	return nil
}

// fontStyle 将 FontResource.Style 映射为 fpdf 的 "B"/"I"/"BI"。
func fontStyle(style string) string {
	s := strings.ToLower(style)
	out := ""
	if strings.Contains(s, "bold") {
		out += "B"
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		out += "I"
	}
	return out
}
