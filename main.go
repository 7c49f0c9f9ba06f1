package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/folio/content"
	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/engine"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
	canvasrenderer "github.com/ByLCY/folio/renderer/canvas"
	fpdfrenderer "github.com/ByLCY/folio/renderer/fpdf"
	"github.com/ByLCY/folio/units"
)

type options struct {
	input, output, debug string
	backend              string
	padding, spacing     string
	narrowSignature      bool
	data                 any
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "in", "examples/trajectplan.folio", "输入文件路径（.folio DSL 或 .html）")
	flag.StringVar(&opts.output, "out", "output/trajectplan.pdf", "PDF 输出路径")
	flag.StringVar(&opts.debug, "debug", "", "测量/分页调试 JSON 输出路径")
	flag.StringVar(&opts.backend, "backend", "canvas", "渲染与测量后端：canvas 或 fpdf")
	flag.StringVar(&opts.padding, "padding", "", "覆盖页面内边距，例如 40px 或 12mm")
	flag.StringVar(&opts.spacing, "spacing", "", "覆盖块间距，例如 12px")
	flag.BoolVar(&opts.narrowSignature, "narrow-signature", false, "仅用 key/title/variant 判断是否需要重新分页")
	dataJSON := flag.String("data", "", "绑定到文档的 JSON 数据")
	dataFile := flag.String("data-file", "", "绑定数据的 JSON 文件路径")
	flag.Parse()

	raw := []byte(*dataJSON)
	if *dataFile != "" {
		b, err := os.ReadFile(*dataFile)
		if err != nil {
			log.Fatalf("读取 data 文件失败: %v", err)
		}
		raw = b
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &opts.data); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	pages, err := run(opts)
	if err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s（%d 页）\n", opts.output, pages)
}

// run 串联载入、测量、分页与渲染。分页失败时不写出任何 PDF。
func run(opts options) (int, error) {
	doc, err := load(opts.input, opts.data)
	if err != nil {
		return 0, err
	}

	geom, err := layout.GeometryFromSpec(doc.Page, layout.DefaultGeometry())
	if err != nil {
		return 0, err
	}
	if geom, err = overrideGeometry(geom, opts.padding, opts.spacing); err != nil {
		return 0, err
	}

	backend, err := newBackend(opts.backend, filepath.Dir(opts.input))
	if err != nil {
		return 0, err
	}

	engineOpts := []engine.Option{engine.WithMeta(layout.DocumentMeta{
		Title:    doc.Meta.Title,
		Author:   doc.Meta.Author,
		Subject:  doc.Meta.Subject,
		Creator:  doc.Meta.Creator,
		Keywords: doc.Meta.Keywords,
	})}
	if opts.narrowSignature {
		engineOpts = append(engineOpts, engine.WithSignature(content.Sequence.TitleSignature))
	}
	e, err := engine.New(backend, geom, engineOpts...)
	if err != nil {
		return 0, err
	}
	result, err := e.Paginate(doc.Sequence)
	if err != nil {
		return 0, fmt.Errorf("分页失败: %w", err)
	}
	for _, idx := range result.Overflowing() {
		page := result.Pages[idx]
		log.Printf("警告: 第 %d 页的块 %s 高度 %.1fmm 超过页面容量 %.1fmm，已单独放置", idx+1, strings.Join(page.Keys, ","), page.Used, page.Capacity)
	}

	if opts.debug != "" {
		if err := writeDebug(result, opts.debug); err != nil {
			return 0, err
		}
	}

	pdfBytes, err := backend.Render(result)
	if err != nil {
		return 0, fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
		return 0, fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(opts.output, pdfBytes, 0o644); err != nil {
		return 0, fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return len(result.Pages), nil
}

// load 按扩展名选择 HTML 或 DSL 载入器。
func load(path string, data any) (*content.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开输入文件 %s: %w", path, err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return content.ParseHTML(file, data)
	}
	ast, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析 DSL 失败: %w", err)
	}
	return content.FromDocument(ast, data)
}

func overrideGeometry(g layout.Geometry, padding, spacing string) (layout.Geometry, error) {
	if padding != "" {
		l, err := units.Parse(padding)
		if err != nil {
			return g, fmt.Errorf("-padding: %w", err)
		}
		g.Padding = l.ToMM()
	}
	if spacing != "" {
		l, err := units.Parse(spacing)
		if err != nil {
			return g, fmt.Errorf("-spacing: %w", err)
		}
		g.Spacing = l.ToMM()
	}
	return g, g.Validate()
}

func newBackend(name, baseDir string) (renderer.Backend, error) {
	switch strings.ToLower(name) {
	case "", "canvas":
		return canvasrenderer.NewRenderer(baseDir), nil
	case "fpdf":
		return fpdfrenderer.NewRenderer(baseDir), nil
	}
	return nil, fmt.Errorf("未知后端 %q（可选 canvas、fpdf）", name)
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
