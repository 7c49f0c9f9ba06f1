package content

import (
	"fmt"
	"strings"

	"github.com/ByLCY/folio/binding"
	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/units"
)

// emptyValue 是表格中空值的占位符。
const emptyValue = "—"

// Meta 保存文档元信息。
type Meta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Locale   string   `json:"locale"`
	Keywords []string `json:"keywords"`
}

// PageSpec 是 page 段落中声明的原始几何参数（未解析单位）。
type PageSpec struct {
	Size      string `json:"size"`
	Width     string `json:"width,omitempty"`
	Height    string `json:"height,omitempty"`
	Padding   string `json:"padding,omitempty"`
	Spacing   string `json:"spacing,omitempty"`
	Landscape bool   `json:"landscape,omitempty"`
}

// Document 是从 .folio 或 HTML 载入的完整内容。
type Document struct {
	Meta     Meta     `json:"meta"`
	Page     PageSpec `json:"page"`
	Sequence Sequence `json:"sequence"`
}

// FromDocument 将 DSL AST 转为块序列，并用 data 绑定占位符。
func FromDocument(doc *dsl.Document, data any) (*Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	out := &Document{Meta: collectMeta(doc), Page: PageSpec{Size: "A4"}}
	b := binding.New(data, out.Meta.Locale)
	images := collectImages(doc)

	for _, section := range doc.Sections {
		switch {
		case section.Page != nil:
			out.Page = parsePageSpec(section.Page)
		case section.Header != nil:
			key := HeaderRestKey
			if section.Header.Which == "first" {
				key = HeaderFirstKey
			}
			elems, err := buildElements(section.Header.Block, b, images)
			if err != nil {
				return nil, fmt.Errorf("header %s (%s): %w", section.Header.Which, section.Header.Pos, err)
			}
			out.Sequence.Blocks = append(out.Sequence.Blocks, Block{Key: key, Variant: VariantBlock, Elements: elems})
		case section.Content != nil:
			sec := section.Content
			attrs := argMap(sec.Args)
			if cond, ok := attrs["if"]; ok && !b.Truthy(cond) {
				continue
			}
			elems, err := buildElements(sec.Block, b, images)
			if err != nil {
				return nil, fmt.Errorf("%s %s (%s): %w", sec.Variant, sec.Key, sec.Pos, err)
			}
			out.Sequence.Blocks = append(out.Sequence.Blocks, Block{
				Key:      sec.Key,
				Variant:  Variant(sec.Variant),
				Title:    b.Interpolate(attrs["title"]),
				Elements: elems,
			})
		}
	}
	if err := out.Sequence.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func collectMeta(doc *dsl.Document) Meta {
	meta := Meta{Creator: "Folio", Locale: "nl-NL"}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			val := stmt.Assignment.Value
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = val.Text()
			case "author":
				meta.Author = val.Text()
			case "subject":
				meta.Subject = val.Text()
			case "creator":
				meta.Creator = val.Text()
			case "locale":
				meta.Locale = val.Text()
			case "keywords":
				meta.Keywords = val.Strings()
			}
		}
	}
	return meta
}

func collectImages(doc *dsl.Document) map[string]Image {
	images := map[string]Image{}
	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			cmd := stmt.Command
			if cmd == nil || cmd.Name != "image" || len(cmd.Args) == 0 {
				continue
			}
			img := Image{Src: cmd.Args[0].Value}
			if cmd.Block != nil {
				for _, st := range cmd.Block.Statements {
					if st.Assignment == nil {
						continue
					}
					switch st.Assignment.Key {
					case "src":
						img.Src = st.Assignment.Value.Text()
					case "width":
						img.Width = parseMM(st.Assignment.Value.Text())
					case "height":
						img.Height = parseMM(st.Assignment.Value.Text())
					}
				}
			}
			images[cmd.Args[0].Value] = img
		}
	}
	return images
}

func parsePageSpec(sec *dsl.PageSection) PageSpec {
	spec := PageSpec{Size: sec.Size}
	params := sec.Params
	for i := 0; i < len(params); i++ {
		next := ""
		if i+1 < len(params) {
			next = params[i+1].Value
		}
		switch params[i].Value {
		case "landscape":
			spec.Landscape = true
		case "width":
			spec.Width, i = next, i+1
		case "height":
			spec.Height, i = next, i+1
		case "padding":
			spec.Padding, i = next, i+1
		case "spacing":
			spec.Spacing, i = next, i+1
		}
	}
	return spec
}

// buildElements 依次处理 block 内的命令；连续的 row 合并为一个表格。
func buildElements(block *dsl.Block, b *binding.Binder, images map[string]Image) ([]Element, error) {
	if block == nil {
		return nil, nil
	}
	var out []Element
	var rows []Row
	flush := func() {
		if len(rows) > 0 {
			out = append(out, Element{Kind: KindTable, Rows: rows})
			rows = nil
		}
	}
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			flush()
			out = append(out, Element{Kind: KindText, Style: StyleBody, Text: b.Interpolate(string(stmt.Text.Value))})
			continue
		}
		cmd := stmt.Command
		if cmd == nil {
			continue
		}
		if cmd.Name == "row" {
			row, keep, err := buildRow(cmd, b)
			if err != nil {
				return nil, err
			}
			if keep {
				rows = append(rows, row)
			}
			continue
		}
		flush()
		style, attrs := splitArgs(cmd.Args)
		if cond, ok := attrs["if"]; ok && !b.Truthy(cond) {
			continue
		}
		switch cmd.Name {
		case "text":
			if style == "" {
				style = attrs["size"]
			}
			if style == "" {
				style = StyleBody
			}
			out = append(out, Element{Kind: KindText, Style: style, Align: attrs["align"], Text: b.Interpolate(extractText(cmd.Block))})
		case "heading":
			out = append(out, Element{Kind: KindHeading, Align: attrs["align"], Text: b.Interpolate(extractText(cmd.Block))})
		case "table":
			var trows []Row
			if cmd.Block != nil {
				for _, st := range cmd.Block.Statements {
					if st.Command == nil || st.Command.Name != "row" {
						continue
					}
					row, keep, err := buildRow(st.Command, b)
					if err != nil {
						return nil, err
					}
					if keep {
						trows = append(trows, row)
					}
				}
			}
			out = append(out, Element{Kind: KindTable, Rows: trows, Style: attrs["size"]})
		case "image":
			img, ok := images[style]
			if !ok {
				img = Image{Src: style}
			}
			if v := attrs["width"]; v != "" {
				img.Width = parseMM(v)
			}
			if v := attrs["height"]; v != "" {
				img.Height = parseMM(v)
			}
			if img.Src == "" {
				return nil, fmt.Errorf("image 缺少资源 (%s)", cmd.Pos)
			}
			out = append(out, Element{Kind: KindImage, Align: attrs["align"], Image: &img})
		case "spacer":
			out = append(out, Element{Kind: KindSpacer, Height: parseMM(style)})
		default:
			return nil, fmt.Errorf("未知命令 %s (%s)", cmd.Name, cmd.Pos)
		}
	}
	flush()
	return out, nil
}

func buildRow(cmd *dsl.Command, b *binding.Binder) (Row, bool, error) {
	var positional []string
	cond := ""
	for i := 0; i < len(cmd.Args); i++ {
		if cmd.Args[i].Type == "Ident" && cmd.Args[i].Value == "if" {
			cond = joinRaw(cmd.Args[i+1:])
			break
		}
		positional = append(positional, cmd.Args[i].Value)
	}
	if len(positional) == 0 {
		return Row{}, false, fmt.Errorf("row 缺少 label (%s)", cmd.Pos)
	}
	if cond != "" && !b.Truthy(cond) {
		return Row{}, false, nil
	}
	row := Row{Label: b.Interpolate(positional[0])}
	if len(positional) > 1 {
		row.Value = strings.TrimSpace(b.Fill(positional[1]))
	}
	if row.Value == "" {
		row.Value = emptyValue
	}
	return row, true, nil
}

// splitArgs 第一个 Ident 作为样式/资源名，其余按 key value 成对解析。
func splitArgs(args []*dsl.Lexeme) (string, map[string]string) {
	attrs := map[string]string{}
	cursor := 0
	name := ""
	if len(args) > 0 && len(args)%2 == 1 {
		name = args[0].Value
		cursor = 1
	}
	for cursor < len(args)-1 {
		if args[cursor].Value == "if" {
			attrs["if"] = joinRaw(args[cursor+1:])
			break
		}
		attrs[args[cursor].Value] = args[cursor+1].Value
		cursor += 2
	}
	return name, attrs
}

func argMap(args []*dsl.Lexeme) map[string]string {
	attrs := map[string]string{}
	for i := 0; i < len(args); i++ {
		if args[i].Value == "if" {
			attrs["if"] = joinRaw(args[i+1:])
			break
		}
		if i+1 < len(args) {
			attrs[args[i].Value] = args[i+1].Value
			i++
		}
	}
	return attrs
}

func joinRaw(parts []*dsl.Lexeme) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.Value)
	}
	return sb.String()
}

func extractText(block *dsl.Block) string {
	if block == nil {
		return ""
	}
	var sb strings.Builder
	for i, stmt := range block.Statements {
		if stmt.Text == nil {
			continue
		}
		if i > 0 && sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(stmt.Text.Value))
	}
	return sb.String()
}

func parseMM(v string) float64 {
	l, err := units.Parse(v)
	if err != nil {
		return 0
	}
	return l.ToMM()
}
