package content

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ByLCY/folio/binding"
)

// ParseHTML builds a document from an HTML fragment where every
// <section data-key="..."> is one block:
//
//	<section data-key="werknemer" data-variant="block" title="Gegevens werknemer">
//	  <table><tr><td>Naam</td><td>${first_name}</td></tr></table>
//	</section>
//
// Supported children are h1-h3, p, small, table/tr/td, img and hr (spacer).
// <html lang> and <title> fill the document meta.
func ParseHTML(r io.Reader, data any) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("content: parse html: %w", err)
	}
	doc := &Document{Meta: Meta{Creator: "Folio", Locale: "nl-NL"}, Page: PageSpec{Size: "A4"}}
	walk(root, func(n *html.Node) bool {
		switch n.DataAtom {
		case atom.Html:
			if lang := attr(n, "lang"); lang != "" {
				doc.Meta.Locale = lang
			}
		case atom.Title:
			doc.Meta.Title = strings.TrimSpace(textOf(n))
		case atom.Meta:
			if strings.EqualFold(attr(n, "name"), "author") {
				doc.Meta.Author = attr(n, "content")
			}
		}
		return true
	})

	b := binding.New(data, doc.Meta.Locale)
	var convErr error
	walk(root, func(n *html.Node) bool {
		if convErr != nil {
			return false
		}
		if n.DataAtom != atom.Section || attr(n, "data-key") == "" {
			return true
		}
		if cond := attr(n, "data-if"); cond != "" && !b.Truthy(cond) {
			return false
		}
		blk := Block{
			Key:     attr(n, "data-key"),
			Variant: Variant(attr(n, "data-variant")),
			Title:   b.Interpolate(attr(n, "title")),
		}
		if blk.Variant == "" {
			blk.Variant = VariantBlock
		}
		blk.Elements, convErr = htmlElements(n, b)
		if convErr != nil {
			convErr = fmt.Errorf("section %s: %w", blk.Key, convErr)
			return false
		}
		doc.Sequence.Blocks = append(doc.Sequence.Blocks, blk)
		return false
	})
	if convErr != nil {
		return nil, convErr
	}
	if err := doc.Sequence.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func htmlElements(section *html.Node, b *binding.Binder) ([]Element, error) {
	var out []Element
	for c := section.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			if txt := strings.TrimSpace(c.Data); txt != "" {
				out = append(out, Element{Kind: KindText, Style: StyleBody, Text: b.Interpolate(txt)})
			}
			continue
		}
		if c.Type != html.ElementNode {
			continue
		}
		if cond := attr(c, "data-if"); cond != "" && !b.Truthy(cond) {
			continue
		}
		align := attr(c, "align")
		switch c.DataAtom {
		case atom.H1, atom.H2, atom.H3:
			out = append(out, Element{Kind: KindHeading, Align: align, Text: b.Interpolate(normalizeSpace(textOf(c)))})
		case atom.P, atom.Div:
			out = append(out, Element{Kind: KindText, Style: StyleBody, Align: align, Text: b.Interpolate(blockText(c))})
		case atom.Small:
			out = append(out, Element{Kind: KindText, Style: StyleSmall, Align: align, Text: b.Interpolate(blockText(c))})
		case atom.Table:
			el := Element{Kind: KindTable}
			if strings.Contains(attr(c, "class"), "small") {
				el.Style = StyleSmall
			}
			walk(c, func(n *html.Node) bool {
				if n.DataAtom != atom.Tr {
					return true
				}
				if cond := attr(n, "data-if"); cond != "" && !b.Truthy(cond) {
					return false
				}
				var cells []string
				for td := n.FirstChild; td != nil; td = td.NextSibling {
					if td.DataAtom == atom.Td || td.DataAtom == atom.Th {
						cells = append(cells, strings.TrimSpace(b.Fill(normalizeSpace(textOf(td)))))
					}
				}
				if len(cells) == 0 {
					return false
				}
				row := Row{Label: cells[0]}
				if len(cells) > 1 {
					row.Value = cells[1]
				}
				if row.Value == "" {
					row.Value = emptyValue
				}
				el.Rows = append(el.Rows, row)
				return false
			})
			out = append(out, el)
		case atom.Img:
			src := attr(c, "src")
			if src == "" {
				return nil, fmt.Errorf("img without src")
			}
			out = append(out, Element{Kind: KindImage, Align: align, Image: &Image{
				Src:    src,
				Width:  parseMM(attr(c, "width")),
				Height: parseMM(attr(c, "height")),
			}})
		case atom.Hr:
			out = append(out, Element{Kind: KindSpacer, Height: parseMM(attr(c, "height"))})
		default:
			return nil, fmt.Errorf("unsupported element <%s>", c.Data)
		}
	}
	return out, nil
}

// walk visits n depth-first; fn returning false skips the children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if n.Type == html.ElementNode && !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.DataAtom == atom.Br:
			sb.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return sb.String()
}

// blockText keeps <br> line breaks and collapses other whitespace per line.
func blockText(n *html.Node) string {
	lines := strings.Split(textOf(n), "\n")
	for i, l := range lines {
		lines[i] = normalizeSpace(l)
	}
	return strings.Join(lines, "\n")
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
