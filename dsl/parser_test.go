package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/folio/dsl"
)

const sampleDSL = `
doc Trajectplan v1 {
  meta {
    title: "Trajectplan"
    locale: nl-NL
    keywords: [
      "re-integratie"
      "tweede spoor"
    ]
  }

  resources {
    image logo {
      src: "logo.png"
      width: 32mm
      height: 16mm
    }
  }

  page A4 padding 40px spacing 12px

  header first {
    image logo align right
    heading { "Trajectplan re-integratie tweede spoor" }
  }

  header rest {
    image logo align right
  }

  block werknemer title "Gegevens werknemer" {
    row "Naam" "${first_name} ${last_name}"
    row "Telefoon" "${phone}" if phone
  }

  // annotation
  subtle avg {
    text { "NB: geen medische termen." }
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Trajectplan" || doc.Version != "v1" {
		t.Fatalf("unexpected header %s %s", doc.Name, doc.Version)
	}

	var kinds []string
	for _, s := range doc.Sections {
		kinds = append(kinds, s.Kind())
	}
	want := "meta,resources,page,header,header,block,subtle"
	if got := strings.Join(kinds, ","); got != want {
		t.Fatalf("sections = %s, want %s", got, want)
	}

	meta := doc.Sections[0].Meta
	if got := meta.Block.Statements[0].Assignment.Value.Text(); got != "Trajectplan" {
		t.Fatalf("title = %q", got)
	}
	if got := meta.Block.Statements[1].Assignment.Value.Text(); got != "nl-NL" {
		t.Fatalf("locale = %q", got)
	}
	if got := meta.Block.Statements[2].Assignment.Value.Strings(); len(got) != 2 || got[1] != "tweede spoor" {
		t.Fatalf("keywords = %#v", got)
	}

	page := doc.Sections[2].Page
	if page.Size != "A4" || len(page.Params) != 4 {
		t.Fatalf("page = %+v", page)
	}
	if page.Params[1].Value != "40px" {
		t.Fatalf("padding token = %q", page.Params[1].Value)
	}

	first := doc.Sections[3].Header
	if first.Which != "first" || len(first.Block.Statements) != 2 {
		t.Fatalf("first header = %+v", first)
	}
	heading := first.Block.Statements[1].Command
	if heading.Name != "heading" || heading.Block == nil {
		t.Fatalf("heading command = %+v", heading)
	}

	block := doc.Sections[5].Content
	if block.Key != "werknemer" || block.Variant != "block" {
		t.Fatalf("block = %+v", block)
	}
	if len(block.Args) != 2 || block.Args[1].Value != "Gegevens werknemer" {
		t.Fatalf("block args = %+v", block.Args)
	}
	row := block.Block.Statements[1].Command
	if row.Name != "row" || len(row.Args) != 4 {
		t.Fatalf("row = %+v", row)
	}
	if row.Args[1].Value != "${phone}" || row.Args[2].Value != "if" {
		t.Fatalf("row args = %+v", row.Args)
	}

	subtle := doc.Sections[6].Content
	if subtle.Variant != "subtle" || subtle.Key != "avg" {
		t.Fatalf("subtle = %+v", subtle)
	}
}

func TestParseRejectsUnknownSection(t *testing.T) {
	if _, err := dsl.ParseString(`doc X v1 { footer { } }`); err == nil {
		t.Fatalf("expected parse error for unknown section")
	}
}
