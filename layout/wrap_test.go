package layout

import (
	"testing"
)

func contents(lines []TextLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Content
	}
	return out
}

func TestWrapTextBreaksOnSpaces(t *testing.T) {
	lines := WrapText("aaa bbb ccc", 7, runeMeasurer(1), WrapAnywhere)
	got := contents(lines)
	want := []string{"aaa bbb", "ccc"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWrapTextSplitsLongWords(t *testing.T) {
	lines := WrapText("abcdefghij", 4, runeMeasurer(1), WrapAnywhere)
	for i, ln := range lines {
		if ln.Width > 4 {
			t.Fatalf("line %d width %g exceeds limit", i, ln.Width)
		}
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 chunks, got %q", contents(lines))
	}
}

func TestWrapTextHonorsNewlines(t *testing.T) {
	lines := WrapText("foo\n\nbar", 100, runeMeasurer(1), WrapAnywhere)
	if len(lines) != 3 || lines[1].Content != "" {
		t.Fatalf("got %q", contents(lines))
	}
}

// 当第一行宽度与容器宽度恰好相等且后面紧跟一个显式换行时，不应产生额外的空行。
func TestWrapTextNoBlankLineWhenEqualWidthThenNewline(t *testing.T) {
	lines := WrapText("SAMPLE-A\nSAMPLE-B", 8, runeMeasurer(1), WrapAnywhere)
	if len(lines) != 2 || lines[0].Content != "SAMPLE-A" || lines[1].Content != "SAMPLE-B" {
		t.Fatalf("got %q", contents(lines))
	}
}

func TestWrapTextNormalizesToNFC(t *testing.T) {
	// "e" + U+0301 组合为单个 "é"
	lines := WrapText("cafe\u0301", 100, runeMeasurer(1), WrapAnywhere)
	if len(lines) != 1 || lines[0].Content != "caf\u00e9" || lines[0].Width != 4 {
		t.Fatalf("got %+v", lines)
	}
}

func TestWrapTextModes(t *testing.T) {
	if got := WrapText("aaaa bbbb", 3, runeMeasurer(1), WrapNone); len(got) != 1 {
		t.Fatalf("nowrap produced %q", contents(got))
	}
	got := WrapText("ab cd", 2, runeMeasurer(1), WrapBreakWord)
	if c := contents(got); len(c) != 3 || c[0] != "ab" || c[1] != " c" || c[2] != "d" {
		t.Fatalf("break-word produced %q", c)
	}
}

func TestWrapTextDropsTrailingSpaceFromWidth(t *testing.T) {
	// "aaa " 宽 4 刚好放下，下一个词换行后行尾空格不应计入宽度
	lines := WrapText("aaa bbb", 4, runeMeasurer(1), WrapAnywhere)
	if len(lines) != 2 {
		t.Fatalf("got %q", contents(lines))
	}
	if lines[0].Content != "aaa" || lines[0].Width != 3 {
		t.Fatalf("first line = %q width %g, want \"aaa\" width 3", lines[0].Content, lines[0].Width)
	}
}
