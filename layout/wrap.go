package layout

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// TextMeasurer 返回一段文本在当前字体下的宽度（mm）。
type TextMeasurer interface {
	TextWidth(s string) float64
}

// Wrap 策略。
const (
	WrapAnywhere  = "anywhere"
	WrapBreakWord = "break-word"
	WrapNone      = "nowrap"
)

// WrapText 是各渲染后端共用的贪心换行：优先在空白处断行，单词超过宽度时在词内拆分。
// 文本先做 NFC 规范化，保证组合字符在不同后端下宽度一致。返回的行只填写 Content 与 Width。
func WrapText(content string, width float64, m TextMeasurer, wrap string) []TextLine {
	content = norm.NFC.String(content)
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	// nowrap：仅按显式换行划分
	if wrap == WrapNone {
		parts := strings.Split(strings.ReplaceAll(content, "\r", ""), "\n")
		lines := make([]TextLine, 0, len(parts))
		for _, p := range parts {
			lines = append(lines, TextLine{Content: p, Width: m.TextWidth(p)})
		}
		return lines
	}

	var lines []TextLine
	var builder strings.Builder
	current := 0.0
	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, TextLine{Content: "", Width: 0})
			}
			return
		}
		// 行尾空白不计入宽度，否则居中/右对齐会偏一个空格
		line := builder.String()
		if trimmed := strings.TrimRight(line, " \t"); trimmed != line {
			line, current = trimmed, m.TextWidth(trimmed)
		}
		lines = append(lines, TextLine{Content: line, Width: current})
		builder.Reset()
		current = 0
	}
	appendToken := func(token string, w float64) {
		builder.WriteString(token)
		current += w
	}

	// break-word：忽略空白机会，纯按宽度切分
	if wrap == WrapBreakWord {
		for _, r := range content {
			if r == '\r' {
				continue
			}
			if r == '\n' {
				emit(true)
				continue
			}
			s := string(r)
			cw := m.TextWidth(s)
			if current > 0 && current+cw > limit {
				emit(false)
			}
			appendToken(s, cw)
		}
		emit(true)
		return lines
	}

	for _, token := range tokenize(content) {
		if token == "\n" {
			emit(true)
			continue
		}
		tokenWidth := m.TextWidth(token)
		if current > 0 && current+tokenWidth > limit {
			emit(false)
			// 行首不保留空白
			if strings.TrimSpace(token) == "" {
				continue
			}
		}
		if tokenWidth <= limit {
			appendToken(token, tokenWidth)
			continue
		}
		for _, chunk := range splitByWidth(token, limit, m) {
			cw := m.TextWidth(chunk)
			if current > 0 && current+cw > limit {
				emit(false)
			}
			appendToken(chunk, cw)
		}
	}
	emit(true)
	return lines
}

func tokenize(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}
	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitByWidth(token string, limit float64, m TextMeasurer) []string {
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if m.TextWidth(builder.String()) > limit && builder.Len() > len(string(r)) {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}
