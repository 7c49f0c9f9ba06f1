package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Binder 将 ${path|pipe} 占位符替换为 data 中的值。
type Binder struct {
	Data   any
	Locale language.Tag
}

// New 创建 Binder，locale 为空或无法识别时使用 nl-NL。
func New(data any, locale string) *Binder {
	tag := language.Dutch
	if locale != "" {
		if t, err := language.Parse(locale); err == nil {
			tag = t
		}
	}
	return &Binder{Data: data, Locale: tag}
}

// Interpolate 使用默认 locale 做一次性替换。
func Interpolate(text string, data any) string {
	return New(data, "").Interpolate(text)
}

// Interpolate 将文本中的 ${path.to.value|pipe:arg} 替换为绑定值。
// 路径不存在且没有 default 管道时保留原占位符。
func (b *Binder) Interpolate(text string) string {
	return b.replace(text, true)
}

// Fill 与 Interpolate 相同，但无法解析的占位符替换为空字符串。
func (b *Binder) Fill(text string) string {
	return b.replace(text, false)
}

func (b *Binder) replace(text string, keepMissing bool) string {
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path, pipes := splitPipes(groups[1])
		if path == "" {
			return match
		}
		val, ok := resolvePath(b.Data, path)
		if ok && val == nil {
			ok = false
		}
		out := ""
		if ok {
			out = fmt.Sprint(val)
		}
		for _, p := range pipes {
			out, ok = b.apply(p, val, out, ok)
		}
		if !ok {
			if keepMissing {
				return match
			}
			return ""
		}
		return out
	})
}

// Lookup 返回 path 对应的原始值。
func (b *Binder) Lookup(path string) (any, bool) {
	return resolvePath(b.Data, strings.TrimSpace(path))
}

// Truthy 判断 path 是否存在且不是 false/空字符串/0。
func (b *Binder) Truthy(path string) bool {
	val, ok := b.Lookup(path)
	if !ok || val == nil {
		return false
	}
	switch v := val.(type) {
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case float64:
		return v != 0
	case []interface{}:
		return len(v) > 0
	}
	return true
}

func splitPipes(expr string) (string, []string) {
	parts := strings.Split(expr, "|")
	path := strings.TrimSpace(parts[0])
	pipes := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		if p = strings.TrimSpace(p); p != "" {
			pipes = append(pipes, p)
		}
	}
	return path, pipes
}

func (b *Binder) apply(pipe string, raw any, current string, ok bool) (string, bool) {
	name, arg, _ := strings.Cut(pipe, ":")
	switch strings.TrimSpace(name) {
	case "date":
		if !ok {
			return current, false
		}
		if s, good := FormatDate(current, b.Locale); good {
			return s, true
		}
		return current, true
	case "yesno":
		if !ok {
			return "—", true
		}
		if v, isBool := raw.(bool); isBool {
			return yesNo(v, b.Locale), true
		}
		return current, true
	case "checked":
		mark := "☐"
		if ok && strings.EqualFold(current, strings.TrimSpace(arg)) {
			mark = "☑"
		}
		return mark, true
	case "default":
		if !ok || strings.TrimSpace(current) == "" {
			return arg, true
		}
		return current, true
	case "upper":
		return strings.ToUpper(current), ok
	}
	return current, ok
}

func resolvePath(data any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes := parseSegment(segment)
		if name != "" {
			m, ok := current.(map[string]interface{})
			if !ok {
				return nil, false
			}
			if current, ok = m[name]; !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			arr, ok := current.([]interface{})
			if !ok || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []string) {
	i := strings.Index(segment, "[")
	if i == -1 {
		return segment, nil
	}
	name := segment[:i]
	rest := segment[i:]
	var indexes []string
	for len(rest) > 0 && rest[0] == '[' {
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			break
		}
		indexes = append(indexes, rest[1:end])
		rest = rest[end+1:]
	}
	return name, indexes
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

var monthNames = map[language.Base][12]string{
	mustBase("nl"): {"januari", "februari", "maart", "april", "mei", "juni", "juli", "augustus", "september", "oktober", "november", "december"},
	mustBase("en"): {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	mustBase("de"): {"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
}

var dateMatcher = language.NewMatcher([]language.Tag{language.Dutch, language.English, language.German})

// FormatDate 将 ISO 日期格式化为长日期（例如 nl: "3 maart 2024"，en: "March 3, 2024"）。
// 无法解析时返回 false。
func FormatDate(value string, locale language.Tag) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	var (
		t   time.Time
		err error
	)
	for _, layout := range dateLayouts {
		if t, err = time.Parse(layout, value); err == nil {
			break
		}
	}
	if err != nil {
		return "", false
	}
	_, idx, _ := dateMatcher.Match(locale)
	base, _ := []language.Tag{language.Dutch, language.English, language.German}[idx].Base()
	month := monthNames[base][t.Month()-1]
	if base.String() == "en" {
		return fmt.Sprintf("%s %d, %d", month, t.Day(), t.Year()), true
	}
	if base.String() == "de" {
		return fmt.Sprintf("%d. %s %d", t.Day(), month, t.Year()), true
	}
	return fmt.Sprintf("%d %s %d", t.Day(), month, t.Year()), true
}

func yesNo(v bool, locale language.Tag) string {
	base, _ := locale.Base()
	switch base.String() {
	case "en":
		if v {
			return "Yes"
		}
		return "No"
	case "de":
		if v {
			return "Ja"
		}
		return "Nein"
	}
	if v {
		return "Ja"
	}
	return "Nee"
}

func mustBase(s string) language.Base {
	return language.MustParseBase(s)
}
