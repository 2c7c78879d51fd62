package grading

import (
	"strconv"
	"strings"
)

// NoAnswer 未作答哨兵值，参与评分时一律判错
const NoAnswer = "No Answer"

// 自由文本归一化时剔除的标点集合
const punctuation = ".,;:!?'\"()[]{}<>-_/\\"

// NormalizeText 自由文本归一化：小写、去标点、压缩空白。幂等。
func NormalizeText(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(punctuation, r) {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeChoice 将选择题原始作答解析为选项文本：
// 数字视为选项下标，单个字母 a-d 视为序号快捷键，其余按字面文本处理。
func NormalizeChoice(raw string, options []string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NoAnswer
	}

	if idx, err := strconv.Atoi(raw); err == nil {
		if idx >= 0 && idx < len(options) {
			return canonical(options[idx])
		}
		return canonical(raw)
	}

	if len([]rune(raw)) == 1 {
		c := strings.ToLower(raw)[0]
		if c >= 'a' && c <= 'd' {
			if idx := int(c - 'a'); idx < len(options) {
				return canonical(options[idx])
			}
		}
	}

	return canonical(raw)
}

// NormalizeAnswer 按题型归一化作答；空作答返回 NoAnswer 哨兵
func NormalizeAnswer(kind, raw string, options []string) string {
	if strings.TrimSpace(raw) == "" {
		return NoAnswer
	}
	if kind == KindMultipleChoice {
		return NormalizeChoice(raw, options)
	}
	return NormalizeText(raw)
}

// canonical 选择题比对形式：去首尾空白、小写
func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
