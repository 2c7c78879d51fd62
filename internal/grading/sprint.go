package grading

import "strings"

// SprintOverlapThreshold 冲刺挑战的词重叠判定阈值。
// 限时游戏刻意比检查点的精确匹配宽松，两种策略各自独立保留。
const SprintOverlapThreshold = 0.6

// SprintMatch 冲刺挑战的宽松匹配：归一化后精确相等，
// 或参考答案词集与作答词集的重叠比例达到阈值。
func SprintMatch(expected, given string) bool {
	e := NormalizeText(expected)
	g := NormalizeText(given)
	if e == "" || g == "" {
		return false
	}
	if e == g {
		return true
	}
	return WordOverlap(e, g) >= SprintOverlapThreshold
}

// WordOverlap 参考答案中被作答覆盖的词占比，入参应已归一化
func WordOverlap(expected, given string) float64 {
	expWords := strings.Fields(expected)
	if len(expWords) == 0 {
		return 0
	}
	givenSet := make(map[string]bool)
	for _, w := range strings.Fields(given) {
		givenSet[w] = true
	}
	hit := 0
	for _, w := range expWords {
		if givenSet[w] {
			hit++
		}
	}
	return float64(hit) / float64(len(expWords))
}
