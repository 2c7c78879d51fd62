package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "hello world", NormalizeText("  Hello,   World!  "))
	assert.Equal(t, "it s a tree", NormalizeText("It's a (tree)."))
	assert.Equal(t, "", NormalizeText("  ?!.,  "))
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"  Hello,   World!  ",
		"binary Search-Tree",
		"already normalized text",
	}
	for _, in := range inputs {
		once := NormalizeText(in)
		assert.Equal(t, once, NormalizeText(once), "input %q", in)
	}
}

func TestNormalizeChoice(t *testing.T) {
	options := []string{"Stack", "Queue", "Tree", "Graph"}

	// 下标形式
	assert.Equal(t, "stack", NormalizeChoice("0", options))
	assert.Equal(t, "graph", NormalizeChoice("3", options))
	// 越界下标按字面处理
	assert.Equal(t, "7", NormalizeChoice("7", options))

	// 字母序号
	assert.Equal(t, "queue", NormalizeChoice("b", options))
	assert.Equal(t, "queue", NormalizeChoice("B", options))
	// 字母超出选项数量时按字面处理
	assert.Equal(t, "d", NormalizeChoice("d", options[:2]))

	// 字面文本
	assert.Equal(t, "tree", NormalizeChoice("  Tree ", options))
	assert.Equal(t, "something else", NormalizeChoice("Something Else", options))
}

func TestNormalizeAnswerEmpty(t *testing.T) {
	assert.Equal(t, NoAnswer, NormalizeAnswer(KindMultipleChoice, "", nil))
	assert.Equal(t, NoAnswer, NormalizeAnswer(KindFreeText, "   ", nil))
}

func TestNormalizeAnswerByKind(t *testing.T) {
	options := []string{"Red", "Green"}
	assert.Equal(t, "green", NormalizeAnswer(KindMultipleChoice, "1", options))
	assert.Equal(t, "a red apple", NormalizeAnswer(KindFreeText, " A red, apple! ", nil))
}
