package grading

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTheoryGrader 按题目内容返回预设分数或错误
type fakeTheoryGrader struct {
	grades map[string]TheoryGrade
	errs   map[string]error
	calls  int
}

func (f *fakeTheoryGrader) GradeTheoryAnswer(_ context.Context, question, _, _ string) (TheoryGrade, error) {
	f.calls++
	if err, ok := f.errs[question]; ok {
		return TheoryGrade{}, err
	}
	return f.grades[question], nil
}

func mcq(id uint, content, answer string, options ...string) Question {
	return Question{ID: id, Kind: KindMultipleChoice, Content: content, Options: options, Answer: answer}
}

func theory(id uint, content, answer string) Question {
	return Question{ID: id, Kind: KindFreeText, Content: content, Answer: answer}
}

func bankOf(qs ...Question) (ids []uint, bank map[uint]Question) {
	bank = make(map[uint]Question, len(qs))
	for _, q := range qs {
		ids = append(ids, q.ID)
		bank[q.ID] = q
	}
	return ids, bank
}

func TestGradeAllMCQEqualWeight(t *testing.T) {
	ids, bank := bankOf(
		mcq(1, "q1", "Stack", "Stack", "Queue"),
		mcq(2, "q2", "Queue", "Stack", "Queue"),
		mcq(3, "q3", "Stack", "Stack", "Queue"),
		mcq(4, "q4", "Queue", "Stack", "Queue"),
		mcq(5, "q5", "Stack", "Stack", "Queue"),
	)
	// 5题答对4题，阈值80，恰好通过
	answers := map[uint]string{1: "Stack", 2: "Queue", 3: "Stack", 4: "Queue", 5: "Queue"}

	res := NewGrader(nil).Grade(context.Background(), ids, bank, answers, ModeEqualWeight, 80)

	assert.Equal(t, 80, res.Score)
	assert.True(t, res.Passed)
	assert.False(t, res.NeedsReview)
	require.Len(t, res.Items, 5)
	assert.False(t, res.Items[4].Correct)
}

func TestGradeMixedSplitWeight(t *testing.T) {
	ids, bank := bankOf(
		mcq(1, "q1", "a1", "a1", "x"),
		mcq(2, "q2", "a2", "a2", "x"),
		mcq(3, "q3", "a3", "a3", "x"),
		mcq(4, "q4", "a4", "a4", "x"),
		theory(5, "explain recursion", "a function that calls itself"),
	)
	tg := &fakeTheoryGrader{grades: map[string]TheoryGrade{
		"explain recursion": {Score: 60, Feedback: "partially correct"},
	}}
	answers := map[uint]string{1: "a1", 2: "a2", 3: "a3", 4: "a4", 5: "it calls itself"}

	res := NewGrader(tg).Grade(context.Background(), ids, bank, answers, ModeSplitWeight, 80)

	// 选择题 70 分全得，理论题 30 * 0.6 = 18，合计 88
	assert.Equal(t, 88, res.Score)
	assert.True(t, res.Passed)
	assert.Equal(t, 1, tg.calls)

	last := res.Items[len(res.Items)-1]
	assert.Equal(t, 60, last.Score)
	assert.True(t, last.Correct)
	assert.Equal(t, "partially correct", last.Feedback)
}

func TestGradeNoAnswers(t *testing.T) {
	ids, bank := bankOf(
		mcq(1, "q1", "a", "a", "b"),
		mcq(2, "q2", "b", "a", "b"),
	)

	res := NewGrader(nil).Grade(context.Background(), ids, bank, nil, ModeEqualWeight, 80)

	assert.Equal(t, 0, res.Score)
	assert.False(t, res.Passed)
	for _, item := range res.Items {
		assert.Equal(t, NoAnswer, item.UserAnswer)
		assert.False(t, item.Correct)
	}
}

func TestGradeTheoryFailureDegradesToReview(t *testing.T) {
	ids, bank := bankOf(
		mcq(1, "q1", "a", "a", "b"),
		theory(2, "broken question", "ref"),
		theory(3, "good question", "ref"),
	)
	tg := &fakeTheoryGrader{
		grades: map[string]TheoryGrade{"good question": {Score: 100}},
		errs:   map[string]error{"broken question": errors.New("model returned garbage")},
	}
	answers := map[uint]string{1: "a", 2: "anything", 3: "ref"}

	res := NewGrader(tg).Grade(context.Background(), ids, bank, answers, ModeEqualWeight, 80)

	// 单题失败不影响其余题目继续评分
	assert.True(t, res.NeedsReview)
	assert.Equal(t, 2, tg.calls)

	require.Len(t, res.Items, 3)
	assert.True(t, res.Items[1].NeedsReview)
	assert.Equal(t, 0, res.Items[1].Score)
	assert.Equal(t, "pending manual review", res.Items[1].Feedback)
	assert.False(t, res.Items[2].NeedsReview)
	assert.Equal(t, 100, res.Items[2].Score)
}

func TestGradeMissingQuestionExcluded(t *testing.T) {
	// 题库里只剩两题，第三题开卷后被删除
	_, bank := bankOf(
		mcq(1, "q1", "a", "a", "b"),
		mcq(2, "q2", "b", "a", "b"),
	)
	ids := []uint{1, 2, 99}
	answers := map[uint]string{1: "a", 2: "b"}

	res := NewGrader(nil).Grade(context.Background(), ids, bank, answers, ModeEqualWeight, 80)

	// 缺失题不计入分母
	assert.Equal(t, 100, res.Score)
	assert.Len(t, res.Items, 2)
}

func TestGradeEmptyBank(t *testing.T) {
	res := NewGrader(nil).Grade(context.Background(), []uint{1, 2}, map[uint]Question{}, nil, ModeEqualWeight, 80)
	assert.Equal(t, 0, res.Score)
	assert.False(t, res.Passed)
	assert.Empty(t, res.Items)
}

func TestGradeSplitWeightSingleKind(t *testing.T) {
	// 只有选择题时该题型占满100分
	ids, bank := bankOf(
		mcq(1, "q1", "a", "a", "b"),
		mcq(2, "q2", "b", "a", "b"),
	)
	answers := map[uint]string{1: "a", 2: "b"}

	res := NewGrader(nil).Grade(context.Background(), ids, bank, answers, ModeSplitWeight, 80)
	assert.Equal(t, 100, res.Score)

	// 只有理论题时同理
	ids2, bank2 := bankOf(theory(1, "only theory", "ref"))
	tg := &fakeTheoryGrader{grades: map[string]TheoryGrade{"only theory": {Score: 90}}}

	res2 := NewGrader(tg).Grade(context.Background(), ids2, bank2, map[uint]string{1: "ref"}, ModeSplitWeight, 80)
	assert.Equal(t, 90, res2.Score)
}

func TestGradeNilTheoryGraderMarksReview(t *testing.T) {
	ids, bank := bankOf(theory(1, "q", "ref"))

	res := NewGrader(nil).Grade(context.Background(), ids, bank, map[uint]string{1: "attempt"}, ModeEqualWeight, 50)

	assert.True(t, res.NeedsReview)
	assert.True(t, res.Items[0].NeedsReview)
}
