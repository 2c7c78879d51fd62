package grading

import (
	"context"
	"math"

	"eduforge_backend/pkg/logger"

	"go.uber.org/zap"
)

// 题型
const (
	KindMultipleChoice = "multiple_choice"
	KindFreeText       = "free_text"
)

// Mode 评分权重模式。两种模式并存，由测验类型显式选择，
// 避免按题目构成隐式分支导致行为漂移。
type Mode string

const (
	// ModeEqualWeight 所有题目等权，每题 100/N 分（检查点测验）
	ModeEqualWeight Mode = "equal_weight"
	// ModeSplitWeight 选择题占 70%、理论题占 30%（混合结课测评）
	ModeSplitWeight Mode = "split_weight"
)

const (
	mcqWeight    = 70.0
	theoryWeight = 30.0
)

// Question 评分视角下的题目，由持久层映射函数构造，
// 评分逻辑不感知数据库行结构。
type Question struct {
	ID          uint
	Kind        string
	Content     string
	Options     []string
	Answer      string // 选择题为正确选项文本，自由文本题为参考答案
	Explanation string
}

// TheoryGrade AI 理论题评分结果
type TheoryGrade struct {
	Score    int // 0-100
	Feedback string
}

// TheoryGrader 外部 AI 评分协作方。实现必须把格式错误的响应
// 作为 error 返回，由 Grader 降级为待人工复核，而不是中断整批评分。
type TheoryGrader interface {
	GradeTheoryAnswer(ctx context.Context, question, modelAnswer, studentAnswer string) (TheoryGrade, error)
}

// ItemResult 单题评分结果
type ItemResult struct {
	QuestionID    uint
	UserAnswer    string
	CorrectAnswer string
	Correct       bool
	Score         int // 0-100，该题得分
	Feedback      string
	Explanation   string
	NeedsReview   bool
}

// Result 一次提交的评分结果
type Result struct {
	Score       int // 0-100，四舍五入
	Passed      bool
	NeedsReview bool // 任一理论题降级为人工复核
	Items       []ItemResult
}

// Grader 对一次提交评分。theory 可为 nil（纯选择题测验）。
type Grader struct {
	Theory TheoryGrader
}

func NewGrader(theory TheoryGrader) *Grader {
	return &Grader{Theory: theory}
}

// Grade 按题目快照顺序逐题评分。answers 为题目ID到原始作答的映射；
// questionIDs 是开卷时固化的题目清单，其中已不存在于题库 bank 的
// 题目跳过且不计入分母。单个 AI 调用失败只影响该题。
func (g *Grader) Grade(ctx context.Context, questionIDs []uint, bank map[uint]Question, answers map[uint]string, mode Mode, passThreshold int) Result {
	var questions []Question
	for _, id := range questionIDs {
		q, ok := bank[id]
		if !ok {
			logger.Log.Warn("grading: question missing from bank, skipped",
				zap.Uint("questionId", id))
			continue
		}
		questions = append(questions, q)
	}

	res := Result{Items: make([]ItemResult, 0, len(questions))}
	if len(questions) == 0 {
		return res
	}

	var total float64
	switch mode {
	case ModeSplitWeight:
		total = g.gradeSplit(ctx, questions, answers, &res)
	default:
		total = g.gradeEqual(ctx, questions, answers, &res)
	}

	res.Score = int(math.Round(total))
	res.Passed = res.Score >= passThreshold
	return res
}

// gradeEqual 等权模式：每题 100/N 分，理论题按 AI 百分比折算
func (g *Grader) gradeEqual(ctx context.Context, questions []Question, answers map[uint]string, res *Result) float64 {
	perQ := 100.0 / float64(len(questions))
	var total float64
	for _, q := range questions {
		item := g.gradeOne(ctx, q, answers[q.ID])
		total += perQ * float64(item.Score) / 100.0
		if item.NeedsReview {
			res.NeedsReview = true
		}
		res.Items = append(res.Items, item)
	}
	return total
}

// gradeSplit 70/30 模式：选择题分摊 70 分，理论题分摊 30 分。
// 只有单一题型时该题型占满 100 分。
func (g *Grader) gradeSplit(ctx context.Context, questions []Question, answers map[uint]string, res *Result) float64 {
	var mcqs, theories []Question
	for _, q := range questions {
		if q.Kind == KindFreeText {
			theories = append(theories, q)
		} else {
			mcqs = append(mcqs, q)
		}
	}

	mcqShare, theoryShare := mcqWeight, theoryWeight
	if len(theories) == 0 {
		mcqShare = 100
	}
	if len(mcqs) == 0 {
		theoryShare = 100
	}

	var total float64
	for _, q := range mcqs {
		item := g.gradeOne(ctx, q, answers[q.ID])
		total += mcqShare / float64(len(mcqs)) * float64(item.Score) / 100.0
		res.Items = append(res.Items, item)
	}
	for _, q := range theories {
		item := g.gradeOne(ctx, q, answers[q.ID])
		total += theoryShare / float64(len(theories)) * float64(item.Score) / 100.0
		if item.NeedsReview {
			res.NeedsReview = true
		}
		res.Items = append(res.Items, item)
	}
	return total
}

func (g *Grader) gradeOne(ctx context.Context, q Question, raw string) ItemResult {
	item := ItemResult{
		QuestionID:    q.ID,
		CorrectAnswer: q.Answer,
		Explanation:   q.Explanation,
	}

	normalized := NormalizeAnswer(q.Kind, raw, q.Options)
	item.UserAnswer = normalized
	if normalized == NoAnswer {
		return item
	}

	if q.Kind == KindMultipleChoice {
		if normalized == canonical(q.Answer) {
			item.Correct = true
			item.Score = 100
		}
		return item
	}

	// 理论题：委托 AI 评分；失败降级为人工复核，不中断整批
	if g.Theory == nil {
		item.NeedsReview = true
		item.Feedback = "pending manual review"
		return item
	}
	grade, err := g.Theory.GradeTheoryAnswer(ctx, q.Content, q.Answer, raw)
	if err != nil {
		logger.Log.Warn("grading: theory grading failed, marked for manual review",
			zap.Uint("questionId", q.ID), zap.Error(err))
		item.NeedsReview = true
		item.Feedback = "pending manual review"
		return item
	}

	item.Score = grade.Score
	item.Feedback = grade.Feedback
	item.Correct = grade.Score >= 50
	return item
}
