package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eduforge_backend/internal/config"
	"eduforge_backend/internal/grading"
	"eduforge_backend/internal/model"
	"eduforge_backend/internal/repository"
	"eduforge_backend/internal/util"
	"eduforge_backend/pkg/cache"
	"eduforge_backend/pkg/logger"
	"eduforge_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 缓存 TTL：按数据易变程度分级
const (
	reviewCacheTTL   = 30 * time.Minute
	progressCacheTTL = 2 * time.Minute
	draftTTLPadding  = 10 * time.Minute
)

// AttemptService 答题会话的全生命周期：开卷、草稿、提交评分、回看。
// 评分本身是 internal/grading 的纯逻辑，这里负责编排与持久化。
type AttemptService struct {
	Checkpoints *repository.CheckpointRepository
	Progress    *repository.ProgressRepository
	Submissions *repository.SubmissionRepository
	ProgressSvc *ProgressService
	Sessions    *AttemptManager
	Grader      *grading.Grader
	Cache       *cache.Store
	Cfg         *config.Config
}

func NewAttemptService(
	checkpoints *repository.CheckpointRepository,
	progress *repository.ProgressRepository,
	submissions *repository.SubmissionRepository,
	progressSvc *ProgressService,
	sessions *AttemptManager,
	grader *grading.Grader,
	store *cache.Store,
	cfg *config.Config,
) *AttemptService {
	s := &AttemptService{
		Checkpoints: checkpoints,
		Progress:    progress,
		Submissions: submissions,
		ProgressSvc: progressSvc,
		Sessions:    sessions,
		Grader:      grader,
		Cache:       store,
		Cfg:         cfg,
	}
	sessions.SetExpireFunc(s.autoSubmit)
	return s
}

// StudentQuestion 下发给学生的题目视图，不携带答案
type StudentQuestion struct {
	ID       uint            `json:"id"`
	Kind     string          `json:"kind"`
	Content  string          `json:"content"`
	Options  json.RawMessage `json:"options,omitempty"`
	ImageURL string          `json:"imageUrl,omitempty"`
	Order    int             `json:"order"`
}

type StartAttemptResponse struct {
	AttemptID     string            `json:"attemptId"`
	CheckpointID  uint              `json:"checkpointId"`
	BudgetSeconds int               `json:"budgetSeconds"`
	Deadline      time.Time         `json:"deadline"`
	Questions     []StudentQuestion `json:"questions"`
	DraftAnswers  map[uint]string   `json:"draftAnswers,omitempty"`
}

// mapQuestion 持久层行到评分域对象的映射，评分逻辑不接触数据库行
func mapQuestion(q *model.CheckpointQuestion) grading.Question {
	return grading.Question{
		ID:          q.ID,
		Kind:        q.Kind,
		Content:     q.Content,
		Options:     q.OptionList(),
		Answer:      q.Answer,
		Explanation: q.Explanation,
	}
}

func draftKey(userID, checkpointID uint) string {
	return fmt.Sprintf("draft:%d:%d", userID, checkpointID)
}

func reviewKey(userID, checkpointID uint) string {
	return fmt.Sprintf("review:%d:%d", userID, checkpointID)
}

// Start 开卷：固化题目清单、计算时间预算并启动倒计时。
// 结课测评要求门禁检查点已通过。
func (s *AttemptService) Start(ctx context.Context, userID, checkpointID uint) (*StartAttemptResponse, error) {
	cp, err := s.Checkpoints.FindByID(checkpointID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCheckpointNotFound
		}
		return nil, err
	}
	if !cp.IsPublished {
		return nil, util.ErrNotPublished
	}

	if cp.IsFinal {
		unlocked, err := s.ProgressSvc.FinalUnlocked(ctx, userID, cp.TopicID)
		if err != nil {
			return nil, err
		}
		if !unlocked {
			return nil, util.ErrAssessmentLocked
		}
	}

	questions, err := s.Checkpoints.ListQuestions(checkpointID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrQuestionNotFound
	}

	// 时间预算：rapid 检查点用固定上限，其余按题数计
	budgetSec := len(questions) * cp.SecondsPerQ
	if cp.SecondsPerQ <= 0 {
		budgetSec = len(questions) * s.Cfg.Grading.DefaultSecondsPerQuestion
	}
	if cp.Kind == model.CheckpointKindRapid && cp.TimeCeiling > 0 {
		budgetSec = cp.TimeCeiling
	}

	mode := grading.ModeEqualWeight
	if cp.IsFinal {
		mode = grading.ModeSplitWeight
	}

	ids := make([]uint, len(questions))
	views := make([]StudentQuestion, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
		views[i] = StudentQuestion{
			ID:       q.ID,
			Kind:     q.Kind,
			Content:  q.Content,
			Options:  q.Options,
			ImageURL: q.ImageURL,
			Order:    q.Order,
		}
	}

	attempt := &Attempt{
		UserID:       userID,
		TopicID:      cp.TopicID,
		CheckpointID: cp.ID,
		IsFinal:      cp.IsFinal,
		Mode:         string(mode),
		Threshold:    cp.PassThreshold,
		QuestionIDs:  ids,
		Budget:       time.Duration(budgetSec) * time.Second,
		Answers:      make(map[uint]string),
	}

	// 断线续答：恢复之前保存的草稿
	var draft map[uint]string
	if hit, err := s.Cache.Get(ctx, draftKey(userID, checkpointID), &draft); err == nil && hit {
		for qid, ans := range draft {
			attempt.Answers[qid] = ans
		}
	}

	s.Sessions.Start(attempt)

	return &StartAttemptResponse{
		AttemptID:     attempt.ID,
		CheckpointID:  cp.ID,
		BudgetSeconds: budgetSec,
		Deadline:      attempt.Deadline(),
		Questions:     views,
		DraftAnswers:  draft,
	}, nil
}

// SaveAnswer 录入一题作答并刷新 Redis 草稿
func (s *AttemptService) SaveAnswer(ctx context.Context, userID uint, attemptID string, questionID uint, answer string) error {
	if err := s.Sessions.RecordAnswer(attemptID, userID, questionID, answer); err != nil {
		return err
	}

	a, err := s.Sessions.Get(attemptID, userID)
	if err != nil {
		return err
	}
	a.mu.Lock()
	snapshot := make(map[uint]string, len(a.Answers))
	for k, v := range a.Answers {
		snapshot[k] = v
	}
	ttl := time.Until(a.Deadline()) + draftTTLPadding
	a.mu.Unlock()

	// 草稿写失败不阻塞作答
	if err := s.Cache.Set(ctx, draftKey(userID, a.CheckpointID), snapshot, ttl); err != nil {
		logger.Log.Warn("failed to persist draft answers", zap.String("attemptId", attemptID), zap.Error(err))
	}
	return nil
}

// Submit 用户主动交卷
func (s *AttemptService) Submit(ctx context.Context, userID uint, attemptID string) (*model.Submission, error) {
	a, answers, err := s.Sessions.BeginSubmit(attemptID, userID, false)
	if err != nil {
		return nil, err
	}
	return s.finishAttempt(ctx, a, answers, false)
}

// autoSubmit 计时归零的强制提交：用当前已录入的答案尽力提交
func (s *AttemptService) autoSubmit(attemptID string) {
	s.Sessions.mu.RLock()
	a := s.Sessions.attempts[attemptID]
	s.Sessions.mu.RUnlock()
	if a == nil {
		return
	}

	a2, answers, err := s.Sessions.BeginSubmit(attemptID, a.UserID, true)
	if err != nil {
		logger.Log.Warn("auto-submit skipped", zap.String("attemptId", attemptID), zap.Error(err))
		return
	}

	monitoring.ExpiredAttempts.Inc()
	if _, err := s.finishAttempt(context.Background(), a2, answers, true); err != nil {
		logger.Log.Error("auto-submit failed", zap.String("attemptId", attemptID), zap.Error(err))
	}
}

// Cancel 关闭测验：丢弃会话，不落任何评分记录；草稿保留供下次续答
func (s *AttemptService) Cancel(ctx context.Context, userID uint, attemptID string) error {
	return s.Sessions.Cancel(attemptID, userID)
}

// finishAttempt 评分并落库。落库失败时已评分结果挂回会话，
// 重试提交直接复用，不重复调用评分（含 AI）。
func (s *AttemptService) finishAttempt(ctx context.Context, a *Attempt, answers map[uint]string, expired bool) (*model.Submission, error) {
	a.mu.Lock()
	submission := a.Pending
	a.mu.Unlock()

	if submission == nil {
		rows, err := s.Checkpoints.FindQuestionsByIDs(a.QuestionIDs)
		if err != nil {
			s.Sessions.FailSubmit(a.ID, nil)
			return nil, err
		}
		bank := make(map[uint]grading.Question, len(rows))
		for i := range rows {
			bank[rows[i].ID] = mapQuestion(&rows[i])
		}

		result := s.Grader.Grade(ctx, a.QuestionIDs, bank, answers, grading.Mode(a.Mode), a.Threshold)
		submission = s.buildSubmission(a, result, expired)
	}

	if err := s.persist(ctx, a, submission); err != nil {
		s.Sessions.FailSubmit(a.ID, submission)
		return nil, util.ErrSaveFailed
	}

	s.Sessions.FinishSubmit(a.ID)

	kind := "checkpoint"
	if a.IsFinal {
		kind = "final"
	}
	monitoring.RecordSubmission(kind, submission.Passed)

	return submission, nil
}

func (s *AttemptService) buildSubmission(a *Attempt, result grading.Result, expired bool) *model.Submission {
	breakdown := make([]model.QuestionBreakdown, len(result.Items))
	reviewCount := 0
	for i, item := range result.Items {
		breakdown[i] = model.QuestionBreakdown{
			QuestionID:    item.QuestionID,
			UserAnswer:    item.UserAnswer,
			CorrectAnswer: item.CorrectAnswer,
			Correct:       item.Correct,
			Score:         item.Score,
			Feedback:      item.Feedback,
			Explanation:   item.Explanation,
			NeedsReview:   item.NeedsReview,
		}
		if item.NeedsReview {
			reviewCount++
		}
	}
	if reviewCount > 0 {
		monitoring.TheoryGradingErrors.Add(float64(reviewCount))
	}

	breakdownJSON, _ := json.Marshal(breakdown)

	status := model.SubmissionStatusCompleted
	if result.NeedsReview {
		status = model.SubmissionStatusPending
	}

	sub := &model.Submission{
		UserID:       a.UserID,
		TopicID:      a.TopicID,
		CheckpointID: a.CheckpointID,
		IsFinal:      a.IsFinal,
		Score:        result.Score,
		Passed:       result.Passed,
		Breakdown:    breakdownJSON,
		Status:       status,
		AutoExpired:  expired,
		StartedAt:    a.StartedAt,
		SubmittedAt:  time.Now(),
	}
	sub.ID = a.ID
	return sub
}

// persist 提交记录 + 进度 upsert + 缓存失效，评分结果顺手写入回看缓存
func (s *AttemptService) persist(ctx context.Context, a *Attempt, sub *model.Submission) error {
	if err := s.Submissions.Create(sub); err != nil {
		return err
	}

	if a.IsFinal {
		err := s.Progress.UpsertFinalResult(&model.FinalAssessmentResult{
			UserID:      a.UserID,
			TopicID:     a.TopicID,
			Score:       sub.Score,
			Passed:      sub.Passed,
			CompletedAt: sub.SubmittedAt,
		})
		if err != nil {
			return err
		}
	} else {
		err := s.Progress.UpsertCheckpointProgress(&model.StudentCheckpointProgress{
			UserID:       a.UserID,
			CheckpointID: a.CheckpointID,
			TopicID:      a.TopicID,
			Score:        sub.Score,
			Passed:       sub.Passed,
			CompletedAt:  sub.SubmittedAt,
		})
		if err != nil {
			return err
		}
	}

	// 写路径之后显式失效受影响的缓存
	_ = s.Cache.Clear(ctx,
		draftKey(a.UserID, a.CheckpointID),
		progressKey(a.UserID, a.TopicID),
	)
	_ = s.Cache.Set(ctx, reviewKey(a.UserID, a.CheckpointID), sub, reviewCacheTTL)

	return nil
}

// Review 回看最近一次提交；优先读短 TTL 缓存
func (s *AttemptService) Review(ctx context.Context, userID, checkpointID uint) (*model.Submission, error) {
	var cached model.Submission
	if hit, err := s.Cache.Get(ctx, reviewKey(userID, checkpointID), &cached); err == nil && hit {
		return &cached, nil
	}

	sub, err := s.Submissions.FindLatestByUserAndCheckpoint(userID, checkpointID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}

	_ = s.Cache.Set(ctx, reviewKey(userID, checkpointID), sub, reviewCacheTTL)
	return sub, nil
}
