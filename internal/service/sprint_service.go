package service

import (
	"context"
	"time"

	"eduforge_backend/internal/config"
	"eduforge_backend/internal/grading"
	"eduforge_backend/internal/model"
	"eduforge_backend/internal/repository"
	"eduforge_backend/internal/util"
	"eduforge_backend/pkg/cache"
)

// SprintService 冲刺挑战：限时常识小游戏。
// 刻意使用比检查点宽松的词重叠匹配（grading.SprintMatch）。
type SprintService struct {
	Repo  *repository.SprintRepository
	Cache *cache.Store
	Cfg   *config.Config
}

func NewSprintService(repo *repository.SprintRepository, store *cache.Store, cfg *config.Config) *SprintService {
	return &SprintService{Repo: repo, Cache: store, Cfg: cfg}
}

// sprintRun 一局进行中的游戏，存 Redis，服务端保存答案不下发
type sprintRun struct {
	UserID    uint            `json:"userId"`
	Questions []sprintRunItem `json:"questions"`
	StartedAt time.Time       `json:"startedAt"`
	Deadline  time.Time       `json:"deadline"`
}

type sprintRunItem struct {
	ID      uint   `json:"id"`
	Content string `json:"content"`
	Answer  string `json:"answer"`
}

type SprintQuestionView struct {
	ID      uint   `json:"id"`
	Content string `json:"content"`
}

type SprintStartResponse struct {
	RunID           string               `json:"runId"`
	DurationSeconds int                  `json:"durationSeconds"`
	Deadline        time.Time            `json:"deadline"`
	Questions       []SprintQuestionView `json:"questions"`
}

func sprintRunKey(runID string) string {
	return "sprint:run:" + runID
}

// StartRun 随机抽题开局
func (s *SprintService) StartRun(ctx context.Context, userID uint) (*SprintStartResponse, error) {
	qs, err := s.Repo.RandomEnabled(s.Cfg.Grading.SprintQuestionCount)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, util.ErrSprintNoQuestions
	}

	duration := time.Duration(s.Cfg.Grading.SprintDurationSeconds) * time.Second
	now := time.Now()
	run := sprintRun{
		UserID:    userID,
		StartedAt: now,
		Deadline:  now.Add(duration),
	}

	views := make([]SprintQuestionView, len(qs))
	for i, q := range qs {
		run.Questions = append(run.Questions, sprintRunItem{ID: q.ID, Content: q.Content, Answer: q.Answer})
		views[i] = SprintQuestionView{ID: q.ID, Content: q.Content}
	}

	runID := model.GenerateUUID()
	// 预留迟到提交的余量
	if err := s.Cache.Set(ctx, sprintRunKey(runID), run, duration+5*time.Minute); err != nil {
		return nil, err
	}

	return &SprintStartResponse{
		RunID:           runID,
		DurationSeconds: s.Cfg.Grading.SprintDurationSeconds,
		Deadline:        run.Deadline,
		Questions:       views,
	}, nil
}

type SprintItemResult struct {
	QuestionID uint   `json:"questionId"`
	UserAnswer string `json:"userAnswer"`
	Answer     string `json:"answer"`
	Correct    bool   `json:"correct"`
}

type SprintSubmitResponse struct {
	Correct int                `json:"correct"`
	Total   int                `json:"total"`
	Score   int                `json:"score"`
	Items   []SprintItemResult `json:"items"`
}

// SubmitRun 交卷计分。超时后的提交按已作答部分计，不视为错误。
func (s *SprintService) SubmitRun(ctx context.Context, userID uint, runID string, answers map[uint]string) (*SprintSubmitResponse, error) {
	var run sprintRun
	hit, err := s.Cache.Get(ctx, sprintRunKey(runID), &run)
	if err != nil {
		return nil, err
	}
	if !hit || run.UserID != userID {
		return nil, util.ErrSprintRunNotFound
	}

	resp := &SprintSubmitResponse{Total: len(run.Questions)}
	for _, q := range run.Questions {
		given := answers[q.ID]
		correct := given != "" && grading.SprintMatch(q.Answer, given)
		if correct {
			resp.Correct++
		}
		resp.Items = append(resp.Items, SprintItemResult{
			QuestionID: q.ID,
			UserAnswer: given,
			Answer:     q.Answer,
			Correct:    correct,
		})
	}
	if resp.Total > 0 {
		resp.Score = resp.Correct * 100 / resp.Total
	}

	elapsed := int(time.Since(run.StartedAt).Seconds())
	if max := s.Cfg.Grading.SprintDurationSeconds; elapsed > max {
		elapsed = max
	}

	result := &model.SprintResult{
		UserID:      userID,
		Correct:     resp.Correct,
		Total:       resp.Total,
		Score:       resp.Score,
		DurationSec: elapsed,
		PlayedAt:    time.Now(),
	}
	if err := s.Repo.CreateResult(result); err != nil {
		return nil, util.ErrSaveFailed
	}

	_ = s.Cache.Clear(ctx, sprintRunKey(runID), "sprint:leaderboard")
	return resp, nil
}

// Leaderboard 排行榜，短 TTL 缓存
func (s *SprintService) Leaderboard(ctx context.Context, limit int) ([]model.SprintResult, error) {
	var cached []model.SprintResult
	if hit, err := s.Cache.Get(ctx, "sprint:leaderboard", &cached); err == nil && hit {
		return cached, nil
	}

	rs, err := s.Repo.Leaderboard(limit)
	if err != nil {
		return nil, err
	}
	_ = s.Cache.Set(ctx, "sprint:leaderboard", rs, progressCacheTTL)
	return rs, nil
}

func (s *SprintService) History(userID uint, limit int) ([]model.SprintResult, error) {
	return s.Repo.ListResultsByUser(userID, limit)
}

// Question CRUD (教师侧)

type SprintQuestionRequest struct {
	Content  string `json:"content" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
	Category string `json:"category"`
	Enabled  *bool  `json:"enabled"`
}

func (s *SprintService) CreateQuestion(req SprintQuestionRequest) (*model.SprintQuestion, error) {
	q := &model.SprintQuestion{
		Content:  req.Content,
		Answer:   req.Answer,
		Category: req.Category,
		Enabled:  true,
	}
	if req.Enabled != nil {
		q.Enabled = *req.Enabled
	}
	if err := s.Repo.CreateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *SprintService) UpdateQuestion(id uint, req SprintQuestionRequest) (*model.SprintQuestion, error) {
	q, err := s.Repo.FindQuestionByID(id)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}
	q.Content = req.Content
	q.Answer = req.Answer
	q.Category = req.Category
	if req.Enabled != nil {
		q.Enabled = *req.Enabled
	}
	if err := s.Repo.UpdateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *SprintService) DeleteQuestion(id uint) error {
	return s.Repo.DeleteQuestion(id)
}

func (s *SprintService) ListQuestions(page, limit int) ([]model.SprintQuestion, int64, error) {
	return s.Repo.ListQuestions(page, limit)
}
