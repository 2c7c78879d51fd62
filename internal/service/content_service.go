package service

import (
	"context"
	"encoding/json"
	"errors"

	"eduforge_backend/internal/model"
	"eduforge_backend/internal/repository"
	"eduforge_backend/internal/util"
	"eduforge_backend/pkg/cache"

	"gorm.io/gorm"
)

// ContentService 教师侧的课程内容编辑（主题/检查点/题目）
// 和学生侧的内容读取。
type ContentService struct {
	Topics      *repository.TopicRepository
	Checkpoints *repository.CheckpointRepository
	ProgressSvc *ProgressService
	Cache       *cache.Store
}

func NewContentService(
	topics *repository.TopicRepository,
	checkpoints *repository.CheckpointRepository,
	progressSvc *ProgressService,
	store *cache.Store,
) *ContentService {
	return &ContentService{
		Topics:      topics,
		Checkpoints: checkpoints,
		ProgressSvc: progressSvc,
		Cache:       store,
	}
}

type TopicRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	IsPublished bool   `json:"isPublished"`
}

func (s *ContentService) CreateTopic(creatorID uint, req TopicRequest) (*model.Topic, error) {
	t := &model.Topic{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
		IsPublished: req.IsPublished,
		CreatorID:   creatorID,
	}
	if err := s.Topics.Create(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *ContentService) UpdateTopic(id uint, req TopicRequest) (*model.Topic, error) {
	t, err := s.Topics.FindByID(id)
	if err != nil {
		return nil, util.ErrTopicNotFound
	}
	t.Title = req.Title
	t.Description = req.Description
	t.Order = req.Order
	t.IsPublished = req.IsPublished
	if err := s.Topics.Update(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *ContentService) DeleteTopic(id uint) error {
	return s.Topics.Delete(id)
}

func (s *ContentService) ListTopics(page, limit int, publishedOnly bool) ([]model.Topic, int64, error) {
	return s.Topics.List(page, limit, publishedOnly)
}

type CheckpointRequest struct {
	TopicID       uint   `json:"topicId" binding:"required"`
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description"`
	Kind          string `json:"kind"`
	Order         int    `json:"order"`
	PassThreshold int    `json:"passThreshold"`
	SecondsPerQ   int    `json:"secondsPerQuestion"`
	TimeCeiling   int    `json:"timeCeiling"`
	IsGate        bool   `json:"isGate"`
	IsFinal       bool   `json:"isFinal"`
	IsPublished   bool   `json:"isPublished"`
}

func (s *ContentService) CreateCheckpoint(req CheckpointRequest) (*model.Checkpoint, error) {
	if _, err := s.Topics.FindByID(req.TopicID); err != nil {
		return nil, util.ErrTopicNotFound
	}

	cp := &model.Checkpoint{
		TopicID:       req.TopicID,
		Title:         req.Title,
		Description:   req.Description,
		Kind:          req.Kind,
		Order:         req.Order,
		PassThreshold: req.PassThreshold,
		SecondsPerQ:   req.SecondsPerQ,
		TimeCeiling:   req.TimeCeiling,
		IsGate:        req.IsGate,
		IsFinal:       req.IsFinal,
		IsPublished:   req.IsPublished,
	}
	if cp.Kind == "" {
		cp.Kind = model.CheckpointKindStandard
	}
	if cp.PassThreshold <= 0 {
		cp.PassThreshold = 80
	}

	if err := s.Checkpoints.Create(cp); err != nil {
		return nil, err
	}
	if cp.IsGate {
		_ = s.Checkpoints.ClearGateExcept(cp.TopicID, cp.ID)
	}
	return cp, nil
}

func (s *ContentService) UpdateCheckpoint(id uint, req CheckpointRequest) (*model.Checkpoint, error) {
	cp, err := s.Checkpoints.FindByID(id)
	if err != nil {
		return nil, util.ErrCheckpointNotFound
	}

	cp.Title = req.Title
	cp.Description = req.Description
	if req.Kind != "" {
		cp.Kind = req.Kind
	}
	cp.Order = req.Order
	if req.PassThreshold > 0 {
		cp.PassThreshold = req.PassThreshold
	}
	cp.SecondsPerQ = req.SecondsPerQ
	cp.TimeCeiling = req.TimeCeiling
	cp.IsGate = req.IsGate
	cp.IsFinal = req.IsFinal
	cp.IsPublished = req.IsPublished

	if err := s.Checkpoints.Update(cp); err != nil {
		return nil, err
	}
	if cp.IsGate {
		_ = s.Checkpoints.ClearGateExcept(cp.TopicID, cp.ID)
	}
	return cp, nil
}

func (s *ContentService) DeleteCheckpoint(id uint) error {
	return s.Checkpoints.Delete(id)
}

func (s *ContentService) ListCheckpoints(topicID uint, publishedOnly bool) ([]model.Checkpoint, error) {
	return s.Checkpoints.ListByTopic(topicID, publishedOnly)
}

type QuestionRequest struct {
	CheckpointID uint            `json:"checkpointId" binding:"required"`
	Kind         string          `json:"kind" binding:"required"`
	Content      string          `json:"content" binding:"required"`
	Options      json.RawMessage `json:"options"`
	Answer       string          `json:"answer" binding:"required"`
	Explanation  string          `json:"explanation"`
	ImageURL     string          `json:"imageUrl"`
	Order        int             `json:"order"`
}

// validateQuestion 选择题至少两个选项，且正确答案必须是其中之一
func validateQuestion(req *QuestionRequest) error {
	if req.Kind != model.QuestionMultipleChoice {
		return nil
	}
	var opts []string
	if err := json.Unmarshal(req.Options, &opts); err != nil {
		return errors.New("options must be a JSON array of strings")
	}
	if len(opts) < 2 {
		return errors.New("multiple choice question needs at least 2 options")
	}
	for _, o := range opts {
		if o == req.Answer {
			return nil
		}
	}
	return errors.New("correct answer must be one of the options")
}

func (s *ContentService) CreateQuestion(req QuestionRequest) (*model.CheckpointQuestion, error) {
	if _, err := s.Checkpoints.FindByID(req.CheckpointID); err != nil {
		return nil, util.ErrCheckpointNotFound
	}
	if err := validateQuestion(&req); err != nil {
		return nil, err
	}

	q := &model.CheckpointQuestion{
		CheckpointID: req.CheckpointID,
		Kind:         req.Kind,
		Content:      req.Content,
		Options:      req.Options,
		Answer:       req.Answer,
		Explanation:  req.Explanation,
		ImageURL:     req.ImageURL,
		Order:        req.Order,
	}
	if err := s.Checkpoints.CreateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *ContentService) UpdateQuestion(id uint, req QuestionRequest) (*model.CheckpointQuestion, error) {
	q, err := s.Checkpoints.FindQuestionByID(id)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}
	if err := validateQuestion(&req); err != nil {
		return nil, err
	}

	q.Kind = req.Kind
	q.Content = req.Content
	q.Options = req.Options
	q.Answer = req.Answer
	q.Explanation = req.Explanation
	q.ImageURL = req.ImageURL
	q.Order = req.Order
	if err := s.Checkpoints.UpdateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *ContentService) DeleteQuestion(id uint) error {
	return s.Checkpoints.DeleteQuestion(id)
}

func (s *ContentService) ListQuestions(checkpointID uint) ([]model.CheckpointQuestion, error) {
	return s.Checkpoints.ListQuestions(checkpointID)
}

// CheckpointForStudent 学生视角的检查点列表项
type CheckpointForStudent struct {
	Checkpoint model.Checkpoint `json:"checkpoint"`
	Passed     bool             `json:"passed"`
	Score      int              `json:"score"`
	Attempted  bool             `json:"attempted"`
	Locked     bool             `json:"locked"` // 仅结课测评会被锁
}

// TopicDetailForStudent 学生主题详情：检查点清单 + 各自通过状态 + 进度
type TopicDetailForStudent struct {
	Topic       model.Topic            `json:"topic"`
	Checkpoints []CheckpointForStudent `json:"checkpoints"`
	Progress    interface{}            `json:"progress"`
}

func (s *ContentService) TopicDetailForStudent(ctx context.Context, userID, topicID uint) (*TopicDetailForStudent, error) {
	topic, err := s.Topics.FindByID(topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTopicNotFound
		}
		return nil, err
	}
	if !topic.IsPublished {
		return nil, util.ErrNotPublished
	}

	cps, err := s.Checkpoints.ListByTopic(topicID, true)
	if err != nil {
		return nil, err
	}

	progress, err := s.ProgressSvc.TopicProgress(ctx, userID, topicID)
	if err != nil {
		return nil, err
	}

	rows, err := s.ProgressSvc.Progress.ListCheckpointProgress(userID, topicID)
	if err != nil {
		return nil, err
	}
	byCheckpoint := make(map[uint]model.StudentCheckpointProgress, len(rows))
	for _, row := range rows {
		byCheckpoint[row.CheckpointID] = row
	}

	list := make([]CheckpointForStudent, len(cps))
	for i, cp := range cps {
		item := CheckpointForStudent{Checkpoint: cp}
		if row, ok := byCheckpoint[cp.ID]; ok {
			item.Attempted = true
			item.Passed = row.Passed
			item.Score = row.Score
		}
		if cp.IsFinal {
			item.Locked = !progress.FinalUnlocked
			item.Passed = progress.FinalPassed
		}
		list[i] = item
	}

	return &TopicDetailForStudent{
		Topic:       *topic,
		Checkpoints: list,
		Progress:    progress,
	}, nil
}
