package service

import (
	"context"
	"errors"
	"time"

	"eduforge_backend/internal/model"
	"eduforge_backend/internal/repository"
	"eduforge_backend/internal/util"
	"eduforge_backend/pkg/cache"

	"gorm.io/gorm"
)

// SubmissionService 教师侧的提交审阅与人工改分
type SubmissionService struct {
	Submissions *repository.SubmissionRepository
	Progress    *repository.ProgressRepository
	Checkpoints *repository.CheckpointRepository
	Cache       *cache.Store
}

func NewSubmissionService(
	submissions *repository.SubmissionRepository,
	progress *repository.ProgressRepository,
	checkpoints *repository.CheckpointRepository,
	store *cache.Store,
) *SubmissionService {
	return &SubmissionService{
		Submissions: submissions,
		Progress:    progress,
		Checkpoints: checkpoints,
		Cache:       store,
	}
}

func (s *SubmissionService) List(page, limit int, status string, topicID uint, studentName string) ([]model.Submission, int64, error) {
	if status == "all" {
		status = ""
	}
	return s.Submissions.List(page, limit, status, topicID, studentName)
}

func (s *SubmissionService) Get(id string) (*model.Submission, error) {
	sub, err := s.Submissions.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	return sub, nil
}

type OverrideGradeRequest struct {
	Score    int    `json:"score" binding:"min=0,max=100"`
	Feedback string `json:"feedback"`
}

// OverrideGrade 教师改分：产生新的权威分数与评语并覆盖自动结果。
// graded=true 标记该提交已由人工定稿；通过线沿用所属检查点配置。
func (s *SubmissionService) OverrideGrade(ctx context.Context, id string, req OverrideGradeRequest) (*model.Submission, error) {
	sub, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	threshold := 80
	if cp, err := s.Checkpoints.FindByID(sub.CheckpointID); err == nil {
		threshold = cp.PassThreshold
	}

	sub.Score = req.Score
	sub.Passed = req.Score >= threshold
	sub.Feedback = req.Feedback
	sub.Graded = true
	sub.Status = model.SubmissionStatusCompleted

	if err := s.Submissions.Update(sub); err != nil {
		return nil, err
	}

	// 改分同步覆盖进度记录，派生的主题进度随之变化
	now := time.Now()
	if sub.IsFinal {
		err = s.Progress.UpsertFinalResult(&model.FinalAssessmentResult{
			UserID:      sub.UserID,
			TopicID:     sub.TopicID,
			Score:       sub.Score,
			Passed:      sub.Passed,
			CompletedAt: now,
		})
	} else {
		err = s.Progress.UpsertCheckpointProgress(&model.StudentCheckpointProgress{
			UserID:       sub.UserID,
			CheckpointID: sub.CheckpointID,
			TopicID:      sub.TopicID,
			Score:        sub.Score,
			Passed:       sub.Passed,
			CompletedAt:  now,
		})
	}
	if err != nil {
		return nil, err
	}

	_ = s.Cache.Clear(ctx,
		progressKey(sub.UserID, sub.TopicID),
		reviewKey(sub.UserID, sub.CheckpointID),
	)

	return sub, nil
}

func (s *SubmissionService) Delete(id string) error {
	return s.Submissions.Delete(id)
}
