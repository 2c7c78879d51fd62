package service

import (
	"context"
	"errors"
	"fmt"

	"eduforge_backend/internal/grading"
	"eduforge_backend/internal/model"
	"eduforge_backend/internal/repository"
	"eduforge_backend/internal/util"
	"eduforge_backend/pkg/cache"

	"gorm.io/gorm"
)

// ProgressService 主题进度的派生计算。进度永远由存储的检查点/
// 结课结果现算，缓存只做短 TTL 的读优化，不作为真值来源。
type ProgressService struct {
	Topics      *repository.TopicRepository
	Checkpoints *repository.CheckpointRepository
	Progress    *repository.ProgressRepository
	Cache       *cache.Store
}

func NewProgressService(
	topics *repository.TopicRepository,
	checkpoints *repository.CheckpointRepository,
	progress *repository.ProgressRepository,
	store *cache.Store,
) *ProgressService {
	return &ProgressService{
		Topics:      topics,
		Checkpoints: checkpoints,
		Progress:    progress,
		Cache:       store,
	}
}

func progressKey(userID, topicID uint) string {
	return fmt.Sprintf("progress:%d:%d", userID, topicID)
}

// collectResults 组装进度计算的输入：常规检查点（排除结课测评）
// 与其通过情况。没有显式门禁标记时，按惯例把序列最后一个
// 常规检查点作为门禁。
func (s *ProgressService) collectResults(userID, topicID uint) ([]grading.CheckpointResult, bool, error) {
	cps, err := s.Checkpoints.ListByTopic(topicID, true)
	if err != nil {
		return nil, false, err
	}

	rows, err := s.Progress.ListCheckpointProgress(userID, topicID)
	if err != nil {
		return nil, false, err
	}
	passed := make(map[uint]bool, len(rows))
	for _, row := range rows {
		passed[row.CheckpointID] = row.Passed
	}

	var results []grading.CheckpointResult
	hasGate := false
	for _, cp := range cps {
		if cp.IsFinal {
			continue
		}
		if cp.IsGate {
			hasGate = true
		}
		results = append(results, grading.CheckpointResult{
			CheckpointID: cp.ID,
			IsGate:       cp.IsGate,
			Passed:       passed[cp.ID],
		})
	}
	if !hasGate && len(results) > 0 {
		results[len(results)-1].IsGate = true
	}

	finalPassed := false
	if fr, err := s.Progress.FindFinalResult(userID, topicID); err == nil {
		finalPassed = fr.Passed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	return results, finalPassed, nil
}

// TopicProgress 计算主题完成度，带短 TTL 缓存
func (s *ProgressService) TopicProgress(ctx context.Context, userID, topicID uint) (*grading.TopicProgress, error) {
	var cached grading.TopicProgress
	if hit, err := s.Cache.Get(ctx, progressKey(userID, topicID), &cached); err == nil && hit {
		return &cached, nil
	}

	if _, err := s.Topics.FindByID(topicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTopicNotFound
		}
		return nil, err
	}

	results, finalPassed, err := s.collectResults(userID, topicID)
	if err != nil {
		return nil, err
	}

	p := grading.ComputeTopicProgress(results, finalPassed)
	_ = s.Cache.Set(ctx, progressKey(userID, topicID), p, progressCacheTTL)
	return &p, nil
}

// FinalUnlocked 结课测评是否解锁：门禁检查点通过为硬前置条件
func (s *ProgressService) FinalUnlocked(ctx context.Context, userID, topicID uint) (bool, error) {
	p, err := s.TopicProgress(ctx, userID, topicID)
	if err != nil {
		return false, err
	}
	return p.FinalUnlocked, nil
}

// TopicWithProgress 学生主题列表项
type TopicWithProgress struct {
	Topic    model.Topic           `json:"topic"`
	Progress grading.TopicProgress `json:"progress"`
}

// ListTopicsWithProgress 学生视角的主题列表，附带各自完成度
func (s *ProgressService) ListTopicsWithProgress(ctx context.Context, userID uint, page, limit int) ([]TopicWithProgress, int64, error) {
	topics, total, err := s.Topics.List(page, limit, true)
	if err != nil {
		return nil, 0, err
	}

	list := make([]TopicWithProgress, len(topics))
	for i, t := range topics {
		p, err := s.TopicProgress(ctx, userID, t.ID)
		if err != nil {
			return nil, 0, err
		}
		list[i] = TopicWithProgress{Topic: t, Progress: *p}
	}
	return list, total, nil
}
