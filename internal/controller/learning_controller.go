package controller

import (
	"errors"

	"eduforge_backend/internal/service"
	"eduforge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// LearningController 学生侧的学习路径与进度接口
type LearningController struct {
	Content  *service.ContentService
	Progress *service.ProgressService
}

func NewLearningController(content *service.ContentService, progress *service.ProgressService) *LearningController {
	return &LearningController{Content: content, Progress: progress}
}

// @Summary 主题列表（带个人进度）
// @Tags 学习
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/topics [get]
func (c *LearningController) ListTopics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))

	topics, total, err := c.Progress.ListTopicsWithProgress(ctx.Request.Context(), claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: topics, Total: total, Page: page, Limit: limit})
}

// @Summary 主题详情（检查点列表与解锁状态）
// @Tags 学习
// @Produce json
// @Security BearerAuth
// @Router /api/topics/{id} [get]
func (c *LearningController) TopicDetail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	topicID := util.MustParseUint(ctx.Param("id"))

	detail, err := c.Content.TopicDetailForStudent(ctx.Request.Context(), claims.UserID, topicID)
	if err != nil {
		if errors.Is(err, util.ErrTopicNotFound) || errors.Is(err, util.ErrNotPublished) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary 主题进度
// @Tags 学习
// @Produce json
// @Security BearerAuth
// @Router /api/topics/{id}/progress [get]
func (c *LearningController) TopicProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	topicID := util.MustParseUint(ctx.Param("id"))

	progress, err := c.Progress.TopicProgress(ctx.Request.Context(), claims.UserID, topicID)
	if err != nil {
		if errors.Is(err, util.ErrTopicNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
