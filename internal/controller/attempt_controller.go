package controller

import (
	"errors"

	"eduforge_backend/internal/service"
	"eduforge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AttemptController 答题会话接口：开始、暂存、提交、取消、回看
type AttemptController struct {
	Attempts *service.AttemptService
}

func NewAttemptController(attempts *service.AttemptService) *AttemptController {
	return &AttemptController{Attempts: attempts}
}

// @Summary 开始检查点答题
// @Tags 答题
// @Produce json
// @Security BearerAuth
// @Param id path int true "检查点ID"
// @Success 200 {object} util.Response
// @Router /api/checkpoints/{id}/attempts [post]
func (c *AttemptController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	checkpointID := util.MustParseUint(ctx.Param("id"))

	resp, err := c.Attempts.Start(ctx.Request.Context(), claims.UserID, checkpointID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCheckpointNotFound), errors.Is(err, util.ErrNotPublished):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAssessmentLocked):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, resp)
}

type saveAnswerRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Answer     string `json:"answer"`
}

// @Summary 暂存单题答案
// @Tags 答题
// @Security BearerAuth
// @Router /api/attempts/{id}/answers [put]
func (c *AttemptController) SaveAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	attemptID := ctx.Param("id")

	var req saveAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Attempts.SaveAnswer(ctx.Request.Context(), claims.UserID, attemptID, req.QuestionID, req.Answer); err != nil {
		if errors.Is(err, util.ErrAttemptNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 提交答卷并评分
// @Tags 答题
// @Produce json
// @Security BearerAuth
// @Router /api/attempts/{id}/submit [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	attemptID := ctx.Param("id")

	sub, err := c.Attempts.Submit(ctx.Request.Context(), claims.UserID, attemptID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttemptNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAttemptInFlight), errors.Is(err, util.ErrAttemptSubmitted):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrSaveFailed):
			util.Error(ctx, 503, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, sub)
}

// @Summary 放弃当前答题会话
// @Tags 答题
// @Security BearerAuth
// @Router /api/attempts/{id} [delete]
func (c *AttemptController) Cancel(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.Attempts.Cancel(ctx.Request.Context(), claims.UserID, ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrAttemptNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 查看检查点最近一次成绩
// @Tags 答题
// @Produce json
// @Security BearerAuth
// @Router /api/checkpoints/{id}/review [get]
func (c *AttemptController) Review(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	checkpointID := util.MustParseUint(ctx.Param("id"))

	sub, err := c.Attempts.Review(ctx.Request.Context(), claims.UserID, checkpointID)
	if err != nil {
		if errors.Is(err, util.ErrSubmissionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}
