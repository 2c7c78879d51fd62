package controller

import (
	"errors"

	"eduforge_backend/internal/service"
	"eduforge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// SubmissionController 教师侧的答卷管理接口
type SubmissionController struct {
	Submissions *service.SubmissionService
}

func NewSubmissionController(submissions *service.SubmissionService) *SubmissionController {
	return &SubmissionController{Submissions: submissions}
}

// @Summary 答卷列表
// @Tags 答卷管理
// @Produce json
// @Security BearerAuth
// @Param status query string false "状态过滤 pending/completed"
// @Param topic_id query int false "主题过滤"
// @Param student query string false "学生姓名模糊匹配"
// @Router /api/teacher/submissions [get]
func (c *SubmissionController) List(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))
	topicID := uint(0)
	if s := ctx.Query("topic_id"); s != "" {
		topicID = util.MustParseUint(s)
	}

	subs, total, err := c.Submissions.List(page, limit, ctx.Query("status"), topicID, ctx.Query("student"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: subs, Total: total, Page: page, Limit: limit})
}

// @Summary 答卷详情
// @Tags 答卷管理
// @Produce json
// @Security BearerAuth
// @Router /api/teacher/submissions/{id} [get]
func (c *SubmissionController) Get(ctx *gin.Context) {
	sub, err := c.Submissions.Get(ctx.Param("id"))
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

// @Summary 人工改分（覆盖 AI 结果）
// @Tags 答卷管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/teacher/submissions/{id}/grade [put]
func (c *SubmissionController) OverrideGrade(ctx *gin.Context) {
	var req service.OverrideGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.Submissions.OverrideGrade(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		if errors.Is(err, util.ErrSubmissionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, sub)
}

// @Summary 删除答卷
// @Tags 答卷管理
// @Security BearerAuth
// @Router /api/teacher/submissions/{id} [delete]
func (c *SubmissionController) Delete(ctx *gin.Context) {
	if err := c.Submissions.Delete(ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
