package controller

import (
	"errors"

	"eduforge_backend/internal/service"
	"eduforge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// SprintController 冲刺挑战接口：学生作答与教师题库维护
type SprintController struct {
	Sprint *service.SprintService
}

func NewSprintController(sprint *service.SprintService) *SprintController {
	return &SprintController{Sprint: sprint}
}

// @Summary 开始一轮冲刺挑战
// @Tags 冲刺挑战
// @Produce json
// @Security BearerAuth
// @Router /api/sprint/runs [post]
func (c *SprintController) StartRun(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	resp, err := c.Sprint.StartRun(ctx.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrSprintNoQuestions) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

type sprintSubmitRequest struct {
	Answers map[uint]string `json:"answers" binding:"required"`
}

// @Summary 提交冲刺答案
// @Tags 冲刺挑战
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/sprint/runs/{id}/submit [post]
func (c *SprintController) SubmitRun(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req sprintSubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.Sprint.SubmitRun(ctx.Request.Context(), claims.UserID, ctx.Param("id"), req.Answers)
	if err != nil {
		if errors.Is(err, util.ErrSprintRunNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// @Summary 冲刺排行榜
// @Tags 冲刺挑战
// @Produce json
// @Security BearerAuth
// @Router /api/sprint/leaderboard [get]
func (c *SprintController) Leaderboard(ctx *gin.Context) {
	_, limit := util.ParsePagination("", ctx.Query("limit"))

	rows, err := c.Sprint.Leaderboard(ctx.Request.Context(), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// @Summary 个人冲刺历史
// @Tags 冲刺挑战
// @Produce json
// @Security BearerAuth
// @Router /api/sprint/history [get]
func (c *SprintController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	_, limit := util.ParsePagination("", ctx.Query("limit"))

	rows, err := c.Sprint.History(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// 教师侧题库维护

// @Summary 创建冲刺题
// @Tags 冲刺挑战
// @Security BearerAuth
// @Router /api/teacher/sprint/questions [post]
func (c *SprintController) CreateQuestion(ctx *gin.Context) {
	var req service.SprintQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Sprint.CreateQuestion(req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, q)
}

// @Summary 冲刺题列表
// @Tags 冲刺挑战
// @Security BearerAuth
// @Router /api/teacher/sprint/questions [get]
func (c *SprintController) ListQuestions(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))
	qs, total, err := c.Sprint.ListQuestions(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: qs, Total: total, Page: page, Limit: limit})
}

// @Summary 更新冲刺题
// @Tags 冲刺挑战
// @Security BearerAuth
// @Router /api/teacher/sprint/questions/{id} [put]
func (c *SprintController) UpdateQuestion(ctx *gin.Context) {
	var req service.SprintQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Sprint.UpdateQuestion(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, q)
}

// @Summary 删除冲刺题
// @Tags 冲刺挑战
// @Security BearerAuth
// @Router /api/teacher/sprint/questions/{id} [delete]
func (c *SprintController) DeleteQuestion(ctx *gin.Context) {
	if err := c.Sprint.DeleteQuestion(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
