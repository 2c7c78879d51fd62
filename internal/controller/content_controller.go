package controller

import (
	"eduforge_backend/internal/service"
	"eduforge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ContentController 教师侧的课程内容编辑接口
type ContentController struct {
	Content *service.ContentService
	Storage *service.StorageService
}

func NewContentController(content *service.ContentService, storage *service.StorageService) *ContentController {
	return &ContentController{Content: content, Storage: storage}
}

// Topics

// @Summary 创建主题
// @Tags 内容管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.TopicRequest true "主题信息"
// @Success 201 {object} util.Response
// @Router /api/teacher/topics [post]
func (c *ContentController) CreateTopic(ctx *gin.Context) {
	var req service.TopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	topic, err := c.Content.CreateTopic(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, topic)
}

// @Summary 主题列表（含未发布）
// @Tags 内容管理
// @Produce json
// @Security BearerAuth
// @Router /api/teacher/topics [get]
func (c *ContentController) ListTopics(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx.Query("page"), ctx.Query("limit"))
	topics, total, err := c.Content.ListTopics(page, limit, false)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: topics, Total: total, Page: page, Limit: limit})
}

// @Summary 更新主题
// @Tags 内容管理
// @Security BearerAuth
// @Router /api/teacher/topics/{id} [put]
func (c *ContentController) UpdateTopic(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req service.TopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	topic, err := c.Content.UpdateTopic(id, req)
	if err != nil {
		if err == util.ErrTopicNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, topic)
}

// @Summary 删除主题
// @Tags 内容管理
// @Security BearerAuth
// @Router /api/teacher/topics/{id} [delete]
func (c *ContentController) DeleteTopic(ctx *gin.Context) {
	if err := c.Content.DeleteTopic(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Checkpoints

// @Summary 创建检查点
// @Tags 内容管理
// @Security BearerAuth
// @Router /api/teacher/checkpoints [post]
func (c *ContentController) CreateCheckpoint(ctx *gin.Context) {
	var req service.CheckpointRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	cp, err := c.Content.CreateCheckpoint(req)
	if err != nil {
		if err == util.ErrTopicNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, cp)
}

// @Summary 主题下的检查点列表（含未发布）
// @Tags 内容管理
// @Security BearerAuth
// @Router /api/teacher/topics/{id}/checkpoints [get]
func (c *ContentController) ListCheckpoints(ctx *gin.Context) {
	topicID := util.MustParseUint(ctx.Param("id"))
	cps, err := c.Content.ListCheckpoints(topicID, false)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, cps)
}

// @Summary 更新检查点
// @Tags 内容管理
// @Security BearerAuth
// @Router /api/teacher/checkpoints/{id} [put]
func (c *ContentController) UpdateCheckpoint(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req service.CheckpointRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	cp, err := c.Content.UpdateCheckpoint(id, req)
	if err != nil {
		if err == util.ErrCheckpointNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, cp)
}

// @Summary 删除检查点及其题目
// @Tags 内容管理
// @Security BearerAuth
// @Router /api/teacher/checkpoints/{id} [delete]
func (c *ContentController) DeleteCheckpoint(ctx *gin.Context) {
	if err := c.Content.DeleteCheckpoint(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Questions

// @Summary 创建题目
// @Tags 内容管理
// @Security BearerAuth
// @Router /api/teacher/questions [post]
func (c *ContentController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Content.CreateQuestion(req)
	if err != nil {
		if err == util.ErrCheckpointNotFound {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, q)
}

// @Summary 检查点的题目列表（含答案，教师侧）
// @Tags 内容管理
// @Security BearerAuth
// @Router /api/teacher/checkpoints/{id}/questions [get]
func (c *ContentController) ListQuestions(ctx *gin.Context) {
	checkpointID := util.MustParseUint(ctx.Param("id"))
	qs, err := c.Content.ListQuestions(checkpointID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, qs)
}

// @Summary 更新题目
// @Tags 内容管理
// @Security BearerAuth
// @Router /api/teacher/questions/{id} [put]
func (c *ContentController) UpdateQuestion(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Content.UpdateQuestion(id, req)
	if err != nil {
		if err == util.ErrQuestionNotFound {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, q)
}

// @Summary 删除题目
// @Tags 内容管理
// @Security BearerAuth
// @Router /api/teacher/questions/{id} [delete]
func (c *ContentController) DeleteQuestion(ctx *gin.Context) {
	if err := c.Content.DeleteQuestion(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 上传题目插图
// @Tags 内容管理
// @Accept mpfd
// @Security BearerAuth
// @Router /api/teacher/questions/image [post]
func (c *ContentController) UploadQuestionImage(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	url, err := c.Storage.UploadQuestionImage(ctx.Request.Context(), file.Filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
