package controller

import (
	"eduforge_backend/internal/service"
	"eduforge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// TutorController AI 答疑接口
type TutorController struct {
	AI *service.AIService
}

func NewTutorController(ai *service.AIService) *TutorController {
	return &TutorController{AI: ai}
}

type tutorChatRequest struct {
	Prompt  string `json:"prompt" binding:"required"`
	Context string `json:"context"`
}

// @Summary 向 AI 助教提问
// @Tags 学习
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /api/tutor/chat [post]
func (c *TutorController) Chat(ctx *gin.Context) {
	var req tutorChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.AI.Chat(ctx.Request.Context(), req.Prompt, req.Context)
	if err != nil {
		util.Error(ctx, 502, "AI 服务暂时不可用")
		return
	}
	util.Success(ctx, gin.H{"answer": answer})
}
