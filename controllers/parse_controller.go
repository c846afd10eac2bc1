package controllers

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/yuanjohn01-byte/Japan-style-To-do-list-app/config"
	"github.com/yuanjohn01-byte/Japan-style-To-do-list-app/models"
	"github.com/yuanjohn01-byte/Japan-style-To-do-list-app/services"

	"github.com/gin-gonic/gin"
)

// ParseController AI解析待办事项控制器
// 该接口信任请求体中的 userId，以管理员身份代其写入，
// 调用方（已认证的前端服务）负责保证 userId 的真实性
type ParseController struct {
	parseService *services.ParseService
	quota        *services.QuotaService
}

// NewParseController 创建解析控制器，quota 为 nil 时不限制调用次数
func NewParseController(parseService *services.ParseService, quota *services.QuotaService) *ParseController {
	return &ParseController{
		parseService: parseService,
		quota:        quota,
	}
}

// ParseTodos 将一段自由文本交给AI拆分为若干条待办事项并保存
func (pc *ParseController) ParseTodos(c *gin.Context) {
	var req models.ParseTodosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少必要参数：text 和 userId"})
		return
	}

	if utf8.RuneCountInString(req.Text) > services.MaxInputLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "文本内容过长，最多 2000 字符"})
		return
	}

	// 检查每日配额
	if pc.quota != nil {
		allowed, err := pc.quota.Consume(c.Request.Context(), req.UserID)
		if err != nil {
			config.Logger.Errorw("配额检查失败", "error", err, "uid", req.UserID)
		} else if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "今日 AI 解析次数已用完"})
			return
		}
	}

	todos, err := pc.parseService.ParseTodos(c.Request.Context(), req.Text, req.UserID)
	if err != nil {
		pc.handleParseError(c, err, req.UserID)
		return
	}

	config.Logger.Infow("待办事项解析成功",
		"uid", req.UserID,
		"count", len(todos),
	)

	c.JSON(http.StatusOK, models.ParseTodosResponse{
		Success: true,
		Todos:   todos,
		Count:   len(todos),
	})
}

// handleParseError 将解析服务的错误映射为HTTP响应
func (pc *ParseController) handleParseError(c *gin.Context, err error, userID string) {
	config.Logger.Errorw("待办事项解析失败", "error", err, "uid", userID)

	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少必要参数：text 和 userId"})
	case errors.Is(err, services.ErrTextTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": "文本内容过长，最多 2000 字符"})
	case errors.Is(err, services.ErrNoTodosExtracted):
		c.JSON(http.StatusBadRequest, gin.H{"error": "未能从文本中提取出待办事项"})
	case errors.Is(err, services.ErrProviderAuth):
		pc.refundQuota(c, userID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "AI API 密钥无效，请检查配置"})
	case errors.Is(err, services.ErrProviderUnavailable):
		pc.refundQuota(c, userID)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI 服务连接失败，请检查网络或配置"})
	case errors.Is(err, services.ErrMalformedResponse):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI 返回的格式不正确"})
	case errors.Is(err, services.ErrPersistence):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "数据库插入失败"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
	}
}

// refundQuota AI服务本身不可用时归还本次配额
func (pc *ParseController) refundQuota(c *gin.Context, userID string) {
	if pc.quota != nil {
		pc.quota.Refund(c.Request.Context(), userID)
	}
}
