package controllers

import (
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/yuanjohn01-byte/Japan-style-To-do-list-app/config"
	"github.com/yuanjohn01-byte/Japan-style-To-do-list-app/models"
	"github.com/yuanjohn01-byte/Japan-style-To-do-list-app/services"
	"github.com/yuanjohn01-byte/Japan-style-To-do-list-app/utils"

	"github.com/gin-gonic/gin"
)

// TodoController 待办事项增删改查控制器
// 所有操作按 uid 做行级过滤，只能访问自己的数据
type TodoController struct {
	storage *services.StorageService
}

func NewTodoController(storage *services.StorageService) *TodoController {
	return &TodoController{
		storage: storage,
	}
}

// ListTodos 获取当前用户的所有待办事项，按创建时间倒序
func (tc *TodoController) ListTodos(c *gin.Context) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var todos []models.Todo
	if err := config.DB.Where("user_id = ?", uid).
		Order("created_at desc").
		Find(&todos).Error; err != nil {
		config.Logger.Errorw("获取待办事项失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取待办事项失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"todos": todos})
}

// CreateTodo 创建一条待办事项
func (tc *TodoController) CreateTodo(c *gin.Context) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var req models.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if utf8.RuneCountInString(req.Text) > services.MaxTodoLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "内容过长，最多 500 字符"})
		return
	}

	now := time.Now().UTC()
	todo := models.Todo{
		ID:        utils.GenerateID(),
		UserID:    uid.(string),
		Text:      req.Text,
		Completed: false,
		ImageURL:  req.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := config.DB.Create(&todo).Error; err != nil {
		config.Logger.Errorw("创建待办事项失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建待办事项失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

// UpdateTodo 更新完成状态或图片引用
func (tc *TodoController) UpdateTodo(c *gin.Context) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var req models.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var todo models.Todo
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), uid).
		First(&todo).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "待办事项不存在"})
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if req.Completed != nil {
		updates["completed"] = *req.Completed
	}
	if req.ImageURL != nil {
		// 替换或移除图片时释放旧的图片对象
		if todo.ImageURL != nil && *todo.ImageURL != *req.ImageURL {
			tc.releaseImage(c, *todo.ImageURL, uid.(string))
		}
		if *req.ImageURL == "" {
			updates["image_url"] = nil
		} else {
			updates["image_url"] = *req.ImageURL
		}
	}

	if err := config.DB.Model(&todo).Updates(updates).Error; err != nil {
		config.Logger.Errorw("更新待办事项失败", "error", err, "uid", uid, "id", todo.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新待办事项失败"})
		return
	}

	// 返回更新后的数据
	if err := config.DB.Where("id = ?", todo.ID).First(&todo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取待办事项失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

// DeleteTodo 删除一条待办事项，同时释放其引用的图片对象
func (tc *TodoController) DeleteTodo(c *gin.Context) {
	uid, exists := c.Get("uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户ID"})
		return
	}

	var todo models.Todo
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), uid).
		First(&todo).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "待办事项不存在"})
		return
	}

	if err := config.DB.Delete(&todo).Error; err != nil {
		config.Logger.Errorw("删除待办事项失败", "error", err, "uid", uid, "id", todo.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除待办事项失败"})
		return
	}

	if todo.ImageURL != nil {
		tc.releaseImage(c, *todo.ImageURL, uid.(string))
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// releaseImage 释放图片对象，失败只记录日志不影响请求结果
func (tc *TodoController) releaseImage(c *gin.Context, imageURL, uid string) {
	if tc.storage == nil {
		return
	}
	if err := tc.storage.RemoveTodoImage(c.Request.Context(), imageURL, uid); err != nil {
		config.Logger.Errorw("释放图片对象失败", "error", err, "uid", uid, "imageURL", imageURL)
	}
}
