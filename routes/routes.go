package routes

import (
	"net/http"

	"github.com/yuanjohn01-byte/Japan-style-To-do-list-app/config"
	"github.com/yuanjohn01-byte/Japan-style-To-do-list-app/controllers"
	"github.com/yuanjohn01-byte/Japan-style-To-do-list-app/middleware"
	"github.com/yuanjohn01-byte/Japan-style-To-do-list-app/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, client *services.DeepseekClient, conf config.Config) {
	store := services.NewGormTodoStore(config.DB)
	parseService := services.NewParseService(client.DsChat, store)
	quotaService := services.NewQuotaService(config.RedisClient, conf.ParseDailyLimit)
	storageService := services.NewStorageService(config.S3Client, conf.S3Bucket)

	authController := controllers.AuthController{}
	parseController := controllers.NewParseController(parseService, quotaService)
	todoController := controllers.NewTodoController(storageService)

	// 公开路由（无需认证）
	public := r.Group("/api/v1")
	{
		public.POST("/auth/register", authController.Register)
		public.POST("/auth/login", authController.Login)
	}

	// AI解析接口：信任请求体中的 userId，代其写入
	r.POST("/api/parse-todos", parseController.ParseTodos)

	// 需要认证的路由
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware()) // 应用认证中间件
	{
		private.GET("/todos", todoController.ListTodos)
		private.POST("/todos", todoController.CreateTodo)
		private.PATCH("/todos/:id", todoController.UpdateTodo)
		private.DELETE("/todos/:id", todoController.DeleteTodo)
	}

	// 内部路由组（仅限服务器内部调用）
	internal := r.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware())
	{
		internal.GET("/quota/reset", func(c *gin.Context) {
			uid := c.Query("uid")
			if uid == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 uid 参数"})
				return
			}
			if err := quotaService.Reset(c.Request.Context(), uid); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "配额重置失败"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "配额重置成功"})
		})
	}

	// 测试路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
