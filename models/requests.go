package models

// RegisterRequest 注册请求结构体
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Username string `json:"username"`
}

// LoginRequest 登录请求结构体
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ParseTodosRequest AI解析待办事项请求结构体
type ParseTodosRequest struct {
	Text   string `json:"text" binding:"required"`
	UserID string `json:"userId" binding:"required"`
}

// CreateTodoRequest 创建待办事项请求结构体
type CreateTodoRequest struct {
	Text     string  `json:"text" binding:"required"`
	ImageURL *string `json:"image_url"`
}

// UpdateTodoRequest 更新待办事项请求结构体
// Completed 和 ImageURL 均为可选字段，未提供时不修改；
// ImageURL 传空字符串表示移除图片
type UpdateTodoRequest struct {
	Completed *bool   `json:"completed"`
	ImageURL  *string `json:"image_url"`
}
