package models

// ParseTodosResponse AI解析待办事项响应结构体
type ParseTodosResponse struct {
	Success bool   `json:"success"`
	Todos   []Todo `json:"todos"`
	Count   int    `json:"count"`
}

// UserResponse 用户响应结构体
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
