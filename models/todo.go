package models

import (
	"time"
)

// Todo 待办事项模型
type Todo struct {
	ID        string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(50);index" json:"user_id"`
	Text      string    `gorm:"type:varchar(500)" json:"text"`
	Completed bool      `gorm:"default:false" json:"completed"`
	ImageURL  *string   `gorm:"type:varchar(500)" json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
