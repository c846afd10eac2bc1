package services

import (
	"context"
	"time"

	"github.com/yuanjohn01-byte/Japan-style-To-do-list-app/models"
	"github.com/yuanjohn01-byte/Japan-style-To-do-list-app/utils"

	"gorm.io/gorm"
)

// GormTodoStore 基于gorm的待办事项存储
type GormTodoStore struct {
	db *gorm.DB
}

func NewGormTodoStore(db *gorm.DB) *GormTodoStore {
	return &GormTodoStore{db: db}
}

// CreateBatchAsAdmin 批量插入待办事项，不校验行归属
// 整批在一条INSERT语句中完成，要么全部成功要么全部失败
func (s *GormTodoStore) CreateBatchAsAdmin(ctx context.Context, todos []models.Todo) ([]models.Todo, error) {
	if len(todos) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	for i := range todos {
		todos[i].ID = utils.GenerateID()
		todos[i].CreatedAt = now
		todos[i].UpdatedAt = now
	}

	if err := s.db.WithContext(ctx).Create(&todos).Error; err != nil {
		return nil, err
	}

	return todos, nil
}
