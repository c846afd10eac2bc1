package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// QuotaService 基于Redis的AI解析每日配额
type QuotaService struct {
	client *redis.Client
	limit  int
}

func NewQuotaService(client *redis.Client, limit int) *QuotaService {
	return &QuotaService{
		client: client,
		limit:  limit,
	}
}

func (q *QuotaService) key(userID string) string {
	return fmt.Sprintf("parse_quota:%s:%s", userID, time.Now().UTC().Format("2006-01-02"))
}

// Consume 消耗一次配额，返回是否允许本次调用
// limit为0时不限制
func (q *QuotaService) Consume(ctx context.Context, userID string) (bool, error) {
	if q.limit <= 0 {
		return true, nil
	}

	key := q.key(userID)
	count, err := q.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	// 首次使用时设置过期，次日自动清零
	if count == 1 {
		q.client.Expire(ctx, key, 24*time.Hour)
	}

	return count <= int64(q.limit), nil
}

// Refund 归还一次配额，用于AI调用失败的场合
func (q *QuotaService) Refund(ctx context.Context, userID string) {
	if q.limit <= 0 {
		return
	}
	q.client.Decr(ctx, q.key(userID))
}

// Reset 清空某个用户当日的配额计数
func (q *QuotaService) Reset(ctx context.Context, userID string) error {
	return q.client.Del(ctx, q.key(userID)).Err()
}
