package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"unicode/utf8"

	"github.com/yuanjohn01-byte/Japan-style-To-do-list-app/models"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

const (
	// MaxInputLength 输入文本的最大长度（字符数）
	MaxInputLength = 2000
	// MaxTodoLength 单条待办事项的最大长度（字符数）
	MaxTodoLength = 500
)

// parsePrompt 固定的系统提示词，要求模型只返回 {"todos": [...]} 格式的JSON
const parsePrompt = `你是一个专业的待办事项助手。用户会给你一段文字，你需要从中提取所有的待办事项。

规则：
1. 识别文本中所有需要完成的任务、事项、计划
2. 每个待办事项应该简洁明确，一句话描述
3. 如果文本中有多个任务，提取所有任务
4. 如果只有一个任务，返回一个任务
5. 如果文本中没有明确的待办事项，尝试理解用户意图并创建合理的待办事项
6. 返回 JSON 格式：{ "todos": ["任务1", "任务2", ...] }
7. 只返回 JSON，不要有其他文字

示例：
输入："明天要开会，然后写报告，还要给客户打电话"
输出：{"todos": ["开会", "写报告", "给客户打电话"]}

输入："买菜"
输出：{"todos": ["买菜"]}`

// TodoStore 待办事项存储接口
// CreateBatchAsAdmin 以管理员身份批量插入，跳过按用户的行级校验，
// 插入的归属完全由行内的 UserID 决定，调用方需自行保证其可信
type TodoStore interface {
	CreateBatchAsAdmin(ctx context.Context, todos []models.Todo) ([]models.Todo, error)
}

// ParseService AI解析待办事项服务
type ParseService struct {
	llm   llms.Model
	store TodoStore
}

func NewParseService(llm llms.Model, store TodoStore) *ParseService {
	return &ParseService{
		llm:   llm,
		store: store,
	}
}

// ParseTodos 将一段自由文本解析为若干条待办事项并落库
// 每次调用只发起一次AI请求和一次批量插入，失败不重试，入库前不产生任何副作用
func (s *ParseService) ParseTodos(ctx context.Context, text, userID string) ([]models.Todo, error) {
	// 先校验输入，校验失败不调用任何外部服务
	if strings.TrimSpace(text) == "" || userID == "" {
		return nil, ErrInvalidRequest
	}
	if utf8.RuneCountInString(text) > MaxInputLength {
		return nil, ErrTextTooLong
	}

	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(parsePrompt)},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(text)},
		},
	}

	// 低温度减少模型输出多余内容
	resp, err := s.llm.GenerateContent(ctx, messages, llms.WithTemperature(0.3))
	if err != nil {
		return nil, classifyProviderError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: AI 未返回有效响应", ErrMalformedResponse)
	}

	content := resp.Choices[0].Content

	var parsed struct {
		Todos []string `json:"todos"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	// todos 字段缺失或不是数组时 Todos 为 nil
	if parsed.Todos == nil {
		return nil, fmt.Errorf("%w: 缺少 todos 字段", ErrMalformedResponse)
	}
	if len(parsed.Todos) == 0 {
		return nil, ErrNoTodosExtracted
	}

	// 保持模型输出顺序，重复项不去重，每条各自成行
	todos := make([]models.Todo, 0, len(parsed.Todos))
	for _, todoText := range parsed.Todos {
		todos = append(todos, models.Todo{
			UserID:    userID,
			Text:      TruncateText(todoText, MaxTodoLength),
			Completed: false,
		})
	}

	inserted, err := s.store.CreateBatchAsAdmin(ctx, todos)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return inserted, nil
}

// TruncateText 按字符数截断文本，超长部分丢弃
func TruncateText(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}

// classifyProviderError 将AI服务的错误归类为连接失败、认证失败或其他失败
func classifyProviderError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "timeout"):
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	case strings.Contains(msg, "401"),
		strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "incorrect api key"),
		strings.Contains(msg, "invalid api key"):
		return fmt.Errorf("%w: %v", ErrProviderAuth, err)
	}

	return fmt.Errorf("%w: %v", ErrProvider, err)
}
