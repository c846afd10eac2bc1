package services_test

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/yuanjohn01-byte/Japan-style-To-do-list-app/models"
	"github.com/yuanjohn01-byte/Japan-style-To-do-list-app/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeLLM 固定返回预设内容的AI模型
type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	f.calls++
	return f.response, f.err
}

// fakeStore 内存中的待办事项存储
type fakeStore struct {
	rows  []models.Todo
	err   error
	calls int
}

func (f *fakeStore) CreateBatchAsAdmin(ctx context.Context, todos []models.Todo) ([]models.Todo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	now := time.Now().UTC()
	for i := range todos {
		todos[i].ID = uuid.New().String()
		todos[i].CreatedAt = now
		todos[i].UpdatedAt = now
	}
	f.rows = append(f.rows, todos...)
	return todos, nil
}

func newParseService(response string) (*services.ParseService, *fakeLLM, *fakeStore) {
	llm := &fakeLLM{response: response}
	store := &fakeStore{}
	return services.NewParseService(llm, store), llm, store
}

func TestParseTodos_MultipleTasks(t *testing.T) {
	svc, llm, store := newParseService(`{"todos": ["开会", "写报告", "给客户打电话"]}`)

	todos, err := svc.ParseTodos(context.Background(), "明天要开会，然后写报告，还要给客户打电话", "user-1")
	require.NoError(t, err)

	require.Len(t, todos, 3)
	assert.Equal(t, "开会", todos[0].Text)
	assert.Equal(t, "写报告", todos[1].Text)
	assert.Equal(t, "给客户打电话", todos[2].Text)
	for _, todo := range todos {
		assert.Equal(t, "user-1", todo.UserID)
		assert.False(t, todo.Completed)
		assert.NotEmpty(t, todo.ID)
		assert.Nil(t, todo.ImageURL)
	}

	// 每次调用只发起一次AI请求和一次批量插入
	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, 1, store.calls)
	assert.Len(t, store.rows, 3)
}

func TestParseTodos_SingleTask(t *testing.T) {
	svc, _, store := newParseService(`{"todos": ["买菜"]}`)

	todos, err := svc.ParseTodos(context.Background(), "买菜", "user-1")
	require.NoError(t, err)

	require.Len(t, todos, 1)
	assert.Equal(t, "买菜", todos[0].Text)
	assert.Len(t, store.rows, 1)
}

func TestParseTodos_OrderPreserved(t *testing.T) {
	svc, _, store := newParseService(`{"todos": ["B", "A"]}`)

	todos, err := svc.ParseTodos(context.Background(), "先做B再做A", "user-1")
	require.NoError(t, err)

	require.Len(t, todos, 2)
	assert.Equal(t, "B", todos[0].Text)
	assert.Equal(t, "A", todos[1].Text)
	assert.Equal(t, "B", store.rows[0].Text)
	assert.Equal(t, "A", store.rows[1].Text)
}

func TestParseTodos_DuplicatesKept(t *testing.T) {
	svc, _, _ := newParseService(`{"todos": ["买菜", "买菜"]}`)

	todos, err := svc.ParseTodos(context.Background(), "买菜，买菜", "user-1")
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}

func TestParseTodos_EmptyText(t *testing.T) {
	svc, llm, store := newParseService(`{"todos": ["x"]}`)

	_, err := svc.ParseTodos(context.Background(), "   ", "user-1")
	assert.ErrorIs(t, err, services.ErrInvalidRequest)
	assert.Equal(t, 0, llm.calls)
	assert.Equal(t, 0, store.calls)
}

func TestParseTodos_MissingUser(t *testing.T) {
	svc, llm, store := newParseService(`{"todos": ["x"]}`)

	_, err := svc.ParseTodos(context.Background(), "买菜", "")
	assert.ErrorIs(t, err, services.ErrInvalidRequest)
	assert.Equal(t, 0, llm.calls)
	assert.Equal(t, 0, store.calls)
}

func TestParseTodos_TextTooLong(t *testing.T) {
	svc, llm, store := newParseService(`{"todos": ["x"]}`)

	// 超长输入在调用任何外部服务之前被拒绝
	_, err := svc.ParseTodos(context.Background(), strings.Repeat("务", services.MaxInputLength+1), "user-1")
	assert.ErrorIs(t, err, services.ErrTextTooLong)
	assert.Equal(t, 0, llm.calls)
	assert.Equal(t, 0, store.calls)
}

func TestParseTodos_TextAtLimit(t *testing.T) {
	svc, llm, _ := newParseService(`{"todos": ["x"]}`)

	_, err := svc.ParseTodos(context.Background(), strings.Repeat("务", services.MaxInputLength), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, llm.calls)
}

func TestParseTodos_EmptyList(t *testing.T) {
	svc, _, store := newParseService(`{"todos": []}`)

	_, err := svc.ParseTodos(context.Background(), "今天天气不错", "user-1")
	assert.ErrorIs(t, err, services.ErrNoTodosExtracted)
	assert.Equal(t, 0, store.calls)
}

func TestParseTodos_InvalidJSON(t *testing.T) {
	svc, _, store := newParseService(`好的，我来帮你整理待办事项`)

	_, err := svc.ParseTodos(context.Background(), "买菜", "user-1")
	assert.ErrorIs(t, err, services.ErrMalformedResponse)
	assert.Equal(t, 0, store.calls)
}

func TestParseTodos_MissingTodosField(t *testing.T) {
	svc, _, store := newParseService(`{"tasks": ["买菜"]}`)

	_, err := svc.ParseTodos(context.Background(), "买菜", "user-1")
	assert.ErrorIs(t, err, services.ErrMalformedResponse)
	assert.Equal(t, 0, store.calls)
}

func TestParseTodos_TodosNotAList(t *testing.T) {
	svc, _, _ := newParseService(`{"todos": "买菜"}`)

	_, err := svc.ParseTodos(context.Background(), "买菜", "user-1")
	assert.ErrorIs(t, err, services.ErrMalformedResponse)
}

func TestParseTodos_TruncatesLongTodo(t *testing.T) {
	long := strings.Repeat("菜", services.MaxTodoLength+100)
	svc, _, _ := newParseService(`{"todos": ["` + long + `"]}`)

	todos, err := svc.ParseTodos(context.Background(), "买很多菜", "user-1")
	require.NoError(t, err)

	require.Len(t, todos, 1)
	assert.Equal(t, services.MaxTodoLength, len([]rune(todos[0].Text)))
	// 再次截断结果不变
	assert.Equal(t, todos[0].Text, services.TruncateText(todos[0].Text, services.MaxTodoLength))
}

func TestParseTodos_StoreFailure(t *testing.T) {
	llm := &fakeLLM{response: `{"todos": ["开会", "写报告"]}`}
	store := &fakeStore{err: errors.New("Duplicate entry for key 'PRIMARY'")}
	svc := services.NewParseService(llm, store)

	_, err := svc.ParseTodos(context.Background(), "开会，写报告", "user-1")
	assert.ErrorIs(t, err, services.ErrPersistence)
	// 整批失败，不留下任何行
	assert.Empty(t, store.rows)
}

func TestParseTodos_ProviderTimeout(t *testing.T) {
	llm := &fakeLLM{err: context.DeadlineExceeded}
	svc := services.NewParseService(llm, &fakeStore{})

	_, err := svc.ParseTodos(context.Background(), "买菜", "user-1")
	assert.ErrorIs(t, err, services.ErrProviderUnavailable)
}

func TestParseTodos_ProviderConnectionError(t *testing.T) {
	llm := &fakeLLM{err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}
	svc := services.NewParseService(llm, &fakeStore{})

	_, err := svc.ParseTodos(context.Background(), "买菜", "user-1")
	assert.ErrorIs(t, err, services.ErrProviderUnavailable)
}

func TestParseTodos_ProviderAuthError(t *testing.T) {
	llm := &fakeLLM{err: errors.New("API returned unexpected status code: 401 Incorrect API key provided")}
	svc := services.NewParseService(llm, &fakeStore{})

	_, err := svc.ParseTodos(context.Background(), "买菜", "user-1")
	assert.ErrorIs(t, err, services.ErrProviderAuth)
}

func TestParseTodos_ProviderOtherError(t *testing.T) {
	llm := &fakeLLM{err: errors.New("API returned unexpected status code: 429 rate limited")}
	svc := services.NewParseService(llm, &fakeStore{})

	_, err := svc.ParseTodos(context.Background(), "买菜", "user-1")
	assert.ErrorIs(t, err, services.ErrProvider)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "买菜", services.TruncateText("买菜", 500))
	assert.Equal(t, "买菜", services.TruncateText("买菜做饭", 2))
	assert.Equal(t, "", services.TruncateText("", 500))
}
