package services

import "errors"

// AI解析服务错误类型，控制器根据这些错误映射HTTP状态码
var (
	// ErrInvalidRequest 请求参数缺失或为空
	ErrInvalidRequest = errors.New("缺少必要参数：text 和 userId")
	// ErrTextTooLong 输入文本超过长度限制
	ErrTextTooLong = errors.New("文本内容过长，最多 2000 字符")
	// ErrProviderUnavailable AI服务无法连接或超时
	ErrProviderUnavailable = errors.New("AI 服务连接失败")
	// ErrProviderAuth AI服务认证失败
	ErrProviderAuth = errors.New("AI API 密钥无效")
	// ErrProvider AI服务返回其他错误
	ErrProvider = errors.New("AI 服务调用失败")
	// ErrMalformedResponse AI返回内容不是预期的JSON格式
	ErrMalformedResponse = errors.New("AI 返回的格式不正确")
	// ErrNoTodosExtracted AI未能提取出任何待办事项
	ErrNoTodosExtracted = errors.New("未能从文本中提取出待办事项")
	// ErrPersistence 数据库写入失败
	ErrPersistence = errors.New("数据库插入失败")
)
