package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// StorageService 负责释放待办事项引用的图片对象
// 图片以 userId/文件名 作为key存放在对象存储中，删除前校验key归属
type StorageService struct {
	s3     s3iface.S3API
	bucket string
}

func NewStorageService(client s3iface.S3API, bucket string) *StorageService {
	return &StorageService{
		s3:     client,
		bucket: bucket,
	}
}

// RemoveTodoImage 删除一条待办事项引用的图片对象
// imageURL 必须指向本服务的bucket，且key必须以该用户ID为前缀
func (s *StorageService) RemoveTodoImage(ctx context.Context, imageURL, userID string) error {
	key, err := s.extractKey(imageURL)
	if err != nil {
		return err
	}

	// 校验文件路径是否属于当前用户
	if !strings.HasPrefix(key, userID+"/") {
		return fmt.Errorf("无权删除此图片")
	}

	_, err = s.s3.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("删除失败: %v", err)
	}

	return nil
}

// extractKey 从图片URL中提取对象key（bucket之后的路径部分）
func (s *StorageService) extractKey(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", fmt.Errorf("无效的图片 URL")
	}

	marker := "/" + s.bucket + "/"
	idx := strings.Index(u.Path, marker)
	if idx < 0 {
		return "", fmt.Errorf("无效的图片 URL")
	}

	key := u.Path[idx+len(marker):]
	if key == "" {
		return "", fmt.Errorf("无效的图片 URL")
	}

	return key, nil
}
