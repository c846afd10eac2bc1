package config

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

var S3Client *s3.S3

// InitStorage 初始化S3兼容的对象存储客户端
func InitStorage(config Config) error {
	sess, err := session.NewSession(&aws.Config{
		Endpoint:         aws.String(config.S3Endpoint),
		Region:           aws.String(config.S3Region),
		Credentials:      credentials.NewStaticCredentials(config.S3AccessKey, config.S3SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("对象存储初始化失败: %v", err)
	}

	S3Client = s3.New(sess)
	return nil
}
