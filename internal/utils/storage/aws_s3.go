package storage

import (
	"bytes"
	"context"
	"log"
	"time"

	"Invoice-Service/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type (
	AwsS3 interface {
		UploadBytes(ctx context.Context, key string, contentType string, data []byte) error
		PresignLink(ctx context.Context, key string, expires time.Duration) (string, error)
		DeleteFile(ctx context.Context, key string) error
	}

	awsS3 struct {
		client  *s3.Client
		presign *s3.PresignClient
		bucket  string
	}
)

func NewAwsS3() AwsS3 {
	creds := credentials.NewStaticCredentialsProvider(
		utils.GetConfig("AWS_ACCESS_KEY"),
		utils.GetConfig("AWS_SECRET_KEY"),
		"",
	)
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(utils.GetConfig("AWS_S3_REGION")),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		log.Printf("error loading AWS configuration: %v", err)
	}
	client := s3.NewFromConfig(cfg)
	return &awsS3{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  utils.GetConfig("AWS_S3_BUCKET"),
	}
}

func (a *awsS3) UploadBytes(ctx context.Context, key string, contentType string, data []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

func (a *awsS3) PresignLink(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := a.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (a *awsS3) DeleteFile(ctx context.Context, key string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	return err
}
