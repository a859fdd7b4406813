package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	MaxMaterialSize = 200 * 1024 * 1024 // 200MB
	Region          = "eu-central-1"
)

var s3Client *s3.Client

func bucketName() string {
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		return bucket
	}
	return "coachly-content"
}

func InitStorage() error {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(Region),
	)
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %v", err)
	}

	s3Client = s3.NewFromConfig(cfg)
	return nil
}

// UploadCourseCover stores a processed cover image under
// coach_id/course_id/covers/.
func UploadCourseCover(buf *bytes.Buffer, contentType string, coachID, courseID uint, originalName string) (string, error) {
	if s3Client == nil {
		if err := InitStorage(); err != nil {
			return "", err
		}
	}

	fileName := fmt.Sprintf("%d/%d/covers/%d_%s",
		coachID,
		courseID,
		time.Now().Unix(),
		filepath.Base(originalName),
	)

	_, err := s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(bucketName()),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("could not upload to S3: %v", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName(), Region, fileName), nil
}

// UploadMaterial streams a course material file to S3 unmodified.
func UploadMaterial(file *multipart.FileHeader, coachID, courseID uint) (string, error) {
	if file.Size > MaxMaterialSize {
		return "", fmt.Errorf("file size too large. Maximum size is %d bytes", MaxMaterialSize)
	}

	if s3Client == nil {
		if err := InitStorage(); err != nil {
			return "", err
		}
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	fileName := fmt.Sprintf("%d/%d/materials/%d_%s",
		coachID,
		courseID,
		time.Now().Unix(),
		filepath.Base(file.Filename),
	)

	_, err = s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(bucketName()),
		Key:         aws.String(fileName),
		Body:        src,
		ContentType: aws.String(file.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", fmt.Errorf("could not upload to S3: %v", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName(), Region, fileName), nil
}
