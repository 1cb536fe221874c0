package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ait-csi/notice-board/backend/internal/config"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.S3.Endpoint = "minio.internal:9000"
	cfg.S3.Region = "ap-south-1"
	cfg.S3.Bucket = "notice-attachments"
	cfg.S3.AccessKeyID = "test-access-key"
	cfg.S3.SecretAccessKey = "test-secret-key"
	cfg.S3.ForcePathStyle = true
	cfg.S3.PresignExpiration = 60
	return cfg
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.Config)
	}{
		{"missing bucket", func(cfg *config.Config) { cfg.S3.Bucket = "" }},
		{"missing region", func(cfg *config.Config) { cfg.S3.Region = " " }},
		{"missing access key", func(cfg *config.Config) { cfg.S3.AccessKeyID = "" }},
		{"missing secret key", func(cfg *config.Config) { cfg.S3.SecretAccessKey = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			if _, err := New(cfg); err == nil {
				t.Fatal("expected a configuration error")
			}
		})
	}
}

// 预签名是纯本地的签名计算，不会访问对象存储
func TestPresignUpload(t *testing.T) {
	storage, err := New(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	url, err := storage.PresignUpload(context.Background(), "attachments/syllabus.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(url, "attachments/syllabus.pdf") {
		t.Fatalf("presigned URL should contain the object key, got %s", url)
	}
	if !strings.Contains(url, "X-Amz-Expires=60") {
		t.Fatalf("presigned URL should carry the configured expiry, got %s", url)
	}
	if !strings.Contains(url, "X-Amz-Signature=") {
		t.Fatalf("presigned URL should be signed, got %s", url)
	}
}

func TestPresignDownload(t *testing.T) {
	storage, err := New(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	url, err := storage.PresignDownload(context.Background(), "attachments/results.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(url, "attachments/results.xlsx") {
		t.Fatalf("presigned URL should contain the object key, got %s", url)
	}
	if !strings.Contains(url, "minio.internal:9000") {
		t.Fatalf("presigned URL should use the configured endpoint, got %s", url)
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"typed NotFound", &types.NotFound{}, true},
		{"typed NoSuchKey", &types.NoSuchKey{}, true},
		{"generic NotFound code", &smithy.GenericAPIError{Code: "NotFound", Message: "not found"}, true},
		{"generic NoSuchKey code", &smithy.GenericAPIError{Code: "NoSuchKey", Message: "no such key"}, true},
		{"wrapped not-found", fmt.Errorf("delete object: %w", &types.NoSuchKey{}), true},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}, false},
		{"plain error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Fatalf("IsNotFound(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
