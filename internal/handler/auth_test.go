package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ait-csi/notice-board/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// redis 不可用时不能把错误当作令牌无效返回给用户
func TestVerifyEmailRedisUnavailable(t *testing.T) {
	cfg := &config.Config{}
	cfg.Redis.OperationExpiration = 1

	// 端口 1 上没有任何服务，连接会立即被拒绝
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})

	h, err := NewHandler(cfg, nil, nil, rdb, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/verify-email", strings.NewReader(`{"token":"abc"}`))
	rec := httptest.NewRecorder()

	h.VerifyEmail(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Success {
		t.Fatal("expected an error envelope")
	}
	if resp.Message == "verification link is invalid or has expired" {
		t.Fatal("a redis outage must not be reported as an invalid token")
	}
}
