package scheduler

import (
	"testing"

	"github.com/LJTian/FinNewsHub/internal/pipeline"
)

// 非法 cron 表达式在注册时就报错
func TestNewRejectsBadSpec(t *testing.T) {
	if _, err := New("not a cron", nil, pipeline.Options{}); err == nil {
		t.Fatalf("expected error for invalid cron spec")
	}
	if _, err := New("0 * * * *", nil, pipeline.Options{}); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}
}
